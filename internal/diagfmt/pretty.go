// Package diagfmt renders diagnostics for the terminal.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ksc/internal/diag"
	"ksc/internal/source"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	ShowNotes   bool
	ShowContext bool
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	codeColor    = color.New(color.Bold)
	caretColor   = color.New(color.FgGreen, color.Bold)
)

// Pretty writes bag.Items() in source order (callers sort the bag first).
// Each diagnostic renders as
//
//	<path>:<line>:<col>: <SEVERITY> <CODE>: <message>
//
// followed by the offending line with a ^~~~ underline, then notes in the
// same shape. Diagnostics with a zero span have no location prefix.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, fs, d, opts)
		if opts.ShowContext {
			writeContext(w, fs, d.Primary, opts)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "%s note: %s\n", location(fs, n.Span), n.Msg)
				if opts.ShowContext {
					writeContext(w, fs, n.Span, opts)
				}
			}
		}
	}
}

func writeHeading(w io.Writer, fs *source.FileSet, d diag.Diagnostic, opts PrettyOpts) {
	sev := d.Severity.String()
	code := d.Code.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = codeColor.Sprint(code)
	}
	fmt.Fprintf(w, "%s %s %s: %s\n", location(fs, d.Primary), sev, code, d.Message)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// location renders "path:line:col:" or "ksc:" when the span carries no
// position (whole-package diagnostics).
func location(fs *source.FileSet, sp source.Span) string {
	if sp == (source.Span{}) || fs == nil {
		return "ksc:"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d:", fs.Get(sp.File).Path, start.Line, start.Col)
}

// writeContext prints the source line and a ^~~~ underline under the span.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	if sp == (source.Span{}) || fs == nil {
		return
	}
	file := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := file.GetLine(start.Line)
	if line == "" && sp.Len() > 0 {
		return
	}

	width := uint32(1)
	if end.Line == start.Line && end.Col > start.Col {
		width = end.Col - start.Col
	}
	// multi-line spans underline to the end of the first line
	if end.Line > start.Line {
		lineLen := uint32(len(line)) + 1
		if lineLen > start.Col {
			width = lineLen - start.Col
		}
	}

	underline := "^"
	if width > 1 {
		underline += strings.Repeat("~", int(width-1))
	}
	if opts.Color {
		underline = caretColor.Sprint(underline)
	}
	fmt.Fprintf(w, "  %s\n", line)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", int(start.Col-1)), underline)
}
