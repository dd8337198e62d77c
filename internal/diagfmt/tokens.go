package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"ksc/internal/source"
	"ksc/internal/token"
)

// FormatTokens dumps a token stream for `ksc tokenize`.
func FormatTokens(w io.Writer, tokens []token.Token, fs *source.FileSet) {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)

		if len(tok.Leading) > 0 {
			kinds := make([]string, len(tok.Leading))
			for j, tr := range tok.Leading {
				kinds[j] = tr.Kind.String()
			}
			fmt.Fprintf(w, " (leading: %s)", strings.Join(kinds, ", "))
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
}
