package lexer

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

// try2 consumes the two-byte sequence b0 b1 if the cursor sits on it.
func (lx *Lexer) try2(b0, b1 byte) bool {
	if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == b0 && c1 == b1 {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return true
	}
	return false
}
