package lyrics

// lexer splits lyrics source into tokens. Delimiters are single bytes, so
// byte scanning is safe for UTF-8 input.
type lexer struct {
	src string
	cur int
}

func delimiterKind(c byte) (TokenKind, bool) {
	switch c {
	case '[':
		return TokenTagOpen, true
	case ']':
		return TokenTagClose, true
	case '{':
		return TokenBraceOpen, true
	case '}':
		return TokenBraceClose, true
	case '\n':
		return TokenLineBreak, true
	}
	return 0, false
}

// next returns the next token. Once the input is exhausted it keeps
// returning TokenEOF.
func (l *lexer) next() Token {
	for l.cur < len(l.src) && l.src[l.cur] == '\r' {
		l.cur++
	}
	if l.cur >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: len(l.src)}
	}

	start := l.cur
	if kind, ok := delimiterKind(l.src[start]); ok {
		l.cur++
		return Token{Kind: kind, Text: l.src[start:l.cur], Pos: start}
	}

	// Carriage returns inside a text run are dropped from the token text.
	var text []byte
	for l.cur < len(l.src) {
		c := l.src[l.cur]
		if _, ok := delimiterKind(c); ok {
			break
		}
		if c == '\r' {
			if text == nil {
				text = append(make([]byte, 0, len(l.src)-start), l.src[start:l.cur]...)
			}
			l.cur++
			continue
		}
		if text != nil {
			text = append(text, c)
		}
		l.cur++
	}
	if text != nil {
		return Token{Kind: TokenText, Text: string(text), Pos: start}
	}
	return Token{Kind: TokenText, Text: l.src[start:l.cur], Pos: start}
}

// tokenBuffer provides arbitrary lookahead over a lexer.
type tokenBuffer struct {
	lex      *lexer
	buf      []Token
	consumed int
}

func newTokenBuffer(src string) *tokenBuffer {
	return &tokenBuffer{lex: &lexer{src: src}}
}

// peek returns the i-th upcoming token without consuming it.
func (b *tokenBuffer) peek(i int) Token {
	for len(b.buf) <= i {
		b.buf = append(b.buf, b.lex.next())
	}
	return b.buf[i]
}

// consume removes and returns the next token.
func (b *tokenBuffer) consume() Token {
	t := b.peek(0)
	b.buf = b.buf[1:]
	b.consumed++
	return t
}

// is reports whether the upcoming tokens match kinds, in order.
func (b *tokenBuffer) is(kinds ...TokenKind) bool {
	for i, k := range kinds {
		if b.peek(i).Kind != k {
			return false
		}
	}
	return true
}
