package lyrics

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenTagOpen    TokenKind = iota + 1 // [
	TokenTagClose                        // ]
	TokenBraceOpen                       // {
	TokenBraceClose                      // }
	TokenText
	TokenLineBreak
	TokenEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokenTagOpen:
		return "tag open"
	case TokenTagClose:
		return "tag close"
	case TokenBraceOpen:
		return "brace open"
	case TokenBraceClose:
		return "brace close"
	case TokenText:
		return "text"
	case TokenLineBreak:
		return "line break"
	case TokenEOF:
		return "end of input"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical unit of lyrics source. Pos is the byte offset of the
// token's first character.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	if t.Kind == TokenText {
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}
