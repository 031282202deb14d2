package cube

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	switch l.ch {
	case 0:
		tok.Type = tokenEOF
		tok.Literal = ""
	case '+':
		tok = l.makeToken(tokenPlus, "+")
		l.readRune()
	case '-':
		tok = l.makeToken(tokenMinus, "-")
		l.readRune()
	case '*':
		tok = l.makeToken(tokenAsterisk, "*")
		l.readRune()
	case '/':
		tok = l.makeToken(tokenSlash, "/")
		l.readRune()
	case '%':
		tok = l.makeToken(tokenPercent, "%")
		l.readRune()
	case '(':
		tok = l.makeToken(tokenLParen, "(")
		l.readRune()
	case ')':
		tok = l.makeToken(tokenRParen, ")")
		l.readRune()
	case '{':
		tok = l.makeToken(tokenLBrace, "{")
		l.readRune()
	case '}':
		tok = l.makeToken(tokenRBrace, "}")
		l.readRune()
	case '[':
		tok = l.makeToken(tokenLBracket, "[")
		l.readRune()
	case ']':
		tok = l.makeToken(tokenRBracket, "]")
		l.readRune()
	case ',':
		tok = l.makeToken(tokenComma, ",")
		l.readRune()
	case ';':
		tok = l.makeToken(tokenSemicolon, ";")
		l.readRune()
	case '.':
		tok = l.makeToken(tokenDot, ".")
		l.readRune()
	case '!':
		if l.peekRune() == '=' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenNotEQ, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenBang, "!")
			l.readRune()
		}
	case '=':
		switch l.peekRune() {
		case '=':
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenEQ, string(first)+string(l.ch))
			l.readRune()
		case '>':
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenArrow, string(first)+string(l.ch))
			l.readRune()
		default:
			tok = l.makeToken(tokenAssign, "=")
			l.readRune()
		}
	case '>':
		if l.peekRune() == '=' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenGTE, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenGT, ">")
			l.readRune()
		}
	case '<':
		if l.peekRune() == '=' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenLTE, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenLT, "<")
			l.readRune()
		}
	case '&':
		if l.peekRune() == '&' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenAnd, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenIllegal, string(l.ch))
			l.readRune()
		}
	case '|':
		if l.peekRune() == '|' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenOr, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenIllegal, string(l.ch))
			l.readRune()
		}
	case '"', '\'':
		literal, err := l.readString(l.ch)
		if err != "" {
			tok.Type = tokenIllegal
			tok.Literal = err
		} else {
			tok.Type = tokenString
			tok.Literal = literal
		}
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
			return tok
		case unicode.IsDigit(l.ch):
			literal, isFloat := l.readNumber()
			tok.Literal = literal
			if isFloat {
				tok.Type = tokenFloat
			} else {
				tok.Type = tokenInt
			}
			return tok
		default:
			tok = l.makeToken(tokenIllegal, string(l.ch))
			l.readRune()
		}
	}

	return tok
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: Position{Line: l.line, Column: l.column}}
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/':
			for l.ch != 0 && l.ch != '\n' {
				l.readRune()
			}
		case l.ch == '/' && l.peekRune() == '*':
			l.readRune()
			l.readRune()
			for l.ch != 0 {
				if l.ch == '*' && l.peekRune() == '/' {
					l.readRune()
					l.readRune()
					break
				}
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber() (string, bool) {
	var sb strings.Builder
	hasDot := false

	sb.WriteRune(l.ch)

	for {
		r := l.peekRune()
		switch {
		case unicode.IsDigit(r):
			l.readRune()
			sb.WriteRune(l.ch)
		case r == '.' && !hasDot:
			l.readRune()
			if !unicode.IsDigit(l.peekRune()) {
				// The dot starts a member access, not a fraction; leave it
				// as the current rune for the next token.
				return sb.String(), false
			}
			hasDot = true
			sb.WriteRune('.')
		default:
			l.readRune()
			return sb.String(), hasDot
		}
	}
}

func (l *lexer) readString(quote rune) (string, string) {
	var sb strings.Builder
	for {
		l.readRune()
		switch l.ch {
		case 0:
			return "", "unterminated string literal"
		case quote:
			l.readRune()
			return sb.String(), ""
		case '\\':
			l.readRune()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\', '"', '\'':
				sb.WriteRune(l.ch)
			case 0:
				return "", "unterminated string literal"
			default:
				return "", "unknown escape sequence \\" + string(l.ch)
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
