package cube

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenFloat  TokenType = "FLOAT"
	tokenString TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenBang     TokenType = "!"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenPercent  TokenType = "%"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="
	tokenAnd      TokenType = "&&"
	tokenOr       TokenType = "||"
	tokenArrow    TokenType = "=>"

	tokenComma     TokenType = ","
	tokenSemicolon TokenType = ";"
	tokenDot       TokenType = "."
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenVar        TokenType = "VAR"
	tokenFunction   TokenType = "FUNCTION"
	tokenClass      TokenType = "CLASS"
	tokenExtends    TokenType = "EXTENDS"
	tokenImplements TokenType = "IMPLEMENTS"
	tokenNew        TokenType = "NEW"
	tokenImport     TokenType = "IMPORT"
	tokenReturn     TokenType = "RETURN"
	tokenBreak      TokenType = "BREAK"
	tokenContinue   TokenType = "CONTINUE"
	tokenIf         TokenType = "IF"
	tokenElse       TokenType = "ELSE"
	tokenWhile      TokenType = "WHILE"
	tokenFor        TokenType = "FOR"
	tokenIn         TokenType = "IN"
	tokenTrue       TokenType = "TRUE"
	tokenFalse      TokenType = "FALSE"
	tokenNull       TokenType = "NULL"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source file.
type Position struct {
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"var":        tokenVar,
	"function":   tokenFunction,
	"class":      tokenClass,
	"extends":    tokenExtends,
	"implements": tokenImplements,
	"new":        tokenNew,
	"import":     tokenImport,
	"return":     tokenReturn,
	"break":      tokenBreak,
	"continue":   tokenContinue,
	"if":         tokenIf,
	"else":       tokenElse,
	"while":      tokenWhile,
	"for":        tokenFor,
	"in":         tokenIn,
	"true":       tokenTrue,
	"false":      tokenFalse,
	"null":       tokenNull,
}

func lookupIdent(lit string) TokenType {
	if tt, ok := keywords[lit]; ok {
		return tt
	}
	return tokenIdent
}
