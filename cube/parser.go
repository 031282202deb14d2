package cube

import (
	"fmt"
	"strconv"
	"strings"
)

type parseError struct {
	pos Position
	msg string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
}

const (
	precLowest = iota
	precOr
	precAnd
	precEquals
	precCompare
	precSum
	precProduct
	precPrefix
	precCall
)

var precedences = map[TokenType]int{
	tokenOr:       precOr,
	tokenAnd:      precAnd,
	tokenEQ:       precEquals,
	tokenNotEQ:    precEquals,
	tokenLT:       precCompare,
	tokenGT:       precCompare,
	tokenLTE:      precCompare,
	tokenGTE:      precCompare,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenAsterisk: precProduct,
	tokenSlash:    precProduct,
	tokenPercent:  precProduct,
	tokenLParen:   precCall,
	tokenDot:      precCall,
	tokenLBracket: precCall,
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

type parser struct {
	l *lexer

	curToken  Token
	peekToken Token

	errors []error

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

func newParser(input string) *parser {
	l := newLexer(input)
	p := &parser{l: l}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenInt, p.parseIntegerLiteral)
	p.registerPrefix(tokenFloat, p.parseFloatLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenNull, p.parseNullLiteral)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenLBracket, p.parseArrayOrMapLiteral)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)
	p.registerPrefix(tokenFunction, p.parseFunctionLiteral)
	p.registerPrefix(tokenNew, p.parseNewExpression)

	p.infixFns[tokenPlus] = p.parseInfixExpression
	p.infixFns[tokenMinus] = p.parseInfixExpression
	p.infixFns[tokenSlash] = p.parseInfixExpression
	p.infixFns[tokenAsterisk] = p.parseInfixExpression
	p.infixFns[tokenPercent] = p.parseInfixExpression
	p.infixFns[tokenEQ] = p.parseInfixExpression
	p.infixFns[tokenNotEQ] = p.parseInfixExpression
	p.infixFns[tokenLT] = p.parseInfixExpression
	p.infixFns[tokenLTE] = p.parseInfixExpression
	p.infixFns[tokenGT] = p.parseInfixExpression
	p.infixFns[tokenGTE] = p.parseInfixExpression
	p.infixFns[tokenAnd] = p.parseInfixExpression
	p.infixFns[tokenOr] = p.parseInfixExpression
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenDot] = p.parseMemberExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) curTokenIs(tt TokenType) bool  { return p.curToken.Type == tt }
func (p *parser) peekTokenIs(tt TokenType) bool { return p.peekToken.Type == tt }

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected %s, got %s", tt, describeToken(p.peekToken))
	return false
}

func (p *parser) errorf(pos Position, format string, args ...any) {
	p.errors = append(p.errors, &parseError{pos: pos, msg: fmt.Sprintf(format, args...)})
}

func describeToken(tok Token) string {
	if tok.Type == tokenEOF {
		return "end of input"
	}
	if tok.Literal != "" {
		return fmt.Sprintf("%q", tok.Literal)
	}
	return string(tok.Type)
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return precLowest
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return precLowest
}

func (p *parser) ParseProgram() (*Program, []error) {
	program := &Program{}

	for !p.curTokenIs(tokenEOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program, p.errors
}

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenSemicolon:
		return nil
	case tokenVar:
		return p.parseVarStatement()
	case tokenFunction:
		if p.peekTokenIs(tokenIdent) {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionOrAssignStatement()
	case tokenClass:
		return p.parseClassStatement()
	case tokenImport:
		return p.parseImportStatement()
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenBreak:
		return &BreakStmt{position: p.curToken.Pos}
	case tokenContinue:
		return &ContinueStmt{position: p.curToken.Pos}
	case tokenIf:
		return p.parseIfStatement()
	case tokenWhile:
		return p.parseWhileStatement()
	case tokenFor:
		return p.parseForStatement()
	case tokenLBrace:
		pos := p.curToken.Pos
		return &BlockStmt{Body: p.parseBlock(), position: pos}
	case tokenIllegal:
		p.errorf(p.curToken.Pos, "%s", p.curToken.Literal)
		return nil
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *parser) parseVarStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	stmt := &VarStmt{Name: p.curToken.Literal, position: pos}
	if p.peekTokenIs(tokenAssign) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(precLowest)
	}
	return stmt
}

func (p *parser) parseFunctionStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	stmt := &FunctionStmt{Name: p.curToken.Literal, position: pos}
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	stmt.Params = p.parseParameterList()
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *parser) parseClassStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	stmt := &ClassStmt{Name: p.curToken.Literal, position: pos}

	if p.peekTokenIs(tokenExtends) {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		stmt.Extends = p.parseDottedName()
	}

	if p.peekTokenIs(tokenImplements) {
		p.nextToken()
		for {
			if !p.expectPeek(tokenIdent) {
				return nil
			}
			stmt.Implements = append(stmt.Implements, p.parseDottedName())
			if !p.peekTokenIs(tokenComma) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}

	p.nextToken()
	for !p.curTokenIs(tokenRBrace) && !p.curTokenIs(tokenEOF) {
		switch p.curToken.Type {
		case tokenSemicolon:
		case tokenVar:
			if decl := p.parseVarStatement(); decl != nil {
				stmt.Body = append(stmt.Body, decl)
			}
		case tokenFunction:
			if !p.peekTokenIs(tokenIdent) && !p.peekTokenIs(tokenNew) {
				p.errorf(p.curToken.Pos, "class methods require a name")
				return nil
			}
			if p.peekTokenIs(tokenNew) {
				// The constructor parses like any other method; "new" is only
				// special at instantiation time.
				p.nextToken()
				decl := &FunctionStmt{Name: "new", position: p.curToken.Pos}
				if !p.expectPeek(tokenLParen) {
					return nil
				}
				decl.Params = p.parseParameterList()
				if !p.expectPeek(tokenLBrace) {
					return nil
				}
				decl.Body = p.parseBlock()
				stmt.Body = append(stmt.Body, decl)
			} else if decl := p.parseFunctionStatement(); decl != nil {
				stmt.Body = append(stmt.Body, decl)
			}
		default:
			p.errorf(p.curToken.Pos, "only var and function declarations are allowed in a class body, got %s", describeToken(p.curToken))
			return nil
		}
		p.nextToken()
	}
	if p.curTokenIs(tokenEOF) {
		p.errorf(p.curToken.Pos, "unterminated class body for %s", stmt.Name)
		return nil
	}
	return stmt
}

// parseDottedName consumes ident(.ident)* with the first ident as the current
// token and returns the joined path.
func (p *parser) parseDottedName() string {
	parts := []string{p.curToken.Literal}
	for p.peekTokenIs(tokenDot) {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			break
		}
		parts = append(parts, p.curToken.Literal)
	}
	return strings.Join(parts, ".")
}

func (p *parser) parseImportStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	stmt := &ImportStmt{position: pos}
	stmt.Path = append(stmt.Path, p.curToken.Literal)
	for p.peekTokenIs(tokenDot) {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		stmt.Path = append(stmt.Path, p.curToken.Literal)
	}
	return stmt
}

func (p *parser) parseReturnStatement() Statement {
	stmt := &ReturnStmt{position: p.curToken.Pos}
	if p.peekTokenIs(tokenSemicolon) || p.peekTokenIs(tokenRBrace) || p.peekTokenIs(tokenEOF) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(precLowest)
	return stmt
}

func (p *parser) parseIfStatement() Statement {
	stmt := &IfStmt{position: p.curToken.Pos}
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(precLowest)
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	stmt.Consequent = p.parseBlock()
	if p.peekTokenIs(tokenElse) {
		p.nextToken()
		if p.peekTokenIs(tokenIf) {
			p.nextToken()
			if nested := p.parseIfStatement(); nested != nil {
				stmt.Alternate = []Statement{nested}
			}
		} else {
			if !p.expectPeek(tokenLBrace) {
				return nil
			}
			stmt.Alternate = p.parseBlock()
		}
	}
	return stmt
}

func (p *parser) parseWhileStatement() Statement {
	stmt := &WhileStmt{position: p.curToken.Pos}
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(precLowest)
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *parser) parseForStatement() Statement {
	stmt := &ForStmt{position: p.curToken.Pos}
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	stmt.Iterator = p.curToken.Literal
	if !p.expectPeek(tokenIn) {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(precLowest)
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	stmt.Body = p.parseBlock()
	return stmt
}

// parseBlock consumes statements until the closing brace; the current token
// must be the opening brace on entry and is the closing brace on exit.
func (p *parser) parseBlock() []Statement {
	var body []Statement
	p.nextToken()
	for !p.curTokenIs(tokenRBrace) && !p.curTokenIs(tokenEOF) {
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
		p.nextToken()
	}
	if p.curTokenIs(tokenEOF) {
		p.errorf(p.curToken.Pos, "unterminated block")
	}
	return body
}

func (p *parser) parseExpressionOrAssignStatement() Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}
	if p.peekTokenIs(tokenAssign) {
		switch expr.(type) {
		case *Identifier, *MemberExpr, *IndexExpr:
		default:
			p.errorf(p.peekToken.Pos, "invalid assignment target")
			return nil
		}
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(precLowest)
		return &AssignStmt{Target: expr, Value: value, position: pos}
	}
	return &ExprStmt{Expr: expr, position: pos}
}

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken.Pos, "unexpected %s", describeToken(p.curToken))
		return nil
	}
	left := prefix()

	for left != nil && !p.peekTokenIs(tokenSemicolon) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *parser) parseIdentifier() Expression {
	return &Identifier{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseIntegerLiteral() Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(p.curToken.Pos, "invalid integer literal %q", p.curToken.Literal)
		return nil
	}
	return &IntegerLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseFloatLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken.Pos, "invalid float literal %q", p.curToken.Literal)
		return nil
	}
	return &FloatLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expression {
	return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &BooleanLiteral{Value: p.curTokenIs(tokenTrue), position: p.curToken.Pos}
}

func (p *parser) parseNullLiteral() Expression {
	return &NullLiteral{position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	p.nextToken()
	expr := p.parseExpression(precLowest)
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

func (p *parser) parseArrayOrMapLiteral() Expression {
	pos := p.curToken.Pos

	// [=>] is the empty map literal.
	if p.peekTokenIs(tokenArrow) {
		p.nextToken()
		if !p.expectPeek(tokenRBracket) {
			return nil
		}
		return &MapLiteral{position: pos}
	}

	if p.peekTokenIs(tokenRBracket) {
		p.nextToken()
		return &ArrayLiteral{position: pos}
	}

	p.nextToken()
	first := p.parseExpression(precLowest)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(tokenArrow) {
		m := &MapLiteral{position: pos}
		m.Keys = append(m.Keys, first)
		p.nextToken()
		p.nextToken()
		m.Values = append(m.Values, p.parseExpression(precLowest))
		for p.peekTokenIs(tokenComma) {
			p.nextToken()
			p.nextToken()
			m.Keys = append(m.Keys, p.parseExpression(precLowest))
			if !p.expectPeek(tokenArrow) {
				return nil
			}
			p.nextToken()
			m.Values = append(m.Values, p.parseExpression(precLowest))
		}
		if !p.expectPeek(tokenRBracket) {
			return nil
		}
		return m
	}

	arr := &ArrayLiteral{position: pos}
	arr.Elements = append(arr.Elements, first)
	for p.peekTokenIs(tokenComma) {
		p.nextToken()
		p.nextToken()
		arr.Elements = append(arr.Elements, p.parseExpression(precLowest))
	}
	if !p.expectPeek(tokenRBracket) {
		return nil
	}
	return arr
}

func (p *parser) parseFunctionLiteral() Expression {
	pos := p.curToken.Pos
	fn := &FunctionLiteral{position: pos}
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	fn.Params = p.parseParameterList()
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	fn.Body = p.parseBlock()
	return fn
}

// parseParameterList consumes (a, b, c); the current token must be the opening
// paren on entry and is the closing paren on exit.
func (p *parser) parseParameterList() []string {
	var params []string
	if p.peekTokenIs(tokenRParen) {
		p.nextToken()
		return params
	}
	for {
		if !p.expectPeek(tokenIdent) {
			return params
		}
		params = append(params, p.curToken.Literal)
		if !p.peekTokenIs(tokenComma) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(tokenRParen)
	return params
}

func (p *parser) parsePrefixExpression() Expression {
	expr := &PrefixExpr{Operator: p.curToken.Literal, position: p.curToken.Pos}
	p.nextToken()
	expr.Right = p.parseExpression(precPrefix)
	return expr
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	expr := &InfixExpr{Operator: p.curToken.Literal, Left: left, position: p.curToken.Pos}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *parser) parseCallExpression(callee Expression) Expression {
	expr := &CallExpr{Callee: callee, position: p.curToken.Pos}
	expr.Args = p.parseArgumentList()
	return expr
}

// parseArgumentList consumes (e1, e2, ...); the current token must be the
// opening paren on entry and is the closing paren on exit.
func (p *parser) parseArgumentList() []Expression {
	var args []Expression
	if p.peekTokenIs(tokenRParen) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(precLowest))
	for p.peekTokenIs(tokenComma) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(precLowest))
	}
	p.expectPeek(tokenRParen)
	return args
}

func (p *parser) parseMemberExpression(object Expression) Expression {
	expr := &MemberExpr{Object: object, position: p.curToken.Pos}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	expr.Property = p.curToken.Literal
	return expr
}

func (p *parser) parseIndexExpression(object Expression) Expression {
	expr := &IndexExpr{Object: object, position: p.curToken.Pos}
	p.nextToken()
	expr.Index = p.parseExpression(precLowest)
	if !p.expectPeek(tokenRBracket) {
		return nil
	}
	return expr
}

func (p *parser) parseNewExpression() Expression {
	expr := &NewExpr{position: p.curToken.Pos}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	expr.Name = p.parseDottedName()
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	expr.Args = p.parseArgumentList()
	return expr
}
