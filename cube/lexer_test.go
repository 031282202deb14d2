package cube

import "testing"

func TestNextToken(t *testing.T) {
	input := `
		var hp = 100;
		// a comment
		class Enemy extends FlxSprite {
			function get_dead() { return hp <= 0.5 && !alive; }
		}
		/* block
		   comment */
		var title = "boss";
		var m = [x => 1];
	`

	expected := []struct {
		tokenType TokenType
		literal   string
	}{
		{tokenVar, "var"}, {tokenIdent, "hp"}, {tokenAssign, "="}, {tokenInt, "100"}, {tokenSemicolon, ";"},
		{tokenClass, "class"}, {tokenIdent, "Enemy"}, {tokenExtends, "extends"}, {tokenIdent, "FlxSprite"}, {tokenLBrace, "{"},
		{tokenFunction, "function"}, {tokenIdent, "get_dead"}, {tokenLParen, "("}, {tokenRParen, ")"}, {tokenLBrace, "{"},
		{tokenReturn, "return"}, {tokenIdent, "hp"}, {tokenLTE, "<="}, {tokenFloat, "0.5"},
		{tokenAnd, "&&"}, {tokenBang, "!"}, {tokenIdent, "alive"}, {tokenSemicolon, ";"},
		{tokenRBrace, "}"}, {tokenRBrace, "}"},
		{tokenVar, "var"}, {tokenIdent, "title"}, {tokenAssign, "="}, {tokenString, "boss"}, {tokenSemicolon, ";"},
		{tokenVar, "var"}, {tokenIdent, "m"}, {tokenAssign, "="},
		{tokenLBracket, "["}, {tokenIdent, "x"}, {tokenArrow, "=>"}, {tokenInt, "1"}, {tokenRBracket, "]"}, {tokenSemicolon, ";"},
		{tokenEOF, ""},
	}

	l := newLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.tokenType {
			t.Fatalf("token %d: type = %q, want %q (literal %q)", i, tok.Type, want.tokenType, tok.Literal)
		}
		if tok.Literal != want.literal {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, want.literal)
		}
	}
}

func TestIntegerMemberAccessLexing(t *testing.T) {
	// 1.foo is member access on an integer, not a malformed float.
	l := newLexer(`1.str`)
	if tok := l.NextToken(); tok.Type != tokenInt || tok.Literal != "1" {
		t.Fatalf("first token = %q %q", tok.Type, tok.Literal)
	}
	if tok := l.NextToken(); tok.Type != tokenDot {
		t.Fatalf("second token = %q", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != tokenIdent || tok.Literal != "str" {
		t.Fatalf("third token = %q %q", tok.Type, tok.Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	l := newLexer(`"a\n\"b\""`)
	tok := l.NextToken()
	if tok.Type != tokenString {
		t.Fatalf("token = %q", tok.Type)
	}
	if tok.Literal != "a\n\"b\"" {
		t.Fatalf("literal = %q", tok.Literal)
	}
}

func TestTokenPositions(t *testing.T) {
	l := newLexer("var x\n  = 1")
	wantPos := []Position{{Line: 1, Column: 1}, {Line: 1, Column: 5}, {Line: 2, Column: 3}, {Line: 2, Column: 5}}
	for i, want := range wantPos {
		tok := l.NextToken()
		if tok.Pos != want {
			t.Fatalf("token %d (%q): pos = %d:%d, want %d:%d", i, tok.Literal, tok.Pos.Line, tok.Pos.Column, want.Line, want.Column)
		}
	}
}
