package cube

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseProgram(t *testing.T, source string) *Program {
	t.Helper()
	p := newParser(source)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return program
}

func TestParseClassDeclaration(t *testing.T) {
	program := parseProgram(t, `
		class Enemy extends flixel.FlxSprite implements Damageable, Drawable {
			var hp = 100;
			function new(x) {}
			function get_dead() { return hp <= 0; }
		}
	`)
	if len(program.Statements) != 1 {
		t.Fatalf("statement count = %d", len(program.Statements))
	}
	cs, ok := program.Statements[0].(*ClassStmt)
	if !ok {
		t.Fatalf("statement is %T", program.Statements[0])
	}
	if cs.Name != "Enemy" {
		t.Fatalf("name = %q", cs.Name)
	}
	if cs.Extends != "flixel.FlxSprite" {
		t.Fatalf("extends = %q", cs.Extends)
	}
	if diff := cmp.Diff([]string{"Damageable", "Drawable"}, cs.Implements); diff != "" {
		t.Fatalf("implements mismatch (-want +got):\n%s", diff)
	}

	if len(cs.Body) != 3 {
		t.Fatalf("body statement count = %d", len(cs.Body))
	}
	if v, ok := cs.Body[0].(*VarStmt); !ok || v.Name != "hp" {
		t.Fatalf("body[0] = %T", cs.Body[0])
	}
	ctor, ok := cs.Body[1].(*FunctionStmt)
	if !ok || ctor.Name != "new" {
		t.Fatalf("body[1] = %T", cs.Body[1])
	}
	if diff := cmp.Diff([]string{"x"}, ctor.Params); diff != "" {
		t.Fatalf("constructor params mismatch (-want +got):\n%s", diff)
	}
	if getter, ok := cs.Body[2].(*FunctionStmt); !ok || getter.Name != "get_dead" {
		t.Fatalf("body[2] = %T", cs.Body[2])
	}
}

func TestParseImportAndNew(t *testing.T) {
	program := parseProgram(t, `
		import flixel.FlxSprite;
		var s = new flixel.FlxSprite(1, 2);
	`)
	imp, ok := program.Statements[0].(*ImportStmt)
	if !ok {
		t.Fatalf("statement is %T", program.Statements[0])
	}
	if diff := cmp.Diff([]string{"flixel", "FlxSprite"}, imp.Path); diff != "" {
		t.Fatalf("import path mismatch (-want +got):\n%s", diff)
	}

	vs := program.Statements[1].(*VarStmt)
	ne, ok := vs.Value.(*NewExpr)
	if !ok {
		t.Fatalf("value is %T", vs.Value)
	}
	if ne.Name != "flixel.FlxSprite" || len(ne.Args) != 2 {
		t.Fatalf("new %q with %d args", ne.Name, len(ne.Args))
	}
}

func TestParseMapLiteral(t *testing.T) {
	program := parseProgram(t, `var m = [ "a" => 1, "b" => 2 ]; var empty = [=>];`)
	vs := program.Statements[0].(*VarStmt)
	ml, ok := vs.Value.(*MapLiteral)
	if !ok {
		t.Fatalf("value is %T", vs.Value)
	}
	if len(ml.Keys) != 2 || len(ml.Values) != 2 {
		t.Fatalf("map literal has %d keys, %d values", len(ml.Keys), len(ml.Values))
	}

	empty := program.Statements[1].(*VarStmt).Value.(*MapLiteral)
	if len(empty.Keys) != 0 {
		t.Fatalf("empty map literal has %d keys", len(empty.Keys))
	}
}

func TestParsePrecedence(t *testing.T) {
	program := parseProgram(t, `var x = 1 + 2 * 3 == 7 && !done;`)
	vs := program.Statements[0].(*VarStmt)
	top, ok := vs.Value.(*InfixExpr)
	if !ok || top.Operator != "&&" {
		t.Fatalf("top expression = %T", vs.Value)
	}
	eq, ok := top.Left.(*InfixExpr)
	if !ok || eq.Operator != "==" {
		t.Fatalf("left of && = %T", top.Left)
	}
	sum, ok := eq.Left.(*InfixExpr)
	if !ok || sum.Operator != "+" {
		t.Fatalf("left of == = %T", eq.Left)
	}
	if prod, ok := sum.Right.(*InfixExpr); !ok || prod.Operator != "*" {
		t.Fatalf("right of + = %T", sum.Right)
	}
}

func TestParseMemberAssignment(t *testing.T) {
	program := parseProgram(t, `s.hp = 10; arr[0] = 1; x = 2;`)
	first, ok := program.Statements[0].(*AssignStmt)
	if !ok {
		t.Fatalf("statement is %T", program.Statements[0])
	}
	if _, ok := first.Target.(*MemberExpr); !ok {
		t.Fatalf("target is %T", first.Target)
	}
	second := program.Statements[1].(*AssignStmt)
	if _, ok := second.Target.(*IndexExpr); !ok {
		t.Fatalf("target is %T", second.Target)
	}
	third := program.Statements[2].(*AssignStmt)
	if _, ok := third.Target.(*Identifier); !ok {
		t.Fatalf("target is %T", third.Target)
	}
}

func TestParseErrorsReportPosition(t *testing.T) {
	p := newParser("var = 1;")
	_, errs := p.ParseProgram()
	if len(errs) == 0 {
		t.Fatal("expected parse errors")
	}
	if !strings.Contains(errs[0].Error(), "parse error at 1:") {
		t.Fatalf("error = %v", errs[0])
	}
}

func TestParseForInLoop(t *testing.T) {
	program := parseProgram(t, `for (item in items) { trace(item); }`)
	fs, ok := program.Statements[0].(*ForStmt)
	if !ok {
		t.Fatalf("statement is %T", program.Statements[0])
	}
	if fs.Iterator != "item" {
		t.Fatalf("iterator = %q", fs.Iterator)
	}
	if _, ok := fs.Iterable.(*Identifier); !ok {
		t.Fatalf("iterable is %T", fs.Iterable)
	}
	if len(fs.Body) != 1 {
		t.Fatalf("body count = %d", len(fs.Body))
	}
}
