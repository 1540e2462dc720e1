package parser

import (
	"strings"
	"testing"

	"github.com/thorscript/thor/internal/ast"
	"github.com/thorscript/thor/internal/lexer"
	"github.com/thorscript/thor/internal/token"
)

func parse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, errs := New(tokens).ParseProgram()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return stmts
}

func TestParseVarDeclAndPrint(t *testing.T) {
	stmts := parse(t, `let a = 1; print a;`)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	decl, ok := stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", stmts[0])
	}
	if decl.Name != "a" {
		t.Errorf("expected decl name 'a', got %q", decl.Name)
	}
	if _, ok := stmts[1].(*ast.Print); !ok {
		t.Errorf("expected *ast.Print, got %T", stmts[1])
	}
}

func TestParsePrecedenceAdditiveBeforeMultiplicative(t *testing.T) {
	stmts := parse(t, `do 1 + 2 * 3;`)
	do := stmts[0].(*ast.Do)
	bin, ok := do.Expr.(*ast.Binary)
	if !ok {
		t.Fatalf("expected top-level *ast.Binary, got %T", do.Expr)
	}
	if bin.Op != token.Plus {
		t.Fatalf("expected top-level op to be +, got %v", bin.Op)
	}
	right, ok := bin.Right.(*ast.Binary)
	if !ok || right.Op != token.Star {
		t.Fatalf("expected right operand to be a * binary, got %#v", bin.Right)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	stmts := parse(t, `do a = b = 1;`)
	do := stmts[0].(*ast.Do)
	assign, ok := do.Expr.(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", do.Expr)
	}
	if _, ok := assign.Value.(*ast.Assignment); !ok {
		t.Errorf("expected nested assignment on the right, got %T", assign.Value)
	}
}

func TestParseElseBindsToNearestIf(t *testing.T) {
	stmts := parse(t, `if true { } if false { } else { }`)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	first := stmts[0].(*ast.If)
	if first.Else != nil {
		t.Error("the first if has no else and must not inherit the second if's else")
	}
	second := stmts[1].(*ast.If)
	if second.Else == nil {
		t.Error("the second if's else must bind to it, not escape upward")
	}
}

func TestParseArrayLiteralTrailingComma(t *testing.T) {
	stmts := parse(t, `do [1, 2, 3,];`)
	do := stmts[0].(*ast.Do)
	arr, ok := do.Expr.(*ast.Array)
	if !ok {
		t.Fatalf("expected *ast.Array, got %T", do.Expr)
	}
	if len(arr.Values) != 3 {
		t.Errorf("expected 3 array elements, got %d", len(arr.Values))
	}
}

func TestParseCallBareJuxtaposedArgs(t *testing.T) {
	stmts := parse(t, `do f(1 2 3);`)
	do := stmts[0].(*ast.Do)
	call, ok := do.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", do.Expr)
	}
	if len(call.Args) != 3 {
		t.Errorf("expected 3 bare-juxtaposed args, got %d", len(call.Args))
	}
}

func TestParseFieldCallAndRetrieve(t *testing.T) {
	stmts := parse(t, `do a.b[0];`)
	do := stmts[0].(*ast.Do)
	retrieve, ok := do.Expr.(*ast.Retrieve)
	if !ok {
		t.Fatalf("expected top-level *ast.Retrieve, got %T", do.Expr)
	}
	if _, ok := retrieve.Callee.(*ast.FieldCall); !ok {
		t.Errorf("expected FieldCall as retrieve's callee, got %T", retrieve.Callee)
	}
}

func TestParseOverloadStatement(t *testing.T) {
	stmts := parse(t, `overload #(a,b) { return a + b + 1; }`)
	ov, ok := stmts[0].(*ast.Overload)
	if !ok {
		t.Fatalf("expected *ast.Overload, got %T", stmts[0])
	}
	if ov.OpTok.Kind != token.Special {
		t.Errorf("expected SPECIAL op kind, got %v", ov.OpTok.Kind)
	}
	if ov.OpTok.Lexeme != "#" {
		t.Errorf("expected glyph %q, got %q", "#", ov.OpTok.Lexeme)
	}
	if len(ov.OperandNames) != 2 {
		t.Errorf("expected 2 operand names, got %d", len(ov.OperandNames))
	}
}

func TestParseOnExpressionRequiresBlock(t *testing.T) {
	tokens, err := lexer.Lex(`do on (x) { print x; };`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, errs := New(tokens).ParseProgram()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	do := stmts[0].(*ast.Do)
	on, ok := do.Expr.(*ast.On)
	if !ok {
		t.Fatalf("expected *ast.On, got %T", do.Expr)
	}
	if len(on.Vars) != 1 || on.Vars[0] != "x" {
		t.Errorf("expected on-vars [x], got %v", on.Vars)
	}

	noBlock, err := lexer.Lex(`do on (x);`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, errs := New(noBlock).ParseProgram(); len(errs) == 0 {
		t.Error("expected a parse error for on without a block")
	}
}

func TestParseUnexpectedTokenRecordsAcceptedSet(t *testing.T) {
	tokens, err := lexer.Lex(`let ; = 1;`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, errs := New(tokens).ParseProgram()
	if len(errs) == 0 {
		t.Fatal("expected at least one UnexpectedToken error")
	}
	if want := token.Identifier.String(); !strings.Contains(errs[0].Message, want) {
		t.Errorf("expected the error to name the accepted kind %q, got %q", want, errs[0].Message)
	}
}
