package interp

import (
	"testing"

	"github.com/thorscript/thor/internal/lexer"
	"github.com/thorscript/thor/internal/parser"
	"github.com/thorscript/thor/internal/value"
)

// run lexes, parses, and evaluates src against a fresh interpreter and
// global environment, failing the test on any lex/parse/eval error.
func run(t *testing.T, src string) value.Value {
	t.Helper()

	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	stmts, perrs := parser.New(tokens).ParseProgram()
	if len(perrs) > 0 {
		t.Fatalf("parse errors: %v", perrs)
	}

	in := New(t.TempDir())
	v, evalErr := in.Run(stmts, in.NewGlobalEnv())
	if evalErr != nil {
		t.Fatalf("eval error: %v", evalErr)
	}
	return v
}

func runErr(t *testing.T, src string) error {
	t.Helper()

	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, perrs := parser.New(tokens).ParseProgram()
	if len(perrs) > 0 {
		t.Fatalf("parse errors: %v", perrs)
	}

	in := New(t.TempDir())
	_, evalErr := in.Run(stmts, in.NewGlobalEnv())
	return evalErr
}

func TestArithmeticPrecedence(t *testing.T) {
	v := run(t, "return 2 + 3 * 4;")
	if v.Kind != value.Number || v.Number != 14 {
		t.Fatalf("got %+v, want number 14", v)
	}
}

func TestStringConcatenation(t *testing.T) {
	v := run(t, `return "foo" + "bar";`)
	if v.Kind != value.String || v.Str != "foobar" {
		t.Fatalf("got %+v, want string foobar", v)
	}
}

func TestRangeThenArrayLen(t *testing.T) {
	v := run(t, "return (1 to 5).len();")
	if v.Kind != value.Number || v.Number != 5 {
		t.Fatalf("got %+v, want number 5", v)
	}
}

func TestStepOverArray(t *testing.T) {
	v := run(t, "return (1 to 10) step 3;")
	if v.Kind != value.Array {
		t.Fatalf("got %+v, want array", v)
	}
	got := make([]float64, len(*v.Elems))
	for i, e := range *v.Elems {
		got[i] = e.Number
	}
	want := []float64{1, 4, 7, 10}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestArrayPushWritesBackToVariable(t *testing.T) {
	v := run(t, `
		let arr = [1, 2];
		arr.push(3);
		return arr.len();
	`)
	if v.Kind != value.Number || v.Number != 3 {
		t.Fatalf("got %+v, want number 3", v)
	}
}

func TestNilToObjectPromotionViaFieldAssignment(t *testing.T) {
	v := run(t, `
		let obj;
		obj.hello = 4;
		return obj.hello;
	`)
	if v.Kind != value.Number || v.Number != 4 {
		t.Fatalf("got %+v, want number 4", v)
	}
}

func TestNestedFieldAssignmentDoesNotLeakToOtherHolders(t *testing.T) {
	v := run(t, `
		let a;
		a.x = 1;
		let b = a;
		b.x = 2;
		return a.x;
	`)
	if v.Kind != value.Number || v.Number != 1 {
		t.Fatalf("got %+v, want number 1 (a must be unaffected by assigning through b)", v)
	}
}

func TestOverloadDeclarationAndInvocation(t *testing.T) {
	// ~ is an invented glyph: built-in semantics never claim it, so this
	// actually exercises overload dispatch (unlike overloading +, which
	// built-in number addition would intercept first).
	v := run(t, `
		overload ~(a, b) {
			return a - b;
		}
		return 10 ~ 3;
	`)
	if v.Kind != value.Number || v.Number != 7 {
		t.Fatalf("got %+v, want number 7", v)
	}
}

func TestOverloadDoesNotSeeItselfAtDeclarationTime(t *testing.T) {
	v := run(t, `
		overload ~(a, b) {
			return 1;
		}
		overload ~(a, b) {
			return a ~ b;
		}
		return 10 ~ 3;
	`)
	if v.Kind != value.Number || v.Number != 1 {
		t.Fatalf("got %+v, want number 1 (the newer overload's body sees only the older overload, so its own a~b falls through to that, not recursing into itself)", v)
	}
}

func TestClosureAndRecursion(t *testing.T) {
	v := run(t, `
		fn fib(n) {
			if n <= 1 {
				return n;
			}
			return fib(n - 1) + fib(n - 2);
		}
		return fib(10);
	`)
	if v.Kind != value.Number || v.Number != 55 {
		t.Fatalf("got %+v, want number 55", v)
	}
}

func TestListenerFiresAfterAssignment(t *testing.T) {
	v := run(t, `
		let count = 0;
		let tracked = 0;
		on (tracked) {
			count = count + 1;
		};
		tracked = 1;
		tracked = 2;
		return count;
	`)
	if v.Kind != value.Number || v.Number != 2 {
		t.Fatalf("got %+v, want number 2 (one fire per assignment)", v)
	}
}

func TestTryRecoversErrorAsValue(t *testing.T) {
	v := run(t, `
		let result = try {
			throw "boom";
		};
		return type_of(result);
	`)
	if v.Kind != value.String || v.Str != "error" {
		t.Fatalf("got %+v, want string \"error\"", v)
	}
}

func TestForLoopAccumulates(t *testing.T) {
	v := run(t, `
		let total = 0;
		for i in (1 to 4) {
			total = total + i;
		}
		return total;
	`)
	if v.Kind != value.Number || v.Number != 10 {
		t.Fatalf("got %+v, want number 10", v)
	}
}

func TestBinaryOperatorRaisesEvalErrorWhenNoOverloadApplies(t *testing.T) {
	err := runErr(t, `return "a" - "b";`)
	if err == nil {
		t.Fatal("expected an eval error, got none")
	}
}

func TestIfRejectsNonBooleanCondition(t *testing.T) {
	err := runErr(t, `
		if 1 {
			print "unreachable";
		}
	`)
	if err == nil {
		t.Fatal("expected an eval error for a non-boolean if condition, got none")
	}
}

func TestEvalNativeRunsCodeInCallerEnvironment(t *testing.T) {
	v := run(t, `
		let x = 10;
		eval("x = x + 5;");
		return x;
	`)
	if v.Kind != value.Number || v.Number != 15 {
		t.Fatalf("got %+v, want number 15", v)
	}
}
