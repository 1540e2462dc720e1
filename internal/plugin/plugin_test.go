package plugin

import (
	"testing"

	"github.com/thorscript/thor/internal/token"
	"github.com/thorscript/thor/internal/value"
)

// fakeHandle stands in for a loaded library's LibHandle without requiring
// an actual compiled .so — Load itself needs the real plugin package and
// isn't exercised here, but Call's dispatch only depends on the Lookup
// closure's contract.
func fakeHandle(symbols map[string]any) *value.LibHandle {
	return &value.LibHandle{
		Path: "fake.so",
		Lookup: func(name string) (any, bool) {
			s, ok := symbols[name]
			return s, ok
		},
	}
}

func TestCallNonMutatingDispatchesToFreeFunction(t *testing.T) {
	handle := fakeHandle(map[string]any{
		"double": func(args []value.Value) value.Value {
			return value.NumberValue(args[0].Number * 2)
		},
	})
	fn := value.LibFunction("double", handle, false, nil)

	result, err := Call(fn, []value.Value{value.NumberValue(21)}, nil, nil, token.Token{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Number != 42 {
		t.Fatalf("got %v, want 42", result.Number)
	}
	if result.Lib != handle {
		t.Error("result should carry the same LibHandle as the function that produced it")
	}
}

func TestCallMutatingDispatchesWithEnvAndOverloads(t *testing.T) {
	var sawEnv *value.Environment
	env := value.NewEnvironment()
	overloads := value.NewRegistry()

	handle := fakeHandle(map[string]any{
		"track": func(args []value.Value, e *value.Environment, o *value.Registry) value.Value {
			sawEnv = e
			return value.BoolValue(true)
		},
	})
	fn := value.LibFunction("track", handle, true, nil)

	result, err := Call(fn, nil, env, overloads, token.Token{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Bool {
		t.Fatal("expected true back from the mutating function")
	}
	if sawEnv != env {
		t.Error("mutating call should receive the caller's environment")
	}
}

func TestCallRejectsMismatchedSignature(t *testing.T) {
	handle := fakeHandle(map[string]any{
		"oops": func(args []value.Value, e *value.Environment, o *value.Registry) value.Value {
			return value.NilValue()
		},
	})
	// Declared non-mutating, but the symbol actually has the mutating shape.
	fn := value.LibFunction("oops", handle, false, nil)

	if _, err := Call(fn, nil, nil, nil, token.Token{}); err == nil {
		t.Fatal("expected an error for a mismatched plugin function signature")
	}
}

func TestCallRejectsUnresolvedSymbol(t *testing.T) {
	handle := fakeHandle(map[string]any{})
	fn := value.LibFunction("missing", handle, false, nil)

	if _, err := Call(fn, nil, nil, nil, token.Token{}); err == nil {
		t.Fatal("expected an error when the symbol can't be resolved")
	}
}

func TestCallRejectsNonPluginValue(t *testing.T) {
	if _, err := Call(value.NumberValue(1), nil, nil, nil, token.Token{}); err == nil {
		t.Fatal("expected an error calling a non-function value as a plugin function")
	}
}
