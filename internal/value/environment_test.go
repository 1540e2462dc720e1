package value

import "testing"

func TestEnvironmentGetWalksParentChain(t *testing.T) {
	root := NewEnvironment()
	root.Declare("a", NumberValue(1))

	child := root.Child()
	child.Declare("b", NumberValue(2))

	if v, ok := child.Get("a"); !ok || v.Number != 1 {
		t.Errorf("expected to find 'a' via parent chain, got %v, %v", v, ok)
	}
	if _, ok := root.Get("b"); ok {
		t.Error("parent must not see child's bindings")
	}
}

func TestEnvironmentSetRequiresExistingBinding(t *testing.T) {
	root := NewEnvironment()
	if root.Set("missing", NumberValue(1)) {
		t.Error("Set on an unbound name must report failure")
	}
}

func TestEnvironmentSetWritesNearestBinding(t *testing.T) {
	root := NewEnvironment()
	root.Declare("x", NumberValue(1))
	child := root.Child()

	if !child.Set("x", NumberValue(2)) {
		t.Fatal("expected Set to find 'x' up the parent chain")
	}
	v, _ := root.Get("x")
	if v.Number != 2 {
		t.Errorf("expected root's binding of x to be updated to 2, got %v", v.Number)
	}
}

func TestEnvironmentDeclareShadows(t *testing.T) {
	root := NewEnvironment()
	root.Declare("x", NumberValue(1))
	child := root.Child()
	child.Declare("x", NumberValue(2))

	v, _ := child.Get("x")
	if v.Number != 2 {
		t.Errorf("expected shadowed binding 2, got %v", v.Number)
	}
	v, _ = root.Get("x")
	if v.Number != 1 {
		t.Errorf("expected outer binding unaffected at 1, got %v", v.Number)
	}
}

func TestListenerReentrancyBound(t *testing.T) {
	env := NewEnvironment()
	for i := 0; i < maxListenerDepth; i++ {
		if !env.EnterListener("x") {
			t.Fatalf("expected depth %d to be within bound", i+1)
		}
	}
	if env.EnterListener("x") {
		t.Error("expected exceeding maxListenerDepth to report not-ok")
	}
}
