package cmd

import "testing"

func TestWrapAsReturnAddsReturnToBareExpression(t *testing.T) {
	got := wrapAsReturn("1 + 2")
	want := "return 1 + 2;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrapAsReturnLeavesFullStatementAlone(t *testing.T) {
	stmt := "let x = 1;"
	if got := wrapAsReturn(stmt); got != stmt {
		t.Fatalf("got %q, want unchanged %q", got, stmt)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "repl", "version"} {
		if !names[want] {
			t.Errorf("expected rootCmd to register a %q subcommand", want)
		}
	}
}
