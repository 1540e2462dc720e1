// Package thor is the embeddable entry point: lex, parse, and evaluate a
// program against a fresh global environment, the same three-stage pipeline
// execution_lib's interpret_code runs, wrapped the way the teacher's
// pkg/dwscript wraps its own internal engine for outside callers.
package thor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thorscript/thor/internal/ast"
	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/interp"
	"github.com/thorscript/thor/internal/lexer"
	"github.com/thorscript/thor/internal/parser"
	"github.com/thorscript/thor/internal/value"
)

// Result is the outcome of running a program: the value returned by a
// top-level `return`, if any, plus the interpreter used to run it (exposed
// so a caller — the REPL in particular — can reuse its environment and
// overload registry across successive inputs).
type Result struct {
	Value value.Value
	Interp *interp.Interp
	Env    *value.Environment
}

// Run lexes, parses, and evaluates source as a fresh top-level program.
// moduleRoot is the directory `import`/`import_lib` paths are resolved
// against (spec §6.3); for a file-backed program this is the file's
// directory, for inline/REPL input it is the current working directory.
func Run(source, moduleRoot string) (Result, error) {
	in := interp.New(moduleRoot)
	env := in.NewGlobalEnv()
	return RunIn(source, in, env)
}

// RunIn evaluates source against an already-constructed interpreter and
// environment, letting a caller (the REPL) carry overload declarations and
// bindings from one input to the next instead of starting fresh each time.
func RunIn(source string, in *interp.Interp, env *value.Environment) (Result, error) {
	stmts, err := Parse(source)
	if err != nil {
		return Result{}, err
	}
	v, err := in.Run(stmts, env)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Interp: in, Env: env}, nil
}

// Parse lexes and parses source without evaluating it, returning the first
// error encountered (lex error, or the first of the parser's accumulated
// errors).
func Parse(source string) ([]ast.Statement, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	stmts, perrs := parser.New(tokens).ParseProgram()
	if len(perrs) > 0 {
		return nil, perrs[0]
	}
	return stmts, nil
}

// RunFile reads and runs a script file, appending a ".thor" suffix when the
// given path doesn't already end in one, and using the file's own
// directory (made absolute) as the module root (spec §6.3, matching the
// original cli's filename-completion behavior). The source text it read is
// returned alongside any error so a caller can format the error against the
// right line, even though the read itself succeeded.
func RunFile(filename string) (Result, string, error) {
	if !strings.HasSuffix(filename, ".thor") {
		filename += ".thor"
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return Result{}, "", fmt.Errorf("reading %s: %w", filename, err)
	}
	source := string(raw)

	moduleRoot, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return Result{}, source, fmt.Errorf("resolving module root for %s: %w", filename, err)
	}
	res, err := Run(source, moduleRoot)
	return res, source, err
}

// FormatError renders err as the CLI's two-line message (spec §7), or its
// plain Go error string if it isn't a *errors.LangError (a lex error, for
// instance, is a *lexer.Error whose message already names its line and
// column).
func FormatError(err error, source string) string {
	lerr, ok := err.(*errors.LangError)
	if !ok {
		return err.Error()
	}
	return errors.Format(lerr, strings.Split(source, "\n"))
}
