package interp

import (
	"os"
	"path/filepath"

	"github.com/thorscript/thor/internal/builtin"
	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/lexer"
	"github.com/thorscript/thor/internal/parser"
	"github.com/thorscript/thor/internal/plugin"
	"github.com/thorscript/thor/internal/token"
	"github.com/thorscript/thor/internal/value"
)

// buildGlobals assembles the full native registry: internal/builtin's
// self-contained globals, plus eval/import/import_lib, which need the
// lexer and parser and so are registered here instead (see
// internal/builtin's package doc).
func (in *Interp) buildGlobals() map[string]builtin.Func {
	table := builtin.Globals()
	table["eval"] = in.nativeEval
	table["import"] = in.nativeImport
	table["import_lib"] = in.nativeImportLib
	return table
}

// callNative dispatches a Func-kind, NativeFunc value to its
// implementation: a prototype method bound to a receiver when BoundSelf
// is set, or one of the global natives otherwise (spec §4.3, §4.7).
func (in *Interp) callNative(fn *value.Function, args []value.Value, env *value.Environment, varName string, tok token.Token) (value.Value, error) {
	call := builtin.Call{Args: args, Self: fn.BoundSelf, Env: env, VarName: varName, Tok: tok}

	if fn.BoundSelf != nil {
		var table map[string]builtin.Func
		switch fn.BoundSelf.Kind {
		case value.Number:
			table = builtin.NumberMethods(*fn.BoundSelf)
		case value.String:
			table = builtin.StringMethods(*fn.BoundSelf)
		case value.Array:
			table = builtin.ArrayMethods(*fn.BoundSelf, env, varName)
		}
		f, ok := table[fn.Name]
		if !ok {
			return value.Value{}, errors.New(errors.UnknownFunction, tok, "unknown method %q", fn.Name)
		}
		return f(call)
	}

	f, ok := in.globals[fn.Name]
	if !ok {
		return value.Value{}, errors.New(errors.UnknownFunction, tok, "unknown function %q", fn.Name)
	}
	return f(call)
}

// nativeEval lexes, parses, and evaluates code in the caller's environment
// (spec §6.3 eval).
func (in *Interp) nativeEval(c builtin.Call) (value.Value, error) {
	if len(c.Args) == 0 || c.Args[0].Kind != value.String {
		return value.Value{}, errors.New(errors.FunctionArity, c.Tok, "eval expects 1 string argument")
	}
	return in.interpretSource(c.Args[0].Str, c.Env)
}

// nativeImport reads path relative to the module root and evaluates it as
// a fresh top-level program in a new global environment, returning the
// resulting value (spec §6.3 import). Repeated imports of the same
// resolved path return the cached result rather than re-running it.
func (in *Interp) nativeImport(c builtin.Call) (value.Value, error) {
	if len(c.Args) == 0 || c.Args[0].Kind != value.String {
		return value.Value{}, errors.New(errors.FunctionArity, c.Tok, "import expects 1 string argument")
	}
	path := c.Args[0].Str
	full := filepath.Join(in.ModuleRoot, path)

	if cached, ok := in.imported[full]; ok {
		return cached, nil
	}

	source, err := os.ReadFile(full)
	if err != nil {
		return value.Value{}, errors.New(errors.Unknown, c.Tok, "failed to import %q: %v", path, err)
	}

	result, evalErr := in.interpretSource(string(source), in.NewGlobalEnv())
	if evalErr != nil {
		return value.Value{}, evalErr
	}
	in.imported[full] = result
	return result, nil
}

// nativeImportLib loads a plugin and returns its exports as an Object
// (spec §6.3 import_lib, §4.8).
func (in *Interp) nativeImportLib(c builtin.Call) (value.Value, error) {
	if len(c.Args) == 0 || c.Args[0].Kind != value.String {
		return value.Value{}, errors.New(errors.FunctionArity, c.Tok, "import_lib expects 1 string argument")
	}
	path := filepath.Join(in.ModuleRoot, c.Args[0].Str)

	exports, err := plugin.Load(path, c.Tok)
	if err != nil {
		return value.Value{}, err
	}

	fields := value.NewFields()
	for name, v := range exports {
		v := v
		fields.Set(name, &v)
	}
	return value.ObjectValue(fields), nil
}

// interpretSource lexes, parses, and evaluates source against env,
// reporting the first lexer, parser, or evaluation error encountered.
func (in *Interp) interpretSource(source string, env *value.Environment) (value.Value, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return value.Value{}, err
	}

	stmts, perrs := parser.New(tokens).ParseProgram()
	if len(perrs) > 0 {
		return value.Value{}, perrs[0]
	}

	return in.evalStmts(stmts, env)
}
