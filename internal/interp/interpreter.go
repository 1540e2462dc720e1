// Package interp implements the tree-walking evaluator: the statement and
// expression dispatchers, operator semantics with overload fallback, the
// assignment path protocol, and the natives (eval/import/import_lib) that
// need the lexer and parser to run (spec §4.5, §6.3).
package interp

import (
	"fmt"

	"github.com/thorscript/thor/internal/ast"
	"github.com/thorscript/thor/internal/builtin"
	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/token"
	"github.com/thorscript/thor/internal/value"
)

// Interp holds the state that spans an entire run: the operator-overload
// registry (the live table; while an overload's body runs it is replaced by
// that overload's declaration-time snapshot, spec §4.6) and the module root
// used to resolve `import` paths (spec §6.3).
type Interp struct {
	Overloads  *value.Registry
	ModuleRoot string

	globals  map[string]builtin.Func
	imported map[string]value.Value
}

// New creates an Interp rooted at moduleRoot, the directory `import` paths
// are resolved against.
func New(moduleRoot string) *Interp {
	in := &Interp{
		Overloads:  value.NewRegistry(),
		ModuleRoot: moduleRoot,
		imported:   make(map[string]value.Value),
	}
	in.globals = in.buildGlobals()
	return in
}

// NewGlobalEnv returns a fresh root environment seeded with every native
// (spec §6.3): the self-contained ones from internal/builtin plus eval,
// import, and import_lib, which this package registers itself to avoid a
// builtin→interp import cycle (see internal/builtin's package doc).
func (in *Interp) NewGlobalEnv() *value.Environment {
	env := value.NewEnvironment()
	for name := range in.globals {
		env.Declare(name, value.NativeFunction(name, nil))
	}
	return env
}

// Run evaluates a top-level statement list and returns its resulting value
// (nil unless a top-level `return` was hit). `import` and `eval` run their
// programs through the same statement-list evaluation via interpretSource
// (spec §6.3).
func (in *Interp) Run(stmts []ast.Statement, env *value.Environment) (value.Value, error) {
	return in.evalStmts(stmts, env)
}

// evalStmts walks a statement list, stopping early on the first value
// whose ReturnFlag is set, and bubbling any error immediately (spec §4.5).
func (in *Interp) evalStmts(stmts []ast.Statement, env *value.Environment) (value.Value, error) {
	for _, stmt := range stmts {
		v, err := in.evalStatement(stmt, env)
		if err != nil {
			return value.Value{}, err
		}
		if v.ReturnFlag {
			return v, nil
		}
	}
	return value.NilValue(), nil
}

// bodyStmts extracts a function/overload body's statement list directly,
// so calling it doesn't open a redundant child scope on top of the one the
// call site already created for the call's own environment.
func bodyStmts(body ast.Statement) []ast.Statement {
	if b, ok := body.(*ast.Block); ok {
		return b.Stmts
	}
	return []ast.Statement{body}
}

// evalStatement evaluates a single statement (spec §4.5). Return yields its
// value with ReturnFlag set, and Block/If/While/For pass such a value up
// from their bodies; Throw yields an error; every other branch yields a
// non-return nil value on success.
func (in *Interp) evalStatement(stmt ast.Statement, env *value.Environment) (value.Value, error) {
	switch s := stmt.(type) {

	case *ast.Throw:
		v, err := in.eval(s.Expr, env)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{}, errors.Throw(s.ThrowTok, v)

	case *ast.Overload:
		in.Overloads.Declare(s.OpTok.Kind, s.OpTok.Lexeme, s.OperandNames, s.Body)
		return value.NilValue(), nil

	case *ast.Return:
		if s.Expr == nil {
			v := value.NilValue()
			v.ReturnFlag = true
			return v, nil
		}
		v, err := in.eval(s.Expr, env)
		if err != nil {
			return value.Value{}, err
		}
		v.ReturnFlag = true
		return v, nil

	case *ast.Function:
		// The function is inserted both into the enclosing environment
		// (so callers can find it by name) and into its own closure (so a
		// recursive call from inside its body can find it too).
		closure := env.Child()
		fn := value.ThorFunction(s.Params, s.Body, closure)
		env.Declare(s.Name, fn)
		closure.Declare(s.Name, fn)
		return value.NilValue(), nil

	case *ast.Block:
		local := env.Child()
		return in.evalStmts(s.Stmts, local)

	case *ast.If:
		cond, err := in.eval(s.Cond, env)
		if err != nil {
			return value.Value{}, err
		}
		truthy, ok := cond.IsTruthy()
		if !ok {
			return value.Value{}, errors.New(errors.Eval, s.IfTok, "if condition must be a bool, got %s", cond.Kind)
		}
		if truthy {
			return in.evalStatement(s.Then, env)
		}
		if s.Else != nil {
			return in.evalStatement(s.Else, env)
		}
		return value.NilValue(), nil

	case *ast.While:
		for {
			cond, err := in.eval(s.Cond, env)
			if err != nil {
				return value.Value{}, err
			}
			truthy, ok := cond.IsTruthy()
			if !ok {
				return value.Value{}, errors.New(errors.Eval, s.WhileTok, "while condition must be a bool, got %s", cond.Kind)
			}
			if !truthy {
				return value.NilValue(), nil
			}
			v, err := in.evalStatement(s.Body, env)
			if err != nil {
				return value.Value{}, err
			}
			if v.ReturnFlag {
				return v, nil
			}
		}

	case *ast.For:
		iter, err := in.eval(s.IterExpr, env)
		if err != nil {
			return value.Value{}, err
		}
		if iter.Kind != value.Array {
			return value.Value{}, errors.New(errors.Eval, s.ForTok, "for loop requires an array, got %s", iter.Kind)
		}
		for _, elem := range *iter.Elems {
			loopEnv := env.Child()
			loopEnv.Declare(s.VarName, elem)
			v, err := in.evalStatement(s.Body, loopEnv)
			if err != nil {
				return value.Value{}, err
			}
			if v.ReturnFlag {
				return v, nil
			}
		}
		return value.NilValue(), nil

	case *ast.Print:
		v, err := in.eval(s.Expr, env)
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind == value.String {
			fmt.Println(v.Str)
		} else {
			fmt.Println(builtin.Stringify(v))
		}
		return value.NilValue(), nil

	case *ast.Do:
		_, err := in.eval(s.Expr, env)
		if err != nil {
			return value.Value{}, err
		}
		return value.NilValue(), nil

	case *ast.VarDecl:
		var v value.Value
		if s.Expr != nil {
			var err error
			v, err = in.eval(s.Expr, env)
			if err != nil {
				return value.Value{}, err
			}
		} else {
			v = value.NilValue()
		}
		env.Declare(s.Name, v)
		return value.NilValue(), nil

	default:
		return value.Value{}, errors.New(errors.Unknown, token.Token{}, "unhandled statement type %T", stmt)
	}
}
