package interp

import (
	"github.com/thorscript/thor/internal/ast"
	"github.com/thorscript/thor/internal/builtin"
	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/token"
	"github.com/thorscript/thor/internal/value"
)

// pathStep is one link of an assignment path: a named field step or an
// integer array-index step (spec §4.5 Assignment, `generate_field_order`).
type pathStep struct {
	Key     string
	Index   int
	IsIndex bool
	Tok     token.Token
}

// assignmentPath reduces an assignment target expression down to an
// ordered list of steps rooted at an identifier: `obj.a[0].b` becomes
// [obj, a, 0, b] (spec §4.5, §9). Non-identifier index keys are evaluated
// and must be a String or whole-number.
func (in *Interp) assignmentPath(target ast.Expression, env *value.Environment) ([]pathStep, error) {
	var steps []pathStep
	cur := target

	for {
		switch e := cur.(type) {
		case *ast.Identifier:
			steps = append(steps, pathStep{Key: e.Name, Tok: e.Tok})
			reversePath(steps)
			return steps, nil

		case *ast.FieldCall:
			key := e.Key
			if e.KeyExpr != nil {
				keyVal, err := in.eval(e.KeyExpr, env)
				if err != nil {
					return nil, err
				}
				key, err = builtin.HashKey(keyVal, e.DotTok)
				if err != nil {
					return nil, err
				}
			}
			steps = append(steps, pathStep{Key: key, Tok: e.DotTok})
			cur = e.Callee

		case *ast.Retrieve:
			keyVal, err := in.eval(e.Key, env)
			if err != nil {
				return nil, err
			}
			switch keyVal.Kind {
			case value.String:
				steps = append(steps, pathStep{Key: keyVal.Str, Tok: e.LBrackTok})
			case value.Number:
				idx, ok := keyVal.IsWholeNumber()
				if !ok {
					return nil, errors.New(errors.Index, e.LBrackTok, "index must be a whole number, got %v", keyVal.Number)
				}
				steps = append(steps, pathStep{Index: idx, IsIndex: true, Tok: e.LBrackTok})
			default:
				return nil, errors.New(errors.Eval, e.LBrackTok, "cannot use a %s as an index", keyVal.Kind)
			}
			cur = e.Callee

		default:
			return nil, errors.New(errors.Eval, token.Token{}, "invalid assignment target")
		}
	}
}

func reversePath(steps []pathStep) {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
}

// evalAssignment implements the full assignment protocol (spec §4.5,
// §9): a single-step path just overwrites the named binding; a multi-step
// path clones the root value and every value it descends through
// (copy-on-write, spec §9), so other holders of any part of the old path
// never see the write, promotes a Nil parent to an
// Object before the terminal write, commits the modified root back to its
// binding, and finally fires any listeners registered on the root name.
func (in *Interp) evalAssignment(e *ast.Assignment, env *value.Environment) (value.Value, error) {
	v, err := in.eval(e.Value, env)
	if err != nil {
		return value.Value{}, err
	}

	path, err := in.assignmentPath(e.Target, env)
	if err != nil {
		return value.Value{}, err
	}

	rootName := path[0].Key

	if len(path) == 1 {
		if !env.Set(rootName, v) {
			return value.Value{}, errors.New(errors.Eval, e.EqTok, "assignment to undeclared variable %q", rootName)
		}
		if err := in.fireListeners(env, rootName, e.EqTok); err != nil {
			return value.Value{}, err
		}
		return v, nil
	}

	root, ok := env.Get(rootName)
	if !ok {
		return value.Value{}, errors.New(errors.Eval, e.EqTok, "assignment to undeclared variable %q", rootName)
	}
	root = root.Clone()

	cur := &root
	for i := 1; i < len(path)-1; i++ {
		step := path[i]
		if step.IsIndex {
			if cur.Kind != value.Array {
				return value.Value{}, errors.New(errors.Eval, step.Tok, "cannot index a %s", cur.Kind)
			}
			elems := *cur.Elems
			if step.Index < 0 || step.Index >= len(elems) {
				return value.Value{}, errors.New(errors.Index, step.Tok, "index %d out of range", step.Index)
			}
			elems[step.Index] = elems[step.Index].Clone()
			cur = &elems[step.Index]
			continue
		}

		field, ok := cur.Fields.Get(step.Key)
		if !ok {
			return value.Value{}, errors.New(errors.Retrieval, step.Tok, "unknown field %q", step.Key)
		}
		next := field.Clone()
		cur.Fields.Set(step.Key, &next)
		cur = &next
	}

	last := path[len(path)-1]
	if last.IsIndex {
		if cur.Kind != value.Array {
			return value.Value{}, errors.New(errors.Eval, last.Tok, "cannot index a %s", cur.Kind)
		}
		elems := *cur.Elems
		if last.Index < 0 || last.Index >= len(elems) {
			return value.Value{}, errors.New(errors.Index, last.Tok, "index %d out of range", last.Index)
		}
		elems[last.Index] = v
	} else {
		if cur.Kind == value.Nil {
			*cur = value.ObjectValue(nil)
		}
		cur.Fields.Set(last.Key, &v)
	}

	env.Set(rootName, root)
	if err := in.fireListeners(env, rootName, e.EqTok); err != nil {
		return value.Value{}, err
	}
	return v, nil
}

// fireListeners runs every listener registered on name, in registration
// order, directly in env (not a child scope, matching the original's
// `eval_statement(listener, enclosing, ...)`). A listener body's own
// errors are swallowed, as in the original; only exceeding the
// re-entrancy bound is reported to the caller, blamed at the triggering
// assignment's `=` token (spec §9 Listener re-entrancy).
func (in *Interp) fireListeners(env *value.Environment, name string, eqTok token.Token) error {
	listeners := env.Listeners(name)
	if len(listeners) == 0 {
		return nil
	}

	if !env.EnterListener(name) {
		env.ExitListener(name)
		return errors.New(errors.Eval, eqTok, "listener re-entrancy bound exceeded for %q", name)
	}
	defer env.ExitListener(name)

	for _, on := range listeners {
		_, _ = in.evalStmts(bodyStmts(on.Block), env)
	}
	return nil
}
