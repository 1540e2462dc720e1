package interp

import (
	"strconv"

	"github.com/thorscript/thor/internal/ast"
	"github.com/thorscript/thor/internal/builtin"
	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/plugin"
	"github.com/thorscript/thor/internal/token"
	"github.com/thorscript/thor/internal/value"
)

// eval evaluates a single expression (spec §4.5).
func (in *Interp) eval(expr ast.Expression, env *value.Environment) (value.Value, error) {
	switch e := expr.(type) {

	case *ast.Literal:
		return in.evalLiteral(e)

	case *ast.Identifier:
		v, ok := env.Get(e.Name)
		if !ok {
			return value.Value{}, errors.New(errors.UnknownValue, e.Tok, "unknown value %q", e.Name)
		}
		return v, nil

	case *ast.Grouping:
		return in.eval(e.Inner, env)

	case *ast.Unary:
		return in.evalUnary(e, env)

	case *ast.Binary:
		return in.evalBinary(e, env)

	case *ast.Assignment:
		return in.evalAssignment(e, env)

	case *ast.Array:
		elems := make([]value.Value, len(e.Values))
		for i, ve := range e.Values {
			v, err := in.eval(ve, env)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.ArrayValue(elems), nil

	case *ast.FieldCall:
		return in.evalFieldCall(e, env)

	case *ast.Retrieve:
		return in.evalRetrieve(e, env)

	case *ast.Try:
		v, err := in.evalStatement(e.Block, env)
		if err != nil {
			if lerr, ok := err.(*errors.LangError); ok {
				return value.ErrorValue(langErrorValue(lerr)), nil
			}
			return value.ErrorValue(value.StringValue(err.Error())), nil
		}
		return v, nil

	case *ast.On:
		for _, name := range e.Vars {
			env.AddListener(name, e)
		}
		return value.NilValue(), nil

	case *ast.Call:
		return in.evalCall(e, env)
	}

	return value.Value{}, errors.New(errors.Unknown, token.Token{}, "unhandled expression type %T", expr)
}

func parseNumber(tok token.Token) (float64, bool) {
	n, err := strconv.ParseFloat(tok.Lexeme, 64)
	return n, err == nil
}

// langErrorValue turns a LangError back into the Value a `try` block hands
// back: the exact thrown value for a user `throw`, or a string description
// for anything else (spec §4.5 Try/Throw).
func langErrorValue(err *errors.LangError) value.Value {
	if err.Kind == errors.ThorLangException {
		if v, ok := err.Value.(value.Value); ok {
			return v
		}
	}
	return value.StringValue(err.Error())
}

func (in *Interp) evalLiteral(e *ast.Literal) (value.Value, error) {
	switch e.Kind {
	case ast.LiteralNil:
		return value.NilValue(), nil
	case ast.LiteralTrue:
		return value.BoolValue(true), nil
	case ast.LiteralFalse:
		return value.BoolValue(false), nil
	case ast.LiteralNumber:
		n, ok := parseNumber(e.Tok)
		if !ok {
			return value.Value{}, errors.New(errors.Eval, e.Tok, "invalid number literal %q", e.Tok.Lexeme)
		}
		return value.NumberValue(n), nil
	case ast.LiteralString:
		return value.StringValue(e.Tok.Lexeme), nil
	default:
		return value.Value{}, errors.New(errors.Eval, e.Tok, "unhandled literal kind")
	}
}

func (in *Interp) evalFieldCall(e *ast.FieldCall, env *value.Environment) (value.Value, error) {
	calleeVal, err := in.eval(e.Callee, env)
	if err != nil {
		return value.Value{}, err
	}

	key := e.Key
	if e.KeyExpr != nil {
		keyVal, err := in.eval(e.KeyExpr, env)
		if err != nil {
			return value.Value{}, err
		}
		key, err = builtin.HashKey(keyVal, e.DotTok)
		if err != nil {
			return value.Value{}, err
		}
	}

	if field, ok := calleeVal.Fields.Get(key); ok {
		out := *field
		if calleeVal.Lib != nil {
			out.Lib = calleeVal.Lib
		}
		return out, nil
	}

	var table map[string]builtin.Func
	switch calleeVal.Kind {
	case value.String:
		table = builtin.StringMethods(calleeVal)
	case value.Number:
		table = builtin.NumberMethods(calleeVal)
	case value.Array:
		table = builtin.ArrayMethods(calleeVal, env, "")
	}
	if _, ok := table[key]; ok {
		fn := value.NativeFunction(key, &calleeVal)
		fn.Lib = calleeVal.Lib
		return fn, nil
	}

	// No field and no prototype method by that name: nil, matching the
	// original's default-value fallback.
	out := value.NilValue()
	out.Lib = calleeVal.Lib
	return out, nil
}

func (in *Interp) evalRetrieve(e *ast.Retrieve, env *value.Environment) (value.Value, error) {
	keyVal, err := in.eval(e.Key, env)
	if err != nil {
		return value.Value{}, err
	}
	calleeVal, err := in.eval(e.Callee, env)
	if err != nil {
		return value.Value{}, err
	}

	var out value.Value
	switch {
	case calleeVal.Kind == value.Array && keyVal.Kind == value.Number:
		idx, ok := keyVal.IsWholeNumber()
		if !ok || idx < 0 || idx >= len(*calleeVal.Elems) {
			return value.Value{}, errors.New(errors.Index, e.LBrackTok, "index %v out of range", keyVal.Number)
		}
		out = (*calleeVal.Elems)[idx]

	case calleeVal.Kind == value.String && keyVal.Kind == value.Number:
		idx, ok := keyVal.IsWholeNumber()
		runes := []rune(calleeVal.Str)
		if !ok || idx < 0 || idx >= len(runes) {
			return value.Value{}, errors.New(errors.Index, e.LBrackTok, "index %v out of range", keyVal.Number)
		}
		out = value.StringValue(string(runes[idx]))

	case calleeVal.Kind == value.Object && keyVal.Kind == value.String:
		if field, ok := calleeVal.Fields.Get(keyVal.Str); ok {
			out = *field
		} else {
			out = value.NilValue()
		}

	default:
		return value.Value{}, errors.New(errors.Retrieval, e.LBrackTok, "cannot retrieve a %s from a %s", keyVal.Kind, calleeVal.Kind)
	}

	out.Lib = calleeVal.Lib
	return out, nil
}

func (in *Interp) evalCall(e *ast.Call, env *value.Environment) (value.Value, error) {
	calleeVal, err := in.eval(e.Callee, env)
	if err != nil {
		return value.Value{}, err
	}
	if calleeVal.Kind != value.Func || calleeVal.Fn == nil {
		return value.Value{}, errors.New(errors.UnknownFunction, e.ParenTok, "value is not callable")
	}
	fn := calleeVal.Fn

	args := make([]value.Value, len(e.Args))
	for i, argExpr := range e.Args {
		v, err := in.eval(argExpr, env)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	switch fn.FKind {
	case value.LibFunc:
		return plugin.Call(calleeVal, args, env, in.Overloads, e.ParenTok)

	case value.NativeFunc:
		varName := ""
		if fc, ok := e.Callee.(*ast.FieldCall); ok {
			if id, ok := fc.Callee.(*ast.Identifier); ok {
				varName = id.Name
			}
		}
		return in.callNative(fn, args, env, varName, e.ParenTok)

	case value.ThorFunc:
		if len(fn.Params) != len(args) {
			return value.Value{}, errors.New(errors.FunctionArity, e.ParenTok, "expected %d argument(s), got %d", len(fn.Params), len(args))
		}
		callEnv := fn.Env.Child()
		for i, p := range fn.Params {
			callEnv.Declare(p, args[i])
		}
		result, err := in.evalStmts(bodyStmts(fn.Body), callEnv)
		if err != nil {
			return value.Value{}, err
		}
		result.ReturnFlag = false
		return result, nil

	default:
		return value.Value{}, errors.New(errors.UnknownFunction, e.ParenTok, "unknown function kind")
	}
}
