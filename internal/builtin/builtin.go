// Package builtin implements the native function registry and the
// per-kind prototype method tables (spec §4.3, §4.7, §6.3).
//
// Two kinds of native live here. Free-standing globals (get_now, get_input,
// type_of, stringify) are self-contained and seeded into each global
// environment by internal/interp's Interp.NewGlobalEnv. Prototype methods (number's
// ceil/floor/sqrt, string's length/parse_number, array's len/push) are
// materialized lazily on field access by internal/interp, bound to the
// receiving Value. `eval`, `import`, and `import_lib` also belong to the
// spec's native registry but need the lexer/parser/evaluator, which would
// make this package import internal/interp — to avoid that cycle they are
// registered by internal/interp itself alongside these (see DESIGN.md).
package builtin

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/token"
	"github.com/thorscript/thor/internal/value"
)

// Call is the argument bundle passed to every native (spec §4.7's
// "(argument-map, bound-self?, caller-env?, bound-variable-name?,
// env-state?)"). Not every native uses every field. Tok is the call's
// blame token, used to locate any error the native itself raises.
type Call struct {
	Args    []value.Value
	Self    *value.Value
	Env     *value.Environment
	VarName string // the plain identifier the receiver was called through, if any
	Tok     token.Token
}

// Func is a native's body.
type Func func(c Call) (value.Value, error)

// Globals returns the process-wide, env-independent natives seeded into
// every fresh global environment (spec §6.3): get_now, get_input, type_of,
// stringify.
func Globals() map[string]Func {
	return map[string]Func{
		"get_now":   getNow,
		"get_input": getInput,
		"type_of":   typeOf,
		"stringify": stringify,
	}
}

func getNow(_ Call) (value.Value, error) {
	return value.NumberValue(float64(time.Now().UnixMilli())), nil
}

func getInput(c Call) (value.Value, error) {
	if len(c.Args) > 0 && c.Args[0].Kind != value.Nil {
		fmt.Println(Stringify(c.Args[0]))
	}

	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return value.StringValue(line), nil
}

func typeOf(c Call) (value.Value, error) {
	if len(c.Args) == 0 {
		return value.StringValue("nil"), nil
	}
	return value.StringValue(c.Args[0].Kind.String()), nil
}

func stringify(c Call) (value.Value, error) {
	if len(c.Args) == 0 {
		return value.StringValue("nil"), nil
	}
	return value.StringValue(Stringify(c.Args[0])), nil
}

// Stringify renders a Value the way `print`/`stringify` do (spec §6.3),
// ported from execution_lib's stringify_value.
func Stringify(v value.Value) string {
	switch v.Kind {
	case value.Nil:
		return "nil"
	case value.Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case value.Number:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case value.String:
		return v.Str
	case value.Array:
		parts := make([]string, len(*v.Elems))
		for i, e := range *v.Elems {
			parts[i] = Stringify(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case value.Object:
		parts := make([]string, 0, v.Fields.Len())
		for _, k := range v.Fields.Keys() {
			fv, _ := v.Fields.Get(k)
			parts = append(parts, k+": "+Stringify(*fv))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case value.Func:
		return "<function>"
	case value.Error:
		return "error: " + Stringify(*v.Err)
	default:
		return "nil"
	}
}

// HashKey converts a value used as a non-identifier field key into its
// string hash. Only Bool, Number, and String may be hashed (spec §9
// "Hashing non-identifier field keys"); anything else is an Eval error at
// tok.
func HashKey(v value.Value, tok token.Token) (string, error) {
	switch v.Kind {
	case value.Bool:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case value.Number:
		return strconv.FormatFloat(v.Number, 'g', -1, 64), nil
	case value.String:
		return v.Str, nil
	default:
		return "", errors.New(errors.Eval, tok, "cannot hash a %s as a field key", v.Kind)
	}
}

// NumberMethods returns the prototype method table for a Number receiver
// (spec §4.3): ceil, floor, sqrt.
func NumberMethods(self value.Value) map[string]Func {
	return map[string]Func{
		"ceil":  func(Call) (value.Value, error) { return value.NumberValue(math.Ceil(self.Number)), nil },
		"floor": func(Call) (value.Value, error) { return value.NumberValue(math.Floor(self.Number)), nil },
		"sqrt":  func(Call) (value.Value, error) { return value.NumberValue(math.Sqrt(self.Number)), nil },
	}
}

// StringMethods returns the prototype method table for a String receiver
// (spec §4.3): length, parse_number.
func StringMethods(self value.Value) map[string]Func {
	return map[string]Func{
		"length": func(Call) (value.Value, error) {
			return value.NumberValue(float64(len(self.Str))), nil
		},
		"parse_number": func(c Call) (value.Value, error) {
			n, err := strconv.ParseFloat(self.Str, 64)
			if err != nil {
				return value.Value{}, errors.New(errors.Eval, c.Tok, "cannot parse %q as a number", self.Str)
			}
			return value.NumberValue(n), nil
		},
	}
}

// ArrayMethods returns the prototype method table for an Array receiver
// (spec §4.3): len, push. varName is the plain identifier the array was
// accessed through, if any — push writes the new array back to it
// (spec §4.3, SPEC_FULL.md §4 "push's writeback").
func ArrayMethods(self value.Value, env *value.Environment, varName string) map[string]Func {
	return map[string]Func{
		"len": func(Call) (value.Value, error) {
			return value.NumberValue(float64(len(*self.Elems))), nil
		},
		"push": func(c Call) (value.Value, error) {
			if len(c.Args) == 0 {
				return value.Value{}, errors.New(errors.FunctionArity, c.Tok, "push expects 1 argument, got 0")
			}
			grown := make([]value.Value, len(*self.Elems)+1)
			copy(grown, *self.Elems)
			grown[len(*self.Elems)] = c.Args[0]
			newArr := value.ArrayValue(grown)

			if varName != "" && env != nil {
				env.Set(varName, newArr)
			}
			return newArr, nil
		},
	}
}
