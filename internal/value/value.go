// Package value implements the runtime Value model: the tagged union of
// kinds, the insertion-ordered field map shared by every kind, function
// variants, environments with listener support, and the operator-overload
// registry (spec §3 Value, §4.4, §4.6).
package value

import "github.com/thorscript/thor/internal/ast"

// Kind tags the variant held by a Value.
type Kind int

const (
	Nil Kind = iota
	Bool
	Number
	String
	Array
	Object
	Func
	Error
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Func:
		return "function"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// FuncKind distinguishes the three Function sub-variants (spec §3 Value).
type FuncKind int

const (
	ThorFunc FuncKind = iota
	NativeFunc
	LibFunc
)

// Function is the payload of a Kind==Func Value.
type Function struct {
	FKind FuncKind

	// Thor
	Params []string
	Body   ast.Statement
	Env    *Environment

	// Native
	Name string

	// Lib
	LibHandle *LibHandle
	Mutates   bool

	// Native/Lib may be bound to a receiver (prototype methods).
	BoundSelf *Value
}

// LibHandle pins a loaded plugin library alive for as long as any Value
// derived from it (by call or field access) is still reachable (spec §4.8).
type LibHandle struct {
	Path string
	// Lookup resolves an exported function symbol by name. Populated by
	// internal/plugin when the library is loaded.
	Lookup func(name string) (any, bool)
}

// Fields is the insertion-ordered string→Value map shared by every Value
// kind (spec §3: "fields is an insertion-ordered mapping... shared by all
// kinds"). A plain map loses insertion order, so keys are tracked
// separately; this is small and self-contained enough that pulling in a
// generic ordered-map dependency wasn't worth it (DESIGN.md).
type Fields struct {
	keys   []string
	values map[string]*Value
}

func NewFields() *Fields {
	return &Fields{values: make(map[string]*Value)}
}

func (f *Fields) Get(key string) (*Value, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *Fields) Set(key string, v *Value) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

func (f *Fields) Keys() []string {
	return f.keys
}

func (f *Fields) Len() int {
	return len(f.keys)
}

// Clone returns a shallow copy: a new key list and map whose entries point
// at the same Values as f's, suitable for copy-on-write along an
// assignment path (spec §4.5, §9).
func (f *Fields) Clone() *Fields {
	out := NewFields()
	for _, k := range f.keys {
		out.Set(k, f.values[k])
	}
	return out
}

// Value is the runtime triple {kind, fields, return_flag} (spec §3).
//
// Elems backs Array values; Fields backs Object values (and, per spec,
// arrays may still carry named fields, so both are present on every
// Value). Arrays and field maps are shared-ownership handles: copying a
// Value by plain assignment is a cheap pointer copy (Clone copies the
// top-level storage), and mutation along an assignment path
// must copy-on-write rather than mutate shared storage in place.
type Value struct {
	Kind Kind

	Bool   bool
	Number float64
	Str    string
	Elems  *[]Value
	Fields *Fields
	Fn     *Function
	Err    *Value // the wrapped payload of an Error-kind value

	// ReturnFlag, when set, makes this value short-circuit the statement
	// list currently evaluating it (spec §4.5).
	ReturnFlag bool

	// Lib, when non-nil, pins the plugin this value (or an ancestor it was
	// derived from by field access) originated from (spec §3, §4.8).
	Lib *LibHandle
}

func NilValue() Value {
	return Value{Kind: Nil, Fields: NewFields()}
}

func BoolValue(b bool) Value {
	return Value{Kind: Bool, Bool: b, Fields: NewFields()}
}

func NumberValue(n float64) Value {
	return Value{Kind: Number, Number: n, Fields: NewFields()}
}

func StringValue(s string) Value {
	return Value{Kind: String, Str: s, Fields: NewFields()}
}

func ArrayValue(elems []Value) Value {
	return Value{Kind: Array, Elems: &elems, Fields: NewFields()}
}

func ObjectValue(fields *Fields) Value {
	if fields == nil {
		fields = NewFields()
	}
	return Value{Kind: Object, Fields: fields}
}

func ErrorValue(wrapped Value) Value {
	return Value{Kind: Error, Err: &wrapped, Fields: NewFields()}
}

func ThorFunction(params []string, body ast.Statement, closure *Environment) Value {
	return Value{
		Kind:   Func,
		Fields: NewFields(),
		Fn:     &Function{FKind: ThorFunc, Params: params, Body: body, Env: closure},
	}
}

func NativeFunction(name string, boundSelf *Value) Value {
	return Value{
		Kind:   Func,
		Fields: NewFields(),
		Fn:     &Function{FKind: NativeFunc, Name: name, BoundSelf: boundSelf},
	}
}

func LibFunction(name string, handle *LibHandle, mutates bool, boundSelf *Value) Value {
	return Value{
		Kind:   Func,
		Fields: NewFields(),
		Fn:     &Function{FKind: LibFunc, Name: name, LibHandle: handle, Mutates: mutates, BoundSelf: boundSelf},
		Lib:    handle,
	}
}

// IsTruthy reports whether a value counts as true in a boolean context.
// Only Bool participates; every other kind is a type error at the caller.
func (v Value) IsTruthy() (bool, bool) {
	if v.Kind != Bool {
		return false, false
	}
	return v.Bool, true
}

// IsWholeNumber reports whether v is a Number with no fractional part, the
// precondition for integer-valued operations (indices, `to` endpoints).
func (v Value) IsWholeNumber() (int, bool) {
	if v.Kind != Number {
		return 0, false
	}
	if v.Number != float64(int(v.Number)) {
		return 0, false
	}
	return int(v.Number), true
}

// Equal implements the `==`/`!=` built-in: structural equality over every
// kind, with functions always comparing unequal (spec §4.5).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Nil:
		return true
	case Bool:
		return a.Bool == b.Bool
	case Number:
		return a.Number == b.Number
	case String:
		return a.Str == b.Str
	case Array:
		ae, be := *a.Elems, *b.Elems
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !Equal(ae[i], be[i]) {
				return false
			}
		}
		return true
	case Object:
		if a.Fields.Len() != b.Fields.Len() {
			return false
		}
		for _, k := range a.Fields.Keys() {
			av, _ := a.Fields.Get(k)
			bv, ok := b.Fields.Get(k)
			if !ok || !Equal(*av, *bv) {
				return false
			}
		}
		return true
	case Func:
		return false
	case Error:
		return Equal(*a.Err, *b.Err)
	default:
		return false
	}
}

// Clone returns a value safe to hand to a new holder: primitives copy
// trivially; Array/Object copy their top-level backing storage so a
// subsequent in-place mutation by one holder is invisible to another,
// matching the copy-on-write discipline assignment paths require.
func (v Value) Clone() Value {
	out := v
	if v.Elems != nil {
		elems := make([]Value, len(*v.Elems))
		copy(elems, *v.Elems)
		out.Elems = &elems
	}
	if v.Fields != nil {
		out.Fields = v.Fields.Clone()
	}
	return out
}
