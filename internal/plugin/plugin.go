// Package plugin loads thor extension shared libraries and dispatches
// calls into them (spec §4.8, §6.4).
//
// The spec's ABI calls for an in-process shared library exporting a
// `value_map` symbol and per-call symbol lookup by name — not an
// RPC/subprocess model. The standard library's `plugin` package is the
// only mechanism (in the examples pack or the wider ecosystem) that
// matches that contract; `hashicorp/go-plugin` (used elsewhere in the
// pack) talks to out-of-process plugins over gRPC and cannot serve this
// ABI (see DESIGN.md, SPEC_FULL.md §3). Go's `plugin` package also only
// resolves exported (capitalized) symbols, so the exported entry point is
// named `ValueMap` rather than `value_map`; this is a direct, necessary
// consequence of translating the ABI to Go, not a deviation from it.
package plugin

import (
	stdplugin "plugin"

	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/token"
	"github.com/thorscript/thor/internal/value"
)

// NonMutatingFunc is the call shape for a Lib function whose Mutates flag
// is false: it sees only its arguments (spec §6.4).
type NonMutatingFunc func(args []value.Value) value.Value

// MutatingFunc is the call shape for a Lib function whose Mutates flag is
// true: it additionally sees the caller's environment and overload
// registry (spec §6.4).
type MutatingFunc func(args []value.Value, env *value.Environment, overloads *value.Registry) value.Value

// Load opens the shared library at path, looks up its exported ValueMap
// entry point, and returns the map of exported Values, each tagged with a
// handle that pins the library alive and resolves its function symbols on
// demand (spec §4.8).
func Load(path string, tok token.Token) (map[string]value.Value, error) {
	lib, err := stdplugin.Open(path)
	if err != nil {
		return nil, errors.New(errors.Unknown, tok, "failed to load plugin %q: %v", path, err)
	}

	sym, err := lib.Lookup("ValueMap")
	if err != nil {
		return nil, errors.New(errors.Unknown, tok, "plugin %q does not export ValueMap: %v", path, err)
	}

	valueMap, ok := sym.(func() map[string]value.Value)
	if !ok {
		return nil, errors.New(errors.Unknown, tok, "plugin %q's ValueMap has the wrong signature", path)
	}

	handle := &value.LibHandle{
		Path: path,
		Lookup: func(name string) (any, bool) {
			s, err := lib.Lookup(name)
			if err != nil {
				return nil, false
			}
			return s, true
		},
	}

	out := make(map[string]value.Value)
	for name, v := range valueMap() {
		v.Lib = handle
		if v.Fn != nil {
			v.Fn.LibHandle = handle
		}
		out[name] = v
	}
	return out, nil
}

// Call invokes a Lib function by resolving its symbol through the handle
// recorded on fn at load time, dispatching to the mutating or
// non-mutating call shape per fn.Fn.Mutates (spec §4.5 step 5, §6.4). The
// returned value is tagged with the same handle so it keeps the plugin
// pinned.
func Call(fn value.Value, args []value.Value, env *value.Environment, overloads *value.Registry, tok token.Token) (value.Value, error) {
	if fn.Fn == nil || fn.Fn.LibHandle == nil {
		return value.Value{}, errors.New(errors.Unknown, tok, "value is not a plugin function")
	}

	sym, ok := fn.Fn.LibHandle.Lookup(fn.Fn.Name)
	if !ok {
		return value.Value{}, errors.New(errors.Unknown, tok, "plugin function %q not found", fn.Fn.Name)
	}

	var result value.Value
	if fn.Fn.Mutates {
		mutating, ok := sym.(func([]value.Value, *value.Environment, *value.Registry) value.Value)
		if !ok {
			return value.Value{}, errors.New(errors.Unknown, tok, "plugin function %q has the wrong mutating signature", fn.Fn.Name)
		}
		result = mutating(args, env, overloads)
	} else {
		nonMutating, ok := sym.(func([]value.Value) value.Value)
		if !ok {
			return value.Value{}, errors.New(errors.Unknown, tok, "plugin function %q has the wrong signature", fn.Fn.Name)
		}
		result = nonMutating(args)
	}

	result.Lib = fn.Fn.LibHandle
	return result, nil
}
