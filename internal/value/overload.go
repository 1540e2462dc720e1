package value

import (
	"github.com/thorscript/thor/internal/ast"
	"github.com/thorscript/thor/internal/token"
)

// opArity keys the overload table by operator kind, operand count, and —
// for a user-invented glyph (token.Special) — the glyph's own text, since
// every invented glyph shares the single Special token kind and is only
// distinguished by its lexeme (spec §4.1, §4.6). Glyph is the operator
// token's lexeme: empty for punctuation operators, the keyword text for
// `to` and `step`.
type opArity struct {
	Op    token.Kind
	Glyph string
	Arity int
}

// Overload is one user-defined implementation of an operator. Snapshot is
// the registry as it existed at the moment this overload was declared;
// evaluating its Body consults Snapshot rather than the live registry, so
// a new overload can never be recursively invoked by its own declaration
// (spec §4.6, §9).
type Overload struct {
	OperandNames []string
	Body         ast.Statement
	Snapshot     *Registry
}

// Registry is the `(operator-kind, arity) → ordered overloads` mapping
// (spec §4.6). New overloads are prepended so the most recently declared
// is tried first.
type Registry struct {
	table map[opArity][]*Overload
}

func NewRegistry() *Registry {
	return &Registry{table: make(map[opArity][]*Overload)}
}

// Declare registers a new overload for (op, glyph, len(operandNames)),
// taking a snapshot of the registry as it stands right now. glyph is the
// declaring token's lexeme — it tells apart invented glyphs sharing
// token.Special, is empty for punctuation operators, and is the keyword
// text for `to`/`step`. The snapshot
// shares the existing per-key slices (they are never mutated in place,
// only replaced) so copying it is cheap.
func (r *Registry) Declare(op token.Kind, glyph string, operandNames []string, body ast.Statement) {
	snapshot := r.snapshot()
	key := opArity{Op: op, Glyph: glyph, Arity: len(operandNames)}
	overload := &Overload{OperandNames: operandNames, Body: body, Snapshot: snapshot}
	r.table[key] = append([]*Overload{overload}, r.table[key]...)
}

// Lookup returns the overloads for (op, glyph, arity), newest-first. glyph
// is the use-site operator token's lexeme, matching what Declare was given.
func (r *Registry) Lookup(op token.Kind, glyph string, arity int) []*Overload {
	return r.table[opArity{Op: op, Glyph: glyph, Arity: arity}]
}

// snapshot returns a Registry sharing this registry's current per-key
// slices. Because Declare only ever replaces a key's slice (never mutates
// an existing one in place), the snapshot is unaffected by overloads
// declared after it was taken.
func (r *Registry) snapshot() *Registry {
	out := &Registry{table: make(map[opArity][]*Overload, len(r.table))}
	for k, v := range r.table {
		out.table[k] = v
	}
	return out
}
