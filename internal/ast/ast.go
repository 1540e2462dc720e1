// Package ast defines the statement and expression tree produced by the
// parser and walked by the evaluator (spec §3 AST).
//
// Nodes are immutable once parsed. Every node that can fail at runtime
// carries its "blame token" — the token whose line/column locates a
// runtime error raised while evaluating that node. The original
// implementation carries a bare token index into the program's token
// slice (type_lib's `literal_token_index` and friends); here the token
// itself is carried directly, since a Thor program's AST and evaluator can
// outlive the token slice that produced it (a closure evaluated long after
// parsing, or an `import`ed module's AST living alongside the importer's)
// — carrying the Token sidesteps having to keep every token slice a node
// might ever need to reach alive and threaded through the evaluator.
package ast

import "github.com/thorscript/thor/internal/token"

// Statement is any of the statement-level forms: Throw, Return, Print, Do,
// VarDecl, Block, If, While, For, Function, Overload (spec §3).
type Statement interface {
	stmtNode()
}

// Expression is any of the expression-level forms (spec §3).
type Expression interface {
	exprNode()
}

type Throw struct {
	Expr     Expression
	ThrowTok token.Token
}

type Return struct {
	Expr Expression // nil for a bare `return;`
}

type Print struct {
	Expr Expression
}

// Do wraps a bare expression statement (`expr;`).
type Do struct {
	Expr Expression
}

type VarDecl struct {
	Name string
	Expr Expression
}

type Block struct {
	Stmts []Statement
}

// If's IfTok blames a non-boolean condition (spec §4.5).
type If struct {
	Cond  Expression
	Then  Statement
	Else  Statement // nil when there is no else branch
	IfTok token.Token
}

// While's WhileTok blames a non-boolean condition, same as If.
type While struct {
	Cond     Expression
	Body     Statement
	WhileTok token.Token
}

// For is the `for x in iter { ... }` loop; IterExpr yields the array or
// range iterated over and VarName is bound to each element in turn.
// ForTok blames a non-array IterExpr.
type For struct {
	IterExpr Expression
	VarName  string
	Body     Statement
	ForTok   token.Token
}

type Function struct {
	Name   string
	Params []string
	Body   Statement
}

// Overload declares a user-defined implementation of an operator. OpTok is
// the declaring operator token — its Kind is a fixed operator like
// token.Plus, or token.Special for a user-invented glyph, in which case
// its Lexeme is the glyph text that distinguishes it from every other
// invented glyph (spec §4.1, §4.6). OperandNames holds one name for a
// unary overload or two for a binary one.
type Overload struct {
	OpTok        token.Token
	OperandNames []string
	Body         Statement
}

func (*Throw) stmtNode()    {}
func (*Return) stmtNode()   {}
func (*Print) stmtNode()    {}
func (*Do) stmtNode()       {}
func (*VarDecl) stmtNode()  {}
func (*Block) stmtNode()    {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*For) stmtNode()      {}
func (*Function) stmtNode() {}
func (*Overload) stmtNode() {}

// LiteralKind distinguishes the handful of literal forms the parser can
// produce directly, without needing a separate Expression variant each.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralTrue
	LiteralFalse
	LiteralNil
)

// Literal carries its own lexeme via Tok (e.g. Tok.Content() for a NUMBER
// or STRING token), mirroring the original's `literal: TokenType` field.
type Literal struct {
	Kind LiteralKind
	Tok  token.Token
}

type Identifier struct {
	Name string
	Tok  token.Token
}

type Grouping struct {
	Inner Expression
}

type Unary struct {
	Op    token.Kind
	Right Expression
	OpTok token.Token
}

type Binary struct {
	Left  Expression
	Op    token.Kind
	Right Expression
	OpTok token.Token
}

// Assignment covers both plain identifier assignment and path assignment
// through field/index access (`a.b[0] = x`); Target is evaluated down to an
// assignment path at eval time (spec §4.5 Assignment).
type Assignment struct {
	Target Expression
	Value  Expression
	EqTok  token.Token
}

type Call struct {
	Callee   Expression
	Args     []Expression
	ParenTok token.Token
}

type Array struct {
	Values []Expression
}

// FieldCall is dotted field access, `callee.key` (spec §4.5 Retrieve vs
// FieldCall). Key holds a bare identifier; when the dotted key isn't an
// identifier (`obj.5`, `obj.true`), KeyExpr holds the expression to
// evaluate and hash instead (spec §9 "Hashing non-identifier field keys").
// Exactly one of Key/KeyExpr is set.
type FieldCall struct {
	Callee  Expression
	Key     string
	KeyExpr Expression
	DotTok  token.Token
}

// Retrieve is bracketed index access, `callee[key]`, where key is an
// arbitrary expression evaluated at eval time: a whole number indexes an
// array or string, a string names an object field. The key is not hashed.
type Retrieve struct {
	Callee    Expression
	Key       Expression
	LBrackTok token.Token
}

// Try evaluates Block and converts any raised error into an Error value
// instead of propagating it (spec §4.5 Try).
type Try struct {
	Block Statement
}

// On declares a reactive listener: Block fires, in registration order,
// after a successful assignment to any name in Vars (spec §4.4).
type On struct {
	Vars  []string
	Block Statement
	OnTok token.Token
}

func (*Literal) exprNode()    {}
func (*Identifier) exprNode() {}
func (*Grouping) exprNode()   {}
func (*Unary) exprNode()      {}
func (*Binary) exprNode()     {}
func (*Assignment) exprNode() {}
func (*Call) exprNode()       {}
func (*Array) exprNode()      {}
func (*FieldCall) exprNode()  {}
func (*Retrieve) exprNode()   {}
func (*Try) exprNode()        {}
func (*On) exprNode()         {}
