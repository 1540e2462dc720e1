// Package parser implements thor's recursive-descent, precedence-climbing
// parser (spec §4.2): tokens in, an AST rooted at a statement list out.
package parser

import (
	"github.com/thorscript/thor/internal/ast"
	"github.com/thorscript/thor/internal/errors"
	"github.com/thorscript/thor/internal/token"
)

// Parser walks a fixed token slice and never panics on well-formed but
// semantically invalid input: every failure is recorded and returned by
// ParseProgram, and parsing carries on from the offending token (an
// unexpected token in expression position is skipped).
type Parser struct {
	tokens []token.Token
	pos    int
	errs   []*errors.LangError
}

// New creates a Parser over tokens, which must end in an EOF token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses the whole token stream into a statement list. Errors
// accumulated during parsing are returned alongside whatever statements
// were successfully recovered around them.
func (p *Parser) ParseProgram() ([]ast.Statement, []*errors.LangError) {
	var stmts []ast.Statement
	for !p.check(token.EOF) {
		stmt := p.statement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs
}

// --- token stream helpers ---

func (p *Parser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) check(k token.Kind) bool {
	return p.current().Kind == k
}

func (p *Parser) advance() token.Token {
	if !p.check(token.EOF) {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past an expected token kind or records an
// UnexpectedToken error (spec §4.2 Errors) and returns the current token
// without advancing, so the caller can attempt to recover.
func (p *Parser) consume(k token.Kind) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errs = append(p.errs, errors.UnexpectedTokenError(p.current(), k))
	return p.current()
}

// synchronize discards tokens until a likely statement boundary, so a
// single parse error doesn't cascade into spurious follow-on errors.
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.current().Kind {
		case token.Overload, token.Return, token.Throw, token.Print,
			token.Fn, token.Do, token.If, token.While, token.For,
			token.Let, token.LBrace:
			return
		}
		p.advance()
	}
}

// --- statements ---

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.Overload):
		return p.overloadStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.Throw):
		return p.throwStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Fn):
		return p.functionStatement()
	case p.match(token.Do):
		return p.doStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Let):
		return p.varDecl()
	case p.match(token.LBrace):
		return p.block()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) overloadStatement() ast.Statement {
	opTok := p.advance()

	p.consume(token.LParen)
	var operands []string
	for !p.check(token.RParen) && !p.check(token.EOF) {
		name := p.consume(token.Identifier)
		if n, ok := name.Content(); ok {
			operands = append(operands, n)
		}
		if !p.match(token.Comma) {
			break
		}
	}
	p.consume(token.RParen)

	p.consume(token.LBrace)
	body := p.block()

	return &ast.Overload{OpTok: opTok, OperandNames: operands, Body: body}
}

func (p *Parser) returnStatement() ast.Statement {
	if p.check(token.Semicolon) {
		p.advance()
		return &ast.Return{}
	}
	expr := p.expression()
	p.consume(token.Semicolon)
	return &ast.Return{Expr: expr}
}

func (p *Parser) throwStatement() ast.Statement {
	tok := p.previous()
	expr := p.expression()
	p.consume(token.Semicolon)
	return &ast.Throw{Expr: expr, ThrowTok: tok}
}

func (p *Parser) printStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.Semicolon)
	return &ast.Print{Expr: expr}
}

func (p *Parser) functionStatement() ast.Statement {
	name, _ := p.consume(token.Identifier).Content()

	p.consume(token.LParen)
	var params []string
	for !p.check(token.RParen) && !p.check(token.EOF) {
		if n, ok := p.consume(token.Identifier).Content(); ok {
			params = append(params, n)
		}
		if !p.match(token.Comma) {
			break
		}
	}
	p.consume(token.RParen)

	p.consume(token.LBrace)
	body := p.block()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) doStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.Semicolon)
	return &ast.Do{Expr: expr}
}

func (p *Parser) ifStatement() ast.Statement {
	ifTok := p.previous()
	cond := p.expression()
	p.consume(token.LBrace)
	then := p.block()

	var elseBranch ast.Statement
	if p.match(token.Else) {
		if p.match(token.If) {
			elseBranch = p.ifStatement()
		} else {
			p.consume(token.LBrace)
			elseBranch = p.block()
		}
	}

	return &ast.If{Cond: cond, Then: then, Else: elseBranch, IfTok: ifTok}
}

func (p *Parser) whileStatement() ast.Statement {
	whileTok := p.previous()
	cond := p.expression()
	p.consume(token.LBrace)
	body := p.block()
	return &ast.While{Cond: cond, Body: body, WhileTok: whileTok}
}

func (p *Parser) forStatement() ast.Statement {
	forTok := p.previous()
	varName, _ := p.consume(token.Identifier).Content()
	p.consume(token.In)
	iter := p.expression()
	p.consume(token.LBrace)
	body := p.block()
	return &ast.For{IterExpr: iter, VarName: varName, Body: body, ForTok: forTok}
}

func (p *Parser) varDecl() ast.Statement {
	name, _ := p.consume(token.Identifier).Content()
	var expr ast.Expression
	if p.match(token.Eq) {
		expr = p.expression()
	}
	p.consume(token.Semicolon)
	return &ast.VarDecl{Name: name, Expr: expr}
}

func (p *Parser) block() *ast.Block {
	var stmts []ast.Statement
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		stmt := p.statement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.synchronize()
		}
	}
	p.consume(token.RBrace)
	return &ast.Block{Stmts: stmts}
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.Semicolon)
	return &ast.Do{Expr: expr}
}

// --- expressions, lowest to highest precedence ---

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

// assignment is right-associative: `a = b = c` parses as `a = (b = c)`.
func (p *Parser) assignment() ast.Expression {
	expr := p.equality()

	if p.check(token.Eq) {
		eqTok := p.current()
		p.advance()
		value := p.assignment()
		return &ast.Assignment{Target: expr, Value: value, EqTok: eqTok}
	}

	return expr
}

func (p *Parser) equality() ast.Expression {
	expr := p.comparison()
	for p.check(token.EqEq) || p.check(token.BangEq) {
		opTok := p.current()
		op := p.advance().Kind
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right, OpTok: opTok}
	}
	return expr
}

func (p *Parser) comparison() ast.Expression {
	expr := p.rangeExpr()
	for p.check(token.Less) || p.check(token.LessEq) || p.check(token.Greater) || p.check(token.GreaterEq) {
		opTok := p.current()
		op := p.advance().Kind
		right := p.rangeExpr()
		expr = &ast.Binary{Left: expr, Op: op, Right: right, OpTok: opTok}
	}
	return expr
}

// rangeExpr handles `a to b` and `arr step n` (spec §4.5 `to`/`step`).
func (p *Parser) rangeExpr() ast.Expression {
	expr := p.additive()
	for p.check(token.To) || p.check(token.Step) {
		opTok := p.current()
		op := p.advance().Kind
		right := p.additive()
		expr = &ast.Binary{Left: expr, Op: op, Right: right, OpTok: opTok}
	}
	return expr
}

func (p *Parser) additive() ast.Expression {
	expr := p.multiplicative()
	for p.check(token.Plus) || p.check(token.Minus) {
		opTok := p.current()
		op := p.advance().Kind
		right := p.multiplicative()
		expr = &ast.Binary{Left: expr, Op: op, Right: right, OpTok: opTok}
	}
	return expr
}

// multiplicative also accepts any SPECIAL glyph, reused at this precedence
// level for user-defined binary operators (spec §4.2).
func (p *Parser) multiplicative() ast.Expression {
	expr := p.unary()
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Special) {
		opTok := p.current()
		op := p.advance().Kind
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right, OpTok: opTok}
	}
	return expr
}

// unary accepts `!`, `-`, `+`, `*`, `/`, the comparison operators, and any
// SPECIAL glyph as prefix operators (spec §4.2) so user overloads can
// define unary forms of operators that are normally binary.
func (p *Parser) unary() ast.Expression {
	switch p.current().Kind {
	case token.Bang, token.Minus, token.Plus, token.Star, token.Slash,
		token.Less, token.LessEq, token.Greater, token.GreaterEq, token.Special:
		opTok := p.current()
		op := p.advance().Kind
		right := p.unary()
		return &ast.Unary{Op: op, Right: right, OpTok: opTok}
	}
	return p.call()
}

// call handles the postfix loop over `(`, `[`, `.` (spec §4.2 Call-site
// postfix).
func (p *Parser) call() ast.Expression {
	expr := p.primary()

	for {
		switch {
		case p.check(token.LParen):
			parenTok := p.current()
			p.advance()
			args := p.finishCall()
			expr = &ast.Call{Callee: expr, Args: args, ParenTok: parenTok}

		case p.check(token.Dot):
			dotTok := p.current()
			p.advance()
			if p.check(token.Identifier) {
				key, _ := p.advance().Content()
				expr = &ast.FieldCall{Callee: expr, Key: key, DotTok: dotTok}
			} else {
				// `.nonIdent` hashes the evaluated key at eval time
				// (spec §4.2, §9 "Hashing non-identifier field keys").
				keyExpr := p.unary()
				expr = &ast.FieldCall{Callee: expr, KeyExpr: keyExpr, DotTok: dotTok}
			}

		case p.check(token.LBrack):
			lbrackTok := p.current()
			p.advance()
			key := p.expression()
			p.consume(token.RBrack)
			expr = &ast.Retrieve{Callee: expr, Key: key, LBrackTok: lbrackTok}

		default:
			return expr
		}
	}
}

// finishCall parses a call's argument list, accepting both comma-separated
// and bare-juxtaposed arguments (spec §4.2).
func (p *Parser) finishCall() []ast.Expression {
	var args []ast.Expression
	for !p.check(token.RParen) && !p.check(token.EOF) {
		args = append(args, p.expression())
		p.match(token.Comma)
	}
	p.consume(token.RParen)
	return args
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.check(token.Number):
		tok := p.current()
		p.advance()
		return &ast.Literal{Kind: ast.LiteralNumber, Tok: tok}

	case p.check(token.String):
		tok := p.current()
		p.advance()
		return &ast.Literal{Kind: ast.LiteralString, Tok: tok}

	case p.match(token.True):
		return &ast.Literal{Kind: ast.LiteralTrue, Tok: p.previous()}

	case p.match(token.False):
		return &ast.Literal{Kind: ast.LiteralFalse, Tok: p.previous()}

	case p.match(token.Nil):
		return &ast.Literal{Kind: ast.LiteralNil, Tok: p.previous()}

	case p.check(token.Identifier):
		tok := p.current()
		name, _ := p.advance().Content()
		return &ast.Identifier{Name: name, Tok: tok}

	case p.match(token.LParen):
		inner := p.expression()
		p.consume(token.RParen)
		return &ast.Grouping{Inner: inner}

	case p.match(token.LBrack):
		return p.arrayLiteral()

	case p.match(token.Try):
		p.consume(token.LBrace)
		body := p.block()
		return &ast.Try{Block: body}

	case p.match(token.On):
		return p.onExpression()

	default:
		p.errs = append(p.errs, errors.UnexpectedTokenError(p.current(),
			token.Number, token.String, token.True, token.False, token.Nil,
			token.Identifier, token.LParen, token.LBrack, token.Try, token.On))
		p.advance()
		return &ast.Literal{Kind: ast.LiteralNil, Tok: p.previous()}
	}
}

// arrayLiteral parses `[e, e, ...]` tolerating a trailing comma before `]`
// (spec §4.2 Primary).
func (p *Parser) arrayLiteral() ast.Expression {
	var values []ast.Expression
	for !p.check(token.RBrack) && !p.check(token.EOF) {
		values = append(values, p.expression())
		if !p.match(token.Comma) {
			break
		}
	}
	p.consume(token.RBrack)
	return &ast.Array{Values: values}
}

// onExpression parses `on (name1, name2, ...) { ... }`. The block is
// mandatory (spec §9 open question resolution).
func (p *Parser) onExpression() ast.Expression {
	onTok := p.previous()

	p.consume(token.LParen)
	var vars []string
	for !p.check(token.RParen) && !p.check(token.EOF) {
		if n, ok := p.consume(token.Identifier).Content(); ok {
			vars = append(vars, n)
		}
		if !p.match(token.Comma) {
			break
		}
	}
	p.consume(token.RParen)

	p.consume(token.LBrace)
	body := p.block()

	return &ast.On{Vars: vars, Block: body, OnTok: onTok}
}
