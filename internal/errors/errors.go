// Package errors defines the error kinds raised across the lexer, parser,
// and evaluator, and the two-line CLI formatter that renders them (spec §7).
package errors

import (
	"fmt"
	"strings"

	"github.com/thorscript/thor/internal/token"
)

// Kind is one row of the spec §7 error-kind table.
type Kind int

const (
	UnexpectedToken Kind = iota
	UnknownValue
	UnknownFunction
	FunctionArity
	Index
	Retrieval
	Eval
	ThorLangException
	Unknown
)

var kindNames = map[Kind]string{
	UnexpectedToken:   "unexpected token",
	UnknownValue:      "unknown value",
	UnknownFunction:   "unknown function",
	FunctionArity:     "function arity",
	Index:             "index error",
	Retrieval:         "retrieval error",
	Eval:              "eval error",
	ThorLangException: "exception",
	Unknown:           "unknown error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// LangError is the single error type raised by every component past the
// lexer. Tok locates the blame site; Value, when non-nil, carries the
// value thrown by a user `throw` (ThorLangException) so `try` can recover
// it as-is.
type LangError struct {
	Kind    Kind
	Tok     token.Token
	Message string
	Value   any // set only for ThorLangException; the thrown value.Value
}

func (e *LangError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs a LangError with a formatted message.
func New(kind Kind, tok token.Token, format string, args ...any) *LangError {
	return &LangError{Kind: kind, Tok: tok, Message: fmt.Sprintf(format, args...)}
}

// UnexpectedTokenError reports a parser failure, naming the token kinds
// that would have been accepted at that point (spec §4.2).
func UnexpectedTokenError(got token.Token, want ...token.Kind) *LangError {
	names := make([]string, len(want))
	for i, k := range want {
		names[i] = k.String()
	}
	return &LangError{
		Kind: UnexpectedToken,
		Tok:  got,
		Message: fmt.Sprintf("unexpected %s, expected one of: %s",
			got.Kind, strings.Join(names, ", ")),
	}
}

// Throw builds the ThorLangException carried by a user `throw expr`.
func Throw(tok token.Token, value any) *LangError {
	return &LangError{Kind: ThorLangException, Tok: tok, Message: "uncaught exception", Value: value}
}

// Format renders the CLI's two-line message: a natural-language
// description, then the source line containing the blame token (spec §7).
// lines is the source split on "\n".
func Format(err *LangError, lines []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %s", err.Kind, err.Message))

	if err.Tok.Line >= 1 && err.Tok.Line <= len(lines) {
		sb.WriteString("\n")
		sb.WriteString(lines[err.Tok.Line-1])
	}

	return sb.String()
}
