// Package expr implements the small, purpose-built boolean expression
// grammar the workflow engine uses for step `if` guards and `jumps[]`
// conditions. It deliberately does not embed a general-purpose scripting
// or expression language: the grammar is closed (comparisons, &&/||/!,
// four named functions) so both document authors and tooling agree on
// exactly what an expression can mean.
package expr

import (
	"strconv"
	"strings"
)

// Undefined is the value an unresolved identifier evaluates to. It
// compares unequal to every concrete value (two undefined operands compare equal)
// and behaves as false under every boolean operator, so a typo'd
// identifier fails conditions instead of panicking.
type Undefined struct{}

func (Undefined) String() string { return "undefined" }

// Context is the flattened name→value lookup an expression is evaluated
// against (the engine's flattened env view).
type Context map[string]interface{}

// Always is the literal expression that forces a step to run regardless
// of a prior critical failure.
const Always = "always()"

// Eval parses and evaluates expr against ctx, returning its boolean
// result. A parse error is reported via err; a comparison with an undefined
// operand is not an error: == and the ordering operators yield false and
// != yields true, per Undefined's rule.
func Eval(expression string, ctx Context) (bool, error) {
	p := &parser{lex: newLexer(expression), ctx: ctx}
	p.advance()
	val, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.tok.kind != tokEOF {
		return false, &SyntaxError{Expr: expression, Pos: p.tok.pos, Msg: "unexpected trailing input"}
	}
	return truthy(val), nil
}

// SyntaxError reports a malformed expression with the byte offset of the
// offending token.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return "expr: " + e.Msg + " at byte " + strconv.Itoa(e.Pos) + " in " + strconv.Quote(e.Expr)
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case Undefined:
		return false
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

// resolve looks up name in ctx, supporting dotted paths against nested
// maps (the flattened env already handles the common case, but selectors
// payloads may still be nested one level).
func resolve(ctx Context, name string) interface{} {
	if v, ok := ctx[name]; ok {
		return v
	}
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		if sub, ok := ctx[parts[0]].(map[string]interface{}); ok {
			return resolve(Context(sub), parts[1])
		}
	}
	return Undefined{}
}
