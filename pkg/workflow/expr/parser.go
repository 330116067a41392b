package expr

import (
	"strconv"
	"strings"
)

type parser struct {
	lex *lexer
	tok token
	ctx Context
}

func (p *parser) advance() { p.tok = p.lex.next() }

func (p *parser) expect(kind tokenKind, msg string) error {
	if p.tok.kind != kind {
		return &SyntaxError{Pos: p.tok.pos, Msg: msg}
	}
	p.advance()
	return nil
}

// parseOr : And ('||' And)*
func (p *parser) parseOr() (interface{}, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = truthy(left) || truthy(right)
	}
	return left, nil
}

// parseAnd : Not ('&&' Not)*
func (p *parser) parseAnd() (interface{}, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = truthy(left) && truthy(right)
	}
	return left, nil
}

// parseNot : '!' Not | Comparison
func (p *parser) parseNot() (interface{}, error) {
	if p.tok.kind == tokNot {
		p.advance()
		val, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return !truthy(val), nil
	}
	return p.parseComparison()
}

// parseComparison : Primary (op Primary)?
func (p *parser) parseComparison() (interface{}, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch p.tok.kind {
	case tokEq, tokNeq, tokLt, tokLte, tokGt, tokGte:
		op := p.tok.kind
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return compare(op, left, right), nil
	default:
		return left, nil
	}
}

func compare(op tokenKind, left, right interface{}) bool {
	_, lu := left.(Undefined)
	_, ru := right.(Undefined)
	if lu || ru {
		switch op {
		case tokEq:
			return lu && ru
		case tokNeq:
			return !(lu && ru)
		default:
			return false
		}
	}

	switch op {
	case tokEq:
		return valuesEqual(left, right)
	case tokNeq:
		return !valuesEqual(left, right)
	case tokLt, tokLte, tokGt, tokGte:
		lf, lok := toNumber(left)
		rf, rok := toNumber(right)
		if !lok || !rok {
			return false
		}
		switch op {
		case tokLt:
			return lf < rf
		case tokLte:
			return lf <= rf
		case tokGt:
			return lf > rf
		case tokGte:
			return lf >= rf
		}
	}
	return false
}

func valuesEqual(a, b interface{}) bool {
	if af, aok := toNumber(a); aok {
		if bf, bok := toNumber(b); bok {
			return af == bf
		}
	}
	return toStr(a) == toStr(b)
}

func toNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func toStr(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case nil:
		return ""
	default:
		return ""
	}
}

// parsePrimary : '(' Or ')' | number | string | true | false | ident | ident '(' args ')'
func (p *parser) parsePrimary() (interface{}, error) {
	switch p.tok.kind {
	case tokLParen:
		p.advance()
		val, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "expected ')'"); err != nil {
			return nil, err
		}
		return val, nil
	case tokNumber:
		text := p.tok.text
		p.advance()
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: p.tok.pos, Msg: "invalid number"}
		}
		return f, nil
	case tokString:
		text := p.tok.text
		p.advance()
		return text, nil
	case tokIdent:
		name := p.tok.text
		p.advance()
		if p.tok.kind == tokLParen {
			return p.parseCall(name)
		}
		switch name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return resolve(p.ctx, name), nil
		}
	default:
		return nil, &SyntaxError{Pos: p.tok.pos, Msg: "unexpected token"}
	}
}

// parseCall handles the four named functions: contains, startsWith,
// endsWith, always.
func (p *parser) parseCall(name string) (interface{}, error) {
	if err := p.expect(tokLParen, "expected '('"); err != nil {
		return nil, err
	}
	var args []interface{}
	for p.tok.kind != tokRParen {
		val, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, val)
		if p.tok.kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(tokRParen, "expected ')'"); err != nil {
		return nil, err
	}

	switch name {
	case "always":
		return true, nil
	case "contains":
		if len(args) != 2 {
			return nil, &SyntaxError{Msg: "contains() takes 2 arguments"}
		}
		return strings.Contains(toStr(args[0]), toStr(args[1])), nil
	case "startsWith":
		if len(args) != 2 {
			return nil, &SyntaxError{Msg: "startsWith() takes 2 arguments"}
		}
		return strings.HasPrefix(toStr(args[0]), toStr(args[1])), nil
	case "endsWith":
		if len(args) != 2 {
			return nil, &SyntaxError{Msg: "endsWith() takes 2 arguments"}
		}
		return strings.HasSuffix(toStr(args[0]), toStr(args[1])), nil
	default:
		return nil, &SyntaxError{Msg: "unknown function " + name}
	}
}
