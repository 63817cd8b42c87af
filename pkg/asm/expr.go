package asm

import (
	"strings"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// exprTokenKind classifies one lexical unit of a constant expression.
type exprTokenKind int

const (
	tokNumber exprTokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type exprToken struct {
	kind exprTokenKind
	text string
}

func tokenizeExpr(expr string) ([]exprToken, error) {
	var tokens []exprToken
	runes := []rune(expr)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t':
			i++
		case r == '(':
			tokens = append(tokens, exprToken{tokLParen, "("})
			i++
		case r == ')':
			tokens = append(tokens, exprToken{tokRParen, ")"})
			i++
		case strings.ContainsRune("+-*/&|^~<>$", r):
			tokens = append(tokens, exprToken{tokOp, string(r)})
			i++
		case r == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			if j >= len(runes) {
				return nil, errInvalidCharLiteral(expr)
			}
			tokens = append(tokens, exprToken{tokNumber, string(runes[i : j+1])})
			i = j + 1
		case isIdentStart(r) || (r >= '0' && r <= '9'):
			j := i
			for j < len(runes) && isIdentPart(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if isLeadingDigit(word) {
				tokens = append(tokens, exprToken{tokNumber, word})
			} else {
				tokens = append(tokens, exprToken{tokIdent, word})
			}
			i = j
		default:
			return nil, utils.MakeError(ErrSemantic, "invalid character %q in expression %q", r, expr)
		}
	}

	tokens = append(tokens, exprToken{tokEOF, ""})
	return tokens, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isLeadingDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// exprValue is an intermediate evaluation result tagged with whether it is
// section-relative (an address) or absolute (a plain number). Subtracting
// two relative values yields an absolute distance; adding an absolute
// offset to a relative value, or subtracting one from it, yields a
// relative value; every other mixture is an error.
type exprValue struct {
	value    int64
	relative bool
}

type exprParser struct {
	tokens []exprToken
	pos    int
	symtab *SymbolTable
	lc     uint16
	expr   string
}

func (p *exprParser) peek() exprToken {
	return p.tokens[p.pos]
}

func (p *exprParser) next() exprToken {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

// binary operator precedence levels, lowest to highest, over the operator
// set "+ - * / & | ^ ~ < >" with "<"/">" read as shift-left/right.
var exprPrecedence = []map[string]bool{
	{"|": true},
	{"^": true},
	{"&": true},
	{"<": true, ">": true},
	{"+": true, "-": true},
	{"*": true, "/": true},
}

func (p *exprParser) parseExpr(level int) (exprValue, error) {
	if level >= len(exprPrecedence) {
		return p.parseUnary()
	}

	left, err := p.parseExpr(level + 1)
	if err != nil {
		return exprValue{}, err
	}

	for {
		tok := p.peek()
		if tok.kind != tokOp || !exprPrecedence[level][tok.text] {
			return left, nil
		}
		p.next()

		right, err := p.parseExpr(level + 1)
		if err != nil {
			return exprValue{}, err
		}

		left, err = combineExprValues(tok.text, left, right)
		if err != nil {
			return exprValue{}, utils.MakeError(ErrSemantic, "%v in expression %q", err, p.expr)
		}
	}
}

func (p *exprParser) parseUnary() (exprValue, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "~") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return exprValue{}, err
		}
		if operand.relative {
			return exprValue{}, utils.MakeError(ErrSemantic,
				"unary %q cannot apply to a relative value in expression %q", tok.text, p.expr)
		}
		if tok.text == "-" {
			return exprValue{value: -operand.value}, nil
		}
		return exprValue{value: ^operand.value}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (exprValue, error) {
	tok := p.next()

	switch tok.kind {
	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return exprValue{}, err
		}
		if p.peek().kind != tokRParen {
			return exprValue{}, utils.MakeError(ErrSemantic, "unbalanced parentheses in expression %q", p.expr)
		}
		p.next()
		return inner, nil

	case tokNumber:
		value, ok, err := NumericLiteral(tok.text)
		if err != nil {
			return exprValue{}, err
		}
		if !ok {
			return exprValue{}, utils.MakeError(ErrSemantic, "invalid numeric literal %q", tok.text)
		}
		return exprValue{value: value}, nil

	case tokOp:
		if tok.text == "$" {
			return exprValue{value: int64(p.lc), relative: true}, nil
		}
		return exprValue{}, utils.MakeError(ErrSemantic, "unexpected operator %q in expression %q", tok.text, p.expr)

	case tokIdent:
		sym := p.symtab.Lookup(tok.text)
		if sym == nil || (!sym.Defined && sym.Type != SymExternal) {
			return exprValue{}, utils.MakeError(ErrSemantic, "undefined symbol %q in expression %q", tok.text, p.expr)
		}
		if sym.Type == SymExternal {
			return exprValue{}, utils.MakeError(ErrSemantic,
				"external symbol %q cannot be used in a constant expression", tok.text)
		}
		relative := sym.Type == SymRelative || sym.Type == SymCode || sym.Type == SymData
		return exprValue{value: int64(sym.Value), relative: relative}, nil

	default:
		return exprValue{}, utils.MakeError(ErrSemantic, "unexpected end of expression %q", p.expr)
	}
}

func combineExprValues(op string, left, right exprValue) (exprValue, error) {
	switch {
	case !left.relative && !right.relative:
		v, err := applyOp(op, left.value, right.value)
		return exprValue{value: v}, err

	case left.relative && right.relative && op == "-":
		return exprValue{value: left.value - right.value}, nil

	case left.relative && !right.relative && (op == "+" || op == "-"):
		v, err := applyOp(op, left.value, right.value)
		return exprValue{value: v, relative: true}, err

	case !left.relative && right.relative && op == "+":
		return exprValue{value: left.value + right.value, relative: true}, nil

	default:
		return exprValue{}, utils.MakeError(ErrSemantic,
			"invalid mixing of relative and absolute values with operator %q", op)
	}
}

func applyOp(op string, l, r int64) (int64, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, utils.MakeError(ErrSemantic, "division by zero")
		}
		return l / r, nil
	case "&":
		return l & r, nil
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil
	case "<":
		return l << uint(r), nil
	case ">":
		return l >> uint(r), nil
	default:
		panic("unreachable")
	}
}

// EvaluateExpr evaluates a constant expression as used by `.equ`/`.set`:
// precedence-climbing over "+ - * / & | ^ ~ < >" and
// parentheses, with symbol lookups resolved against symtab and "$"
// standing for the current location counter lc. The result is reduced
// modulo 2^16; a raw value outside [-32768, 65535] is an error.
func EvaluateExpr(expr string, symtab *SymbolTable, lc uint16) (uint16, SymbolType, error) {
	tokens, err := tokenizeExpr(expr)
	if err != nil {
		return 0, SymAbsolute, err
	}

	p := &exprParser{tokens: tokens, symtab: symtab, lc: lc, expr: expr}
	result, err := p.parseExpr(0)
	if err != nil {
		return 0, SymAbsolute, err
	}
	if p.peek().kind != tokEOF {
		return 0, SymAbsolute, utils.MakeError(ErrSemantic, "unexpected trailing input in expression %q", expr)
	}

	if result.value < -32768 || result.value > 65535 {
		return 0, SymAbsolute, utils.MakeError(ErrSemantic, "value %d out of 16-bit range in expression %q", result.value, expr)
	}

	value := uint16(uint64(result.value) & 0xFFFF)
	typ := SymAbsolute
	if result.relative {
		typ = SymRelative
	}
	return value, typ, nil
}
