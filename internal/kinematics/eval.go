package kinematics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// EvalError reports a failed matrix expression: a syntax problem, an
// unknown name, a shape mismatch or a singular inverse.
type EvalError struct {
	Input    string
	Position int
	Reason   string
}

func (e *EvalError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("evaluate %q: %s at offset %d", e.Input, e.Reason, e.Position)
	}
	return fmt.Sprintf("evaluate %q: %s", e.Input, e.Reason)
}

// LookupFunc resolves a matrix name. The evaluator knows nothing about
// registries beyond this.
type LookupFunc func(name string) (*symbolic.Matrix, bool)

// RegistryLookup adapts a Registry, adding the implicit 4x4 identity
// under the name I.
func RegistryLookup(r *Registry) LookupFunc {
	return func(name string) (*symbolic.Matrix, bool) {
		if m, ok := r.Lookup(name); ok {
			return m, true
		}
		if name == "I" {
			return symbolic.Identity(4), true
		}
		return nil, false
	}
}

// Evaluate parses and evaluates a matrix expression over named
// matrices. Grammar:
//
//	expr := term ('*' term)*
//	term := atom ('^T' | '^t' | '^-1')*
//	atom := NAME | '(' expr ')'
//
// Postfix operators apply in reading order, so A^T^-1 transposes first
// and then inverts. A 1x1 operand multiplies entrywise, acting as a
// scalar.
func Evaluate(input string, lookup LookupFunc) (*symbolic.Matrix, error) {
	toks, err := tokenizeMatrixExpr(input)
	if err != nil {
		return nil, err
	}
	p := &matrixParser{input: input, toks: toks}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		t := p.peek()
		return nil, &EvalError{Input: input, Position: t.pos, Reason: "unexpected " + t.text}
	}
	m, err := node.eval(lookup)
	if err != nil {
		return nil, err
	}
	return m.SimplifyAll(), nil
}

// ─── Tokenizer ─────────────────────────────────────────────

type matrixTokKind int

const (
	mtName matrixTokKind = iota
	mtStar
	mtLParen
	mtRParen
	mtTranspose
	mtInverse
)

type matrixToken struct {
	kind matrixTokKind
	text string
	pos  int
}

func tokenizeMatrixExpr(input string) ([]matrixToken, error) {
	var toks []matrixToken
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '*':
			toks = append(toks, matrixToken{kind: mtStar, text: "*", pos: i})
			i++
		case c == '(':
			toks = append(toks, matrixToken{kind: mtLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, matrixToken{kind: mtRParen, text: ")", pos: i})
			i++
		case c == '^':
			rest := input[i+1:]
			switch {
			case strings.HasPrefix(rest, "T"), strings.HasPrefix(rest, "t"):
				toks = append(toks, matrixToken{kind: mtTranspose, text: input[i : i+2], pos: i})
				i += 2
			case strings.HasPrefix(rest, "-1"):
				toks = append(toks, matrixToken{kind: mtInverse, text: "^-1", pos: i})
				i += 3
			default:
				return nil, &EvalError{Input: input, Position: i, Reason: "expected ^T or ^-1"}
			}
		case isNameChar(c):
			start := i
			for i < len(input) && isNameChar(input[i]) {
				i++
			}
			toks = append(toks, matrixToken{kind: mtName, text: input[start:i], pos: start})
		default:
			return nil, &EvalError{Input: input, Position: i, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	if len(toks) == 0 {
		return nil, &EvalError{Input: input, Position: -1, Reason: "empty expression"}
	}
	return toks, nil
}

func isNameChar(c byte) bool {
	return c == '_' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9'
}

// ─── Parser ────────────────────────────────────────────────

type matrixNode interface {
	eval(lookup LookupFunc) (*symbolic.Matrix, error)
}

type nameNode struct {
	input string
	name  string
	pos   int
}

type productNode struct {
	input          string
	factors        []matrixNode
	operatorOffset []int
}

type transposeNode struct{ operand matrixNode }

type inverseNode struct {
	input   string
	pos     int
	operand matrixNode
}

type matrixParser struct {
	input string
	toks  []matrixToken
	pos   int
}

func (p *matrixParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *matrixParser) peek() matrixToken {
	if p.atEnd() {
		return matrixToken{text: "end of input", pos: len(p.input)}
	}
	return p.toks[p.pos]
}

func (p *matrixParser) parseExpr() (matrixNode, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	prod := &productNode{input: p.input, factors: []matrixNode{first}}
	for !p.atEnd() && p.toks[p.pos].kind == mtStar {
		opPos := p.toks[p.pos].pos
		p.pos++
		next, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		prod.factors = append(prod.factors, next)
		prod.operatorOffset = append(prod.operatorOffset, opPos)
	}
	if len(prod.factors) == 1 {
		return first, nil
	}
	return prod, nil
}

func (p *matrixParser) parseTerm() (matrixNode, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for !p.atEnd() {
		t := p.toks[p.pos]
		switch t.kind {
		case mtTranspose:
			p.pos++
			node = &transposeNode{operand: node}
		case mtInverse:
			p.pos++
			node = &inverseNode{input: p.input, pos: t.pos, operand: node}
		default:
			return node, nil
		}
	}
	return node, nil
}

func (p *matrixParser) parseAtom() (matrixNode, error) {
	if p.atEnd() {
		return nil, &EvalError{Input: p.input, Position: len(p.input), Reason: "unexpected end of input"}
	}
	t := p.toks[p.pos]
	switch t.kind {
	case mtName:
		p.pos++
		return &nameNode{input: p.input, name: t.text, pos: t.pos}, nil
	case mtLParen:
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.toks[p.pos].kind != mtRParen {
			return nil, &EvalError{Input: p.input, Position: p.peek().pos, Reason: "missing closing parenthesis"}
		}
		p.pos++
		return inner, nil
	}
	return nil, &EvalError{Input: p.input, Position: t.pos, Reason: "unexpected " + t.text}
}

// ─── Evaluation ────────────────────────────────────────────

func (n *nameNode) eval(lookup LookupFunc) (*symbolic.Matrix, error) {
	m, ok := lookup(n.name)
	if !ok {
		return nil, &EvalError{Input: n.input, Position: n.pos, Reason: fmt.Sprintf("unknown matrix %q", n.name)}
	}
	return m, nil
}

func (n *productNode) eval(lookup LookupFunc) (*symbolic.Matrix, error) {
	acc, err := n.factors[0].eval(lookup)
	if err != nil {
		return nil, err
	}
	for i, f := range n.factors[1:] {
		right, err := f.eval(lookup)
		if err != nil {
			return nil, err
		}
		next, err := mulOrScale(acc, right)
		if err != nil {
			return nil, &EvalError{Input: n.input, Position: n.operatorOffset[i], Reason: err.Error()}
		}
		acc = next
	}
	return acc, nil
}

// mulOrScale multiplies two matrices, treating a 1x1 operand as a
// scalar applied entrywise.
func mulOrScale(left, right *symbolic.Matrix) (*symbolic.Matrix, error) {
	if left.Rows() == 1 && left.Cols() == 1 {
		s := left.Get(0, 0)
		return right.Map(func(e symbolic.Expr) symbolic.Expr { return symbolic.MulOf(s, e) }), nil
	}
	if right.Rows() == 1 && right.Cols() == 1 {
		s := right.Get(0, 0)
		return left.Map(func(e symbolic.Expr) symbolic.Expr { return symbolic.MulOf(s, e) }), nil
	}
	return left.Mul(right)
}

func (n *transposeNode) eval(lookup LookupFunc) (*symbolic.Matrix, error) {
	m, err := n.operand.eval(lookup)
	if err != nil {
		return nil, err
	}
	return m.Transpose(), nil
}

func (n *inverseNode) eval(lookup LookupFunc) (*symbolic.Matrix, error) {
	m, err := n.operand.eval(lookup)
	if err != nil {
		return nil, err
	}
	inv, err := m.Inverse()
	if err != nil {
		if errors.Is(err, symbolic.ErrSingular) {
			return nil, &EvalError{Input: n.input, Position: n.pos, Reason: "matrix is singular"}
		}
		return nil, &EvalError{Input: n.input, Position: n.pos, Reason: err.Error()}
	}
	return inv, nil
}
