package symbolic

import (
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strings"
)

// ParseError describes why an input string could not be read as an
// expression. Position is a byte offset into the rewritten input, or -1
// when the failure is not tied to one location.
type ParseError struct {
	Input    string
	Position int
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("parse %q: %s at offset %d", e.Input, e.Reason, e.Position)
	}
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

// knownFuncs is the closed set of function names the parser accepts.
// Anything else written with call syntax is rejected rather than
// treated as an unknown symbol.
var knownFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sqrt": true, "abs": true, "exp": true, "ln": true,
}

var (
	thetaShorthand = regexp.MustCompile(`\b[Tt]([0-9]*)\b`)
	alphaShorthand = regexp.MustCompile(`\b[Aa]([0-9]*)\b`)
)

// RewriteShorthand expands the joint-parameter abbreviations: a bare t
// or tN becomes theta or thetaN, a bare a or aN becomes alpha or
// alphaN. Only whole words are touched, so names like "table" pass
// through unchanged.
func RewriteShorthand(input string) string {
	out := thetaShorthand.ReplaceAllString(input, "theta$1")
	out = alphaShorthand.ReplaceAllString(out, "alpha$1")
	return out
}

// Env is the name environment for parsing. It starts with pi bound and
// accumulates the symbols inferred from input.
type Env struct {
	bindings map[string]Expr
}

func NewEnv() *Env {
	return &Env{bindings: map[string]Expr{"pi": Pi}}
}

// Bind adds a name to the environment.
func (env *Env) Bind(name string, value Expr) { env.bindings[name] = value }

// Names returns the bound names in sorted order.
func (env *Env) Names() []string {
	out := make([]string, 0, len(env.bindings))
	for name := range env.bindings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Parse reads a parameter expression. Shorthand is rewritten first,
// then the input is parsed against env; names that are neither bound
// nor function names are inferred as positive real symbols and the
// parse is retried once.
func Parse(input string, env *Env) (Expr, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, &ParseError{Input: input, Position: -1, Reason: "empty expression"}
	}
	rewritten := RewriteShorthand(trimmed)

	expr, err := parseStrict(rewritten, env)
	if err == nil {
		return expr, nil
	}
	var undecl *undeclaredError
	if !asUndeclared(err, &undecl) {
		return nil, err
	}
	for _, name := range undecl.names {
		env.Bind(name, PositiveSym(name))
	}
	expr, err = parseStrict(rewritten, env)
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseAll parses several expressions against one shared environment,
// so a symbol written in two fields is the same symbol in both.
func ParseAll(inputs []string, env *Env) ([]Expr, error) {
	out := make([]Expr, len(inputs))
	for i, in := range inputs {
		e, err := Parse(in, env)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

type undeclaredError struct{ names []string }

func (e *undeclaredError) Error() string {
	return "undeclared names: " + strings.Join(e.names, ", ")
}

func asUndeclared(err error, target **undeclaredError) bool {
	u, ok := err.(*undeclaredError)
	if ok {
		*target = u
	}
	return ok
}

func parseStrict(input string, env *Env) (Expr, error) {
	toks, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &exprParser{input: input, toks: toks, env: env}
	expr, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if len(p.undeclared) > 0 {
		return nil, &undeclaredError{names: p.undeclared}
	}
	if !p.atEnd() {
		return nil, &ParseError{Input: input, Position: p.peek().pos, Reason: "unexpected " + p.peek().text}
	}
	return expr.Simplify(), nil
}

// ─── Tokenizer ─────────────────────────────────────────────

type tokKind int

const (
	tokNumber tokKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func tokenize(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			seenDot := false
			for i < len(input) {
				ch := input[i]
				if ch == '.' {
					if seenDot {
						return nil, &ParseError{Input: input, Position: i, Reason: "malformed number"}
					}
					seenDot = true
					i++
					continue
				}
				if ch < '0' || ch > '9' {
					break
				}
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: input[start:i], pos: start})
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
			start := i
			for i < len(input) && (input[i] == '_' ||
				input[i] >= 'a' && input[i] <= 'z' ||
				input[i] >= 'A' && input[i] <= 'Z' ||
				input[i] >= '0' && input[i] <= '9') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: input[start:i], pos: start})
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		default:
			return nil, &ParseError{Input: input, Position: i, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return toks, nil
}

// ─── Recursive descent ─────────────────────────────────────

type exprParser struct {
	input      string
	toks       []token
	pos        int
	env        *Env
	undeclared []string
}

func (p *exprParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *exprParser) peek() token {
	if p.atEnd() {
		return token{kind: tokOp, text: "end of input", pos: len(p.input)}
	}
	return p.toks[p.pos]
}

func (p *exprParser) accept(kind tokKind, text string) bool {
	if p.atEnd() {
		return false
	}
	t := p.toks[p.pos]
	if t.kind != kind || t.text != text {
		return false
	}
	p.pos++
	return true
}

func (p *exprParser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept(tokOp, "+"):
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left = AddOf(left, right)
		case p.accept(tokOp, "-"):
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left = SubOf(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept(tokOp, "*"):
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		case p.accept(tokOp, "/"):
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = DivOf(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (Expr, error) {
	if p.accept(tokOp, "-") {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), inner), nil
	}
	if p.accept(tokOp, "+") {
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.accept(tokOp, "^") {
		// Right associative: a^b^c is a^(b^c).
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseAtom() (Expr, error) {
	if p.atEnd() {
		return nil, &ParseError{Input: p.input, Position: len(p.input), Reason: "unexpected end of input"}
	}
	t := p.toks[p.pos]
	switch t.kind {
	case tokNumber:
		p.pos++
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, &ParseError{Input: p.input, Position: t.pos, Reason: "malformed number"}
		}
		return numFromRat(r), nil
	case tokLParen:
		p.pos++
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokRParen, ")") {
			return nil, &ParseError{Input: p.input, Position: p.peek().pos, Reason: "missing closing parenthesis"}
		}
		return inner, nil
	case tokIdent:
		p.pos++
		name := t.text
		if p.accept(tokLParen, "(") {
			if !knownFuncs[name] {
				return nil, &ParseError{Input: p.input, Position: t.pos, Reason: fmt.Sprintf("unknown function %q", name)}
			}
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if !p.accept(tokRParen, ")") {
				return nil, &ParseError{Input: p.input, Position: p.peek().pos, Reason: "missing closing parenthesis"}
			}
			if name == "sqrt" {
				return SqrtOf(arg), nil
			}
			return FuncOf(name, arg), nil
		}
		if bound, ok := p.env.bindings[name]; ok {
			return bound, nil
		}
		p.noteUndeclared(name)
		return S(name), nil
	}
	return nil, &ParseError{Input: p.input, Position: t.pos, Reason: "unexpected " + t.text}
}

func (p *exprParser) noteUndeclared(name string) {
	for _, n := range p.undeclared {
		if n == name {
			return
		}
	}
	p.undeclared = append(p.undeclared, name)
}
