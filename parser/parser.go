package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/k2lang/katch/core"
	"github.com/k2lang/katch/expr"
)

// ErrParse is the sentinel wrapped by every syntax error this package
// reports.
var ErrParse = errors.New("parser: syntax error")

// Error is one syntax error with its one-based source position.
type Error struct {
	Line, Col int
	Msg       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser: %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Unwrap makes errors.Is(err, ErrParse) hold for every *Error.
func (e *Error) Unwrap() error { return ErrParse }

// tokKind enumerates lexical token kinds.
type tokKind uint8

const (
	tokEOF tokKind = iota
	tokZero
	tokOne
	tokTop
	tokDup
	tokEnd
	tokField  // x0, x1, ...
	tokAssign // :=
	tokEq     // =
	tokPlus
	tokCaret
	tokMinus
	tokAmp
	tokSemi
	tokBang
	tokStar
	tokLParen
	tokRParen
	tokNext   // X
	tokWNext  // WX
	tokFin    // F
	tokGlob   // G
	tokUntil  // U
	tokWUntil // W
	tokRel    // R
	tokSRel   // S
)

type token struct {
	kind  tokKind
	field core.Field // payload of tokField
	col   int        // one-based column of the first byte
}

// Parse reads every expression in src, one per line, building AST nodes
// in pool with field indices validated against k. The first syntax
// error aborts the file and is returned; expressions parsed before it
// are discarded (the slice returned alongside a non-nil error is nil).
func Parse(src string, k int, pool *expr.Pool) ([]expr.Expr, error) {
	var out []expr.Expr
	for i, line := range strings.Split(src, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		toks, err := scan(line, i+1)
		if err != nil {
			return nil, err
		}
		p := &lineParser{toks: toks, line: i + 1, k: k, pool: pool}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokEOF {
			return nil, p.errorf("trailing input after expression")
		}
		out = append(out, e)
	}
	return out, nil
}

// scan tokenizes one source line.
func scan(line string, lineNo int) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		col := i + 1
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '0':
			toks = append(toks, token{tokZero, 0, col})
			i++
		case c == '1':
			toks = append(toks, token{tokOne, 0, col})
			i++
		case c == '+':
			toks = append(toks, token{tokPlus, 0, col})
			i++
		case c == '^':
			toks = append(toks, token{tokCaret, 0, col})
			i++
		case c == '-':
			toks = append(toks, token{tokMinus, 0, col})
			i++
		case c == '&':
			toks = append(toks, token{tokAmp, 0, col})
			i++
		case c == ';':
			toks = append(toks, token{tokSemi, 0, col})
			i++
		case c == '!':
			toks = append(toks, token{tokBang, 0, col})
			i++
		case c == '*':
			toks = append(toks, token{tokStar, 0, col})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, 0, col})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, 0, col})
			i++
		case c == '=':
			toks = append(toks, token{tokEq, 0, col})
			i++
		case c == ':':
			if i+1 < len(line) && line[i+1] == '=' {
				toks = append(toks, token{tokAssign, 0, col})
				i += 2
			} else {
				return nil, &Error{lineNo, col, "expected ':='"}
			}
		case c == 'x' && i+1 < len(line) && isDigit(line[i+1]):
			j := i + 1
			for j < len(line) && isDigit(line[j]) {
				j++
			}
			n, err := strconv.ParseUint(line[i+1:j], 10, 32)
			if err != nil {
				return nil, &Error{lineNo, col, fmt.Sprintf("bad field index %q", line[i:j])}
			}
			toks = append(toks, token{tokField, core.Field(n), col})
			i = j
		case isAlpha(c):
			j := i
			for j < len(line) && isAlpha(line[j]) {
				j++
			}
			word := line[i:j]
			kind, ok := keywords[word]
			if !ok {
				return nil, &Error{lineNo, col, fmt.Sprintf("unknown word %q", word)}
			}
			toks = append(toks, token{kind, 0, col})
			i = j
		default:
			return nil, &Error{lineNo, col, fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{tokEOF, 0, len(line) + 1})
	return toks, nil
}

var keywords = map[string]tokKind{
	"top": tokTop,
	"dup": tokDup,
	"end": tokEnd,
	"X":   tokNext,
	"WX":  tokWNext,
	"F":   tokFin,
	"G":   tokGlob,
	"U":   tokUntil,
	"W":   tokWUntil,
	"R":   tokRel,
	"S":   tokSRel,
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// lineParser is a recursive-descent parser over one line's tokens.
type lineParser struct {
	toks []token
	pos  int
	line int
	k    int
	pool *expr.Pool
}

func (p *lineParser) peek() token { return p.toks[p.pos] }

func (p *lineParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *lineParser) errorf(format string, args ...any) error {
	return &Error{p.line, p.peek().col, fmt.Sprintf(format, args...)}
}

func (p *lineParser) parseExpr() (expr.Expr, error) {
	return p.parseUntil()
}

// parseUntil handles the right-associative temporal binders U, W, R, S.
func (p *lineParser) parseUntil() (expr.Expr, error) {
	lhs, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	switch p.peek().kind {
	case tokUntil, tokWUntil, tokRel, tokSRel:
		op := p.next().kind
		rhs, err := p.parseUntil()
		if err != nil {
			return 0, err
		}
		switch op {
		case tokUntil:
			return p.pool.Until(lhs, rhs), nil
		case tokWUntil:
			return p.pool.WeakUntil(lhs, rhs), nil
		case tokRel:
			return p.pool.Release(lhs, rhs), nil
		default:
			return p.pool.StrongRelease(lhs, rhs), nil
		}
	}
	return lhs, nil
}

func (p *lineParser) parseSum() (expr.Expr, error) {
	lhs, err := p.parseConj()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			rhs, err := p.parseConj()
			if err != nil {
				return 0, err
			}
			lhs = p.pool.Union(lhs, rhs)
		case tokCaret:
			p.next()
			rhs, err := p.parseConj()
			if err != nil {
				return 0, err
			}
			lhs = p.pool.Xor(lhs, rhs)
		case tokMinus:
			p.next()
			rhs, err := p.parseConj()
			if err != nil {
				return 0, err
			}
			lhs = p.pool.Difference(lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

func (p *lineParser) parseConj() (expr.Expr, error) {
	lhs, err := p.parseSeq()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokAmp {
		p.next()
		rhs, err := p.parseSeq()
		if err != nil {
			return 0, err
		}
		lhs = p.pool.Intersect(lhs, rhs)
	}
	return lhs, nil
}

func (p *lineParser) parseSeq() (expr.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokSemi {
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		lhs = p.pool.Sequence(lhs, rhs)
	}
	return lhs, nil
}

func (p *lineParser) parseUnary() (expr.Expr, error) {
	switch p.peek().kind {
	case tokBang:
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.pool.Complement(e), nil
	case tokNext:
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.pool.Next(e), nil
	case tokWNext:
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.pool.WeakNext(e), nil
	case tokFin:
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.pool.Finally(e), nil
	case tokGlob:
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.pool.Globally(e), nil
	}
	return p.parsePostfix()
}

func (p *lineParser) parsePostfix() (expr.Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokStar {
		p.next()
		e = p.pool.Star(e)
	}
	return e, nil
}

func (p *lineParser) parseAtom() (expr.Expr, error) {
	switch t := p.peek(); t.kind {
	case tokZero:
		p.next()
		return p.pool.Zero(), nil
	case tokOne:
		p.next()
		return p.pool.One(), nil
	case tokTop:
		p.next()
		return p.pool.Top(), nil
	case tokDup:
		p.next()
		return p.pool.Dup(), nil
	case tokEnd:
		p.next()
		return p.pool.End(), nil
	case tokLParen:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek().kind != tokRParen {
			return 0, p.errorf("expected ')'")
		}
		p.next()
		return e, nil
	case tokField:
		p.next()
		if err := core.CheckField(t.field, p.k); err != nil {
			return 0, &Error{p.line, t.col, err.Error()}
		}
		var assign bool
		switch p.peek().kind {
		case tokAssign:
			assign = true
		case tokEq:
		default:
			return 0, p.errorf("expected '=' or ':=' after field")
		}
		p.next()
		var value bool
		switch p.peek().kind {
		case tokZero:
			value = false
		case tokOne:
			value = true
		default:
			return 0, p.errorf("expected '0' or '1'")
		}
		p.next()
		if assign {
			return p.pool.Assign(t.field, value), nil
		}
		return p.pool.Test(t.field, value), nil
	default:
		return 0, p.errorf("expected expression")
	}
}
