// parser.go: precedence-climbing parser for calculator statements.
//
// OVERVIEW
// --------
// The parser reads one line through a Lexer and builds exactly one
// Statement. It keeps two tokens in view: the current token and a single
// buffered lookahead. Every decision is made from those two; advancing is
// always an explicit call to p.advance.
//
// Grammar (lowest to highest binding):
//
//	statement  := ID '=' expr | expr
//	expr       := prefix (infixOp expr)*      // climbing on precedence
//	prefix     := ('+' | '-') expr@PREFIX | '(' expr ')' | ID | INTEGER
//	infixOp    := '+' | '-'                   // ADD_SUB
//	            | '*' | '/' | '%'             // MUL_DIV_MOD
//
// Equal-precedence operators associate to the left: the right operand of an
// infix operator is parsed at that operator's own precedence, so the loop
// only continues for strictly tighter operators.
//
// The whole line must be consumed. Tokens left over after a complete
// statement are a parse error, as is an assignment whose target is not an
// identifier.
//
// Dependencies
// ------------
//   - lexer.go (Lexer, Token, LexerOption)
//   - ast.go (Node, Statement and friends)
//   - errors.go (*ParseError)
package calculator

import (
	"fmt"

	"github.com/edwingeng/deque"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parse parses a complete source line into a Statement.
func Parse(src string, opts ...LexerOption) (Statement, error) {
	p, err := NewParser(src, opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseStatement()
}

// Parser holds the current token and one token of lookahead.
type Parser struct {
	lex       *Lexer
	cur Token
	// lookahead buffers the tokens after cur; the grammar needs only one,
	// a deeper peek would push more here.
	lookahead deque.Deque
}

// NewParser creates a parser over src and eagerly reads the first two tokens.
func NewParser(src string, opts ...LexerOption) (*Parser, error) {
	p := &Parser{lex: NewLexer(src, opts...), lookahead: deque.NewDeque()}
	first, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	second, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	p.cur = first
	p.lookahead.PushBack(second)
	return p, nil
}

// ParseStatement parses the whole line as one statement.
func (p *Parser) ParseStatement() (Statement, error) {
	var stmt Statement
	if p.next().Type == ASSIGN {
		target := p.cur
		if target.Type != ID {
			return nil, p.errAt(target, "assignment target must be an identifier, got %s", target)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.expr(precLowest)
		if err != nil {
			return nil, err
		}
		stmt = &AssignStmt{Name: target.Lexeme, Value: value, Pos: target.Col}
	} else {
		e, err := p.expr(precLowest)
		if err != nil {
			return nil, err
		}
		stmt = &ExprStmt{Expr: e}
	}

	if extra := p.next(); extra.Type != EOF {
		return nil, p.errAt(extra, "unexpected %s after expression", extra)
	}
	return stmt, nil
}

//// END_OF_PUBLIC

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *Parser) next() Token { return p.lookahead.Front().(Token) }

// advance shifts the lookahead into cur and reads one more token.
func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = p.lookahead.PopFront().(Token)
	p.lookahead.PushBack(tok)
	return nil
}

func (p *Parser) errAt(tok Token, format string, args ...any) error {
	return &ParseError{Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

// ───────────────────────── precedence / associativity ──────────────────────

type precedence int

const (
	precLowest precedence = iota
	precAddSub
	precMulDivMod
	precPrefix
)

func precedenceOf(t TokenType) precedence {
	switch t {
	case PLUS, MINUS:
		return precAddSub
	case MULT, DIV, MOD:
		return precMulDivMod
	}
	return precLowest
}

func binaryOpOf(t TokenType) (BinaryOp, bool) {
	switch t {
	case PLUS:
		return Add, true
	case MINUS:
		return Sub, true
	case MULT:
		return Mul, true
	case DIV:
		return Div, true
	case MOD:
		return Mod, true
	}
	return 0, false
}

// ─────────────────────────────── expressions ───────────────────────────────

// expr parses an expression whose infix operators all bind tighter than min.
// On return p.cur is the last token of the expression.
func (p *Parser) expr(min precedence) (Node, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for p.next().Type != EOF && min < precedenceOf(p.next().Type) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		left, err = p.infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) prefix() (Node, error) {
	t := p.cur
	switch t.Type {
	case PLUS, MINUS:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.expr(precPrefix)
		if err != nil {
			return nil, err
		}
		if t.Type == PLUS {
			return operand, nil
		}
		return &Negative{Child: operand, Pos: t.Col}, nil

	case LROUND:
		return p.grouping()

	case ID:
		return &Identifier{Name: t.Lexeme, Pos: t.Col}, nil

	case INTEGER:
		return &Literal{Value: t.Value, Pos: t.Col}, nil

	case EOF:
		return nil, p.errAt(t, "unexpected end of input, expected an expression")
	}
	return nil, p.errAt(t, "unexpected %s, expected an expression", t)
}

// grouping reads '(' expr ')' with p.cur on the opening parenthesis.
func (p *Parser) grouping() (Node, error) {
	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.next().Type != RROUND {
		got := p.next()
		if got.Type == EOF {
			return nil, p.errAt(got, "expected ')' to close '(' at column %d", open.Col+1)
		}
		return nil, p.errAt(got, "expected ')', got %s", got)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return inner, nil
}

// infix folds left into a Binary with p.cur on the operator token.
func (p *Parser) infix(left Node) (Node, error) {
	opTok := p.cur
	op, ok := binaryOpOf(opTok.Type)
	if !ok {
		return nil, p.errAt(opTok, "internal: %s is not a binary operator", opTok)
	}
	prec := precedenceOf(opTok.Type)
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.expr(prec)
	if err != nil {
		return nil, err
	}
	return &Binary{Op: op, Left: left, Right: right, Pos: opTok.Col}, nil
}
