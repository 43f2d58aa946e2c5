// lexer.go: byte-oriented tokenizer for calculator statements.
//
// The lexer turns one line of source into tokens on demand. Callers drive it
// with Next, one token at a time, until EOF; Scan drains it in one go.
//
// Recognized input:
//
//	' '                  skipped before every token (tabs are not blanks here)
//	+ - * / % ( )        operator tokens, one byte each
//	=                    ASSIGN
//	[0-9]+               INTEGER, accumulated base 10, wraps silently on overflow
//	[A-Za-z_]+           ID (digits never continue an identifier)
//	end of input         EOF
//
// Anything else ends the token stream. In the default (lenient) mode the
// offending byte is reported as EOF, so `1 + 2 ?junk` lexes exactly like
// `1 + 2`. With WithStrict(true) the same byte yields a *LexError instead.
// Once EOF has been returned, every later call returns EOF again.
package calculator

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota

	// Operators
	PLUS   // "+"
	MINUS  // "-"
	MULT   // "*"
	DIV    // "/"
	MOD    // "%"
	LROUND // "("
	RROUND // ")"

	// Literals & identifiers
	INTEGER
	ID

	ASSIGN // "="
)

var tokenNames = [...]string{
	EOF:     "EOF",
	PLUS:    "PLUS",
	MINUS:   "MINUS",
	MULT:    "MULT",
	DIV:     "DIV",
	MOD:     "MOD",
	LROUND:  "LROUND",
	RROUND:  "RROUND",
	INTEGER: "INTEGER",
	ID:      "ID",
	ASSIGN:  "ASSIGN",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsOperator reports whether t is one of the seven single-byte operators.
func (t TokenType) IsOperator() bool { return t >= PLUS && t <= RROUND }

// Token is a lexical token. Value is only meaningful for INTEGER.
type Token struct {
	Type   TokenType
	Lexeme string // identifier name or raw text; empty for EOF
	Value  int64
	Col    int // 0-based byte offset of the token start
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case INTEGER:
		return fmt.Sprintf("integer %d", t.Value)
	case ID:
		return fmt.Sprintf("identifier %q", t.Lexeme)
	default:
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
}

var singleByte = map[byte]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': MULT,
	'/': DIV,
	'%': MOD,
	'(': LROUND,
	')': RROUND,
	'=': ASSIGN,
}

// LexerOption configures a Lexer.
type LexerOption func(*Lexer)

// WithStrict makes unrecognized characters a *LexError instead of EOF.
func WithStrict(strict bool) LexerOption {
	return func(l *Lexer) { l.strict = strict }
}

// Lexer scans a single line into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	strict bool
	done   bool // EOF already produced
}

// NewLexer creates a new lexer for the given source line.
func NewLexer(src string, opts ...LexerOption) *Lexer {
	l := &Lexer{src: src}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	return ch, true
}

func (l *Lexer) token(tt TokenType) Token {
	return Token{Type: tt, Lexeme: l.src[l.start:l.cur], Col: l.start}
}

func (l *Lexer) eof() Token {
	l.done = true
	return Token{Type: EOF, Col: l.start}
}

func (l *Lexer) skipSpaces() {
	for {
		b, ok := l.peek()
		if !ok || b != ' ' {
			return
		}
		l.advance()
	}
}

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }

// ----- errors -----

// LexError is returned in strict mode for bytes outside the grammar.
type LexError struct {
	Col int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at 1:%d: %s", e.Col+1, e.Msg)
}

// ----- scanners -----

// scanNumber reads a maximal digit run. Overflow wraps.
func (l *Lexer) scanNumber() int64 {
	var n int64
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			return n
		}
		l.advance()
		n = n*10 + int64(b-'0')
	}
}

// scanIdentifier reads a maximal run of [A-Za-z_].
func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isLetter(b) {
			return
		}
		l.advance()
	}
}

// ----- main scanner -----

// Next returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	if l.done {
		return Token{Type: EOF, Col: l.cur}, nil
	}
	l.skipSpaces()
	l.start = l.cur

	ch, ok := l.peek()
	if !ok {
		return l.eof(), nil
	}

	if tt, ok := singleByte[ch]; ok {
		l.advance()
		return l.token(tt), nil
	}

	switch {
	case isDigit(ch):
		n := l.scanNumber()
		tok := l.token(INTEGER)
		tok.Value = n
		return tok, nil
	case isLetter(ch):
		l.scanIdentifier()
		return l.token(ID), nil
	}

	if l.strict {
		l.done = true
		return Token{}, &LexError{Col: l.start, Msg: fmt.Sprintf("unexpected character: %q", ch)}
	}
	return l.eof(), nil
}

// Scan tokenizes the entire line and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}
