package calculator

import (
	"strconv"
	"strings"
)

/* ---------- statement -> canonical source ---------- */

// Format renders stmt as canonical source with the fewest parentheses that
// preserve its structure. Parsing the result yields an equal tree.
func Format(stmt Statement) string {
	var b strings.Builder
	switch s := stmt.(type) {
	case *AssignStmt:
		b.WriteString(s.Name)
		b.WriteString(" = ")
		printExpr(&b, s.Value)
	case *ExprStmt:
		printExpr(&b, s.Expr)
	}
	return b.String()
}

// FormatNode renders a single expression tree.
func FormatNode(n Node) string {
	var b strings.Builder
	printExpr(&b, n)
	return b.String()
}

func prec(n Node) precedence {
	if bin, ok := n.(*Binary); ok {
		if bin.Op == Add || bin.Op == Sub {
			return precAddSub
		}
		return precMulDivMod
	}
	return precPrefix
}

func printExpr(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		writeLiteral(b, n)
	case *Identifier:
		b.WriteString(n.Name)
	case *Negative:
		b.WriteByte('-')
		// wrap nested negatives too so the output reads as -(-x)
		if _, neg := n.Child.(*Negative); neg || prec(n.Child) < precPrefix {
			printParen(b, n.Child)
		} else {
			printExpr(b, n.Child)
		}
	case *Binary:
		my := prec(n)
		if prec(n.Left) < my {
			printParen(b, n.Left)
		} else {
			printExpr(b, n.Left)
		}
		b.WriteString(" " + n.Op.String() + " ")
		// equal precedence on the right needs parens: operators are left-associative
		if prec(n.Right) <= my {
			printParen(b, n.Right)
		} else {
			printExpr(b, n.Right)
		}
	}
}

// writeLiteral prints the digits the lexer read. Literals are unsigned in the
// grammar, so a wrapped 9223372036854775808 prints as itself and lexes back
// to the same bits.
func writeLiteral(b *strings.Builder, n *Literal) {
	b.WriteString(strconv.FormatUint(uint64(n.Value), 10))
}

func printParen(b *strings.Builder, n Node) {
	b.WriteByte('(')
	printExpr(b, n)
	b.WriteByte(')')
}

/* ---------- statement -> S-expression dump ---------- */

// SExpr renders stmt as a fully parenthesized prefix tree, e.g.
// `x = 1 + 2 * 3` becomes `(= x (+ 1 (* 2 3)))`.
func SExpr(stmt Statement) string {
	var b strings.Builder
	switch s := stmt.(type) {
	case *AssignStmt:
		b.WriteString("(= ")
		b.WriteString(s.Name)
		b.WriteByte(' ')
		sexpr(&b, s.Value)
		b.WriteByte(')')
	case *ExprStmt:
		sexpr(&b, s.Expr)
	}
	return b.String()
}

func sexpr(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		writeLiteral(b, n)
	case *Identifier:
		b.WriteString(n.Name)
	case *Negative:
		b.WriteString("(neg ")
		sexpr(b, n.Child)
		b.WriteByte(')')
	case *Binary:
		b.WriteByte('(')
		b.WriteString(n.Op.String())
		b.WriteByte(' ')
		sexpr(b, n.Left)
		b.WriteByte(' ')
		sexpr(b, n.Right)
		b.WriteByte(')')
	}
}
