package calculator

import (
	"context"
	"io"
	"log/slog"
	"sort"
)

// Binding is one entry of the variable context.
type Binding struct {
	Name  string
	Value int64
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets the logger used for debug traces of context changes.
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(ev *Evaluator) {
		if logger != nil {
			ev.log = logger
		}
	}
}

// WithStrictLexing makes EvalSource reject characters outside the grammar
// instead of treating them as end of input.
func WithStrictLexing(strict bool) EvaluatorOption {
	return func(ev *Evaluator) { ev.strict = strict }
}

// Evaluator walks statements against a persistent variable context.
//
// The context starts empty and lives as long as the Evaluator. Looking up an
// unset identifier is an error; nothing is ever inserted implicitly.
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	vars   map[string]int64
	strict bool
	log    *slog.Logger
}

// NewEvaluator returns an Evaluator with an empty context.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	ev := &Evaluator{
		vars: make(map[string]int64),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// EvalSource parses line and evaluates it.
func (ev *Evaluator) EvalSource(line string) (int64, error) {
	stmt, err := Parse(line, WithStrict(ev.strict))
	if err != nil {
		return 0, err
	}
	if ev.log.Enabled(context.Background(), slog.LevelDebug) {
		ev.log.Debug("parsed", "ast", SExpr(stmt))
	}
	return ev.Eval(stmt)
}

// Eval evaluates stmt. An assignment updates the context only when its
// right-hand side evaluated successfully.
func (ev *Evaluator) Eval(stmt Statement) (int64, error) {
	switch s := stmt.(type) {
	case *AssignStmt:
		v, err := ev.eval(s.Value)
		if err != nil {
			return 0, err
		}
		ev.Set(s.Name, v)
		return v, nil
	case *ExprStmt:
		return ev.eval(s.Expr)
	}
	panic("calculator: unknown statement type")
}

func (ev *Evaluator) eval(n Node) (int64, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil
	case *Identifier:
		v, ok := ev.vars[n.Name]
		if !ok {
			return 0, &EvalError{Kind: UndefinedVariable, Name: n.Name, Col: n.Pos}
		}
		return v, nil
	case *Negative:
		v, err := ev.eval(n.Child)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *Binary:
		return ev.evalBinary(n)
	}
	panic("calculator: unknown node type")
}

func (ev *Evaluator) evalBinary(n *Binary) (int64, error) {
	l, err := ev.eval(n.Left)
	if err != nil {
		return 0, err
	}
	r, err := ev.eval(n.Right)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case Add:
		return l + r, nil
	case Sub:
		return l - r, nil
	case Mul:
		return l * r, nil
	case Div:
		if r == 0 {
			return 0, &EvalError{Kind: DivisionByZero, Col: n.Pos}
		}
		return l / r, nil
	case Mod:
		if r == 0 {
			return 0, &EvalError{Kind: ModuloByZero, Col: n.Pos}
		}
		return l % r, nil
	}
	panic("calculator: unknown binary operator " + n.Op.String())
}

// ───────────────────────────── context accessors ────────────────────────────

// Get returns the value of name, or an UndefinedVariable *EvalError.
func (ev *Evaluator) Get(name string) (int64, error) {
	v, ok := ev.vars[name]
	if !ok {
		return 0, &EvalError{Kind: UndefinedVariable, Name: name, Col: -1}
	}
	return v, nil
}

// Set binds name to value, overwriting any previous value.
func (ev *Evaluator) Set(name string, value int64) {
	ev.vars[name] = value
	ev.log.Debug("set variable", "name", name, "value", value)
}

// Delete removes name and reports whether it was present.
func (ev *Evaluator) Delete(name string) bool {
	if _, ok := ev.vars[name]; !ok {
		return false
	}
	delete(ev.vars, name)
	ev.log.Debug("deleted variable", "name", name)
	return true
}

// Clear removes every variable.
func (ev *Evaluator) Clear() {
	n := len(ev.vars)
	clear(ev.vars)
	ev.log.Debug("cleared variables", "count", n)
}

// Len returns the number of variables.
func (ev *Evaluator) Len() int { return len(ev.vars) }

// Vars returns a snapshot of the context sorted by name.
func (ev *Evaluator) Vars() []Binding {
	out := make([]Binding, 0, len(ev.vars))
	for name, v := range ev.vars {
		out = append(out, Binding{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
