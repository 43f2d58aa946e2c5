package calculator

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustEval(t *testing.T, ev *Evaluator, src string) int64 {
	t.Helper()
	v, err := ev.EvalSource(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func wantValue(t *testing.T, src string, want int64) {
	t.Helper()
	if got := mustEval(t, NewEvaluator(), src); got != want {
		t.Fatalf("%s: want %d, got %d", src, want, got)
	}
}

func wantErrIs(t *testing.T, ev *Evaluator, src string, target error) *EvalError {
	t.Helper()
	_, err := ev.EvalSource(src)
	if err == nil {
		t.Fatalf("%s: expected error %v, got nil", src, target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("%s: want %v, got %v", src, target, err)
	}
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("%s: want *EvalError, got %T", src, err)
	}
	if IsSyntaxError(err) {
		t.Fatalf("%s: evaluation errors are not syntax errors", src)
	}
	return ee
}

// --- tests -----------------------------------------------------------------

func Test_Eval_Literals(t *testing.T) {
	for _, n := range []int64{0, 1, 42, 1000000, 9223372036854775807} {
		ev := NewEvaluator()
		stmt := &ExprStmt{Expr: &Literal{Value: n}}
		got, err := ev.Eval(stmt)
		if err != nil || got != n {
			t.Fatalf("literal %d: got %d (err %v)", n, got, err)
		}
	}
	wantValue(t, "42", 42)
}

func Test_Eval_Arithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"1 + 2", 3},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 3 - 2", 5},
		{"100 / 10 / 5", 2},
		{"17 % 5", 2},
		{"7 / 2", 3},
		{"-7 / 2", -3},
		{"-7 % 3", -1},
		{"7 % -3", 1},
		{"-3 + 5", 2},
		{"- - 3", 3},
		{"--3", 3},
		{"+5", 5},
		{"-(2 + 3) * 2", -10},
		{"2 * -3", -6},
		{"((1 + 2) * (3 + 4)) % 5", 1},
	}
	for _, c := range cases {
		wantValue(t, c.src, c.want)
	}
}

func Test_Eval_Wraps_On_Overflow(t *testing.T) {
	wantValue(t, "9223372036854775807 + 1", -9223372036854775808)
	wantValue(t, "9223372036854775808", -9223372036854775808)

	ev := NewEvaluator()
	ev.Set("m", -9223372036854775808)
	if got := mustEval(t, ev, "m / -1"); got != -9223372036854775808 {
		t.Fatalf("min / -1: got %d", got)
	}
	if got := mustEval(t, ev, "m % -1"); got != 0 {
		t.Fatalf("min %% -1: got %d", got)
	}
}

func Test_Eval_Undefined_Variable(t *testing.T) {
	ev := NewEvaluator()
	ee := wantErrIs(t, ev, "x", ErrUndefinedVariable)
	if ee.Name != "x" || ee.Col != 0 {
		t.Fatalf("want x at col 0, got %q at %d", ee.Name, ee.Col)
	}
	ee = wantErrIs(t, ev, "1 + foo * 2", ErrUndefinedVariable)
	if ee.Name != "foo" || ee.Col != 4 {
		t.Fatalf("want foo at col 4, got %q at %d", ee.Name, ee.Col)
	}
	if ev.Len() != 0 {
		t.Fatalf("lookups must not insert variables, have %v", ev.Vars())
	}
	if _, err := ev.Get("x"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("Get on unset: want ErrUndefinedVariable, got %v", err)
	}
}

func Test_Eval_Division_And_Modulo_By_Zero(t *testing.T) {
	ev := NewEvaluator()
	ee := wantErrIs(t, ev, "1 / 0", ErrDivisionByZero)
	if ee.Col != 2 {
		t.Fatalf("want col 2, got %d", ee.Col)
	}
	wantErrIs(t, ev, "1 % 0", ErrModuloByZero)
	wantErrIs(t, ev, "5 / (3 - 3)", ErrDivisionByZero)
	if _, err := ev.EvalSource("1 % 0"); errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("modulo error must not match division sentinel")
	}
}

func Test_Eval_Left_Operand_First(t *testing.T) {
	// Both operands fail; the left one is reported.
	ev := NewEvaluator()
	ee := wantErrIs(t, ev, "a + b", ErrUndefinedVariable)
	if ee.Name != "a" {
		t.Fatalf("want a, got %s", ee.Name)
	}
	wantErrIs(t, ev, "(1 / 0) + b", ErrDivisionByZero)
}

func Test_Eval_Assignment_RoundTrip(t *testing.T) {
	ev := NewEvaluator()
	if got := mustEval(t, ev, "x = 5"); got != 5 {
		t.Fatalf("assignment yields its value, got %d", got)
	}
	if got := mustEval(t, ev, "x"); got != 5 {
		t.Fatalf("want 5, got %d", got)
	}
	if !reflect.DeepEqual(ev.Vars(), []Binding{{Name: "x", Value: 5}}) {
		t.Fatalf("vars: %v", ev.Vars())
	}
	if got := mustEval(t, ev, "y = x * 2 + 1"); got != 11 {
		t.Fatalf("want 11, got %d", got)
	}
	if got := mustEval(t, ev, "x = x + y"); got != 16 {
		t.Fatalf("self-reference: want 16, got %d", got)
	}
}

func Test_Eval_Overwrite_Last_Write_Wins(t *testing.T) {
	ev := NewEvaluator()
	mustEval(t, ev, "x = 1")
	mustEval(t, ev, "x = 2")
	v, err := ev.Get("x")
	if err != nil || v != 2 {
		t.Fatalf("want 2, got %d (err %v)", v, err)
	}
	if ev.Len() != 1 {
		t.Fatalf("want one variable, got %d", ev.Len())
	}
}

func Test_Eval_Failed_Assignment_Leaves_Context(t *testing.T) {
	ev := NewEvaluator()
	wantErrIs(t, ev, "x = 1 / 0", ErrDivisionByZero)
	if _, err := ev.Get("x"); err == nil {
		t.Fatalf("x must stay unset after a failed assignment")
	}
	mustEval(t, ev, "x = 3")
	wantErrIs(t, ev, "x = nope", ErrUndefinedVariable)
	if v, _ := ev.Get("x"); v != 3 {
		t.Fatalf("x must keep 3, got %d", v)
	}
}

func Test_Eval_Parse_Errors_Surface(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.EvalSource("(1 + 2")
	var pe *ParseError
	if !errors.As(err, &pe) || !IsSyntaxError(err) {
		t.Fatalf("want *ParseError, got %T (%v)", err, err)
	}
	if got := mustEval(t, ev, "(1 + 2)"); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
}

func Test_Eval_Strict_Lexing_Option(t *testing.T) {
	lenient := NewEvaluator()
	if got := mustEval(t, lenient, "1 + 2 $ 3"); got != 3 {
		t.Fatalf("lenient: want 3, got %d", got)
	}

	strict := NewEvaluator(WithStrictLexing(true))
	_, err := strict.EvalSource("1 + 2 $ 3")
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("strict: want *LexError, got %T (%v)", err, err)
	}
}

func Test_Eval_Context_Accessors(t *testing.T) {
	ev := NewEvaluator()
	ev.Set("b", 2)
	ev.Set("a", 1)
	ev.Set("c", 3)
	want := []Binding{{"a", 1}, {"b", 2}, {"c", 3}}
	if !reflect.DeepEqual(ev.Vars(), want) {
		t.Fatalf("want %v, got %v", want, ev.Vars())
	}

	if !ev.Delete("b") {
		t.Fatalf("Delete(b) should report true")
	}
	if ev.Delete("b") {
		t.Fatalf("second Delete(b) should report false")
	}
	if _, err := ev.Get("b"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("b should be gone, got %v", err)
	}
	if ev.Len() != 2 {
		t.Fatalf("want 2 variables, got %d", ev.Len())
	}

	// The snapshot is detached from the context.
	snap := ev.Vars()
	snap[0].Value = 99
	if v, _ := ev.Get("a"); v != 1 {
		t.Fatalf("snapshot mutation leaked into the context")
	}

	ev.Clear()
	if len(ev.Vars()) != 0 {
		t.Fatalf("want empty after Clear, got %v", ev.Vars())
	}
}

func Test_Eval_Clear_Is_Idempotent(t *testing.T) {
	ev := NewEvaluator()
	ev.Clear()
	ev.Clear()
	if got := ev.Vars(); len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}

func Test_Eval_Logs_Context_Changes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ev := NewEvaluator(WithLogger(logger))
	mustEval(t, ev, "total = 40 + 2")
	ev.Delete("total")
	ev.Clear()

	out := buf.String()
	for _, want := range []string{`ast="(= total (+ 40 2))"`, "set variable", "name=total", "value=42", "deleted variable", "cleared variables"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}
