package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/tevino/abool/v2"

	calculator "github.com/MoefulYe/calculator"
)

const helpText = `Commands:
  exit          Leave the calculator
  vars          List all variables
  clear         Remove all variables
  del <name>    Remove one variable
  :ast <line>   Show the parse tree of a line
  help          Show this text

Anything else is evaluated, e.g. x = (1 + 2) * 3
`

var commandWords = []string{"exit", "vars", "clear", "del ", ":ast ", "help"}

// session is one evaluator plus its output streams. It knows nothing about
// terminals, so batch mode and tests drive it with plain readers and writers.
type session struct {
	ev     *calculator.Evaluator
	cfg    *Config
	log    *slog.Logger
	out    io.Writer
	errOut io.Writer

	value *color.Color
	fail  *color.Color
	note  *color.Color
}

func newSession(ev *calculator.Evaluator, cfg *Config, log *slog.Logger, out, errOut io.Writer) *session {
	s := &session{
		ev:     ev,
		cfg:    cfg,
		log:    log,
		out:    out,
		errOut: errOut,
		value:  color.New(color.FgHiBlue),
		fail:   color.New(color.FgRed),
		note:   color.New(color.FgGreen),
	}
	if !cfg.Color {
		s.value.DisableColor()
		s.fail.DisableColor()
		s.note.DisableColor()
	}
	return s
}

// handle runs one input line. quit reports an exit request; err is the
// failure already shown to the user, returned so callers can count it.
func (s *session) handle(line string) (quit bool, err error) {
	cmd := strings.TrimSpace(line)
	switch {
	case cmd == "":
		return false, nil
	case cmd == "exit":
		s.note.Fprintln(s.out, "Goodbye!")
		return true, nil
	case cmd == "help":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case cmd == "vars":
		for _, b := range s.ev.Vars() {
			fmt.Fprintf(s.out, "%s = %d\n", b.Name, b.Value)
		}
		return false, nil
	case cmd == "clear":
		s.ev.Clear()
		return false, nil
	case cmd == "del" || strings.HasPrefix(cmd, "del "):
		return false, s.del(strings.TrimSpace(strings.TrimPrefix(cmd, "del")))
	case cmd == ":ast" || strings.HasPrefix(cmd, ":ast "):
		return false, s.ast(strings.TrimSpace(strings.TrimPrefix(cmd, ":ast")))
	}
	return false, s.eval(line)
}

func (s *session) del(name string) error {
	if name == "" {
		err := errors.New("usage: del <name>")
		s.fail.Fprintln(s.errOut, err)
		return err
	}
	if !s.ev.Delete(name) {
		err := &calculator.EvalError{Kind: calculator.UndefinedVariable, Name: name, Col: -1}
		s.fail.Fprintln(s.errOut, err)
		return err
	}
	return nil
}

func (s *session) ast(src string) error {
	stmt, err := calculator.Parse(src, calculator.WithStrict(s.cfg.Strict))
	if err != nil {
		s.fail.Fprint(s.errOut, calculator.WrapErrorWithSource(err, src).Error())
		return err
	}
	fmt.Fprintln(s.out, calculator.SExpr(stmt))
	return nil
}

func (s *session) eval(line string) error {
	v, err := s.ev.EvalSource(line)
	if err != nil {
		s.log.Debug("evaluation failed", "line", line, "syntax", calculator.IsSyntaxError(err))
		s.fail.Fprint(s.errOut, calculator.WrapErrorWithSource(err, line).Error())
		return err
	}
	fmt.Fprint(s.out, s.cfg.ResultPrefix)
	s.value.Fprintln(s.out, v)
	return nil
}

// -----------------------------------------------------------------------------
// interactive loop
// -----------------------------------------------------------------------------

func completeCommand(line string) (c []string) {
	for _, w := range commandWords {
		if strings.HasPrefix(w, strings.ToLower(line)) {
			c = append(c, w)
		}
	}
	return
}

// onSignal runs fn if a signal arrives before done is closed.
func onSignal(sigc <-chan os.Signal, done <-chan struct{}, fn func()) {
	select {
	case <-sigc:
		fn()
	case <-done:
	}
}

func runRepl(s *session) int {
	if s.cfg.Banner {
		fmt.Fprintf(s.out, "calculator %s\nCtrl+C cancels input, Ctrl+D exits. Type help for commands.\n", calculator.Version)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeCommand)

	histPath := s.cfg.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	// History is written once, by whichever of the normal exit path and the
	// signal handler gets there first.
	saved := abool.New()
	saveHistory := func() {
		if histPath == "" || !saved.SetToIf(false, true) {
			return
		}
		f, err := os.Create(histPath)
		if err != nil {
			s.log.Debug("cannot write history", "path", histPath, "err", err)
			return
		}
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	defer saveHistory()

	sigc := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer func() {
		signal.Stop(sigc)
		close(done)
	}()
	go onSignal(sigc, done, func() {
		saveHistory()
		ln.Close()
		os.Exit(130)
	})

	for {
		line, err := ln.Prompt(s.cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Error("reading input", "err", err)
			}
			fmt.Fprintln(s.out)
			return 0
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if quit, _ := s.handle(line); quit {
			return 0
		}
	}
}
