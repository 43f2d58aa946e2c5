package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	calculator "github.com/MoefulYe/calculator"
)

const appName = "calc"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `calculator %s (built %s)

Usage:
  %s [options]                 Start the REPL (or read lines from stdin)
  %s -e <expr> [-e <expr>...]  Evaluate expressions and print the results

Options:
  -c <file>   Config file (default ~/%s)
  -e <expr>   Evaluate one line; repeatable, all lines share variables
  -q          Do not print the banner
  -s          Reject characters outside the language
  -v          Debug logging on stderr
  -V          Print the version
  -h          Show this help

`, calculator.Version, calculator.BuildDate, appName, appName, configFile)
}

// run is main without the process exit, so tests can drive it.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(args, "c:e:hqsvV")
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		usage(stderr)
		return 2
	}
	if optind < len(args) {
		fmt.Fprintf(stderr, "%s: unexpected argument %q\n", appName, args[optind])
		usage(stderr)
		return 2
	}

	var (
		cfgPath  = defaultConfigPath()
		explicit bool
		exprs    []string
		quiet    bool
		strict   bool
		verbose  bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			cfgPath, explicit = opt.Value, true
		case 'e':
			exprs = append(exprs, opt.Value)
		case 'q':
			quiet = true
		case 's':
			strict = true
		case 'v':
			verbose = true
		case 'V':
			fmt.Fprintln(stdout, calculator.Version)
			return 0
		case 'h':
			usage(stdout)
			return 0
		}
	}

	cfg, err := loadConfig(cfgPath, explicit)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 2
	}
	if quiet {
		cfg.Banner = false
	}
	if strict {
		cfg.Strict = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	lvl, _ := cfg.level()

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	log.Debug("config loaded", "path", cfgPath, "strict", cfg.Strict, "color", cfg.Color, "history", cfg.historyPath())

	ev := calculator.NewEvaluator(calculator.WithLogger(log), calculator.WithStrictLexing(cfg.Strict))

	if len(exprs) > 0 {
		return runExprs(ev, exprs, stdout, stderr)
	}

	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		s := newSession(ev, cfg, log, colorable.NewColorable(os.Stdout), colorable.NewColorable(os.Stderr))
		return runRepl(s)
	}
	return runBatch(newSession(ev, cfg, log, stdout, stderr), stdin)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runExprs evaluates each -e argument in order and stops at the first failure.
func runExprs(ev *calculator.Evaluator, exprs []string, stdout, stderr io.Writer) int {
	for _, src := range exprs {
		v, err := ev.EvalSource(src)
		if err != nil {
			fmt.Fprint(stderr, calculator.WrapErrorWithSource(err, src).Error())
			return 1
		}
		fmt.Fprintln(stdout, v)
	}
	return 0
}

// runBatch feeds stdin through the session line by line. Errors are reported
// and the run continues; the exit status says whether any line failed.
func runBatch(s *session, stdin io.Reader) int {
	status := 0
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		quit, err := s.handle(sc.Text())
		if err != nil {
			status = 1
		}
		if quit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Error("reading input", "err", err)
		return 1
	}
	return status
}
