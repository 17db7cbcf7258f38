package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	tklog "themekit/internal/log"
)

var appVersion = "0.3.0"

// Exit codes
const (
	exitOK               = 0
	exitInvalid          = 1
	exitConfigLoad       = 3
	exitBaselineNotFound = 4
)

// exitError carries an exit code out of a command. A nil err means the
// command already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

// app is the state shared by every command of one invocation.
type app struct {
	ctx     context.Context
	environ []string
	dir     string // working directory used to resolve relative paths
	stdout  io.Writer
	stderr  io.Writer
	log     logr.Logger

	configPath string
	verbose    bool

	ok  *color.Color
	bad *color.Color
}

func main() {
	wd, _ := os.Getwd()
	os.Exit(run(os.Args[1:], os.Environ(), wd, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(args, environ []string, dir string, stdout, stderr io.Writer) int {
	return runContext(context.Background(), args, environ, dir, stdout, stderr)
}

func runContext(ctx context.Context, args, environ []string, dir string, stdout, stderr io.Writer) int {
	a := &app{
		ctx:     ctx,
		environ: environ,
		dir:     dir,
		stdout:  stdout,
		stderr:  stderr,
		log:     logr.Discard(),
		ok:      color.New(color.FgGreen),
		bad:     color.New(color.FgRed, color.Bold),
	}
	if !colorEnabled(stdout, environ) {
		a.ok.DisableColor()
		a.bad.DisableColor()
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	var flush func() error
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		verbosity := 0
		if a.verbose {
			verbosity = 1
		}
		a.log, flush = tklog.New("themekit", tklog.WithConsoleSink(stderr, tklog.Verbosity(verbosity)))
	}

	err := root.ExecuteContext(ctx)
	if flush != nil {
		_ = flush()
	}
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "Error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitInvalid
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "themekit",
		Short:         "Validate, export and track a site's style-tool theme",
		Long:          "themekit loads the theme configuration consumed by the utility-CSS build, validates it, exports it and tracks drift against saved baselines.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "theme file (default: $THEMEKIT_CONFIG, ./themekit.yaml, or the built-in theme)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.showCommand(),
		a.checkCommand(),
		a.exportCommand(),
		a.hashCommand(),
		a.lookupCommand(),
		a.matchCommand(),
		a.baselineCommand(),
		a.driftCommand(),
		a.serveCommand(),
	)
	return root
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer, environ []string) bool {
	if _, set := lookupEnv(environ, "NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// lookupEnv finds name in environ. Later entries win.
func lookupEnv(environ []string, name string) (string, bool) {
	prefix := name + "="
	value, found := "", false
	for _, env := range environ {
		if strings.HasPrefix(env, prefix) {
			value, found = strings.TrimPrefix(env, prefix), true
		}
	}
	return value, found
}

func getEnvBool(environ []string, name string) bool {
	val, _ := lookupEnv(environ, name)
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// ciMode reports whether output should use CI annotations.
func (a *app) ciMode(flag bool) bool {
	return flag || getEnvBool(a.environ, "THEMEKIT_CI") || getEnvBool(a.environ, "CI")
}
