package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/quasar-lang/quasar/compiler"
	"github.com/quasar-lang/quasar/compiler/diag"
)

// version and codename mirror the original CLI's `--version` banner
// (spec.md is silent on versioning; see SPEC_FULL.md's supplemented CLI
// features).
const (
	version  = "0.1.0"
	codename = "vega"
)

func main() {
	compileCmd := &cli.Command{
		Name:   "compile",
		Action: compileAct,
		Args:   cli.Args{},
	}

	runCmd := &cli.Command{
		Name:   "run",
		Action: runAct,
		Args:   cli.Args{},
	}

	checkCmd := &cli.Command{
		Name:   "check",
		Action: checkAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "quasar",
		Description: "quasar compiles Quasar source files to Python 3.10+",
		Action:      rootAct,
		Commands: []*cli.Command{
			compileCmd,
			runCmd,
			checkCmd,
		},
		Args: cli.Args{},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

// rootAct handles `-version` on the bare root command; every other
// invocation is expected to name a subcommand, and cli itself prints usage.
func rootAct(c *cli.Command) (err error) {
	if hasFlag(c.Args, "-version") || hasFlag(c.Args, "--version") {
		fmt.Printf("quasar %s (%s)\n", version, codename)
		return nil
	}
	return errors.New("expected a subcommand: compile, run, check")
}

// compileAct implements `compile <file> [-o <out>]`: writes the emitted
// Python text next to the input with a .py suffix unless -o overrides the
// destination (SPEC_FULL.md "Output path default").
func compileAct(c *cli.Command) (err error) {
	ctx := rootCtx()

	out, rest := takeFlagValue(c.Args, "-o")
	files := positional(rest)
	if len(files) == 0 {
		return errors.New("compile: expected a file argument")
	}

	for _, in := range files {
		dst := out
		if dst == "" {
			dst = defaultOutputPath(in)
		}

		python, diags, err := compiler.CompileFile(ctx, in)
		if err != nil {
			return errors.Wrap(err, "compile %v", in)
		}
		if diags.HasErrors() {
			printDiagnostics(diags)
			os.Exit(1)
		}

		if err := os.WriteFile(dst, []byte(python), 0o644); err != nil {
			return errors.Wrap(err, "write %v", dst)
		}

		fmt.Printf("compiled: %s -> %s\n", in, dst)
	}

	return nil
}

// runAct implements `run <file>`: compile then hand the result to the host
// Python interpreter. A compilation failure aborts before invoking the
// runtime (spec.md §7's "User-visible failure").
func runAct(c *cli.Command) (err error) {
	ctx := rootCtx()

	files := positional(c.Args)
	if len(files) == 0 {
		return errors.New("run: expected a file argument")
	}

	for _, in := range files {
		python, diags, err := compiler.CompileFile(ctx, in)
		if err != nil {
			return errors.Wrap(err, "compile %v", in)
		}
		if diags.HasErrors() {
			printDiagnostics(diags)
			os.Exit(1)
		}

		cmd := exec.CommandContext(ctx, "python3", "-c", python)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin

		if err := cmd.Run(); err != nil {
			tlog.SpanFromContext(ctx).Printw("run failed", "file", in, "err", err)
			os.Exit(2)
		}
	}

	return nil
}

// checkAct implements `check <file>`: run the pipeline through analysis
// only and report success or the accumulated diagnostics.
func checkAct(c *cli.Command) (err error) {
	ctx := rootCtx()

	files := positional(c.Args)
	if len(files) == 0 {
		return errors.New("check: expected a file argument")
	}

	failed := false
	for _, in := range files {
		text, err := os.ReadFile(in)
		if err != nil {
			return errors.Wrap(err, "read %v", in)
		}

		diags := compiler.Check(ctx, in, text)
		if diags.HasErrors() {
			printDiagnostics(diags)
			failed = true
			continue
		}

		fmt.Printf("ok: %s\n", in)
	}

	if failed {
		os.Exit(1)
	}
	return nil
}

func rootCtx() context.Context {
	ctx := context.Background()
	return tlog.ContextWithSpan(ctx, tlog.Root())
}

func printDiagnostics(diags diag.Diagnostics) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func defaultOutputPath(in string) string {
	if i := strings.LastIndexByte(in, '.'); i >= 0 {
		return in[:i] + ".py"
	}
	return in + ".py"
}

// hasFlag and takeFlagValue do manual flag scanning over cli.Args rather
// than a declared Flags field: the teacher's cmd/slow never exercises one,
// so nothing here is grounded on an unconfirmed part of the cli package's
// surface.
func hasFlag(args cli.Args, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

func takeFlagValue(args cli.Args, name string) (value string, rest []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			value = args[i+1]
			rest = append(rest, args[:i]...)
			rest = append(rest, args[i+2:]...)
			return value, rest
		}
		rest = append(rest, args[i])
	}
	return "", rest
}

func positional(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			continue
		}
		out = append(out, a)
	}
	return out
}
