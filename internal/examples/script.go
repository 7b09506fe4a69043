package examples

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bookkit/internal/config"
	"bookkit/internal/flags"
	"bookkit/internal/logging"
	"bookkit/internal/types"
)

// Script dialects.
const (
	DialectSh         = "sh"
	DialectPowerShell = "powershell"
)

// ScriptOptions controls run script rendering.
type ScriptOptions struct {
	Dialect  string
	Launcher string
	PreBuild []string // Runs to completion before any example
	StartDir string   // Directory returned to after each example
}

// OptionsFromConfig derives script options from the validate config.
// StartDir is the absolute example directory.
func OptionsFromConfig(cfg config.ValidateConfig) (ScriptOptions, error) {
	start, err := filepath.Abs(cfg.ExampleDir)
	if err != nil {
		return ScriptOptions{}, fmt.Errorf("failed to resolve %s: %w", cfg.ExampleDir, err)
	}
	return ScriptOptions{
		Dialect:  cfg.Dialect,
		Launcher: cfg.Launcher,
		PreBuild: cfg.PreBuild,
		StartDir: start,
	}, nil
}

// invocation is the program and argument string one directive runs.
type invocation struct {
	program string
	args    string
}

func invocationFor(r *Runnable, launcher string) (invocation, error) {
	if !r.Has(flags.Exec) {
		return invocation{program: launcher, args: r.JavaArguments()}, nil
	}
	value, _ := r.Flags.Value(flags.Exec)
	command := strings.Fields(value)
	if len(command) == 0 {
		return invocation{}, types.Invariant("%s has an empty {Exec} flag", r)
	}
	return invocation{program: command[0], args: strings.Join(command[1:], " ")}, nil
}

// argQuote picks the quote enclosing the argument string so that embedded
// double quotes and variable markers reach the program unchanged.
func argQuote(args string) string {
	if strings.ContainsAny(args, `"$`) {
		return "'"
	}
	return `"`
}

// Directive renders the lines that run one example and capture its output.
func Directive(r *Runnable, opts ScriptOptions) (string, error) {
	inv, err := invocationFor(r, opts.Launcher)
	if err != nil {
		return "", err
	}
	rundir, err := filepath.Abs(r.RunDir())
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", r.RunDir(), err)
	}
	q := argQuote(inv.args)
	throws := r.Has(flags.ThrowsException)

	var b strings.Builder
	switch opts.Dialect {
	case DialectPowerShell:
		fmt.Fprintf(&b, "cd \"%s\"\n", rundir)
		fmt.Fprintf(&b, "Start-Process -FilePath \"%s\" -ArgumentList %s%s%s -NoNewWindow -RedirectStandardOutput %s -RedirectStandardError %s",
			inv.program, q, inv.args, q, r.OutputFile(), r.ErrorFile())
		if throws {
			fmt.Fprintf(&b, " -Wait\nAdd-Content %s '%s'", r.ErrorFile(), config.ExpectedExceptionMarker)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "Write-Host [%s] %s\n", r, r.Name)
		fmt.Fprintf(&b, "cd \"%s\"\n", opts.StartDir)
	default:
		commandLine := strings.TrimSpace(inv.program + " " + inv.args)
		fmt.Fprintf(&b, "cd %s\n", shellQuote(rundir))
		fmt.Fprintf(&b, "sh -c %s%s%s > %s 2> %s", q, commandLine, q, r.OutputFile(), r.ErrorFile())
		if throws {
			fmt.Fprintf(&b, "\necho '%s' >> %s", config.ExpectedExceptionMarker, r.ErrorFile())
		} else {
			b.WriteString(" &")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "echo %s\n", shellQuote(fmt.Sprintf("[%s] %s", r, r.Name)))
		fmt.Fprintf(&b, "cd %s\n", shellQuote(opts.StartDir))
	}
	return b.String(), nil
}

// WriteScript renders the whole run script for the runnable set of c.
func WriteScript(w io.Writer, c *Corpus, opts ScriptOptions) error {
	bw := bufio.NewWriter(w)

	switch opts.Dialect {
	case DialectPowerShell:
		if len(opts.PreBuild) > 0 {
			fmt.Fprintf(bw, "Start-Process -FilePath \"%s\" -ArgumentList \"%s\" -NoNewWindow -Wait\n\n",
				opts.PreBuild[0], strings.Join(opts.PreBuild[1:], " "))
		}
	default:
		bw.WriteString("#!/bin/sh\n")
		if len(opts.PreBuild) > 0 {
			bw.WriteString(strings.Join(opts.PreBuild, " ") + "\n")
		}
		bw.WriteString("\n")
	}

	for _, r := range c.Runnable {
		d, err := Directive(r, opts)
		if err != nil {
			return err
		}
		bw.WriteString(d)
		bw.WriteString("\n")
	}

	if opts.Dialect != DialectPowerShell {
		bw.WriteString("wait\n")
	}
	return bw.Flush()
}

// GenerateRunScript scans the example tree, writes the untested report and
// the run script. The script is not executed.
func GenerateRunScript(cfg config.ValidateConfig) (*Corpus, error) {
	log := logging.Get(logging.CategoryScript)

	c, err := Scan(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.WriteUntested(cfg.UntestedReportPath()); err != nil {
		return nil, err
	}
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	for _, r := range c.Runnable {
		if r.Has(flags.Exec) {
			log.Infow("exec override", "file", r.String(), "flags", r.Flags.String())
		}
	}

	path := cfg.RunScriptPath()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create run script: %w", err)
	}
	if err := WriteScript(f, c, opts); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write run script: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write run script: %w", err)
	}

	log.Infow("run script written", "path", path, "directives", len(c.Runnable), "untested", len(c.Untested))
	return c, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
