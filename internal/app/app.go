// Package app wires cli parsing, config, logging, and the engine session
// into the ue5ctl command runner.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rbright/ue5ctl/internal/cli"
	"github.com/rbright/ue5ctl/internal/config"
	"github.com/rbright/ue5ctl/internal/doctor"
	"github.com/rbright/ue5ctl/internal/logging"
	"github.com/rbright/ue5ctl/internal/repl"
	"github.com/rbright/ue5ctl/internal/session"
	"github.com/rbright/ue5ctl/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer

	// Logger overrides the file-backed runtime logger; used by tests.
	Logger *slog.Logger

	// ShellInput overrides stdin for the interactive shell; used by tests.
	ShellInput io.Reader
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("ue5ctl"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("ue5ctl"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
	}

	logger := r.Logger
	if logger == nil {
		logRuntime, err := logging.New(cfgLoaded.Config.Debug.Verbose)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
			return 1
		}
		defer func() { _ = logRuntime.Close() }()
		logger = logRuntime.Logger
	}

	logger.Info("command start", "command", parsed.Command, "config", cfgLoaded.Path)

	if parsed.Command == cli.CommandDoctor {
		report := doctor.Run(ctx, cfgLoaded, logger)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	}

	return r.runEngineCommand(ctx, parsed, cfgLoaded.Config, logger)
}

// runEngineCommand opens one session for the lifetime of the command and
// dispatches either the interactive shell or a single operation through it.
func (r Runner) runEngineCommand(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	sess, err := session.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("session setup failed", "error", err.Error())
		return 1
	}
	defer func() { _ = sess.Close() }()

	shell := repl.New(sess, r.ShellInput, r.Stdout, logger)

	if parsed.Command == cli.CommandShell {
		if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	if _, err := shell.Dispatch(ctx, parsed); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("command failed", "command", parsed.Command, "error", err.Error())
		return 1
	}
	return 0
}
