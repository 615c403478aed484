// Package repl implements the interactive shell over one engine session.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"

	"github.com/rbright/ue5ctl/internal/cli"
	"github.com/rbright/ue5ctl/internal/session"
	"github.com/rbright/ue5ctl/internal/version"
)

const (
	prompt       = "ue5> "
	historyLimit = 500
)

// Driver is the session surface the shell drives; tests substitute fakes.
type Driver interface {
	ProjectName(ctx context.Context) (string, error)
	PlayerLocation(ctx context.Context) (session.Location, error)
	PlayerRotation(ctx context.Context) (session.Rotation, error)
	SetPlayerLocation(ctx context.Context, x, y, z float32) error
	SetPlayerYaw(ctx context.Context, yaw float32) error
	MoveForward(ctx context.Context, amount float32) error
	TurnLeft(ctx context.Context, deg float32) error
	TurnRight(ctx context.Context, deg float32) error
	SaveImage(ctx context.Context) (string, error)
	TakeScreenshot(ctx context.Context, filename string) error
	ResetToStart(ctx context.Context) error
}

// Shell reads one command per line and executes it against the driver.
// Command errors are printed and the loop continues; only input exhaustion
// or context cancellation ends Run.
type Shell struct {
	driver Driver
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

// New constructs a shell reading from in and writing results to out. A nil
// in selects stdin with readline editing when stdin is a terminal.
func New(driver Driver, in io.Reader, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{driver: driver, in: in, out: out, logger: logger}
}

// Run loops until quit, end of input, or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	editor := s.newEditor()
	defer editor.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := editor.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		editor.Save(line)

		quit, err := s.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			s.logger.Warn("shell command failed", "line", line, "error", err.Error())
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one shell line. The returned bool requests loop exit.
func (s *Shell) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "quit", "exit":
		return true, nil
	}

	parsed, err := cli.Parse(fields)
	if err != nil {
		return false, err
	}
	return s.Dispatch(ctx, parsed)
}

// Dispatch executes one parsed command against the driver. It backs both
// the shell loop and one-shot CLI invocations.
func (s *Shell) Dispatch(ctx context.Context, parsed cli.Parsed) (bool, error) {
	switch parsed.Command {
	case cli.CommandProject:
		name, err := s.driver.ProjectName(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "project: %s\n", name)
	case cli.CommandLocation:
		loc, err := s.driver.PlayerLocation(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "location: x=%g y=%g z=%g\n", loc.X, loc.Y, loc.Z)
	case cli.CommandRotation:
		rot, err := s.driver.PlayerRotation(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "rotation: roll=%g pitch=%g yaw=%g\n", rot.Roll, rot.Pitch, rot.Yaw)
	case cli.CommandGoto:
		if err := s.driver.SetPlayerLocation(ctx, parsed.Floats[0], parsed.Floats[1], parsed.Floats[2]); err != nil {
			return false, err
		}
		s.ok()
	case cli.CommandYaw:
		if err := s.driver.SetPlayerYaw(ctx, parsed.Floats[0]); err != nil {
			return false, err
		}
		s.ok()
	case cli.CommandMove:
		if err := s.driver.MoveForward(ctx, parsed.Floats[0]); err != nil {
			return false, err
		}
		s.ok()
	case cli.CommandTurn:
		deg := parsed.Floats[0]
		var err error
		if deg < 0 {
			err = s.driver.TurnLeft(ctx, -deg)
		} else {
			err = s.driver.TurnRight(ctx, deg)
		}
		if err != nil {
			return false, err
		}
		s.ok()
	case cli.CommandCapture:
		path, err := s.driver.SaveImage(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "saved %s\n", path)
	case cli.CommandScreenshot:
		if err := s.driver.TakeScreenshot(ctx, parsed.Name); err != nil {
			return false, err
		}
		s.ok()
	case cli.CommandReset:
		if err := s.driver.ResetToStart(ctx); err != nil {
			return false, err
		}
		s.ok()
	case cli.CommandVersion:
		fmt.Fprintln(s.out, version.String())
	case cli.CommandHelp:
		fmt.Fprint(s.out, helpText())
	default:
		return false, fmt.Errorf("command %q is not available inside the shell", parsed.Command)
	}
	return false, nil
}

func (s *Shell) ok() {
	fmt.Fprintln(s.out, "ok")
}

func helpText() string {
	return `Shell commands:
  project / location / rotation     query the engine
  goto X Y Z                        teleport the player
  yaw DEG                           set yaw, keeping pitch and roll
  move DIST                         move forward (negative = backward)
  turn DEG                          turn right (negative = left)
  capture                           save the next numbered image
  screenshot NAME                   save a named screenshot
  reset                             return to the start position
  version / help / quit
`
}

// editor abstracts line input so piped input and terminals share Run.
type editor interface {
	ReadLine() (string, error)
	Save(line string)
	Close()
}

// newEditor picks readline when attached to a TTY, plain scanning otherwise.
func (s *Shell) newEditor() editor {
	if s.in != nil {
		return &scannerEditor{scanner: bufio.NewScanner(s.in), out: s.out}
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return &scannerEditor{scanner: bufio.NewScanner(os.Stdin), out: s.out}
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:                 prompt,
		HistoryFile:            historyPath(),
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		s.logger.Warn("readline unavailable, using basic input", "error", err.Error())
		return &scannerEditor{scanner: bufio.NewScanner(os.Stdin), out: s.out}
	}
	return &readlineEditor{rl: rl}
}

// historyPath stores shell history next to the log under the state dir.
func historyPath() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "ue5ctl", "history")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "ue5ctl", "history")
}

type readlineEditor struct {
	rl *readline.Instance
}

func (e *readlineEditor) ReadLine() (string, error) {
	line, err := e.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func (e *readlineEditor) Save(line string) {
	e.rl.SaveToHistory(line)
}

func (e *readlineEditor) Close() {
	e.rl.Close()
}

type scannerEditor struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (e *scannerEditor) ReadLine() (string, error) {
	fmt.Fprint(e.out, prompt)
	if !e.scanner.Scan() {
		if err := e.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return e.scanner.Text(), nil
}

func (e *scannerEditor) Save(string) {}

func (e *scannerEditor) Close() {}
