// Package cli parses the ue5ctl argv surface.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Command string

const (
	CommandProject    Command = "project"
	CommandLocation   Command = "location"
	CommandGoto       Command = "goto"
	CommandRotation   Command = "rotation"
	CommandYaw        Command = "yaw"
	CommandMove       Command = "move"
	CommandTurn       Command = "turn"
	CommandCapture    Command = "capture"
	CommandScreenshot Command = "screenshot"
	CommandReset      Command = "reset"
	CommandShell      Command = "shell"
	CommandDoctor     Command = "doctor"
	CommandVersion    Command = "version"
	CommandHelp       Command = "help"
)

// arity maps each command to its required trailing arguments.
var arity = map[Command]struct {
	floats   int
	wantName bool
}{
	CommandProject:    {},
	CommandLocation:   {},
	CommandGoto:       {floats: 3},
	CommandRotation:   {},
	CommandYaw:        {floats: 1},
	CommandMove:       {floats: 1},
	CommandTurn:       {floats: 1},
	CommandCapture:    {},
	CommandScreenshot: {wantName: true},
	CommandReset:      {},
	CommandShell:      {},
	CommandDoctor:     {},
	CommandVersion:    {},
	CommandHelp:       {},
}

type Parsed struct {
	Command    Command
	Floats     []float32
	Name       string
	ConfigPath string
	ShowHelp   bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			return Parsed{Command: CommandHelp, ConfigPath: parsed.ConfigPath, ShowHelp: true}, nil
		case "--version":
			return Parsed{Command: CommandVersion, ConfigPath: parsed.ConfigPath}, nil
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			shape, ok := arity[cmd]
			if !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}
			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp

			rest := args[i+1:]
			return applyArgs(parsed, shape.floats, shape.wantName, rest)
		}
	}

	return parsed, nil
}

// applyArgs consumes the trailing arguments a command requires, rejecting
// both missing and surplus values.
func applyArgs(parsed Parsed, floats int, wantName bool, rest []string) (Parsed, error) {
	want := floats
	if wantName {
		want++
	}
	if len(rest) != want {
		return Parsed{}, fmt.Errorf("command %q requires %d argument(s), got %d", parsed.Command, want, len(rest))
	}

	for _, raw := range rest[:floats] {
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return Parsed{}, fmt.Errorf("command %q: %q is not a number", parsed.Command, raw)
		}
		parsed.Floats = append(parsed.Floats, float32(v))
	}
	if wantName {
		parsed.Name = rest[floats]
		if strings.TrimSpace(parsed.Name) == "" {
			return Parsed{}, fmt.Errorf("command %q requires a non-empty name", parsed.Command)
		}
	}
	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command> [args]

Commands:
  project           Print the name of the loaded project
  location          Print the player's x y z location
  goto X Y Z        Teleport the player to an absolute location
  rotation          Print the player's roll pitch yaw
  yaw DEG           Set the player yaw, keeping pitch and roll
  move DIST         Move forward by DIST (negative moves backward)
  turn DEG          Turn right by DEG (negative turns left)
  capture           Save the next sequentially numbered image
  screenshot NAME   Save a screenshot under NAME
  reset             Reset the player to the start position
  shell             Open an interactive command shell
  doctor            Run configuration and environment checks
  version           Print version information
  help              Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/ue5ctl/config.conf)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
