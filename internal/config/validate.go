package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	if strings.TrimSpace(cfg.Engine.Host) == "" {
		return nil, fmt.Errorf("engine.host must not be empty")
	}
	if err := validPort(cfg.Engine.SendPort, "engine.send_port"); err != nil {
		return nil, err
	}
	if err := validPort(cfg.Engine.ReceivePort, "engine.receive_port"); err != nil {
		return nil, err
	}
	if cfg.Engine.SendPort == cfg.Engine.ReceivePort {
		return nil, fmt.Errorf("engine.send_port and engine.receive_port must differ")
	}
	if strings.TrimSpace(cfg.Images.Dir) == "" {
		return nil, fmt.Errorf("images.dir must not be empty")
	}
	if cfg.Images.SettleMS < 0 {
		return nil, fmt.Errorf("images.settle_ms must be >= 0")
	}
	if cfg.Reset.SettleMS < 0 {
		return nil, fmt.Errorf("reset.settle_ms must be >= 0")
	}
	if cfg.Pacing.CommandsPerSecond < 0 {
		return nil, fmt.Errorf("pacing.commands_per_second must be >= 0")
	}
	if cfg.Reply.TimeoutMS < 0 {
		return nil, fmt.Errorf("reply.timeout_ms must be >= 0")
	}

	warnings := make([]Warning, 0)
	if cfg.Reply.TimeoutMS == 0 {
		warnings = append(warnings, Warning{
			Message: "reply.timeout_ms=0: request commands wait forever when the engine never replies",
		})
	}
	return warnings, nil
}

// validPort checks the usable UDP port range.
func validPort(port int, key string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be in 1..65535, got %d", key, port)
	}
	return nil
}
