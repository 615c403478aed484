// Package doctor runs readiness diagnostics for config, artifact storage,
// the local reply port, and the engine connection.
package doctor

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rbright/ue5ctl/internal/config"
	"github.com/rbright/ue5ctl/internal/session"
)

// probeTimeout bounds the engine reachability check. UDP gives no refusal
// signal, so silence past this window counts as unreachable.
const probeTimeout = 1500 * time.Millisecond

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/engine checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded, logger *slog.Logger) Report {
	checks := []Check{{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	}}

	checks = append(checks, checkImagesDir(cfg.Config.Images.Dir))
	checks = append(checks, checkReceivePort(cfg.Config.Engine.ReceivePort))

	// The probe binds the receive port itself, so it runs after the port
	// check has released it.
	checks = append(checks, checkEngineReply(ctx, cfg.Config, logger))

	return Report{Checks: checks}
}

// checkImagesDir verifies the artifact directory exists and is writable.
func checkImagesDir(dir string) Check {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Check{Name: "images.dir", Pass: false, Message: err.Error()}
	}
	probe := filepath.Join(dir, ".ue5ctl-doctor")
	if err := os.WriteFile(probe, []byte("probe"), 0o600); err != nil {
		return Check{Name: "images.dir", Pass: false, Message: fmt.Sprintf("not writable: %v", err)}
	}
	_ = os.Remove(probe)
	return Check{Name: "images.dir", Pass: true, Message: fmt.Sprintf("%q is writable", dir)}
}

// checkReceivePort verifies the local reply port can be bound.
func checkReceivePort(port int) Check {
	name := "engine.receive_port"
	conn, err := net.ListenPacket("udp", ":"+strconv.Itoa(port))
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("cannot bind %d: %v", port, err)}
	}
	_ = conn.Close()
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("port %d is free", port)}
}

// checkEngineReply opens a short-lived session and asks for the project
// name to prove the engine is up and replying to the configured ports.
func checkEngineReply(ctx context.Context, cfg config.Config, logger *slog.Logger) Check {
	name := "engine.reply"

	s, err := session.New(cfg, logger)
	if err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	defer func() { _ = s.Close() }()

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	project, err := s.ProjectName(probeCtx)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("no reply within %s: %v", probeTimeout, err)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("engine replied with project %q", project)}
}
