// Package config resolves, parses, validates, and defaults ue5ctl configuration.
package config

// Config is the fully materialized runtime configuration used by ue5ctl.
type Config struct {
	Engine EngineConfig
	Images ImagesConfig
	Reset  ResetConfig
	Pacing PacingConfig
	Reply  ReplyConfig
	Debug  DebugConfig
}

// EngineConfig locates the remote engine and the local reply port.
type EngineConfig struct {
	Host        string
	SendPort    int
	ReceivePort int
}

// ImagesConfig controls screenshot artifact placement and settle behavior.
type ImagesConfig struct {
	Dir      string
	SettleMS int
}

// ResetConfig controls the pause after a reset-to-start command.
type ResetConfig struct {
	SettleMS int
}

// PacingConfig throttles outbound commands; 0 disables pacing.
type PacingConfig struct {
	CommandsPerSecond float64
}

// ReplyConfig bounds request/reply waits; 0 waits forever, matching the
// protocol's lack of delivery acknowledgments.
type ReplyConfig struct {
	TimeoutMS int
}

// DebugConfig controls optional debug logging output.
type DebugConfig struct {
	Verbose bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
