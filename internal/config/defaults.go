package config

// Default returns the canonical runtime configuration used when no file is
// present. Ports match the stock UE5 OSC plugin wiring: the engine listens
// on 7447 and replies to 7001.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Host:        "127.0.0.1",
			SendPort:    7447,
			ReceivePort: 7001,
		},
		Images: ImagesConfig{
			Dir:      "images",
			SettleMS: 1500,
		},
		Reset:  ResetConfig{SettleMS: 1000},
		Pacing: PacingConfig{CommandsPerSecond: 0},
		Reply:  ReplyConfig{TimeoutMS: 0},
		Debug:  DebugConfig{},
	}
}
