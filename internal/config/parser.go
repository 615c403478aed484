package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// fileConfig mirrors config.conf JSONC structure. Pointer fields distinguish
// "key absent, keep default" from an explicit zero value.
type fileConfig struct {
	Engine *fileEngine `json:"engine"`
	Images *fileImages `json:"images"`
	Reset  *fileReset  `json:"reset"`
	Pacing *filePacing `json:"pacing"`
	Reply  *fileReply  `json:"reply"`
	Debug  *fileDebug  `json:"debug"`
}

type fileEngine struct {
	Host        *string `json:"host"`
	SendPort    *int    `json:"send_port"`
	ReceivePort *int    `json:"receive_port"`
}

type fileImages struct {
	Dir      *string `json:"dir"`
	SettleMS *int    `json:"settle_ms"`
}

type fileReset struct {
	SettleMS *int `json:"settle_ms"`
}

type filePacing struct {
	CommandsPerSecond *float64 `json:"commands_per_second"`
}

type fileReply struct {
	TimeoutMS *int `json:"timeout_ms"`
}

type fileDebug struct {
	Verbose *bool `json:"verbose"`
}

// Parse reads config.conf content as JSONC layered over base. Empty content
// validates and returns base unchanged.
func Parse(content string, base Config) (Config, []Warning, error) {
	if strings.TrimSpace(content) == "" {
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	}

	decoder := json.NewDecoder(strings.NewReader(stripComments(content)))
	decoder.DisallowUnknownFields()

	var payload fileConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, fmt.Errorf("decode config: %w", err)
	}

	cfg := base
	payload.applyTo(&cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

// applyTo overlays the present file values onto cfg.
func (payload fileConfig) applyTo(cfg *Config) {
	if payload.Engine != nil {
		if payload.Engine.Host != nil {
			cfg.Engine.Host = strings.TrimSpace(*payload.Engine.Host)
		}
		if payload.Engine.SendPort != nil {
			cfg.Engine.SendPort = *payload.Engine.SendPort
		}
		if payload.Engine.ReceivePort != nil {
			cfg.Engine.ReceivePort = *payload.Engine.ReceivePort
		}
	}
	if payload.Images != nil {
		if payload.Images.Dir != nil {
			cfg.Images.Dir = strings.TrimSpace(*payload.Images.Dir)
		}
		if payload.Images.SettleMS != nil {
			cfg.Images.SettleMS = *payload.Images.SettleMS
		}
	}
	if payload.Reset != nil && payload.Reset.SettleMS != nil {
		cfg.Reset.SettleMS = *payload.Reset.SettleMS
	}
	if payload.Pacing != nil && payload.Pacing.CommandsPerSecond != nil {
		cfg.Pacing.CommandsPerSecond = *payload.Pacing.CommandsPerSecond
	}
	if payload.Reply != nil && payload.Reply.TimeoutMS != nil {
		cfg.Reply.TimeoutMS = *payload.Reply.TimeoutMS
	}
	if payload.Debug != nil && payload.Debug.Verbose != nil {
		cfg.Debug.Verbose = *payload.Debug.Verbose
	}
}

// stripComments blanks // and /* */ comments outside strings so the content
// parses as plain JSON while byte offsets stay stable for error reporting.
func stripComments(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	const (
		stateCode = iota
		stateString
		stateEscape
		stateLine
		stateBlock
	)
	state := stateCode

	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch state {
		case stateString:
			out.WriteByte(ch)
			if ch == '\\' {
				state = stateEscape
			} else if ch == '"' {
				state = stateCode
			}
		case stateEscape:
			out.WriteByte(ch)
			state = stateString
		case stateLine:
			if ch == '\n' || ch == '\r' {
				out.WriteByte(ch)
				state = stateCode
			} else {
				out.WriteByte(' ')
			}
		case stateBlock:
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				out.WriteString("  ")
				i++
				state = stateCode
			} else if ch == '\n' || ch == '\r' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
		default:
			if ch == '"' {
				out.WriteByte(ch)
				state = stateString
			} else if ch == '/' && i+1 < len(content) && content[i+1] == '/' {
				out.WriteString("  ")
				i++
				state = stateLine
			} else if ch == '/' && i+1 < len(content) && content[i+1] == '*' {
				out.WriteString("  ")
				i++
				state = stateBlock
			} else {
				out.WriteByte(ch)
			}
		}
	}
	return out.String()
}
