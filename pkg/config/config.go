// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process-wide settings. Everything comes from the
// environment so the gateway can run unchanged in a container.
type Config struct {
	Addr        string `env:"AGENTGW_ADDR" envDefault:":8080"`
	WebhookPath string `env:"AGENTGW_WEBHOOK_PATH" envDefault:"/agent"`

	// Providers lists backend names in failover order.
	Providers []string `env:"AGENTGW_PROVIDERS" envSeparator:"," envDefault:"gemini"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"AGENTGW_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"AGENTGW_ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5"`

	DefaultLocale  string        `env:"AGENTGW_DEFAULT_LOCALE" envDefault:"en-US"`
	BackendTimeout time.Duration `env:"AGENTGW_BACKEND_TIMEOUT" envDefault:"15s"`

	// GatherSeconds is the listen window handed to the telephony provider.
	GatherSeconds int `env:"AGENTGW_GATHER_SECONDS" envDefault:"5"`
	// MaxVoiceTurns bounds the gather loop per call; 0 disables the cap.
	MaxVoiceTurns int `env:"AGENTGW_MAX_VOICE_TURNS" envDefault:"30"`

	// HistoryDir enables file persistence of conversation history when set.
	HistoryDir    string `env:"AGENTGW_HISTORY_DIR"`
	HistoryWindow int    `env:"AGENTGW_HISTORY_WINDOW" envDefault:"10"`

	LogLevel string `env:"AGENTGW_LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.WebhookPath == "" || c.WebhookPath[0] != '/' {
		return fmt.Errorf("webhook path must start with '/': %q", c.WebhookPath)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}
	if c.GatherSeconds <= 0 {
		return fmt.Errorf("gather seconds must be positive, got %d", c.GatherSeconds)
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %s", c.BackendTimeout)
	}
	return nil
}
