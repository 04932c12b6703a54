// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rommaana/agentgw/pkg/agent"
	"github.com/rommaana/agentgw/pkg/channels"
	"github.com/rommaana/agentgw/pkg/config"
	"github.com/rommaana/agentgw/pkg/gateway"
	"github.com/rommaana/agentgw/pkg/logger"
	"github.com/rommaana/agentgw/pkg/providers"
	"github.com/rommaana/agentgw/pkg/providers/claude"
	"github.com/rommaana/agentgw/pkg/providers/gemini"
	"github.com/rommaana/agentgw/pkg/session"
)

var (
	version   = "dev"
	gitCommit string
)

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// buildBackend assembles the failover chain from the configured provider
// order. The concrete backends live in subpackages that import
// pkg/providers for error classification, so construction happens here
// rather than in a providers-level factory.
func buildBackend(cfg *config.Config) (providers.Provider, error) {
	var candidates []providers.Provider
	for _, name := range cfg.Providers {
		switch name {
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				return nil, fmt.Errorf("provider %q configured but GEMINI_API_KEY is empty", name)
			}
			candidates = append(candidates, gemini.NewProvider(cfg.GeminiAPIKey, cfg.GeminiModel))
		case "claude":
			if cfg.AnthropicAPIKey == "" {
				return nil, fmt.Errorf("provider %q configured but ANTHROPIC_API_KEY is empty", name)
			}
			candidates = append(candidates, claude.NewProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel))
		default:
			return nil, fmt.Errorf("unknown provider %q", name)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return providers.NewChain(candidates...), nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	logger.InfoCF("main", "Starting agentgw", map[string]interface{}{
		"version":   formatVersion(),
		"addr":      cfg.Addr,
		"path":      cfg.WebhookPath,
		"providers": fmt.Sprintf("%v", cfg.Providers),
	})

	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}

	var history session.HistoryStore
	if cfg.HistoryWindow > 0 {
		history = session.NewFileHistoryStore(cfg.HistoryDir, cfg.HistoryWindow*2)
	}

	orchestrator := agent.NewOrchestrator(backend, history, cfg.BackendTimeout, cfg.HistoryWindow)
	resolver := session.NewResolver(cfg.DefaultLocale)
	voice := channels.NewVoiceChannel(orchestrator, session.NewTurnCounter(), cfg.WebhookPath, cfg.GatherSeconds, cfg.MaxVoiceTurns)
	chat := channels.NewChatChannel(orchestrator)

	gw := gateway.New(resolver, voice, chat, cfg.WebhookPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return gw.Serve(ctx, cfg.Addr)
}

func main() {
	if err := run(); err != nil {
		logger.ErrorCF("main", "Fatal error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
