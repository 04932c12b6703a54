// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package agent

import (
	"context"
	"strings"
	"time"

	"github.com/rommaana/agentgw/pkg/logger"
	"github.com/rommaana/agentgw/pkg/providers"
	"github.com/rommaana/agentgw/pkg/session"
)

// Reply is the orchestrator's only output shape. Text is always non-empty;
// WasFallback marks a substituted deterministic string after a backend
// failure.
type Reply struct {
	Text        string
	WasFallback bool
}

// Orchestrator turns free text plus a session context into reply text. It
// is channel-agnostic and total: every failure path, backend errors and
// panics included, becomes a valid localized Reply so the channel adapters
// can always produce well-formed protocol output.
type Orchestrator struct {
	backend       providers.Provider
	history       session.HistoryStore
	timeout       time.Duration
	historyWindow int
}

func NewOrchestrator(backend providers.Provider, history session.HistoryStore, timeout time.Duration, historyWindow int) *Orchestrator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Orchestrator{
		backend:       backend,
		history:       history,
		timeout:       timeout,
		historyWindow: historyWindow,
	}
}

// Respond never returns an error and never panics into its caller.
func (o *Orchestrator) Respond(ctx context.Context, sess session.Context, text string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("agent", "Recovered panic while generating reply", map[string]interface{}{
				"session_key": sess.Key,
				"panic":       r,
			})
			reply = Reply{Text: FallbackText(sess.Locale), WasFallback: true}
		}
	}()

	prompt := o.buildPrompt(sess, text)

	// Deriving from the request context keeps the backend call cancellable
	// when the inbound connection drops.
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	answer, err := o.backend.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			logger.ErrorCF("agent", "Backend failed, substituting fallback reply", map[string]interface{}{
				"session_key": sess.Key,
				"channel":     string(sess.Channel),
				"locale":      string(sess.Locale),
				"error":       err.Error(),
			})
		} else {
			logger.WarnCF("agent", "Backend returned empty reply, substituting fallback", map[string]interface{}{
				"session_key": sess.Key,
			})
		}
		return Reply{Text: FallbackText(sess.Locale), WasFallback: true}
	}

	if o.history != nil {
		now := time.Now()
		o.history.Append(sess.Key,
			session.Turn{Role: "user", Content: text, At: now},
			session.Turn{Role: "assistant", Content: answer, At: now},
		)
	}

	return Reply{Text: answer, WasFallback: false}
}
