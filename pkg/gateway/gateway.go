// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rommaana/agentgw/pkg/channels"
	"github.com/rommaana/agentgw/pkg/event"
	"github.com/rommaana/agentgw/pkg/logger"
	"github.com/rommaana/agentgw/pkg/session"
)

// Gateway is the single entry point for the multi-channel webhook. It
// parses the transport payload, classifies the channel, dispatches to the
// matching adapter, and renders the adapter's document back to the caller.
type Gateway struct {
	resolver *session.Resolver
	voice    *channels.VoiceChannel
	chat     *channels.ChatChannel
	path     string
}

func New(resolver *session.Resolver, voice *channels.VoiceChannel, chat *channels.ChatChannel, webhookPath string) *Gateway {
	return &Gateway{
		resolver: resolver,
		voice:    voice,
		chat:     chat,
		path:     webhookPath,
	}
}

// Handler returns the webhook mux.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(g.path, g.handleWebhook)
	mux.HandleFunc("/healthz", handleHealth)
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (g *Gateway) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	reqID := uuid.NewString()

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorCF("gateway", "Recovered panic while handling webhook", map[string]interface{}{
				"request_id": reqID,
				"panic":      rec,
			})
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
	}()

	if err := r.ParseForm(); err != nil {
		// A body we cannot parse carries nothing actionable; treat it the
		// same as an empty status callback.
		logger.WarnCF("gateway", "Unparseable webhook payload", map[string]interface{}{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeNeutralAck(w)
		return
	}

	ev := event.ParseValues(r.PostForm, r.URL.Query().Get("flow"))

	if !event.Actionable(ev) {
		writeNeutralAck(w)
		return
	}

	ch := event.Classify(ev)
	sess, err := g.resolver.Resolve(ev, ch)
	if err != nil {
		// Internal-consistency failure; no safe channel-specific reply can
		// be constructed without a valid session key. Details stay in the
		// log, not on the wire.
		logger.ErrorCF("gateway", "Session resolution failed", map[string]interface{}{
			"request_id": reqID,
			"channel":    string(ch),
			"error":      err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	logger.InfoCF("gateway", "Inbound event", map[string]interface{}{
		"request_id": reqID,
		"channel":    string(ch),
		"sender":     ev.Sender,
		"flow":       ev.FlowHint,
		"locale":     string(sess.Locale),
	})

	var doc *channels.Document
	switch ch {
	case event.ChannelVoice:
		doc = g.voice.HandleTurn(r.Context(), ev, sess)
	default:
		doc = g.chat.HandleMessage(r.Context(), ev, sess)
	}

	body, err := doc.Render()
	if err != nil {
		logger.ErrorCF("gateway", "Failed to render control document", map[string]interface{}{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeNeutralAck(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "no action taken",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Serve runs the HTTP server until ctx is canceled, then drains in-flight
// requests.
func (g *Gateway) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.InfoCF("gateway", "Webhook gateway listening", map[string]interface{}{
		"addr": addr,
		"path": g.path,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
