// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package channels

import (
	"context"

	"github.com/rommaana/agentgw/pkg/agent"
	"github.com/rommaana/agentgw/pkg/event"
	"github.com/rommaana/agentgw/pkg/logger"
	"github.com/rommaana/agentgw/pkg/session"
)

// Responder is the channel-side view of the orchestrator. It is total: it
// always returns a usable reply, so adapters always produce well-formed
// protocol output.
type Responder interface {
	Respond(ctx context.Context, sess session.Context, text string) agent.Reply
}

const sayVoice = "alice"

type voiceStrings struct {
	greeting string
	prompt   string
	reprompt string
	goodbye  string
}

var voiceTexts = map[session.Locale]voiceStrings{
	session.LocaleEnglish: {
		greeting: "Welcome to Rommaana Insurance. Connecting you to our AI agent.",
		prompt:   "How can I help you today?",
		reprompt: "I didn't catch that. Could you say it again?",
		goodbye:  "Thank you for calling Rommaana Insurance. Goodbye.",
	},
	session.LocaleArabic: {
		greeting: "أهلاً بك في رمانة للتأمين. نوصلك الآن بمساعدنا الذكي.",
		prompt:   "كيف أقدر أساعدك اليوم؟",
		reprompt: "عذراً، لم أسمعك. ممكن تعيد من فضلك؟",
		goodbye:  "شكراً لاتصالك برمانة للتأمين. مع السلامة.",
	},
}

func textsFor(locale session.Locale) voiceStrings {
	if s, ok := voiceTexts[locale]; ok {
		return s
	}
	return voiceTexts[session.LocaleEnglish]
}

// VoiceChannel implements the two-phase gather loop: greet and listen on
// the first turn, speak the orchestrator's reply and listen again on every
// continuation turn. The call ends only when the remote party hangs up or
// the turn cap is reached.
type VoiceChannel struct {
	responder     Responder
	turns         *session.TurnCounter
	webhookPath   string
	gatherSeconds int
	maxTurns      int
}

func NewVoiceChannel(responder Responder, turns *session.TurnCounter, webhookPath string, gatherSeconds, maxTurns int) *VoiceChannel {
	return &VoiceChannel{
		responder:     responder,
		turns:         turns,
		webhookPath:   webhookPath,
		gatherSeconds: gatherSeconds,
		maxTurns:      maxTurns,
	}
}

func (c *VoiceChannel) gatherAction() string {
	return c.webhookPath + "?flow=" + event.FlowVoiceGather
}

func (c *VoiceChannel) newGather(locale session.Locale, prompt string) *Gather {
	g := &Gather{
		Input:    "speech",
		Action:   c.gatherAction(),
		Language: string(locale),
		Timeout:  c.gatherSeconds,
	}
	if prompt != "" {
		g.Prompt = &Say{Voice: sayVoice, Language: string(locale), Text: prompt}
	}
	return g
}

// HandleTurn produces the control document for one voice webhook delivery.
// It never returns an error document; every branch re-issues a gather or
// ends the call politely.
func (c *VoiceChannel) HandleTurn(ctx context.Context, ev event.InboundEvent, sess session.Context) *Document {
	sess.Turn = c.turns.Next(sess.Key)
	texts := textsFor(sess.Locale)

	if c.maxTurns > 0 && sess.Turn > c.maxTurns {
		logger.InfoCF("channels.voice", "Turn cap reached, ending call", map[string]interface{}{
			"call_sid": sess.Key,
			"turn":     sess.Turn,
		})
		c.turns.Forget(sess.Key)
		return &Document{
			Say:    []Say{{Voice: sayVoice, Language: string(sess.Locale), Text: texts.goodbye}},
			Hangup: &Hangup{},
		}
	}

	if ev.FlowHint != event.FlowVoiceGather {
		// Fresh call: greet, then listen.
		return &Document{
			Say:    []Say{{Voice: sayVoice, Language: string(sess.Locale), Text: texts.greeting}},
			Gather: c.newGather(sess.Locale, texts.prompt),
		}
	}

	if ev.Transcript == "" {
		// The listen window elapsed without speech; re-prompt instead of
		// erroring out.
		logger.DebugCF("channels.voice", "Gather returned no speech, re-prompting", map[string]interface{}{
			"call_sid": sess.Key,
		})
		return &Document{
			Say:    []Say{{Voice: sayVoice, Language: string(sess.Locale), Text: texts.reprompt}},
			Gather: c.newGather(sess.Locale, ""),
		}
	}

	reply := c.responder.Respond(ctx, sess, ev.Transcript)
	return &Document{
		Say:    []Say{{Voice: sayVoice, Language: string(sess.Locale), Text: reply.Text}},
		Gather: c.newGather(sess.Locale, ""),
	}
}
