package channels

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rommaana/agentgw/pkg/agent"
	"github.com/rommaana/agentgw/pkg/event"
	"github.com/rommaana/agentgw/pkg/session"
)

type stubResponder struct {
	reply    agent.Reply
	lastText string
	lastSess session.Context
	calls    int
}

func (s *stubResponder) Respond(ctx context.Context, sess session.Context, text string) agent.Reply {
	s.calls++
	s.lastSess = sess
	s.lastText = text
	return s.reply
}

func newVoice(r Responder, maxTurns int) *VoiceChannel {
	return NewVoiceChannel(r, session.NewTurnCounter(), "/agent", 5, maxTurns)
}

func voiceSession(callSID string) session.Context {
	return session.Context{Key: callSID, Channel: event.ChannelVoice, Locale: session.LocaleEnglish}
}

func render(t *testing.T, doc *Document) string {
	t.Helper()
	body, err := doc.Render()
	require.NoError(t, err)
	return string(body)
}

func TestVoiceGreeting(t *testing.T) {
	responder := &stubResponder{}
	vc := newVoice(responder, 0)

	ev := event.InboundEvent{Sender: "+1555", CallSID: "CA123"}
	doc := vc.HandleTurn(context.Background(), ev, voiceSession("CA123"))

	xml := render(t, doc)
	// Exactly one greeting directive and one listen directive; the second
	// <Say is the prompt nested inside the gather.
	assert.Len(t, doc.Say, 1)
	assert.Equal(t, 1, strings.Count(xml, "<Gather"))
	assert.Contains(t, xml, "Welcome to Rommaana Insurance")
	assert.Contains(t, xml, `timeout="5"`)
	assert.Contains(t, xml, "/agent?flow=voice_gather")
	assert.Contains(t, xml, "How can I help you today?")
	assert.NotContains(t, xml, "<Hangup")
	// The greeting never consults the orchestrator.
	assert.Equal(t, 0, responder.calls)

	// The nested prompt rides inside the gather, not as a top-level verb.
	require.NotNil(t, doc.Gather)
	require.NotNil(t, doc.Gather.Prompt)
	assert.Len(t, doc.Say, 1)
}

func TestVoiceContinuation(t *testing.T) {
	responder := &stubResponder{reply: agent.Reply{Text: "Sure, let's start your claim."}}
	vc := newVoice(responder, 0)

	ev := event.InboundEvent{
		Sender:     "+1555",
		CallSID:    "CA123",
		FlowHint:   event.FlowVoiceGather,
		Transcript: "I want to file a claim",
	}
	doc := vc.HandleTurn(context.Background(), ev, voiceSession("CA123"))

	xml := render(t, doc)
	assert.Contains(t, xml, "Sure, let&#39;s start your claim.")
	assert.Equal(t, 1, strings.Count(xml, "<Gather"))

	assert.Equal(t, 1, responder.calls)
	assert.Equal(t, "I want to file a claim", responder.lastText)
	assert.Equal(t, "CA123", responder.lastSess.Key)
}

func TestVoiceEmptyTranscriptReprompts(t *testing.T) {
	responder := &stubResponder{}
	vc := newVoice(responder, 0)

	ev := event.InboundEvent{Sender: "+1555", CallSID: "CA123", FlowHint: event.FlowVoiceGather}
	doc := vc.HandleTurn(context.Background(), ev, voiceSession("CA123"))

	xml := render(t, doc)
	assert.Equal(t, 1, strings.Count(xml, "<Gather"))
	require.Len(t, doc.Say, 1)
	assert.NotEmpty(t, doc.Say[0].Text)
	// No speech means nothing to orchestrate.
	assert.Equal(t, 0, responder.calls)
}

func TestVoiceTurnCap(t *testing.T) {
	responder := &stubResponder{reply: agent.Reply{Text: "ok"}}
	vc := newVoice(responder, 2)

	ev := event.InboundEvent{
		Sender:     "+1555",
		CallSID:    "CA123",
		FlowHint:   event.FlowVoiceGather,
		Transcript: "hello",
	}

	for i := 0; i < 2; i++ {
		doc := vc.HandleTurn(context.Background(), ev, voiceSession("CA123"))
		assert.NotNil(t, doc.Gather, "turn %d should keep gathering", i+1)
	}

	doc := vc.HandleTurn(context.Background(), ev, voiceSession("CA123"))
	xml := render(t, doc)
	assert.Contains(t, xml, "<Hangup")
	assert.NotContains(t, xml, "<Gather")
	assert.Contains(t, xml, "Goodbye")

	// The counter resets once the call was ended, so a new call with the
	// same sid starts over.
	doc = vc.HandleTurn(context.Background(), ev, voiceSession("CA123"))
	assert.NotNil(t, doc.Gather)
}

func TestVoiceArabicLocale(t *testing.T) {
	responder := &stubResponder{}
	vc := newVoice(responder, 0)

	sess := session.Context{Key: "CA9", Channel: event.ChannelVoice, Locale: session.LocaleArabic}
	doc := vc.HandleTurn(context.Background(), event.InboundEvent{CallSID: "CA9"}, sess)

	xml := render(t, doc)
	assert.Contains(t, xml, `language="ar-SA"`)
	assert.Contains(t, xml, "رمانة")
}

func TestVoiceReplyTextIsEscaped(t *testing.T) {
	responder := &stubResponder{reply: agent.Reply{Text: `<Say>injected</Say> & more`}}
	vc := newVoice(responder, 0)

	ev := event.InboundEvent{CallSID: "CA1", FlowHint: event.FlowVoiceGather, Transcript: "hi"}
	doc := vc.HandleTurn(context.Background(), ev, voiceSession("CA1"))

	xml := render(t, doc)
	assert.NotContains(t, xml, "<Say>injected</Say>")
	assert.Contains(t, xml, "&lt;Say&gt;injected&lt;/Say&gt; &amp; more")
}
