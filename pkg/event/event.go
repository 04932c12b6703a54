// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package event

import (
	"net/url"
	"strings"
)

// Channel is the transport family of an inbound conversational event.
type Channel string

const (
	ChannelVoice Channel = "voice"
	ChannelChat  Channel = "chat"
)

// FlowVoiceGather marks a continuation turn of the voice gather loop. The
// telephony provider posts captured speech back with this flow hint set.
const FlowVoiceGather = "voice_gather"

// whatsappScheme prefixes sender addresses delivered over WhatsApp
// transport, e.g. "whatsapp:+966501234567".
const whatsappScheme = "whatsapp:"

// InboundEvent is an immutable snapshot of one webhook delivery. No two
// fields are guaranteed both present; empty status callbacks legitimately
// carry almost nothing.
type InboundEvent struct {
	Sender     string // caller / sender address ("From")
	Body       string // free-text message body ("Body")
	CallSID    string // telephony call session id ("CallSid")
	Transcript string // captured speech ("SpeechResult")
	MediaURL   string // first media reference ("MediaUrl0")
	LocaleHint string // explicit locale field, when the provider sends one
	FlowHint   string // query-string flow marker
}

// ParseValues builds an InboundEvent from a form-decoded webhook payload.
// Unknown fields are ignored, never an error.
func ParseValues(form url.Values, flow string) InboundEvent {
	return InboundEvent{
		Sender:     strings.TrimSpace(form.Get("From")),
		Body:       form.Get("Body"),
		CallSID:    strings.TrimSpace(form.Get("CallSid")),
		Transcript: form.Get("SpeechResult"),
		MediaURL:   strings.TrimSpace(form.Get("MediaUrl0")),
		LocaleHint: strings.TrimSpace(form.Get("Locale")),
		FlowHint:   flow,
	}
}

// Classify decides which channel protocol applies. A call session id is
// authoritative and always wins, even when the sender address also looks
// like a chat address; the remaining transports all share the one-shot
// chat protocol.
func Classify(ev InboundEvent) Channel {
	if ev.CallSID != "" {
		return ChannelVoice
	}
	return ChannelChat
}

// IsWhatsApp reports whether the sender address uses the WhatsApp scheme.
// The distinction only matters for addressing, not behavior.
func IsWhatsApp(sender string) bool {
	return strings.HasPrefix(sender, whatsappScheme)
}

// BareAddress strips the transport scheme from a sender address, leaving
// the phone number or handle.
func BareAddress(sender string) string {
	return strings.TrimPrefix(sender, whatsappScheme)
}

// Actionable reports whether the event can drive any adapter at all. Events
// with no call id and no text are quiescent (e.g. delivery status
// callbacks) and get the neutral acknowledgement.
func Actionable(ev InboundEvent) bool {
	if ev.CallSID != "" {
		return true
	}
	return strings.TrimSpace(ev.Body) != ""
}
