package session

import (
	"testing"

	"github.com/rommaana/agentgw/pkg/event"
)

func TestResolveVoice(t *testing.T) {
	r := NewResolver("en-US")

	ev := event.InboundEvent{Sender: "+15551234567", CallSID: "CA123"}
	sess, err := r.Resolve(ev, event.ChannelVoice)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sess.Key != "CA123" {
		t.Errorf("Key = %q, want call sid", sess.Key)
	}
	if sess.Channel != event.ChannelVoice {
		t.Errorf("Channel = %v", sess.Channel)
	}
}

func TestResolveVoiceWithoutCallSID(t *testing.T) {
	r := NewResolver("en-US")

	_, err := r.Resolve(event.InboundEvent{Sender: "+1555"}, event.ChannelVoice)
	if err == nil {
		t.Fatal("expected internal-consistency error for voice branch without call sid")
	}
}

func TestResolveChat(t *testing.T) {
	r := NewResolver("en-US")

	sess, err := r.Resolve(event.InboundEvent{Sender: "whatsapp:+15551234567", Body: "hi"}, event.ChannelChat)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sess.Key != "whatsapp:+15551234567" {
		t.Errorf("Key = %q, want sender address", sess.Key)
	}
}

func TestResolveChatMissingSender(t *testing.T) {
	r := NewResolver("en-US")

	sess, err := r.Resolve(event.InboundEvent{Body: "hi"}, event.ChannelChat)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sess.Key != "unknown" {
		t.Errorf("Key = %q, want unknown placeholder", sess.Key)
	}
}

func TestLocaleSelection(t *testing.T) {
	r := NewResolver("en-US")

	tests := []struct {
		name string
		ev   event.InboundEvent
		want Locale
	}{
		{"explicit locale field", event.InboundEvent{Sender: "+1555", LocaleHint: "ar-SA"}, LocaleArabic},
		{"explicit beats prefix", event.InboundEvent{Sender: "+966501234567", LocaleHint: "en-US"}, LocaleEnglish},
		{"saudi prefix", event.InboundEvent{Sender: "+966501234567"}, LocaleArabic},
		{"saudi prefix behind whatsapp scheme", event.InboundEvent{Sender: "whatsapp:+966501234567"}, LocaleArabic},
		{"us number defaults", event.InboundEvent{Sender: "+15551234567"}, LocaleEnglish},
		{"unrecognized hint degrades to default", event.InboundEvent{Sender: "+15551234567", LocaleHint: "fr-FR"}, LocaleEnglish},
		{"no signal at all", event.InboundEvent{}, LocaleEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := r.Resolve(tt.ev, event.ChannelChat)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if sess.Locale != tt.want {
				t.Errorf("Locale = %v, want %v", sess.Locale, tt.want)
			}
		})
	}
}

func TestNewResolverBadDefault(t *testing.T) {
	r := NewResolver("xx-XX")
	sess, err := r.Resolve(event.InboundEvent{Sender: "+1555"}, event.ChannelChat)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sess.Locale != LocaleEnglish {
		t.Errorf("unrecognized default should degrade to English, got %v", sess.Locale)
	}
}
