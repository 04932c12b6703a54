// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package session

import (
	"fmt"
	"strings"

	"github.com/rommaana/agentgw/pkg/event"
)

// Locale is one of the two supported conversation locales. Unrecognized
// input always degrades to the configured default, never to an error.
type Locale string

const (
	LocaleEnglish Locale = "en-US"
	LocaleArabic  Locale = "ar-SA"
)

// saudiPrefix is the E.164 country prefix used as the best-effort Arabic
// locale signal.
const saudiPrefix = "+966"

// Context identifies one logical conversation for the duration of a single
// inbound event. Voice keys are stable for the lifetime of one call; chat
// keys are stable across many independent messages from the same sender.
type Context struct {
	Key     string
	Channel event.Channel
	Locale  Locale

	// Turn is the 1-based turn number within a voice call, used for the
	// gather-loop cap. Zero for chat.
	Turn int
}

// Resolver derives session identity and locale from raw inbound fields.
type Resolver struct {
	defaultLocale Locale
}

func NewResolver(defaultLocale string) *Resolver {
	loc := ParseLocale(defaultLocale)
	if loc == "" {
		loc = LocaleEnglish
	}
	return &Resolver{defaultLocale: loc}
}

// ParseLocale returns the matching supported locale or "" when the tag is
// not recognized.
func ParseLocale(tag string) Locale {
	switch strings.TrimSpace(tag) {
	case string(LocaleEnglish):
		return LocaleEnglish
	case string(LocaleArabic):
		return LocaleArabic
	default:
		return ""
	}
}

// Resolve builds the session context for a classified event. The voice
// branch requires a call session id; reaching it without one is an
// internal-consistency failure the gateway must surface as a generic 500.
func (r *Resolver) Resolve(ev event.InboundEvent, ch event.Channel) (Context, error) {
	key := ev.Sender
	if key == "" {
		key = "unknown"
	}
	if ch == event.ChannelVoice {
		if ev.CallSID == "" {
			return Context{}, fmt.Errorf("voice event without call session id from %q", ev.Sender)
		}
		key = ev.CallSID
	}
	return Context{
		Key:     key,
		Channel: ch,
		Locale:  r.locale(ev),
	}, nil
}

// locale picks the conversation locale: an explicit field wins, then the
// phone-prefix heuristic, then the default. A wrong guess degrades to a
// readable reply, so this never fails.
func (r *Resolver) locale(ev event.InboundEvent) Locale {
	if loc := ParseLocale(ev.LocaleHint); loc != "" {
		return loc
	}
	if strings.HasPrefix(event.BareAddress(ev.Sender), saudiPrefix) {
		return LocaleArabic
	}
	return r.defaultLocale
}
