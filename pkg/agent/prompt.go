package agent

import (
	"fmt"
	"strings"

	"github.com/rommaana/agentgw/pkg/session"
)

const systemFraming = "You are Rommaana, an intelligent insurance assistant for the Saudi Arabian market."

const closingInstruction = "Provide a helpful, professional, and culturally appropriate response."

// Fallback replies substituted when the generative backend fails. Fixed,
// one per supported locale, always non-empty.
const (
	fallbackEnglish = "I'm sorry, I'm experiencing technical difficulties. Please try again later."
	fallbackArabic  = "عذراً، أواجه مشكلة تقنية حالياً. يرجى المحاولة لاحقاً."
)

// FallbackText returns the deterministic localized reply for a failed turn.
func FallbackText(locale session.Locale) string {
	if locale == session.LocaleArabic {
		return fallbackArabic
	}
	return fallbackEnglish
}

func localeDirective(locale session.Locale) string {
	if locale == session.LocaleArabic {
		return "Language: Arabic (Saudi Dialect/Khaleeji)."
	}
	return "Language: English."
}

// buildPrompt composes the fixed system framing, the locale directive,
// recent conversation turns when a history store is present, and the
// verbatim user text.
func (o *Orchestrator) buildPrompt(sess session.Context, text string) string {
	var b strings.Builder
	b.WriteString(systemFraming)
	b.WriteString("\n")
	b.WriteString(localeDirective(sess.Locale))
	b.WriteString("\n")

	if o.history != nil && o.historyWindow > 0 {
		turns := o.history.RecentTurns(sess.Key, o.historyWindow)
		if len(turns) > 0 {
			b.WriteString("Recent conversation:\n")
			for _, t := range turns {
				fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
			}
		}
	}

	fmt.Fprintf(&b, "User Input: %s\n", text)
	b.WriteString(closingInstruction)
	return b.String()
}
