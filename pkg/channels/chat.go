// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package channels

import (
	"context"
	"fmt"

	"github.com/rommaana/agentgw/pkg/event"
	"github.com/rommaana/agentgw/pkg/session"
)

// ChatChannel implements the one-shot receive/respond protocol shared by
// WhatsApp-style and SMS-style messaging. A keyed mutex serializes turns
// per sender so two quick messages from one address are orchestrated in
// arrival order.
type ChatChannel struct {
	responder Responder
	locks     *session.KeyedMutex
}

func NewChatChannel(responder Responder) *ChatChannel {
	return &ChatChannel{
		responder: responder,
		locks:     session.NewKeyedMutex(),
	}
}

// HandleMessage wraps the orchestrator's reply in a single message
// envelope. Media is never fetched or decoded here; an attachment is only
// surfaced to the orchestrator as a textual annotation.
func (c *ChatChannel) HandleMessage(ctx context.Context, ev event.InboundEvent, sess session.Context) *Document {
	text := ev.Body
	if ev.MediaURL != "" {
		text = fmt.Sprintf("%s [User uploaded image: %s]", text, ev.MediaURL)
	}

	c.locks.Lock(sess.Key)
	defer c.locks.Unlock(sess.Key)
	reply := c.responder.Respond(ctx, sess, text)

	return &Document{
		Message: &Message{Text: reply.Text},
	}
}
