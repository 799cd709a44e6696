package session

import (
	"time"

	"github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

// DefaultRetention bounds the message history carried on a context.
const DefaultRetention = 20

// Turn records one exchange inside a conversation.
type Turn struct {
	Sender    string    `json:"sender"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Context is the per-conversation state owned by the concierge. It is
// mutated only between turns, never by responder agents.
type Context struct {
	SessionID           string               `json:"sessionId"`
	UserID              string               `json:"userId"`
	History             []Turn               `json:"history"`
	LastInteractionTime time.Time            `json:"lastInteractionTime"`
	SafetyFlags         []safety.Category    `json:"safetyFlags,omitempty"`
	Profile             *profile.UserProfile `json:"userProfile,omitempty"`
}

// RaiseSafetyFlag accumulates a trigger category on the session. Flags are
// append-only: a session's risk history never silently resets.
func (c *Context) RaiseSafetyFlag(cat safety.Category) {
	if cat == "" || cat == safety.None {
		return
	}
	for _, existing := range c.SafetyFlags {
		if existing == cat {
			return
		}
	}
	c.SafetyFlags = append(c.SafetyFlags, cat)
}

// HasSafetyFlag reports whether the category was ever raised on this session.
func (c *Context) HasSafetyFlag(cat safety.Category) bool {
	for _, existing := range c.SafetyFlags {
		if existing == cat {
			return true
		}
	}
	return false
}

// AppendTurn adds a turn and trims history to the retention window,
// dropping the oldest entries first.
func (c *Context) AppendTurn(turn Turn, retention int) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	c.History = append(c.History, turn)
	if len(c.History) > retention {
		c.History = c.History[len(c.History)-retention:]
	}
}

// Clone deep-copies the context so callers can hold it across turns without
// sharing slices with the concierge's working copy.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	out := &Context{
		SessionID:           c.SessionID,
		UserID:              c.UserID,
		LastInteractionTime: c.LastInteractionTime,
	}
	if len(c.History) > 0 {
		out.History = append([]Turn(nil), c.History...)
	}
	if len(c.SafetyFlags) > 0 {
		out.SafetyFlags = append([]safety.Category(nil), c.SafetyFlags...)
	}
	if c.Profile != nil {
		p := *c.Profile
		if len(p.MedicalFlags) > 0 {
			p.MedicalFlags = append([]string(nil), c.Profile.MedicalFlags...)
		}
		out.Profile = &p
	}
	return out
}
