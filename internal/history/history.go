// Package history models conversation turns and prepares stored history
// for submission to the model backend.
package history

import (
	"strings"
	"time"
)

// Roles a turn can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Part kinds.
const (
	PartText = "text"
	PartTool = "tool"
)

// Turn is one message in a conversation. A turn owns an ordered list of
// parts; a turn with no parts is legal and preserved as-is.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Parts     []Part    `json:"parts"`
	CreatedAt time.Time `json:"createdAt"`
}

// Part is either literal text or a tool invocation.
type Part struct {
	Kind string          `json:"kind"`
	Text string          `json:"text,omitempty"`
	Tool *ToolInvocation `json:"tool,omitempty"`
}

// ToolInvocation records one tool call made by the assistant. Outcome is
// nil while the call is still pending.
type ToolInvocation struct {
	CallID  string   `json:"callId"`
	Name    string   `json:"name"`
	Args    string   `json:"args"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// Outcome is the terminal state of a tool invocation: a result or an
// error message, never both empty semantics at once.
type Outcome struct {
	Result string `json:"result,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Terminal reports whether the invocation carries a result or error.
func (ti *ToolInvocation) Terminal() bool {
	return ti != nil && ti.Outcome != nil
}

// Text concatenates the literal-text parts of a turn into one string,
// ignoring tool parts. Used to feed the command router and extractors.
func Text(t Turn) string {
	var b strings.Builder
	for _, p := range t.Parts {
		if p.Kind != PartText {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// Reconcile returns a copy of the history that is safe to submit to the
// model backend: tool invocations left pending by an interrupted turn are
// removed, since the backend rejects calls without results. The filter is
// order-preserving within each turn, never reorders or drops turns, and
// keeps turns that end up with no parts. Applying it twice yields the
// same result.
func Reconcile(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		ct := t
		ct.Parts = make([]Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			if p.Kind == PartTool && !p.Tool.Terminal() {
				continue
			}
			ct.Parts = append(ct.Parts, p)
		}
		out[i] = ct
	}
	return out
}
