// Package command recognizes the slash-command grammar users can type
// instead of ordinary chat text: /reset, /profile and /level.
package command

import (
	"regexp"
	"strings"
)

// Kind identifies which command, if any, a message matched.
type Kind int

const (
	// None means the text is ordinary chat input, including near-miss
	// typos of a command. Near-misses fall through to extraction, they
	// are never an error.
	None Kind = iota
	Reset
	ShowProfile
	SetLevel
)

// Command is the result of parsing user text. Level is set only for
// SetLevel.
type Command struct {
	Kind  Kind
	Level string
}

var levelRe = regexp.MustCompile(`^/level\s+(beginner|intermediate|advanced)$`)

// Parse matches trimmed, case-folded user text against the command
// grammar. It is total: any input yields a result, unrecognized input
// yields Kind None.
func Parse(text string) Command {
	trimmed := strings.ToLower(strings.TrimSpace(text))

	switch trimmed {
	case "/reset":
		return Command{Kind: Reset}
	case "/profile":
		return Command{Kind: ShowProfile}
	}
	if m := levelRe.FindStringSubmatch(trimmed); m != nil {
		return Command{Kind: SetLevel, Level: m[1]}
	}
	return Command{Kind: None}
}

// Fixed responses emitted by the orchestrator when a command matches.
const (
	ResetConfirmation = "🔄 Profile reset! Tell me about your Linux setup (distro, desktop, hardware) or use /level to set your experience level."

	ProfileHeader = "📋 **Your Current Profile:**"
)

// LevelConfirmation renders the acknowledgement for a /level command.
func LevelConfirmation(level string) string {
	return "✅ Experience level set to **" + level + "**. I'll adjust my explanations accordingly."
}
