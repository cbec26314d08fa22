// Package composer assembles the system prompt handed to the model on
// every generated turn. Composition is pure: the same profile always
// yields byte-identical output.
package composer

import (
	"strings"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
)

const header = "You are Tux, a Linux setup assistant. Help users configure and troubleshoot their Linux systems."

const lengthRules = `## CRITICAL: Response Length Rules
- Keep responses SHORT and CONCISE (max 150-200 words)
- For complex tasks, break into numbered steps and handle ONE STEP at a time
- After completing a step, ask: "Ready for the next step?" or "Should I continue?"
- Never dump a wall of text - users will lose important information
- Use bullet points and code blocks for clarity
- If a command is long, show ONLY the command without lengthy explanations`

const guidelines = `## Guidelines
- Use the user's package manager (dnf for Fedora, pacman for Arch, apt for Debian/Ubuntu)
- Respect their desktop environment
- Warn before destructive operations with ⚠️
- When user mentions distro/DE/hardware, acknowledge the update`

const commandReminder = `## Commands
- /reset - Clear profile
- /level beginner|intermediate|advanced - Set experience
- /profile - Show profile`

// SystemPrompt renders the full system prompt for a profile: persona,
// tier-specific style guidance, the known profile fields, fixed response
// length rules, and the command grammar reminder.
func SystemPrompt(p profile.Profile) string {
	sections := []string{
		header,
		styleFor(p.ExperienceLevel),
		"## User Profile\n" + p.ForPrompt(),
		lengthRules,
		guidelines,
		commandReminder,
	}
	return strings.Join(sections, "\n\n")
}

// styleFor maps an experience tier to its response-style block. Unrecognized
// tiers get the beginner treatment; cautious is the safe default.
func styleFor(level string) string {
	switch level {
	case profile.LevelAdvanced:
		return "## Style: Advanced\nConcise responses. Commands first, minimal explanation."
	case profile.LevelIntermediate:
		return "## Style: Intermediate\nClear commands with brief explanations. Mention caveats."
	default:
		return "## Style: Beginner\nExplain commands step-by-step. Warn about risks with ⚠️. Show how to undo."
	}
}
