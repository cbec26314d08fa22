// Package chat orchestrates conversation turns: command handling,
// profile extraction, prompt composition, generation with tool rounds,
// and history persistence.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/extract"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/history"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
)

// ErrBusy is returned when a conversation already has a turn in flight.
var ErrBusy = errors.New("a turn is already in flight for this conversation")

// EventKind identifies a turn event.
type EventKind int

const (
	// EventTextDelta is an incremental chunk of assistant text.
	EventTextDelta EventKind = iota
	// EventToolCall fires when the model requests a tool invocation.
	EventToolCall
	// EventToolResult fires after a tool executes.
	EventToolResult
	// EventWarning reports a degraded step the turn survived.
	EventWarning
	// EventError reports a turn-fatal failure; no further events follow.
	EventError
	// EventFinish closes a successful turn and carries usage metadata.
	EventFinish
)

// Event is a single item in a turn's event stream.
type Event struct {
	Kind EventKind

	// Text is set for EventTextDelta, EventWarning and EventError.
	Text string

	// ToolName is set for EventToolCall and EventToolResult;
	// ToolResult only for the latter.
	ToolName   string
	ToolResult string

	// Finish is set for EventFinish.
	Finish *generator.Finish
}

// Generator runs model passes. Satisfied by *generator.Client.
type Generator interface {
	Stream(ctx context.Context, req generator.Request, emit func(generator.Event)) (*generator.Result, error)
}

// Executor declares and runs the model-callable tools. Satisfied by
// *tools.Registry.
type Executor interface {
	Definitions() []generator.Tool
	Execute(ctx context.Context, conversationID string, call generator.ToolCall) string
}

// TurnStore persists conversation history.
type TurnStore interface {
	AppendTurn(ctx context.Context, conversationID string, t history.Turn) error
	ListTurns(ctx context.Context, conversationID string) ([]history.Turn, error)
}

// Options bound a single turn's generation work.
type Options struct {
	// MaxSteps caps generation rounds within one turn (the first pass
	// plus tool-result follow-ups).
	MaxSteps int
	// MaxTokens caps output tokens per generation pass.
	MaxTokens int
}

// DefaultOptions are the limits used when the caller passes zeroes.
func DefaultOptions() Options {
	return Options{MaxSteps: 5, MaxTokens: 2048}
}

// Manager hands out one Session per conversation.
type Manager struct {
	profiles  *profile.Manager
	extractor extract.Extractor
	gen       Generator
	exec      Executor
	turns     TurnStore
	opts      Options
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager wires the turn pipeline. A nil logger falls back to
// slog.Default; zero opts fields take the defaults.
func NewManager(profiles *profile.Manager, extractor extract.Extractor, gen Generator, exec Executor, turns TurnStore, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = def.MaxSteps
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	return &Manager{
		profiles:  profiles,
		extractor: extractor,
		gen:       gen,
		exec:      exec,
		turns:     turns,
		opts:      opts,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the session for a conversation, creating it on first use.
func (m *Manager) Session(conversationID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[conversationID]
	if !ok {
		s = &Session{id: conversationID, m: m, sem: make(chan struct{}, 1)}
		m.sessions[conversationID] = s
	}
	return s
}
