package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/command"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/composer"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/history"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/tools"
)

// Session runs turns for one conversation. At most one turn is in
// flight at a time; HandleMessage returns ErrBusy otherwise.
type Session struct {
	id string
	m  *Manager

	// sem holds one token; a turn owns it from HandleMessage until its
	// producer goroutine finishes, so turns never interleave.
	sem chan struct{}

	// hist is the in-memory view of persisted turns, loaded lazily.
	hist   []history.Turn
	loaded bool
}

func (s *Session) tryAcquire() bool {
	select {
	case s.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Session) release() { <-s.sem }

// HandleMessage runs one conversation turn and streams its events. The
// channel is unbuffered and closed when the turn ends; if ctx is
// cancelled the partial assistant output is discarded, not persisted.
func (s *Session) HandleMessage(ctx context.Context, text string) (<-chan Event, error) {
	if !s.tryAcquire() {
		return nil, ErrBusy
	}
	events := make(chan Event)
	go func() {
		defer s.release()
		defer close(events)
		s.run(ctx, text, events)
	}()
	return events, nil
}

// ScheduledTaskFired records a fired reminder as a user-role turn so the
// next generation pass sees it. No generation happens here.
func (s *Session) ScheduledTaskFired(ctx context.Context, description string) error {
	if !s.tryAcquire() {
		return ErrBusy
	}
	defer s.release()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	turn := newTurn(history.RoleUser, fmt.Sprintf("Running scheduled task: %s", description))
	if err := s.m.turns.AppendTurn(ctx, s.id, turn); err != nil {
		return fmt.Errorf("persisting scheduled-task turn: %w", err)
	}
	s.hist = append(s.hist, turn)
	return nil
}

func (s *Session) run(ctx context.Context, text string, events chan<- Event) {
	if err := s.ensureLoaded(ctx); err != nil {
		s.send(ctx, events, Event{Kind: EventError, Text: fmt.Sprintf("loading history: %v", err)})
		return
	}

	userTurn := newTurn(history.RoleUser, text)
	s.persistTurn(ctx, userTurn, events)
	s.hist = append(s.hist, userTurn)

	if cmd := command.Parse(text); cmd.Kind != command.None {
		s.runCommand(ctx, cmd, events)
		return
	}

	prof := s.applyExtraction(ctx, text, events)

	req := generator.Request{
		System:    composer.SystemPrompt(prof),
		Messages:  toWire(history.Reconcile(s.hist)),
		MaxTokens: s.m.opts.MaxTokens,
	}
	if tools.WantsScheduling(text) {
		req.Tools = s.m.exec.Definitions()
	}

	assistant := newTurn(history.RoleAssistant)
	var finish generator.Finish

	for step := 0; step < s.m.opts.MaxSteps; step++ {
		res, err := s.m.gen.Stream(ctx, req, func(ev generator.Event) {
			switch ev.Kind {
			case generator.EventTextDelta:
				s.send(ctx, events, Event{Kind: EventTextDelta, Text: ev.Text})
			case generator.EventToolCall:
				s.send(ctx, events, Event{Kind: EventToolCall, ToolName: ev.ToolCall.Function.Name})
			}
		})
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled mid-generation: the partial assistant
				// output is discarded.
				return
			}
			s.m.logger.Error("generation failed", "conversation", s.id, "error", err)
			s.send(ctx, events, Event{Kind: EventError, Text: fmt.Sprintf("generation failed: %v", err)})
			return
		}

		if res.Content != "" {
			assistant.Parts = append(assistant.Parts, history.Part{Kind: history.PartText, Text: res.Content})
		}
		finish = res.Finish
		if len(res.ToolCalls) == 0 {
			break
		}

		req.Messages = append(req.Messages, generator.Message{
			Role:      "assistant",
			Content:   res.Content,
			ToolCalls: res.ToolCalls,
		})
		for _, call := range res.ToolCalls {
			result := s.m.exec.Execute(ctx, s.id, call)
			s.send(ctx, events, Event{Kind: EventToolResult, ToolName: call.Function.Name, ToolResult: result})
			assistant.Parts = append(assistant.Parts, history.Part{
				Kind: history.PartTool,
				Tool: &history.ToolInvocation{
					CallID:  uuid.NewString(),
					Name:    call.Function.Name,
					Args:    encodeArgs(call.Function.Arguments),
					Outcome: &history.Outcome{Result: result},
				},
			})
			req.Messages = append(req.Messages, generator.Message{
				Role:     "tool",
				ToolName: call.Function.Name,
				Content:  result,
			})
		}
	}

	if ctx.Err() != nil {
		return
	}
	s.persistTurn(ctx, assistant, events)
	s.hist = append(s.hist, assistant)
	s.send(ctx, events, Event{Kind: EventFinish, Finish: &finish})
}

// runCommand answers /reset, /profile and /level without touching the
// generator.
func (s *Session) runCommand(ctx context.Context, cmd command.Command, events chan<- Event) {
	var reply string
	switch cmd.Kind {
	case command.Reset:
		if _, err := s.m.profiles.Reset(ctx, s.id); err != nil {
			s.m.logger.Error("profile reset failed", "conversation", s.id, "error", err)
			s.send(ctx, events, Event{Kind: EventError, Text: fmt.Sprintf("resetting profile: %v", err)})
			return
		}
		reply = command.ResetConfirmation
	case command.ShowProfile:
		p, err := s.m.profiles.Get(ctx, s.id)
		if err != nil {
			s.send(ctx, events, Event{Kind: EventError, Text: fmt.Sprintf("loading profile: %v", err)})
			return
		}
		reply = command.ProfileHeader + "\n\n" + p.ForDisplay()
	case command.SetLevel:
		level := cmd.Level
		if _, err := s.m.profiles.Apply(ctx, s.id, profile.Update{ExperienceLevel: &level}); err != nil {
			s.m.logger.Warn("persisting level change failed", "conversation", s.id, "error", err)
			s.send(ctx, events, Event{Kind: EventWarning, Text: "level change not persisted"})
		}
		reply = command.LevelConfirmation(cmd.Level)
	}

	s.send(ctx, events, Event{Kind: EventTextDelta, Text: reply})
	turn := newTurn(history.RoleAssistant, reply)
	s.persistTurn(ctx, turn, events)
	s.hist = append(s.hist, turn)
	s.send(ctx, events, Event{Kind: EventFinish, Finish: &generator.Finish{Reason: "command"}})
}

// applyExtraction runs the configured extractor and merges any update.
// Failures degrade: the turn continues on the freshest in-memory profile.
func (s *Session) applyExtraction(ctx context.Context, text string, events chan<- Event) profile.Profile {
	upd := s.m.extractor.Extract(ctx, text)
	if upd.IsZero() {
		p, err := s.m.profiles.Get(ctx, s.id)
		if err != nil {
			s.m.logger.Warn("loading profile failed, composing against defaults", "conversation", s.id, "error", err)
			s.send(ctx, events, Event{Kind: EventWarning, Text: "profile unavailable, using defaults"})
			return profile.Default(time.Now())
		}
		return p
	}

	p, err := s.m.profiles.Apply(ctx, s.id, upd)
	if err != nil {
		// Apply returns the merged profile even when persistence
		// failed; keep going on it.
		s.m.logger.Error("persisting profile failed", "conversation", s.id, "error", err)
		s.send(ctx, events, Event{Kind: EventWarning, Text: "profile update not persisted"})
	}
	return p
}

func (s *Session) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	turns, err := s.m.turns.ListTurns(ctx, s.id)
	if err != nil {
		return err
	}
	s.hist = turns
	s.loaded = true
	return nil
}

// persistTurn writes a turn to the store; a failure is a warning, not a
// turn-fatal error.
func (s *Session) persistTurn(ctx context.Context, t history.Turn, events chan<- Event) {
	if err := s.m.turns.AppendTurn(ctx, s.id, t); err != nil {
		s.m.logger.Error("persisting turn failed", "conversation", s.id, "turn", t.ID, "error", err)
		s.send(ctx, events, Event{Kind: EventWarning, Text: "turn not persisted"})
	}
}

// send forwards an event, abandoning delivery when ctx ends.
func (s *Session) send(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func newTurn(role string, texts ...string) history.Turn {
	t := history.Turn{ID: uuid.NewString(), Role: role, CreatedAt: time.Now().UTC()}
	for _, txt := range texts {
		t.Parts = append(t.Parts, history.Part{Kind: history.PartText, Text: txt})
	}
	return t
}
