package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Cancel for an unknown task id.
var ErrNotFound = errors.New("scheduled task not found")

// Store defines the persistence operations the scheduler needs.
// Implemented by storage.Store.
type Store interface {
	CreateTask(ctx context.Context, t Task) error
	ListTasks(ctx context.Context, conversationID string) ([]Task, error)
	// DeleteTask reports false when no task with the id existed.
	DeleteTask(ctx context.Context, id string) (bool, error)
	AllTasks(ctx context.Context) ([]Task, error)
}

// FireFunc is invoked when a task comes due. A non-nil error means the task
// was not delivered; a one-shot task is then retried instead of removed.
type FireFunc func(ctx context.Context, t Task) error

// fireRetryDelay is how long a one-shot task waits before refiring after a
// failed delivery, e.g. when its conversation already has a turn in flight.
const fireRetryDelay = 15 * time.Second

// Scheduler arms one timer per pending task and fires the callback when a
// task comes due. One-shot tasks are removed after firing; cron tasks are
// re-armed for their next tick.
type Scheduler struct {
	store  Store
	fire   FireFunc
	logger *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	running bool
	wg      sync.WaitGroup
	retry   time.Duration
}

// New creates a Scheduler. The callback is invoked from timer goroutines.
func New(store Store, fire FireFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:  store,
		fire:   fire,
		logger: logger,
		timers: make(map[string]*time.Timer),
		retry:  fireRetryDelay,
	}
}

// Start loads persisted tasks and arms their timers. One-shot tasks whose
// time passed while the process was down fire immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	tasks, err := s.store.AllTasks(ctx)
	if err != nil {
		return fmt.Errorf("loading scheduled tasks: %w", err)
	}
	for _, t := range tasks {
		s.arm(t)
	}
	s.logger.Debug("scheduler started", "tasks", len(tasks))
	return nil
}

// Stop cancels all timers and waits for in-flight callbacks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// Register persists a new task and arms its timer, returning the task id.
func (s *Scheduler) Register(ctx context.Context, conversationID, description string, when When) (string, error) {
	if err := when.Validate(); err != nil {
		return "", err
	}

	t := Task{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Description:    description,
		When:           when,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return "", fmt.Errorf("persisting task: %w", err)
	}

	s.arm(t)
	s.logger.Info("task registered", "id", t.ID, "kind", when.Kind, "description", description)
	return t.ID, nil
}

// List returns a conversation's pending tasks in registration order.
func (s *Scheduler) List(ctx context.Context, conversationID string) ([]Task, error) {
	return s.store.ListTasks(ctx, conversationID)
}

// Cancel removes a task by id, returning ErrNotFound for unknown ids.
func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.disarm(id)

	ok, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}
	s.logger.Info("task canceled", "id", id)
	return nil
}

func (s *Scheduler) arm(t Task) {
	next, ok := t.NextRun(time.Now())
	delay := time.Duration(0)
	if ok {
		delay = time.Until(next)
		if delay < 0 {
			delay = 0
		}
	} else if t.Recurring() {
		return
	}
	// A one-shot whose time already passed fires immediately rather than
	// being dropped silently.

	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, exists := s.timers[t.ID]; exists {
		timer.Stop()
	}
	s.timers[t.ID] = time.AfterFunc(delay, func() {
		s.onFire(t)
	})
}

func (s *Scheduler) disarm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, exists := s.timers[id]; exists {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) onFire(t Task) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	// Add while still holding the lock so Stop cannot start waiting
	// between the running check and the Add.
	s.wg.Add(1)
	delete(s.timers, t.ID)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s.logger.Info("task firing", "id", t.ID, "description", t.Description)
	var fireErr error
	if s.fire != nil {
		fireErr = s.fire(ctx, t)
	}

	if t.Recurring() {
		if fireErr != nil {
			s.logger.Warn("task delivery failed", "id", t.ID, "error", fireErr)
		}
		s.arm(t)
		return
	}
	if fireErr != nil {
		s.logger.Warn("task delivery failed, will retry", "id", t.ID, "error", fireErr, "delay", s.retry)
		s.rearm(t)
		return
	}
	if _, err := s.store.DeleteTask(ctx, t.ID); err != nil {
		s.logger.Error("removing fired task", "id", t.ID, "error", err)
	}
}

// rearm schedules another firing attempt after the retry delay. Unlike arm it
// never fires immediately, so a persistently busy conversation is polled
// rather than hot-looped.
func (s *Scheduler) rearm(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if timer, exists := s.timers[t.ID]; exists {
		timer.Stop()
	}
	s.timers[t.ID] = time.AfterFunc(s.retry, func() {
		s.onFire(t)
	})
}
