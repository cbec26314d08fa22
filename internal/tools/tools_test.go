package tools

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/scheduler"
)

type memStore struct {
	mu    sync.Mutex
	tasks []scheduler.Task
}

func (m *memStore) CreateTask(_ context.Context, t scheduler.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *memStore) ListTasks(_ context.Context, conversationID string) ([]scheduler.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []scheduler.Task
	for _, t := range m.tasks {
		if t.ConversationID == conversationID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) DeleteTask(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AllTasks(_ context.Context) ([]scheduler.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]scheduler.Task{}, m.tasks...), nil
}

func newRegistry() (*Registry, *memStore) {
	store := &memStore{}
	return NewRegistry(scheduler.New(store, nil, nil)), store
}

func call(name string, args map[string]any) generator.ToolCall {
	return generator.ToolCall{Function: generator.ToolCallFunction{Name: name, Arguments: args}}
}

func TestExecuteScheduleDelayed(t *testing.T) {
	r, store := newRegistry()

	got := r.Execute(context.Background(), "conv-1", call(NameSchedule, map[string]any{
		"when":        map[string]any{"type": "delayed", "delayInSeconds": float64(300)},
		"description": "update system",
	}))

	if !strings.Contains(got, "Task scheduled") {
		t.Fatalf("result = %q", got)
	}
	tasks, _ := store.ListTasks(context.Background(), "conv-1")
	if len(tasks) != 1 || tasks[0].Description != "update system" {
		t.Fatalf("stored tasks = %#v", tasks)
	}
	if tasks[0].When.Kind != scheduler.KindIn || tasks[0].When.Delay != 5*time.Minute {
		t.Errorf("when = %#v", tasks[0].When)
	}
}

func TestExecuteScheduleAbsoluteAndCron(t *testing.T) {
	r, store := newRegistry()

	date := time.Now().Add(time.Hour).Format(time.RFC3339)
	if got := r.Execute(context.Background(), "conv-1", call(NameSchedule, map[string]any{
		"when":        map[string]any{"type": "scheduled", "date": date},
		"description": "check backups",
	})); !strings.Contains(got, "Task scheduled") {
		t.Errorf("scheduled result = %q", got)
	}

	if got := r.Execute(context.Background(), "conv-1", call(NameSchedule, map[string]any{
		"when":        map[string]any{"type": "cron", "cron": "0 9 * * *"},
		"description": "daily updates",
	})); !strings.Contains(got, "Task scheduled") {
		t.Errorf("cron result = %q", got)
	}

	tasks, _ := store.ListTasks(context.Background(), "conv-1")
	if len(tasks) != 2 {
		t.Errorf("stored = %d, want 2", len(tasks))
	}
}

func TestExecuteScheduleFailuresAreText(t *testing.T) {
	r, _ := newRegistry()

	cases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"no-schedule type", map[string]any{
			"when":        map[string]any{"type": "no-schedule"},
			"description": "x",
		}, "Not a valid schedule input"},
		{"unknown type", map[string]any{
			"when":        map[string]any{"type": "whenever"},
			"description": "x",
		}, "Not a valid schedule input"},
		{"bad date", map[string]any{
			"when":        map[string]any{"type": "scheduled", "date": "tomorrow-ish"},
			"description": "x",
		}, "Not a valid schedule input"},
		{"missing description", map[string]any{
			"when": map[string]any{"type": "delayed", "delayInSeconds": float64(60)},
		}, "description is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Execute(context.Background(), "conv-1", call(NameSchedule, tc.args))
			if !strings.Contains(got, tc.want) {
				t.Errorf("result = %q, want substring %q", got, tc.want)
			}
		})
	}
}

func TestExecuteListEmptyAndPopulated(t *testing.T) {
	r, _ := newRegistry()

	if got := r.Execute(context.Background(), "conv-1", call(NameList, nil)); got != "No scheduled tasks found." {
		t.Errorf("empty list = %q", got)
	}

	r.Execute(context.Background(), "conv-1", call(NameSchedule, map[string]any{
		"when":        map[string]any{"type": "delayed", "delayInSeconds": float64(3600)},
		"description": "clean pacman cache",
	}))

	got := r.Execute(context.Background(), "conv-1", call(NameList, nil))
	if !strings.Contains(got, "clean pacman cache") {
		t.Errorf("list = %q", got)
	}
}

func TestExecuteCancel(t *testing.T) {
	r, store := newRegistry()

	r.Execute(context.Background(), "conv-1", call(NameSchedule, map[string]any{
		"when":        map[string]any{"type": "delayed", "delayInSeconds": float64(3600)},
		"description": "x",
	}))
	tasks, _ := store.ListTasks(context.Background(), "conv-1")
	id := tasks[0].ID

	if got := r.Execute(context.Background(), "conv-1", call(NameCancel, map[string]any{"taskId": id})); !strings.Contains(got, "successfully canceled") {
		t.Errorf("cancel = %q", got)
	}
	if got := r.Execute(context.Background(), "conv-1", call(NameCancel, map[string]any{"taskId": id})); !strings.Contains(got, "No scheduled task") {
		t.Errorf("double cancel = %q", got)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r, _ := newRegistry()
	if got := r.Execute(context.Background(), "conv-1", call("rm_rf_slash", nil)); !strings.Contains(got, "Unknown tool") {
		t.Errorf("result = %q", got)
	}
}

func TestWantsScheduling(t *testing.T) {
	yes := []string{
		"remind me to update tomorrow",
		"can you schedule a cleanup",
		"I'll do it later",
		"ping me in 5 minutes",
		"in 2 hours please",
		"check again in 3 days",
	}
	no := []string{
		"how do I install docker?",
		"my wifi driver is broken",
		"what is a minute hand",
		"",
	}
	for _, s := range yes {
		if !WantsScheduling(s) {
			t.Errorf("WantsScheduling(%q) = false, want true", s)
		}
	}
	for _, s := range no {
		if WantsScheduling(s) {
			t.Errorf("WantsScheduling(%q) = true, want false", s)
		}
	}
}
