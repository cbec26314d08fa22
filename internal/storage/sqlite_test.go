package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/history"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/scheduler"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsApplied(t *testing.T) {
	s := openTestStore(t)
	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(versions) == 0 || versions[0] != 1 {
		t.Errorf("versions = %v, want [1 ...]", versions)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, found, err := s.LoadProfile(ctx, "conv-1"); err != nil || found {
		t.Fatalf("fresh load: found=%v err=%v", found, err)
	}

	p := profile.Default(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	p.Distro = "arch"
	p.Hardware.GPUVendor = "nvidia"
	p.PreferredEditors = []string{"helix", "vim"}

	if err := s.SaveProfile(ctx, "conv-1", p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, found, err := s.LoadProfile(ctx, "conv-1")
	if err != nil || !found {
		t.Fatalf("LoadProfile: found=%v err=%v", found, err)
	}
	if got.Distro != "arch" || got.Hardware.GPUVendor != "nvidia" {
		t.Errorf("got %#v", got)
	}
	if !reflect.DeepEqual(got.PreferredEditors, []string{"helix", "vim"}) {
		t.Errorf("editors = %#v", got.PreferredEditors)
	}

	// Upsert replaces.
	p.Distro = "void"
	if err := s.SaveProfile(ctx, "conv-1", p); err != nil {
		t.Fatalf("SaveProfile update: %v", err)
	}
	got, _, _ = s.LoadProfile(ctx, "conv-1")
	if got.Distro != "void" {
		t.Errorf("distro after upsert = %q", got.Distro)
	}
}

func TestTurnsOrderedPerConversation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	turns := []history.Turn{
		{ID: "t1", Role: history.RoleUser, Parts: []history.Part{{Kind: history.PartText, Text: "hi"}}, CreatedAt: now},
		{ID: "t2", Role: history.RoleAssistant, Parts: []history.Part{{Kind: history.PartText, Text: "hello"}}, CreatedAt: now},
	}
	for _, turn := range turns {
		if err := s.AppendTurn(ctx, "conv-1", turn); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}
	if err := s.AppendTurn(ctx, "conv-2", history.Turn{ID: "x", Role: history.RoleUser, Parts: []history.Part{}, CreatedAt: now}); err != nil {
		t.Fatalf("AppendTurn other conv: %v", err)
	}

	got, err := s.ListTurns(ctx, "conv-1")
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("turns = %#v", got)
	}
	if got[0].Parts[0].Text != "hi" {
		t.Errorf("parts = %#v", got[0].Parts)
	}
}

func TestTurnToolPartsSurviveRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	turn := history.Turn{
		ID:   "t1",
		Role: history.RoleAssistant,
		Parts: []history.Part{
			{Kind: history.PartText, Text: "scheduling"},
			{Kind: history.PartTool, Tool: &history.ToolInvocation{
				CallID:  "c1",
				Name:    "schedule_task",
				Args:    `{"when":"in 5 minutes"}`,
				Outcome: &history.Outcome{Result: "scheduled"},
			}},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.AppendTurn(ctx, "conv-1", turn); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	got, err := s.ListTurns(ctx, "conv-1")
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	tool := got[0].Parts[1].Tool
	if tool == nil || tool.CallID != "c1" || tool.Outcome == nil || tool.Outcome.Result != "scheduled" {
		t.Errorf("tool part = %#v", tool)
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	task := scheduler.Task{
		ID:             "task-1",
		ConversationID: "conv-1",
		Description:    "update mirrors",
		When:           scheduler.When{Kind: scheduler.KindIn, Delay: time.Hour},
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tasks, err := s.ListTasks(ctx, "conv-1")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Description != "update mirrors" {
		t.Fatalf("tasks = %#v", tasks)
	}
	if tasks[0].When.Kind != scheduler.KindIn || tasks[0].When.Delay != time.Hour {
		t.Errorf("when = %#v", tasks[0].When)
	}

	all, err := s.AllTasks(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("AllTasks = %#v, err %v", all, err)
	}

	ok, err := s.DeleteTask(ctx, "task-1")
	if err != nil || !ok {
		t.Fatalf("DeleteTask: ok=%v err=%v", ok, err)
	}
	ok, err = s.DeleteTask(ctx, "task-1")
	if err != nil || ok {
		t.Errorf("second delete: ok=%v err=%v", ok, err)
	}
}
