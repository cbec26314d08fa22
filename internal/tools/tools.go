// Package tools defines the functions the model may call during a turn
// and executes its calls. All three tools wrap the scheduler; execution
// failures are returned as tool-result text, never as pipeline errors.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/scheduler"
)

// Tool names.
const (
	NameSchedule = "schedule_task"
	NameList     = "get_scheduled_tasks"
	NameCancel   = "cancel_scheduled_task"
)

// Registry exposes the scheduler to the model as callable tools.
type Registry struct {
	sched *scheduler.Scheduler
}

// NewRegistry creates a Registry over the scheduler.
func NewRegistry(sched *scheduler.Scheduler) *Registry {
	return &Registry{sched: sched}
}

// Definitions returns the tool declarations offered to the model when a
// turn admits tools.
func (r *Registry) Definitions() []generator.Tool {
	return []generator.Tool{
		{
			Type: "function",
			Function: generator.ToolFunction{
				Name:        NameSchedule,
				Description: "Schedule a reminder or task to be executed at a later time. Use this when the user asks to be reminded about something.",
				Parameters: &generator.Schema{
					Type: "object",
					Properties: map[string]generator.SchemaProperty{
						"when": {Type: "object", Description: `When to run: {"type":"scheduled","date":"RFC3339 time"} or {"type":"delayed","delayInSeconds":N} or {"type":"cron","cron":"expr"}`},
						"description": {Type: "string", Description: "What to remind the user about"},
					},
					Required: []string{"when", "description"},
				},
			},
		},
		{
			Type: "function",
			Function: generator.ToolFunction{
				Name:        NameList,
				Description: "List all tasks that have been scheduled",
				Parameters:  &generator.Schema{Type: "object"},
			},
		},
		{
			Type: "function",
			Function: generator.ToolFunction{
				Name:        NameCancel,
				Description: "Cancel a scheduled task using its ID",
				Parameters: &generator.Schema{
					Type: "object",
					Properties: map[string]generator.SchemaProperty{
						"taskId": {Type: "string", Description: "The ID of the task to cancel"},
					},
					Required: []string{"taskId"},
				},
			},
		},
	}
}

// Execute runs one tool call for a conversation and returns the textual
// result fed back to the model. Unknown tools and scheduler failures come
// back as text, so the model can relay them.
func (r *Registry) Execute(ctx context.Context, conversationID string, call generator.ToolCall) string {
	switch call.Function.Name {
	case NameSchedule:
		return r.schedule(ctx, conversationID, call.Function.Arguments)
	case NameList:
		return r.list(ctx, conversationID)
	case NameCancel:
		return r.cancel(ctx, call.Function.Arguments)
	default:
		return fmt.Sprintf("Unknown tool %q", call.Function.Name)
	}
}

// whenArg is the schedule shape the model fills in.
type whenArg struct {
	Type           string  `json:"type"`
	Date           string  `json:"date,omitempty"`
	DelayInSeconds float64 `json:"delayInSeconds,omitempty"`
	Cron           string  `json:"cron,omitempty"`
}

func (r *Registry) schedule(ctx context.Context, conversationID string, args map[string]any) string {
	description, _ := args["description"].(string)
	if strings.TrimSpace(description) == "" {
		return "Error scheduling task: a description is required"
	}

	w, err := parseWhen(args["when"])
	if err != nil {
		return fmt.Sprintf("Not a valid schedule input: %v", err)
	}

	id, err := r.sched.Register(ctx, conversationID, description, w)
	if err != nil {
		return fmt.Sprintf("Error scheduling task: %v", err)
	}
	return fmt.Sprintf("Task scheduled (%s, kind %s): %s", id, w.Kind, description)
}

func (r *Registry) list(ctx context.Context, conversationID string) string {
	tasks, err := r.sched.List(ctx, conversationID)
	if err != nil {
		return fmt.Sprintf("Error listing scheduled tasks: %v", err)
	}
	if len(tasks) == 0 {
		return "No scheduled tasks found."
	}

	var b strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", t.ID, t.Description, describeWhen(t.When))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Registry) cancel(ctx context.Context, args map[string]any) string {
	taskID, _ := args["taskId"].(string)
	if taskID == "" {
		return "Error canceling task: taskId is required"
	}

	if err := r.sched.Cancel(ctx, taskID); err != nil {
		if errors.Is(err, scheduler.ErrNotFound) {
			return fmt.Sprintf("No scheduled task with ID %s", taskID)
		}
		return fmt.Sprintf("Error canceling task %s: %v", taskID, err)
	}
	return fmt.Sprintf("Task %s has been successfully canceled.", taskID)
}

// parseWhen converts the model-provided schedule object into a scheduler
// schedule.
func parseWhen(v any) (scheduler.When, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return scheduler.When{}, err
	}
	var w whenArg
	if err := json.Unmarshal(raw, &w); err != nil {
		return scheduler.When{}, err
	}

	switch w.Type {
	case "scheduled":
		at, err := time.Parse(time.RFC3339, w.Date)
		if err != nil {
			return scheduler.When{}, fmt.Errorf("bad date %q: %w", w.Date, err)
		}
		return scheduler.When{Kind: scheduler.KindAt, At: at}, nil
	case "delayed":
		return scheduler.When{Kind: scheduler.KindIn, Delay: time.Duration(w.DelayInSeconds) * time.Second}, nil
	case "cron":
		return scheduler.When{Kind: scheduler.KindCron, Cron: w.Cron}, nil
	case "no-schedule":
		return scheduler.When{}, errors.New("no schedule detected")
	default:
		return scheduler.When{}, fmt.Errorf("unknown schedule type %q", w.Type)
	}
}

func describeWhen(w scheduler.When) string {
	switch w.Kind {
	case scheduler.KindAt:
		return "at " + w.At.Format(time.RFC3339)
	case scheduler.KindIn:
		return "in " + w.Delay.String()
	case scheduler.KindCron:
		return "cron " + w.Cron
	default:
		return string(w.Kind)
	}
}

var scheduleIntentRe = regexp.MustCompile(`\b(remind|schedule|later|in \d+ (minutes?|hours?|days?))\b`)

// WantsScheduling is the tool-admissibility gate: tools are offered to the
// model only when the user text looks like a reminder or scheduling
// request.
func WantsScheduling(text string) bool {
	return scheduleIntentRe.MatchString(strings.ToLower(text))
}
