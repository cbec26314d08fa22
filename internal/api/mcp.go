package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/command"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/scheduler"
)

// defaultConversation is used when an MCP caller does not name one.
const defaultConversation = "default"

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Profiles *profile.Manager
	Sched    *scheduler.Scheduler
}

// NewMCPServer creates an MCP server exposing profile and reminder
// management.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"tux",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("tux — Linux setup assistant: system profile and reminder management."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("set_experience_level",
			mcp.WithDescription("Set the user's Linux experience level, which shapes how the assistant explains things."),
			mcp.WithString("level", mcp.Description("Experience level"), mcp.Required(),
				mcp.Enum(profile.LevelBeginner, profile.LevelIntermediate, profile.LevelAdvanced)),
			mcp.WithString("conversation", mcp.Description("Conversation ID (defaults to \"default\")")),
		),
		mcpSetExperienceLevel(deps),
	)

	s.AddTool(
		mcp.NewTool("reset_profile",
			mcp.WithDescription("Reset the Linux system profile to its defaults."),
			mcp.WithString("conversation", mcp.Description("Conversation ID (defaults to \"default\")")),
		),
		mcpResetProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("schedule_reminder",
			mcp.WithDescription("Schedule a reminder at a specific time, after a delay, or on a cron expression."),
			mcp.WithString("description", mcp.Description("What to be reminded about"), mcp.Required()),
			mcp.WithString("date", mcp.Description("Absolute time, RFC 3339 (e.g. 2026-01-15T09:00:00Z)")),
			mcp.WithNumber("delay_seconds", mcp.Description("Delay from now, in seconds")),
			mcp.WithString("cron", mcp.Description("Cron expression for recurring reminders")),
			mcp.WithString("conversation", mcp.Description("Conversation ID (defaults to \"default\")")),
		),
		mcpScheduleReminder(deps),
	)

	s.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List pending reminders for a conversation."),
			mcp.WithString("conversation", mcp.Description("Conversation ID (defaults to \"default\")")),
		),
		mcpListReminders(deps),
	)

	s.AddTool(
		mcp.NewTool("cancel_reminder",
			mcp.WithDescription("Cancel a pending reminder by its ID."),
			mcp.WithString("id", mcp.Description("Reminder ID"), mcp.Required()),
		),
		mcpCancelReminder(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"linux://profile",
			"Linux System Profile",
			mcp.WithResourceDescription("Current Linux system profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func conversationArg(req mcp.CallToolRequest) string {
	if id := strings.TrimSpace(req.GetString("conversation", "")); id != "" {
		return id
	}
	return defaultConversation
}

func mcpSetExperienceLevel(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		level, err := req.RequireString("level")
		if err != nil {
			return mcpError("level is required"), nil
		}
		switch level {
		case profile.LevelBeginner, profile.LevelIntermediate, profile.LevelAdvanced:
		default:
			return mcpError(fmt.Sprintf("invalid level %q: must be beginner, intermediate or advanced", level)), nil
		}

		if _, err := deps.Profiles.Apply(ctx, conversationArg(req), profile.Update{ExperienceLevel: &level}); err != nil {
			return mcpError(fmt.Sprintf("failed to set level: %v", err)), nil
		}
		return mcpText(command.LevelConfirmation(level)), nil
	}
}

func mcpResetProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, err := deps.Profiles.Reset(ctx, conversationArg(req)); err != nil {
			return mcpError(fmt.Sprintf("failed to reset profile: %v", err)), nil
		}
		return mcpText(command.ResetConfirmation), nil
	}
}

func mcpScheduleReminder(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		description, err := req.RequireString("description")
		if err != nil {
			return mcpError("description is required"), nil
		}

		var when scheduler.When
		switch {
		case req.GetString("cron", "") != "":
			when = scheduler.When{Kind: scheduler.KindCron, Cron: req.GetString("cron", "")}
		case req.GetString("date", "") != "":
			at, err := time.Parse(time.RFC3339, req.GetString("date", ""))
			if err != nil {
				return mcpError(fmt.Sprintf("invalid date: %v", err)), nil
			}
			when = scheduler.When{Kind: scheduler.KindAt, At: at}
		case req.GetFloat("delay_seconds", 0) > 0:
			when = scheduler.When{Kind: scheduler.KindIn, Delay: time.Duration(req.GetFloat("delay_seconds", 0) * float64(time.Second))}
		default:
			return mcpError("one of date, delay_seconds or cron is required"), nil
		}

		id, err := deps.Sched.Register(ctx, conversationArg(req), description, when)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to schedule: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Reminder scheduled with ID %s: %s", id, description)), nil
	}
}

func mcpListReminders(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := deps.Sched.List(ctx, conversationArg(req))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list reminders: %v", err)), nil
		}
		if len(tasks) == 0 {
			return mcpText("[]"), nil
		}

		type reminder struct {
			ID          string `json:"id"`
			Description string `json:"description"`
			Kind        string `json:"kind"`
			NextRun     string `json:"nextRun,omitempty"`
		}
		now := time.Now()
		out := make([]reminder, len(tasks))
		for i, t := range tasks {
			out[i] = reminder{ID: t.ID, Description: t.Description, Kind: string(t.When.Kind)}
			if next, ok := t.NextRun(now); ok {
				out[i].NextRun = next.Format(time.RFC3339)
			}
		}
		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal reminders: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCancelReminder(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		if err := deps.Sched.Cancel(ctx, id); err != nil {
			if errors.Is(err, scheduler.ErrNotFound) {
				return mcpError(fmt.Sprintf("no reminder with ID %s", id)), nil
			}
			return mcpError(fmt.Sprintf("failed to cancel: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Reminder %s canceled.", id)), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Profiles.Get(ctx, defaultConversation)
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
