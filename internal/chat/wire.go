package chat

import (
	"encoding/json"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/history"
)

// toWire flattens reconciled history into the backend's message shape.
// A turn's text parts become one message; each tool invocation becomes
// an assistant tool-call message followed by a tool-role result message.
// Callers must reconcile first so every invocation here is terminal.
func toWire(turns []history.Turn) []generator.Message {
	var msgs []generator.Message
	for _, t := range turns {
		text := history.Text(t)
		var calls []*history.ToolInvocation
		for _, p := range t.Parts {
			if p.Kind == history.PartTool && p.Tool != nil {
				calls = append(calls, p.Tool)
			}
		}

		if text != "" || (len(calls) == 0 && len(t.Parts) > 0) {
			msgs = append(msgs, generator.Message{Role: t.Role, Content: text})
		}
		for _, inv := range calls {
			msgs = append(msgs, generator.Message{
				Role: history.RoleAssistant,
				ToolCalls: []generator.ToolCall{{
					Function: generator.ToolCallFunction{
						Name:      inv.Name,
						Arguments: decodeArgs(inv.Args),
					},
				}},
			})
			msgs = append(msgs, generator.Message{
				Role:     "tool",
				ToolName: inv.Name,
				Content:  outcomeText(inv.Outcome),
			})
		}
	}
	return msgs
}

func outcomeText(o *history.Outcome) string {
	if o == nil {
		return ""
	}
	if o.Err != "" {
		return o.Err
	}
	return o.Result
}

func encodeArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func decodeArgs(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil
	}
	return args
}
