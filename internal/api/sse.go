package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/chat"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
)

type ssePayload struct {
	Text       string            `json:"text,omitempty"`
	ToolName   string            `json:"toolName,omitempty"`
	ToolResult string            `json:"toolResult,omitempty"`
	Finish     *generator.Finish `json:"finish,omitempty"`
}

// streamEvents forwards a turn's events as server-sent events, one
// frame per event, flushing after each so deltas render as they arrive.
func streamEvents(w http.ResponseWriter, events <-chan chat.Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpError(w, http.StatusInternalServerError, "api_error", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for ev := range events {
		payload, err := json.Marshal(ssePayload{
			Text:       ev.Text,
			ToolName:   ev.ToolName,
			ToolResult: ev.ToolResult,
			Finish:     ev.Finish,
		})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventName(ev.Kind), payload)
		flusher.Flush()
	}
}

func eventName(k chat.EventKind) string {
	switch k {
	case chat.EventTextDelta:
		return "delta"
	case chat.EventToolCall:
		return "tool_call"
	case chat.EventToolResult:
		return "tool_result"
	case chat.EventWarning:
		return "warning"
	case chat.EventError:
		return "error"
	case chat.EventFinish:
		return "finish"
	default:
		return "unknown"
	}
}
