package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestChatNonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["stream"] != false {
			t.Errorf("stream = %v, want false", req["stream"])
		}
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"pong"},"done":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.3")
	got, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "ping"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "pong" {
		t.Errorf("content = %q", got)
	}
}

func TestStreamEmitsDeltasIncrementally(t *testing.T) {
	chunks := []string{
		`{"message":{"role":"assistant","content":"Hel"},"done":false}`,
		`{"message":{"role":"assistant","content":"lo"},"done":false}`,
		`{"message":{"role":"assistant","content":""},"done":true,"done_reason":"stop","prompt_eval_count":12,"eval_count":5}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, c := range chunks {
			fmt.Fprintln(w, c)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.3")

	var deltas []string
	res, err := c.Stream(context.Background(), Request{
		System:   "be helpful",
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, func(e Event) {
		if e.Kind == EventTextDelta {
			deltas = append(deltas, e.Text)
		}
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if len(deltas) != 2 || deltas[0] != "Hel" || deltas[1] != "lo" {
		t.Errorf("deltas = %#v", deltas)
	}
	if res.Content != "Hello" {
		t.Errorf("content = %q", res.Content)
	}
	if res.Finish.Reason != "stop" || res.Finish.InputTokens != 12 || res.Finish.OutputTokens != 5 {
		t.Errorf("finish = %#v", res.Finish)
	}
}

func TestStreamSurfacesToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"schedule_task","arguments":{"when":"in 5 minutes","description":"check disk"}}}]},"done":true,"done_reason":"tool_calls"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.3")

	var calls []*ToolCall
	res, err := c.Stream(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "remind me in 5 minutes to check disk"}},
		Tools: []Tool{{
			Type: "function",
			Function: ToolFunction{Name: "schedule_task", Description: "Schedule a reminder"},
		}},
	}, func(e Event) {
		if e.Kind == EventToolCall {
			calls = append(calls, e.ToolCall)
		}
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if len(calls) != 1 || calls[0].Function.Name != "schedule_task" {
		t.Fatalf("calls = %#v", calls)
	}
	if calls[0].Function.Arguments["when"] != "in 5 minutes" {
		t.Errorf("arguments = %#v", calls[0].Function.Arguments)
	}
	if len(res.ToolCalls) != 1 {
		t.Errorf("result tool calls = %#v", res.ToolCalls)
	}
}

func TestStreamIncludesSystemPromptFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[0].Content != "sys" {
			t.Errorf("messages = %#v", req.Messages)
		}
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"ok"},"done":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.3")
	if _, err := c.Stream(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, nil); err != nil {
		t.Fatalf("Stream: %v", err)
	}
}

func TestRetryOn429(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"finally"},"done":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.3")
	got, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "finally" {
		t.Errorf("content = %q", got)
	}
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3", attempts.Load())
	}
}

func TestNonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "missing-model")
	if _, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error for 404")
	}
}
