package line

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"OpimeNotify/internal/domain"
)

func capturePayload(t *testing.T, status int) (*Notifier, *map[string]any) {
	t.Helper()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return NewNotifier(server.URL, "token", server.Client()), &captured
}

func firstMessage(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	messages, ok := payload["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("unexpected messages: %+v", payload)
	}
	return messages[0].(map[string]any)
}

func TestBroadcastButtonsMessage(t *testing.T) {
	t.Parallel()

	n, captured := capturePayload(t, http.StatusOK)
	msg := domain.Message{
		Title: "TestShow【昼公演】",
		Body:  "まもなく開演します",
		URL:   "https://www.dmm.com/lod/ngt48/",
	}
	if err := n.Broadcast(context.Background(), msg); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	m := firstMessage(t, *captured)
	if m["type"] != "template" {
		t.Fatalf("expected buttons template, got %v", m["type"])
	}
	template := m["template"].(map[string]any)
	actions := template["actions"].([]any)
	action := actions[0].(map[string]any)
	if action["uri"] != msg.URL {
		t.Fatalf("unexpected action uri: %v", action["uri"])
	}
}

func TestBroadcastFallsBackToText(t *testing.T) {
	t.Parallel()

	n, captured := capturePayload(t, http.StatusOK)
	msg := domain.Message{
		Title: "長文のお知らせ",
		Body:  strings.Repeat("あ", buttonsTextLimit+1),
		URL:   "https://example.org/",
	}
	if err := n.Broadcast(context.Background(), msg); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	m := firstMessage(t, *captured)
	if m["type"] != "text" {
		t.Fatalf("expected text message, got %v", m["type"])
	}
	text := m["text"].(string)
	if !strings.HasPrefix(text, "長文のお知らせ\n\n") {
		t.Fatalf("title not leading the text: %q", text)
	}
	if !strings.Contains(text, "https://example.org/") {
		t.Fatalf("url not appended to text")
	}
}

func TestBroadcastWithoutURL(t *testing.T) {
	t.Parallel()

	n, captured := capturePayload(t, http.StatusOK)
	if err := n.Broadcast(context.Background(), domain.Message{Title: "題名", Body: "本文"}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	m := firstMessage(t, *captured)
	if m["type"] != "text" {
		t.Fatalf("expected text message without url, got %v", m["type"])
	}
}

func TestBroadcastTruncatesLongText(t *testing.T) {
	t.Parallel()

	n, captured := capturePayload(t, http.StatusOK)
	msg := domain.Message{Title: "t", Body: strings.Repeat("い", textLimit+100)}
	if err := n.Broadcast(context.Background(), msg); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	m := firstMessage(t, *captured)
	if got := len([]rune(m["text"].(string))); got != textLimit {
		t.Fatalf("text length %d, want %d", got, textLimit)
	}
}

func TestBroadcastError(t *testing.T) {
	t.Parallel()

	n, _ := capturePayload(t, http.StatusTooManyRequests)
	err := n.Broadcast(context.Background(), domain.Message{Title: "t"})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected 429 error, got %v", err)
	}
}
