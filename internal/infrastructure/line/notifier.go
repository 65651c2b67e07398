// Package line broadcasts messages via the LINE Messaging API.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/ports"
)

const (
	defaultEndpoint = "https://api.line.me/v2/bot/message/broadcast"

	// LINE message limits.
	textLimit         = 5000
	buttonsTextLimit  = 160
	buttonsTitleLimit = 40
)

// Notifier broadcasts to every follower of the channel.
type Notifier struct {
	endpoint    string
	accessToken string
	client      *http.Client
}

var _ ports.Broadcaster = (*Notifier)(nil)

// NewNotifier registers the channel access token.
func NewNotifier(endpoint, accessToken string, client *http.Client) *Notifier {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Notifier{endpoint: endpoint, accessToken: accessToken, client: client}
}

// Broadcast sends one message: a buttons template with a confirmation
// action when a link is present and the body fits the template limit,
// a plain text message otherwise.
func (n *Notifier) Broadcast(ctx context.Context, msg domain.Message) error {
	if n.accessToken == "" {
		return fmt.Errorf("line notifier misconfigured: empty access token")
	}

	payload, err := json.Marshal(map[string]any{
		"messages": []any{buildMessage(msg)},
	})
	if err != nil {
		return fmt.Errorf("marshal broadcast payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("line error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}

func buildMessage(msg domain.Message) map[string]any {
	if hasLink(msg.URL) && runeLen(msg.Body) <= buttonsTextLimit {
		return map[string]any{
			"type":    "template",
			"altText": truncate(msg.Title, buttonsTitleLimit),
			"template": map[string]any{
				"type":  "buttons",
				"title": truncate(msg.Title, buttonsTitleLimit),
				"text":  msg.Body,
				"actions": []any{
					map[string]any{"type": "uri", "label": "確認する", "uri": msg.URL},
				},
			},
		}
	}

	text := msg.Title
	if msg.Body != "" {
		text += "\n\n" + msg.Body
	}
	if hasLink(msg.URL) {
		text += "\n" + msg.URL
	}
	return map[string]any{"type": "text", "text": truncate(text, textLimit)}
}

func hasLink(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
