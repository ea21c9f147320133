// Package notifications tells creators what happened to their uploads and
// kicks off translation warm-up for newly published items.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrNotConfigured = errors.New("notification webhook not configured")

type NotificationType string

const (
	NotificationTypeContentApproved NotificationType = "content_approved"
	NotificationTypeContentRejected NotificationType = "content_rejected"
	NotificationTypeContentFlagged  NotificationType = "content_flagged"
	NotificationTypeContentWarning  NotificationType = "content_warning"
)

// Notification is the JSON body posted to the webhook.
type Notification struct {
	UserID string                 `json:"user_id"`
	Type   NotificationType       `json:"type"`
	Title  string                 `json:"title"`
	Body   string                 `json:"body"`
	Data   map[string]interface{} `json:"data,omitempty"`
	SentAt time.Time              `json:"sent_at"`
}

// Service delivers notifications to an HTTP webhook that fans them out to
// push, email or SMS.
type Service struct {
	WebhookURL string
	client     *http.Client
}

func NewService(webhookURL string) *Service {
	return &Service{
		WebhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (ns *Service) Send(ctx context.Context, n Notification) error {
	if ns.WebhookURL == "" {
		return ErrNotConfigured
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}

	payloadBytes, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ns.WebhookURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ns.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}
	return nil
}
