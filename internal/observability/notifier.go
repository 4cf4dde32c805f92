// Package observability provides outbound notification of threshold alerts
// to external channels.
package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

// Notifier sends alert notifications to an external channel.
type Notifier interface {
	Notify(alerts []models.Alert) error
}

// webhookNotifier POSTs alerts as JSON to a configured webhook URL.
type webhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookNotifier creates a Notifier that posts alert batches to the
// given webhook URL.
func NewWebhookNotifier(webhookURL string) Notifier {
	return &webhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Count     int            `json:"count"`
	Alerts    []models.Alert `json:"alerts"`
}

// Notify sends the given alerts to the webhook. It returns nil without
// making a request when the alerts slice is empty.
func (n *webhookNotifier) Notify(alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(webhookPayload{
		Source:    "logiclens",
		Timestamp: time.Now().UTC(),
		Count:     len(alerts),
		Alerts:    alerts,
	})
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to alert webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}
	return nil
}
