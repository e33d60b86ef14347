package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dagensfynd/dealworker/internal/scraper"
	"dagensfynd/dealworker/logger"
	apperrors "dagensfynd/dealworker/pkg/errors"
)

// Notifier pushes newly discovered deals to an external chat webhook
type Notifier interface {
	// Enabled reports whether a deal webhook endpoint is configured
	Enabled() bool

	// Notify posts one deal to the webhook
	Notify(deal scraper.Deal) error

	// ReportError posts a failure message to the separate error channel.
	// Delivery of the report itself is best effort and never retried.
	ReportError(msg string)
}

// DiscordNotifier posts messages to Discord-compatible webhooks
type DiscordNotifier struct {
	webhookURL      string
	errorWebhookURL string
	client          *http.Client
	log             *logger.Logger
}

// NewDiscordNotifier creates a notifier for the given webhook endpoints.
// Either URL may be empty, which disables the corresponding channel.
func NewDiscordNotifier(webhookURL, errorWebhookURL string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL:      webhookURL,
		errorWebhookURL: errorWebhookURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger.ForNotifier(),
	}
}

// Enabled reports whether a deal webhook endpoint is configured
func (n *DiscordNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// Notify posts the deal message to the configured webhook
func (n *DiscordNotifier) Notify(deal scraper.Deal) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := fmt.Sprintf("New deal: **%s** for %s\n%s", deal.Name, deal.Price, deal.URL)
	if err := n.post(n.webhookURL, msg); err != nil {
		return apperrors.NewNotify("notifier", fmt.Sprintf("failed to deliver deal %s", deal.URL), err)
	}

	n.log.Info().Str("url", deal.URL).Msg("Deal sent to webhook")
	return nil
}

// ReportError posts an error message to the error webhook
func (n *DiscordNotifier) ReportError(msg string) {
	if n.errorWebhookURL == "" {
		return
	}

	if err := n.post(n.errorWebhookURL, msg); err != nil {
		n.log.Error().Err(err).Msg("Could not deliver error report to webhook")
		return
	}

	n.log.Info().Msg("Error report sent to webhook")
}

// post delivers a plain content message as a webhook JSON payload
func (n *DiscordNotifier) post(url, content string) error {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
