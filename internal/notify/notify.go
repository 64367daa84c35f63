package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamed0406/webhookmonitor/internal/domain"
)

// Notifier delivers one alert to a webhook destination.
type Notifier interface {
	Send(ctx context.Context, destination string, alert domain.Alert) error
}

// DeliveryError is returned when the destination answered with a non-2xx.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
}

const maxErrorBody = 4 << 10

func defaultClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func postJSON(ctx context.Context, client *http.Client, destination string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", stripURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return stripURL(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}

// Router picks the payload format from the destination host: Slack incoming
// webhooks get Slack text, everything else the Discord embed.
type Router struct {
	Discord *Discord
	Slack   *Slack
}

func NewRouter() *Router {
	c := defaultClient()
	return &Router{
		Discord: &Discord{Client: c},
		Slack:   &Slack{Client: c},
	}
}

func (r *Router) Send(ctx context.Context, destination string, alert domain.Alert) error {
	if isSlack(destination) {
		return r.Slack.Send(ctx, destination, alert)
	}
	return r.Discord.Send(ctx, destination, alert)
}

func isSlack(destination string) bool {
	u, err := url.Parse(destination)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "hooks.slack.com")
}

// Format names the payload Router will send to destination.
func Format(destination string) string {
	if isSlack(destination) {
		return "slack"
	}
	return "discord"
}

// stripURL unwraps *url.Error, whose message embeds the full webhook URL with
// its token.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

// Redact drops the last path segment of a webhook URL, which is the token for
// both Discord and Slack.
func Redact(destination string) string {
	u, err := url.Parse(destination)
	if err != nil || u.Host == "" {
		return "<invalid>"
	}
	path := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i > 0 {
		path = path[:i] + "/***"
	}
	return u.Scheme + "://" + u.Host + path
}
