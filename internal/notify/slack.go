package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/webhookmonitor/internal/domain"
)

type Slack struct {
	Client *http.Client
}

func NewSlack() *Slack {
	return &Slack{Client: defaultClient()}
}

type slackPayload struct {
	Text string `json:"text"`
}

func (s *Slack) Send(ctx context.Context, destination string, alert domain.Alert) error {
	return postJSON(ctx, s.Client, destination, slackPayload{Text: slackText(alert)})
}

func slackText(a domain.Alert) string {
	title := "🔴 Server Down Alert"
	status := "❌ Offline"
	if a.Kind == domain.AlertUp {
		title = "🟢 Server Back Online"
		status = "✅ Online"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", title)
	fmt.Fprintf(&b, "Server: %s\nStatus: %s\nURL: `%s`\nTime: %s",
		a.Endpoint, status, a.URL, a.At.UTC().Format(time.RFC3339))
	if a.Kind == domain.AlertUp {
		fmt.Fprintf(&b, "\nDowntime: %s", a.Downtime)
	}
	return b.String()
}
