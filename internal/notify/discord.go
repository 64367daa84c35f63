package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hamed0406/webhookmonitor/internal/domain"
)

const (
	colorRed   = 15158332
	colorGreen = 3066993
	footerText = "Server Monitor Bot"
)

type Discord struct {
	Client *http.Client
}

func NewDiscord() *Discord {
	return &Discord{Client: defaultClient()}
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      discordFooter  `json:"footer"`
	Timestamp   string         `json:"timestamp"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

func (d *Discord) Send(ctx context.Context, destination string, alert domain.Alert) error {
	return postJSON(ctx, d.Client, destination, discordPayload(alert))
}

func discordPayload(a domain.Alert) discordMessage {
	title := "🔴 Server Down Alert"
	desc := fmt.Sprintf("The server **%s** is currently unavailable.", a.Endpoint)
	status := "❌ Offline"
	color := colorRed
	if a.Kind == domain.AlertUp {
		title = "🟢 Server Back Online"
		desc = fmt.Sprintf("The server **%s** is back online and operational.", a.Endpoint)
		status = "✅ Online"
		color = colorGreen
	}

	fields := []discordField{
		{Name: "Server Name", Value: a.Endpoint, Inline: true},
		{Name: "Status", Value: status, Inline: true},
		{Name: "Health Check URL", Value: "`" + a.URL + "`"},
		{Name: "Time", Value: fmt.Sprintf("<t:%d:F>", a.At.Unix())},
	}
	if a.Kind == domain.AlertUp {
		fields = append(fields, discordField{Name: "Downtime", Value: a.Downtime})
	}

	return discordMessage{Embeds: []discordEmbed{{
		Title:       title,
		Description: desc,
		Color:       color,
		Fields:      fields,
		Footer:      discordFooter{Text: footerText},
		Timestamp:   a.At.UTC().Format(time.RFC3339Nano),
	}}}
}
