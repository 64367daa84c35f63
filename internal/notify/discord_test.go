package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/webhookmonitor/internal/domain"
)

func TestDiscordPayload_Down(t *testing.T) {
	a := upAlert()
	a.Kind = domain.AlertDown
	a.Downtime = ""

	msg := discordPayload(a)
	require.Len(t, msg.Embeds, 1)
	e := msg.Embeds[0]
	assert.Equal(t, "🔴 Server Down Alert", e.Title)
	assert.Equal(t, colorRed, e.Color)
	assert.Equal(t, "The server **api** is currently unavailable.", e.Description)
	assert.Equal(t, footerText, e.Footer.Text)
	assert.Equal(t, "2025-08-18T12:00:00Z", e.Timestamp)

	require.Len(t, e.Fields, 4)
	assert.Equal(t, "❌ Offline", e.Fields[1].Value)
	assert.Equal(t, "`https://api.example.com/health`", e.Fields[2].Value)
	assert.Equal(t, "<t:1755518400:F>", e.Fields[3].Value)
}

func TestDiscordPayload_UpCarriesDowntime(t *testing.T) {
	e := discordPayload(upAlert()).Embeds[0]
	assert.Equal(t, "🟢 Server Back Online", e.Title)
	assert.Equal(t, colorGreen, e.Color)
	require.Len(t, e.Fields, 5)
	assert.Equal(t, "Downtime", e.Fields[4].Name)
	assert.Equal(t, "2 minutes, 5 seconds", e.Fields[4].Value)
}

func TestDiscord_PostsJSON(t *testing.T) {
	var got discordMessage
	var contentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	require.NoError(t, NewDiscord().Send(context.Background(), ts.URL, upAlert()))
	assert.Equal(t, "application/json", contentType)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "🟢 Server Back Online", got.Embeds[0].Title)
}

func TestDiscord_Non2xxCarriesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid Webhook Token"}`))
	}))
	defer ts.Close()

	err := NewDiscord().Send(context.Background(), ts.URL, upAlert())
	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, http.StatusBadRequest, de.StatusCode)
	assert.Contains(t, de.Body, "Invalid Webhook Token")
}

func TestRouter_PicksFormatByHost(t *testing.T) {
	assert.True(t, isSlack("https://hooks.slack.com/services/T/B/x"))
	assert.False(t, isSlack("https://discord.com/api/webhooks/1/x"))
	assert.False(t, isSlack("::bad"))
	assert.Equal(t, "slack", Format("https://HOOKS.slack.com/services/T/B/x"))
	assert.Equal(t, "discord", Format("https://example.com/hook"))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://discord.com/api/webhooks/123/***", Redact("https://discord.com/api/webhooks/123/tok"))
	assert.Equal(t, "<invalid>", Redact("nope"))
}
