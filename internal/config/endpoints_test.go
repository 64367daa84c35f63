package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseEndpoints_TopLevelList(t *testing.T) {
	src := `
- name: api
  healthCheckUrl: https://api.example.com/health
  discordWebhook: https://discord.com/api/webhooks/1/abc
  timeout: 2500
- name: web
  healthCheckUrl: http://web.internal:8080/
  webhook: https://hooks.slack.com/services/T/B/xyz
`
	eps, err := ParseEndpoints([]byte(src))
	require.NoError(t, err)
	require.Len(t, eps, 2)

	assert.Equal(t, "api", eps[0].Name)
	assert.Equal(t, "https://api.example.com/health", eps[0].URL)
	assert.Equal(t, "https://discord.com/api/webhooks/1/abc", eps[0].Destination)
	assert.Equal(t, 2500*time.Millisecond, eps[0].Timeout)

	assert.Equal(t, "https://hooks.slack.com/services/T/B/xyz", eps[1].Destination)
	assert.Equal(t, DefaultProbeTimeout, eps[1].Timeout)
}

func TestParseEndpoints_ServersMapping(t *testing.T) {
	src := `
servers:
  - name: api
    healthCheckUrl: https://api.example.com/health
    discordWebhook: https://discord.com/api/webhooks/1/abc
    timeout: 0
`
	eps, err := ParseEndpoints([]byte(src))
	require.NoError(t, err)
	require.Len(t, eps, 1)
	assert.Equal(t, DefaultProbeTimeout, eps[0].Timeout, "zero timeout means default")
}

func TestParseEndpoints_ReportsEveryProblem(t *testing.T) {
	src := `
- name: ""
  healthCheckUrl: ftp://nope
  discordWebhook: https://discord.com/api/webhooks/1/abc
- name: ok
  healthCheckUrl: https://ok.example.com
  discordWebhook: https://discord.com/api/webhooks/1/abc
- name: ok
  healthCheckUrl: https://ok2.example.com
  discordWebhook: https://discord.com/api/webhooks/1/abc
- name: nohook
  healthCheckUrl: https://x.example.com
  timeout: -5
`
	_, err := ParseEndpoints([]byte(src))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "ftp://nope")
	assert.Contains(t, msg, `name "ok" already used by endpoint #2`)
	assert.Contains(t, msg, "discordWebhook is required")
	assert.Contains(t, msg, "must not be negative")
	assert.Len(t, multierr.Errors(err), 3, "one error per bad entry")
}

func TestParseEndpoints_EmptyAndMalformed(t *testing.T) {
	for name, src := range map[string]string{
		"empty":        "",
		"empty list":   "[]",
		"no servers":   "servers: []",
		"scalar":       "just a string",
		"broken yaml":  "- name: [unterminated",
		"wrong fields": "- timeout: abc",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEndpoints([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadEndpoints_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: api
  healthCheckUrl: https://api.example.com/health
  discordWebhook: https://discord.com/api/webhooks/1/abc
`), 0o600))

	eps, err := LoadEndpoints(path)
	require.NoError(t, err)
	assert.Len(t, eps, 1)

	_, err = LoadEndpoints(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseEndpoints_DestinationNeverInErrors(t *testing.T) {
	src := `
- name: api
  healthCheckUrl: not a url
  discordWebhook: discord.com/secret-token
`
	_, err := ParseEndpoints([]byte(src))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-token")
}
