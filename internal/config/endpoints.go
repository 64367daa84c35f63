package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/webhookmonitor/internal/domain"
)

// DefaultProbeTimeout applies when an entry has no timeout.
const DefaultProbeTimeout = 10 * time.Second

// endpointEntry mirrors one item of servers.yaml. Timeout is milliseconds.
type endpointEntry struct {
	Name           string `yaml:"name"`
	HealthCheckURL string `yaml:"healthCheckUrl"`
	DiscordWebhook string `yaml:"discordWebhook"`
	Webhook        string `yaml:"webhook"`
	Timeout        *int   `yaml:"timeout"`
}

// LoadEndpoints reads and validates the servers file.
func LoadEndpoints(path string) ([]domain.Endpoint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read servers file: %w", err)
	}
	eps, err := ParseEndpoints(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return eps, nil
}

// ParseEndpoints accepts either a top-level list or a mapping with a
// "servers" list. Every invalid entry is reported, not just the first.
func ParseEndpoints(data []byte) ([]domain.Endpoint, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("no endpoints configured")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("no endpoints configured")
	}

	var entries []endpointEntry
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode endpoints: %w", err)
		}
	case yaml.MappingNode:
		var wrapped struct {
			Servers []endpointEntry `yaml:"servers"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode endpoints: %w", err)
		}
		entries = wrapped.Servers
	default:
		return nil, fmt.Errorf("line %d: expected a list of endpoints", root.Line)
	}
	if len(entries) == 0 {
		return nil, errors.New("no endpoints configured")
	}

	var errs error
	seen := make(map[string]int, len(entries))
	out := make([]domain.Endpoint, 0, len(entries))
	for i, e := range entries {
		ep, err := e.resolve()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("endpoint #%d: %w", i+1, err))
			continue
		}
		if prev, dup := seen[ep.Name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("endpoint #%d: name %q already used by endpoint #%d", i+1, ep.Name, prev))
			continue
		}
		seen[ep.Name] = i + 1
		out = append(out, ep)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

func (e endpointEntry) resolve() (domain.Endpoint, error) {
	var errs error
	name := strings.TrimSpace(e.Name)
	if name == "" {
		errs = multierr.Append(errs, errors.New("name is required"))
	}
	if !isHTTPURL(e.HealthCheckURL) {
		errs = multierr.Append(errs, fmt.Errorf("healthCheckUrl %q is not an http(s) URL", e.HealthCheckURL))
	}

	dest := strings.TrimSpace(e.DiscordWebhook)
	if dest == "" {
		dest = strings.TrimSpace(e.Webhook)
	}
	if dest == "" {
		errs = multierr.Append(errs, errors.New("discordWebhook is required"))
	} else if !isHTTPURL(dest) {
		errs = multierr.Append(errs, errors.New("discordWebhook is not an http(s) URL"))
	}

	timeout := DefaultProbeTimeout
	if e.Timeout != nil {
		switch {
		case *e.Timeout < 0:
			errs = multierr.Append(errs, fmt.Errorf("timeout %d must not be negative", *e.Timeout))
		case *e.Timeout > 0:
			timeout = time.Duration(*e.Timeout) * time.Millisecond
		}
	}

	if errs != nil {
		return domain.Endpoint{}, errs
	}
	return domain.Endpoint{
		Name:        name,
		URL:         strings.TrimSpace(e.HealthCheckURL),
		Destination: dest,
		Timeout:     timeout,
	}, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
