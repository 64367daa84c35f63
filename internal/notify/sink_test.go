package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/webhookmonitor/internal/domain"
)

type errNotifier struct{ err error }

func (e errNotifier) Send(context.Context, string, domain.Alert) error { return e.err }

type blockingNotifier struct{}

func (blockingNotifier) Send(ctx context.Context, _ string, _ domain.Alert) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSink_LogsAndSwallowsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSink(zap.New(core), errNotifier{err: &DeliveryError{StatusCode: 429, Body: "rate limited"}}, time.Second)

	s.Deliver(context.Background(), "https://discord.com/api/webhooks/1/secret", upAlert())

	entries := logs.FilterMessage("notify_failed").All()
	if len(entries) != 1 {
		t.Fatalf("want one notify_failed entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["response_body"] != "rate limited" || ctx["status"] != int64(429) {
		t.Fatalf("missing diagnostics: %+v", ctx)
	}
	if dest, _ := ctx["destination"].(string); strings.Contains(dest, "secret") {
		t.Fatalf("token leaked into logs: %q", dest)
	}
}

func TestSink_BoundsSlowDestination(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSink(zap.New(core), blockingNotifier{}, 30*time.Millisecond)

	start := time.Now()
	s.Deliver(context.Background(), "https://example.com/hook", upAlert())
	if time.Since(start) > time.Second {
		t.Fatalf("deliver not bounded by timeout")
	}
	if logs.FilterMessage("notify_failed").Len() != 1 {
		t.Fatalf("timeout should be logged as failure")
	}
}

func TestSink_TransportErrorDoesNotLeakToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dest := ts.URL + "/api/webhooks/1/very-secret-token"
	ts.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	NewSink(zap.New(core), NewRouter(), time.Second).Deliver(context.Background(), dest, upAlert())

	entries := logs.FilterMessage("notify_failed").All()
	if len(entries) != 1 {
		t.Fatalf("want one failure entry, got %d", len(entries))
	}
	for k, v := range entries[0].ContextMap() {
		if s, ok := v.(string); ok && strings.Contains(s, "very-secret-token") {
			t.Fatalf("token leaked in field %s: %q", k, s)
		}
	}
}

func TestSink_SuccessIsQuiet(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewSink(zap.New(core), errNotifier{}, 0).Deliver(context.Background(), "https://x/y", upAlert())
	if logs.Len() != 0 {
		t.Fatalf("unexpected logs at info: %d", logs.Len())
	}
}
