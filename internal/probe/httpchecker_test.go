package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPChecker_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("want GET, got %s", r.Method)
		}
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	out := NewHTTPChecker().Check(context.Background(), s.URL, 2*time.Second)
	if !out.Reachable {
		t.Fatalf("want reachable, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("want status 200, got %d", out.StatusCode)
	}
	if !strings.HasPrefix(out.Message, "200") {
		t.Fatalf("want message to start with 200, got %q", out.Message)
	}
	if out.LatencyMS < 0 {
		t.Fatalf("latency should be >= 0, got %f", out.LatencyMS)
	}
}

func TestHTTPChecker_Non2xxIsUnreachableButCompleted(t *testing.T) {
	for _, code := range []int{204, 304, 404, 500, 503} {
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		out := NewHTTPChecker().Check(context.Background(), s.URL, 2*time.Second)
		s.Close()

		wantUp := code >= 200 && code < 300
		if out.Reachable != wantUp {
			t.Fatalf("status %d: want reachable=%v, got %+v", code, wantUp, out)
		}
		if out.StatusCode != code {
			t.Fatalf("status %d: got status %d", code, out.StatusCode)
		}
		if out.TransportFailure() {
			t.Fatalf("status %d: an HTTP response is not a transport failure", code)
		}
	}
}

func TestHTTPChecker_TimeoutSetsStatusZero(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	out := NewHTTPChecker().Check(context.Background(), s.URL, 50*time.Millisecond)
	if out.Reachable {
		t.Fatalf("want unreachable due to timeout, got %+v", out)
	}
	if out.StatusCode != 0 || !out.TransportFailure() {
		t.Fatalf("want status 0 on transport error, got %d", out.StatusCode)
	}
	if out.Message == "" {
		t.Fatalf("want non-empty error message")
	}
}

func TestHTTPChecker_ZeroTimeoutUsesDefault(t *testing.T) {
	prev := defaultTimeout
	defaultTimeout = 50 * time.Millisecond
	t.Cleanup(func() { defaultTimeout = prev })

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer s.Close()

	for _, timeout := range []time.Duration{0, -time.Second} {
		begin := time.Now()
		out := NewHTTPChecker().Check(context.Background(), s.URL, timeout)
		if out.Reachable || !out.TransportFailure() {
			t.Fatalf("timeout %v: want transport failure, got %+v", timeout, out)
		}
		if took := time.Since(begin); took > 2*time.Second {
			t.Fatalf("timeout %v: probe ran for %v, default deadline not applied", timeout, took)
		}
	}
}

func TestHTTPChecker_ConnectionRefused(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := s.URL
	s.Close()

	out := NewHTTPChecker().Check(context.Background(), addr, time.Second)
	if out.Reachable || !out.TransportFailure() {
		t.Fatalf("want transport failure, got %+v", out)
	}
}

func TestHTTPChecker_BadURL(t *testing.T) {
	out := NewHTTPChecker().Check(context.Background(), "://nope", time.Second)
	if out.Reachable || out.Message == "" {
		t.Fatalf("want unreachable with message, got %+v", out)
	}
}
