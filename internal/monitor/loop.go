package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/webhookmonitor/internal/domain"
	"github.com/hamed0406/webhookmonitor/internal/probe"
	"github.com/hamed0406/webhookmonitor/internal/state"
)

// Deliverer is a best-effort alert sink; notify.Sink satisfies it.
type Deliverer interface {
	Deliver(ctx context.Context, destination string, alert domain.Alert)
}

// Loop runs poll cycles over the configured endpoints. It exclusively owns the
// per-endpoint state store.
type Loop struct {
	Logger      *zap.Logger
	Checker     probe.Checker
	Sink        Deliverer
	Concurrency int

	// Now and DNS are swappable for tests. DNS may be nil to skip the
	// diagnostic lookup after transport failures.
	Now func() time.Time
	DNS func(ctx context.Context, host string) probe.DNSStatus

	states  *state.Store
	cycleMu sync.Mutex
}

func NewLoop(logger *zap.Logger, checker probe.Checker, sink Deliverer, concurrency int) *Loop {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loop{
		Logger:      logger,
		Checker:     checker,
		Sink:        sink,
		Concurrency: concurrency,
		Now:         time.Now,
		DNS:         probe.CheckDNS,
		states:      state.NewStore(),
	}
}

// Snapshot returns a copy of every endpoint's state seen so far.
func (l *Loop) Snapshot() map[string]state.EndpointState {
	return l.states.Snapshot()
}

// RunCycle probes every endpoint once. Cycles never overlap: a call blocks
// until any cycle already in progress has finished.
func (l *Loop) RunCycle(ctx context.Context, endpoints []domain.Endpoint) CycleReport {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()

	rep := CycleReport{Started: l.Now(), Outcomes: make([]EndpointOutcome, len(endpoints))}
	l.Logger.Debug("cycle_started", zap.Int("endpoints", len(endpoints)))

	if l.Concurrency <= 1 {
		for i, ep := range endpoints {
			if ctx.Err() != nil {
				skipRemaining(rep.Outcomes[i:], endpoints[i:], ctx.Err())
				break
			}
			rep.Outcomes[i] = l.checkEndpoint(ctx, ep)
		}
	} else {
		sem := make(chan struct{}, l.Concurrency)
		var wg sync.WaitGroup
	fanOut:
		for i, ep := range endpoints {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				skipRemaining(rep.Outcomes[i:], endpoints[i:], ctx.Err())
				break fanOut
			}
			wg.Add(1)
			go func(i int, ep domain.Endpoint) {
				defer func() { <-sem }()
				defer wg.Done()
				rep.Outcomes[i] = l.checkEndpoint(ctx, ep)
			}(i, ep)
		}
		wg.Wait()
	}

	rep.Finished = l.Now()
	l.Logger.Debug("cycle_finished",
		zap.Int("endpoints", len(endpoints)),
		zap.Int("alerts", rep.Alerts()),
		zap.Int("errors", rep.Errors()),
		zap.Duration("took", rep.Finished.Sub(rep.Started)),
	)
	return rep
}

// checkEndpoint is the per-endpoint error boundary: whatever goes wrong in
// here is logged and recorded on the outcome, never propagated. A panic before
// the state update counts as a failed probe.
func (l *Loop) checkEndpoint(ctx context.Context, ep domain.Endpoint) (out EndpointOutcome) {
	out.Name = ep.Name
	evaluated := false
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("panic while handling %s: %v", ep.Name, r)
			l.Logger.Error("endpoint_panic", zap.String("endpoint", ep.Name), zap.Any("panic", r))
			if !evaluated {
				l.recordFailure(ctx, ep, &out)
			}
		}
	}()

	l.Logger.Info("checking_endpoint", zap.String("endpoint", ep.Name))

	res, err := l.probe(ctx, ep)
	if err != nil {
		out.Err = err
		l.Logger.Error("endpoint_check_error", zap.String("endpoint", ep.Name), zap.Error(err))
	} else if !res.Reachable && ctx.Err() != nil {
		// shutting down, the endpoint itself did not fail
		out.Err = ctx.Err()
		l.Logger.Debug("check_cancelled", zap.String("endpoint", ep.Name))
		return out
	} else if res.TransportFailure() {
		l.logTransportFailure(ctx, ep, res)
	}

	now := l.Now()
	ev := l.states.Evaluate(ep.Name, res.Reachable, now)
	evaluated = true
	out.Reachable = res.Reachable
	out.Transition = ev.Transition

	var alert domain.Alert
	switch ev.Transition {
	case state.WentDown:
		l.Logger.Warn("endpoint_down",
			zap.String("endpoint", ep.Name),
			zap.Int("status", res.StatusCode),
			zap.String("reason", res.Message),
		)
		alert = domain.Alert{Kind: domain.AlertDown, Endpoint: ep.Name, URL: ep.URL, At: now}
	case state.CameUp:
		l.Logger.Info("endpoint_up",
			zap.String("endpoint", ep.Name),
			zap.String("downtime", ev.Downtime),
		)
		alert = domain.Alert{Kind: domain.AlertUp, Endpoint: ep.Name, URL: ep.URL, At: now, Downtime: ev.Downtime}
	default:
		return out
	}

	l.Sink.Deliver(ctx, ep.Destination, alert)
	return out
}

// recordFailure applies a failed probe to ep after its handling panicked
// before the state update, alerting if that takes the endpoint down.
func (l *Loop) recordFailure(ctx context.Context, ep domain.Endpoint, out *EndpointOutcome) {
	defer func() {
		if r := recover(); r != nil {
			l.Logger.Error("endpoint_panic", zap.String("endpoint", ep.Name), zap.Any("panic", r), zap.String("stage", "record_failure"))
		}
	}()

	now := l.Now()
	ev := l.states.Evaluate(ep.Name, false, now)
	out.Reachable = false
	out.Transition = ev.Transition
	if ev.Transition != state.WentDown {
		return
	}
	l.Logger.Warn("endpoint_down", zap.String("endpoint", ep.Name), zap.String("reason", out.Err.Error()))
	l.Sink.Deliver(ctx, ep.Destination, domain.Alert{Kind: domain.AlertDown, Endpoint: ep.Name, URL: ep.URL, At: now})
}

// skipRemaining marks endpoints not checked because ctx ended.
func skipRemaining(outs []EndpointOutcome, eps []domain.Endpoint, err error) {
	for i, ep := range eps {
		outs[i] = EndpointOutcome{Name: ep.Name, Err: err}
	}
}

// probe runs the checker, turning a panic into an error so the caller can
// treat it as a failed probe.
func (l *Loop) probe(ctx context.Context, ep domain.Endpoint) (res probe.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = probe.CheckResult{Reachable: false, Message: fmt.Sprint(r)}
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()
	return l.Checker.Check(ctx, ep.URL, ep.Timeout), nil
}

func (l *Loop) logTransportFailure(ctx context.Context, ep domain.Endpoint, res probe.CheckResult) {
	fields := []zap.Field{
		zap.String("endpoint", ep.Name),
		zap.String("url", ep.URL),
		zap.Float64("latency_ms", res.LatencyMS),
		zap.String("error", res.Message),
	}
	if l.DNS != nil {
		dns := l.DNS(ctx, probe.HostOf(ep.URL))
		fields = append(fields,
			zap.String("dns_class", dns.Class),
			zap.String("cname", dns.CNAME),
			zap.Strings("nameservers", dns.Nameservers),
			zap.String("resolver_error", dns.ResolverError),
		)
	}
	l.Logger.Warn("probe_transport_failure", fields...)
}
