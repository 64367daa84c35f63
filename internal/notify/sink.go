package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/webhookmonitor/internal/domain"
)

// Sink is the best-effort face of a Notifier: Deliver bounds the send with
// Timeout, logs any failure and never reports it to the caller.
type Sink struct {
	Logger   *zap.Logger
	Notifier Notifier
	Timeout  time.Duration
}

func NewSink(logger *zap.Logger, n Notifier, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sink{Logger: logger, Notifier: n, Timeout: timeout}
}

func (s *Sink) Deliver(ctx context.Context, destination string, alert domain.Alert) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	err := s.Notifier.Send(ctx, destination, alert)
	if err == nil {
		s.Logger.Debug("notify_sent",
			zap.String("endpoint", alert.Endpoint),
			zap.String("kind", string(alert.Kind)),
		)
		return
	}

	fields := []zap.Field{
		zap.String("endpoint", alert.Endpoint),
		zap.String("kind", string(alert.Kind)),
		zap.String("destination", Redact(destination)),
		zap.Error(err),
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		fields = append(fields, zap.Int("status", de.StatusCode), zap.String("response_body", de.Body))
	}
	s.Logger.Error("notify_failed", fields...)
}
