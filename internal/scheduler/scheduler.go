package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec fires at second zero of every minute.
const DefaultSpec = "0 * * * * *"

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler triggers Job on a cron schedule. A tick that fires while the
// previous run is still going is skipped, so runs never overlap.
type Scheduler struct {
	Logger     *zap.Logger
	Spec       string
	Job        func(ctx context.Context)
	RunOnStart bool

	schedule cron.Schedule
}

func New(logger *zap.Logger, spec string, job func(ctx context.Context)) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return &Scheduler{Logger: logger, Spec: spec, Job: job, schedule: sched}, nil
}

// Run blocks until ctx is cancelled, then waits for a running job to return.
// The job sees ctx, so cancellation also cuts short in-flight probes.
func (s *Scheduler) Run(ctx context.Context) error {
	cl := cronLogger{s.Logger.Sugar()}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.Job(ctx) }))

	if s.RunOnStart {
		s.Logger.Info("scheduler_initial_run")
		s.Job(ctx)
	}

	c.Start()
	s.Logger.Info("scheduler_started", zap.String("spec", s.Spec))

	<-ctx.Done()
	<-c.Stop().Done()
	s.Logger.Info("scheduler_stopped")
	return nil
}

// Next reports when the schedule fires after t; used for startup logging.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// cronLogger routes cron's own logging into zap. Cron's Info output is per
// tick chatter, so it goes to debug.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		c.l.Warnw("cycle_skipped_still_running", keysAndValues...)
		return
	}
	c.l.Debugw("cron_"+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron_"+msg, append(keysAndValues, "error", err)...)
}
