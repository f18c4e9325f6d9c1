// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule runs a job on a cron expression until its context ends.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work. Errors are logged; they do not stop
// the schedule.
type Job func(ctx context.Context) error

// Runner fires a Job on a parsed cron schedule.
type Runner struct {
	expr  string
	sched cron.Schedule
	log   *zap.Logger

	// Immediate runs the job once right after Run starts, before the first tick.
	Immediate bool
}

// Validate parses a standard 5-field expression or a descriptor such as
// "@daily" or "@every 6h".
func Validate(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("cron expression is empty")
	}
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return s, nil
}

// New returns a runner for expr, rejecting invalid expressions up front.
func New(expr string, log *zap.Logger) (*Runner, error) {
	s, err := Validate(expr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{expr: strings.TrimSpace(expr), sched: s, log: log.Named("schedule")}, nil
}

// Next returns the first activation after t.
func (r *Runner) Next(t time.Time) time.Time {
	return r.sched.Next(t)
}

// Run blocks until ctx is cancelled, calling job on every activation.
// A tick that arrives while the previous job is still running is skipped.
// On cancellation Run waits for a running job to return.
func (r *Runner) Run(ctx context.Context, job Job) error {
	logger := cronLogger{r.log.Sugar()}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	run := func() {
		start := time.Now()
		r.log.Info("scheduled job started")
		if err := job(ctx); err != nil {
			r.log.Error("scheduled job failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
			return
		}
		r.log.Info("scheduled job finished", zap.Duration("elapsed", time.Since(start)))
	}

	c.Schedule(r.sched, cron.FuncJob(run))
	if r.Immediate {
		c.Entries()[0].WrappedJob.Run()
	}

	c.Start()
	r.log.Info("schedule started", zap.String("cron", r.expr), zap.Time("next", r.Next(time.Now())))

	<-ctx.Done()
	<-c.Stop().Done()
	r.log.Info("schedule stopped")
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
