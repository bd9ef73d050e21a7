package main

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/robfig/cron/v3"
	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/globals"
)

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	logger hclog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// schedule runs job on the cron spec until ctx is done. Runs never overlap, a run that is still busy when
// the next one is due makes that one be skipped. Failed runs are logged, they do not stop the schedule.
func (a *app) schedule(ctx context.Context, spec string, job func(context.Context) error) error {
	logger := cronLogger{logger: globals.AppLogger.Named("cron")}
	runner := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))
	_, err := runner.AddFunc(spec, func() {
		if err := job(ctx); err != nil {
			globals.AppLogger.Error("scheduled poll failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: invalid --schedule %q: %v", config.ErrConfiguration, spec, err)
	}
	globals.AppLogger.Info("polling on schedule", "schedule", spec)
	runner.Start()
	<-ctx.Done()
	<-runner.Stop().Done()
	return nil
}
