package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/liketagger/backend/internal/logging"
)

// Schedule runs the exporter on a standard five-field cron expression until
// the returned stop function is called. Runs that would overlap a previous
// one are skipped.
func Schedule(ctx context.Context, schedule string, exporter *Exporter) (func(), error) {
	logger := cronLogger{logger: logging.FromContext(ctx)}

	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, ExportTimeout)
		defer cancel()

		if _, err := exporter.Export(runCtx); err != nil {
			logging.FromContext(ctx).Error("scheduled export failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid export schedule %q: %w", schedule, err)
	}

	c.Start()
	logging.FromContext(ctx).Info("snapshot export scheduled", slog.String("schedule", schedule))

	return func() {
		<-c.Stop().Done()
	}, nil
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
