package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStatusScheduler запускает периодический свип статусов турниров.
// Возвращённый Scheduler нужно остановить при завершении приложения.
func StartStatusScheduler(lifecycle *LifecycleService, interval time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if err := lifecycle.SweepStatuses(ctx); err != nil {
				logger.Error("tournament status sweep failed", slog.Any("error", err))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
