package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Jobs runs the periodic maintenance tasks.
type Jobs struct {
	cron *cron.Cron
	app  *App
}

// StartJobs schedules the expired API key purge on the configured cron
// spec. It returns a nil *Jobs when the schedule is empty.
func (a *App) StartJobs(ctx context.Context) (*Jobs, error) {
	spec := a.cfg.APIKeyCleanupSchedule
	if spec == "" {
		a.logger.Info("api key cleanup job disabled")
		return nil, nil
	}

	j := &Jobs{cron: cron.New(), app: a}
	if _, err := j.cron.AddFunc(spec, func() { j.purgeAPIKeys(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule api key cleanup %q: %w", spec, err)
	}
	j.cron.Start()
	a.logger.Info("maintenance jobs started", "api_key_cleanup", spec)
	return j, nil
}

func (j *Jobs) purgeAPIKeys(ctx context.Context) {
	n, err := j.app.Services.APIKeys.PurgeExpired(ctx)
	if err != nil {
		j.app.logger.Error("api key cleanup failed", "error", err)
		return
	}
	if n > 0 {
		j.app.logger.Info("expired api keys purged", "count", n)
	}
}

// Stop stops the scheduler and waits for a running job to finish. Safe on a
// nil *Jobs.
func (j *Jobs) Stop() {
	if j == nil {
		return
	}
	<-j.cron.Stop().Done()
	j.app.logger.Info("maintenance jobs stopped")
}
