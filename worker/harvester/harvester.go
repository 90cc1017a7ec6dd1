package harvester

import (
	"context"
	"time"

	"vault/core"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker periodically harvests accrued yield for every depositor so small
// accounts do not have to trigger payouts themselves.
type Worker struct {
	worker.BaseJob
	config       *core.Config
	yieldService core.IYieldService
}

// New new harvester worker
func New(cfg *core.Config, yieldSrv core.IYieldService) *Worker {
	job := Worker{
		config:       cfg,
		yieldService: yieldSrv,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 1h"
	job.Cron.AddFunc(spec, job.BaseJob.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "harvester")

	paid, err := w.yieldService.HarvestAll(ctx)
	if err != nil {
		log.WithError(err).Errorln("harvest all failed")
		return err
	}

	if paid.IsPositive() {
		log.Infoln("harvested:", paid.String())
	}

	return nil
}
