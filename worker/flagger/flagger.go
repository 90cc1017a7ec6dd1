package flagger

import (
	"context"
	"time"

	"vault/core"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker scans indebted positions and logs the accounts below the
// liquidation threshold. It never liquidates on its own; closing positions
// stays with external liquidators.
type Worker struct {
	worker.TickWorker
	vaultService core.IVaultService
}

// New new flagger worker
func New(interval time.Duration, vaultSrv core.IVaultService) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    interval,
			ErrDelay: interval,
		},
		vaultService: vaultSrv,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "flagger")

	flagged, err := w.vaultService.FlaggedAccounts(ctx)
	if err != nil {
		if err == core.ErrStalePrice || err == core.ErrZeroPrice {
			log.WithError(err).Warnln("skip scan, no usable price")
			return nil
		}
		return err
	}

	for _, userID := range flagged {
		log.Infoln("liquidatable:", userID)
	}

	return nil
}
