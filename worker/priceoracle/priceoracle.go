package priceoracle

import (
	"context"
	"time"

	"vault/core"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker pulls one fresh oracle reading per tick so ledger operations
// always find a recent price on disk.
type Worker struct {
	worker.TickWorker
	priceOracleService core.IPriceOracleService
}

// New new price oracle worker
func New(interval time.Duration, priceSrv core.IPriceOracleService) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    interval,
			ErrDelay: interval,
		},
		priceOracleService: priceSrv,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	price, err := w.priceOracleService.PullPrice(ctx, time.Now())
	if err != nil {
		log.WithError(err).Errorln("pull price failed")
		return err
	}

	if !price.Price.IsPositive() {
		log.Errorln("feed returned a zero price")
		return core.ErrZeroPrice
	}

	return nil
}
