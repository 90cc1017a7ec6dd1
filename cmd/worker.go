package cmd

import (
	"sync"
	"time"

	"vault/worker"
	"vault/worker/flagger"
	"vault/worker/harvester"
	"vault/worker/priceoracle"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "vault job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		priceService := providePriceService(database, system)
		yieldService := provideYieldService(database, system, walletService)
		vaultService := provideVaultService(database, system, walletService, yieldService, priceService)

		interval := time.Duration(cfg.PriceOracle.PullIntervalSeconds) * time.Second
		if interval <= 0 {
			interval = time.Minute
		}

		workers := []worker.Worker{
			priceoracle.New(interval, priceService),
			flagger.New(interval, vaultService),
			harvester.New(provideConfig(), yieldService),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				_ = worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
