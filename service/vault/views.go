package vault

import (
	"context"
	"sort"
	"sync"

	"vault/core"
	"vault/internal/ledger"
	"vault/pkg/concurrency"

	"github.com/jinzhu/gorm"
	"github.com/spf13/cast"
)

func (s *vaultService) CollateralRatio(ctx context.Context, userID string) (int64, error) {
	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return 0, err
	}

	if !position.Debt.IsPositive() {
		return 0, nil
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return 0, err
	}

	return ledger.CollateralRatio(position.Collateral.Big(), position.Debt.Big(), price.Price.Big()).Int64(), nil
}

func (s *vaultService) IsLiquidatable(ctx context.Context, userID string) (bool, error) {
	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return false, err
	}

	if !position.Debt.IsPositive() {
		return false, nil
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return false, err
	}

	return ledger.IsLiquidatable(position.Collateral.Big(), position.Debt.Big(), price.Price.Big()), nil
}

func (s *vaultService) MaxMintable(ctx context.Context, userID string) (core.Amount, error) {
	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return core.Amount{}, err
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	return core.NewAmountFromBig(ledger.MaxMintable(position.Collateral.Big(), position.Debt.Big(), price.Price.Big())), nil
}

func (s *vaultService) MaxWithdrawable(ctx context.Context, userID string) (core.Amount, error) {
	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return core.Amount{}, err
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	return core.NewAmountFromBig(ledger.MaxWithdrawable(position.Collateral.Big(), position.Debt.Big(), price.Price.Big())), nil
}

func (s *vaultService) Stats(ctx context.Context) (*core.ProtocolStats, error) {
	vault, err := s.vaultStore.Get(ctx)
	if err != nil {
		return nil, err
	}

	deposits, err := s.yieldService.TotalDeposits(ctx)
	if err != nil {
		return nil, err
	}

	yieldPaid, err := s.yieldService.TotalYield(ctx)
	if err != nil {
		return nil, err
	}

	stats := &core.ProtocolStats{
		TotalCollateral: vault.TotalCollateral,
		TotalDebt:       vault.TotalDebt,
		TotalDeposits:   deposits,
		TotalYieldPaid:  yieldPaid,
		Price:           core.NewAmount(0),
	}

	if price, err := s.priceService.GetPrice(ctx); err == nil {
		stats.Price = price.Price
		stats.PriceTimestamp = price.Timestamp
	} else if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	if v, err := s.propertyStore.Get(ctx, core.PropertyPaused); err == nil {
		stats.Paused = cast.ToBool(v.String())
	} else {
		return nil, err
	}

	return stats, nil
}

// FlaggedAccounts lists indebted accounts below the liquidation threshold
// at the current price.
func (s *vaultService) FlaggedAccounts(ctx context.Context) ([]string, error) {
	price, err := s.currentPrice(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := s.positionStore.Indebted(ctx)
	if err != nil {
		return nil, err
	}

	golimit := concurrency.DefaultGoLimit
	wg := sync.WaitGroup{}
	mux := sync.Mutex{}

	var flagged []string
	for _, position := range positions {
		golimit.Add()
		wg.Add(1)
		go func(position *core.Position) {
			defer wg.Done()
			defer golimit.Done()

			if ledger.IsLiquidatable(position.Collateral.Big(), position.Debt.Big(), price.Price.Big()) {
				mux.Lock()
				flagged = append(flagged, position.UserID)
				mux.Unlock()
			}
		}(position)
	}

	wg.Wait()
	sort.Strings(flagged)
	return flagged, nil
}
