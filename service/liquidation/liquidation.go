package liquidation

import (
	"context"
	"math/big"
	"time"

	"vault/core"
	"vault/internal/ledger"
	"vault/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cast"
)

type liquidationService struct {
	db               *db.DB
	positionStore    core.IPositionStore
	vaultStore       core.IVaultStore
	transactionStore core.TransactionStore
	walletService    core.IWalletService
	yieldService     core.IYieldService
	priceService     core.IPriceOracleService
	propertyStore    property.Store
}

// New new liquidation service
func New(db *db.DB,
	positionStore core.IPositionStore,
	vaultStore core.IVaultStore,
	transactionStore core.TransactionStore,
	walletService core.IWalletService,
	yieldService core.IYieldService,
	priceService core.IPriceOracleService,
	propertyStore property.Store) core.ILiquidationService {
	return &liquidationService{
		db:               db,
		positionStore:    positionStore,
		vaultStore:       vaultStore,
		transactionStore: transactionStore,
		walletService:    walletService,
		yieldService:     yieldService,
		priceService:     priceService,
		propertyStore:    propertyStore,
	}
}

func (s *liquidationService) currentPrice(ctx context.Context) (*core.PriceData, error) {
	price, err := s.priceService.GetPrice(ctx)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrStalePrice
		}
		return nil, err
	}

	if !price.Price.IsPositive() {
		return nil, core.ErrZeroPrice
	}

	age := time.Since(time.Unix(price.Timestamp, 0))
	if age > s.priceService.MaxAge() {
		return nil, core.ErrStalePrice
	}

	return price, nil
}

func (s *liquidationService) findPosition(ctx context.Context, userID string) (*core.Position, error) {
	position, err := s.positionStore.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrNoPosition
		}
		return nil, err
	}

	return position, nil
}

func (s *liquidationService) IsLiquidatable(ctx context.Context, userID string) (bool, error) {
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

func (s *liquidationService) Preview(ctx context.Context, userID string, repay core.Amount) (*core.LiquidationQuote, error) {
	if !repay.IsPositive() {
		return nil, core.ErrZeroAmount
	}

	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return nil, err
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return nil, err
	}

	if !ledger.IsLiquidatable(position.Collateral.Big(), position.Debt.Big(), price.Price.Big()) {
		return nil, core.ErrSeizeNotAllowed
	}

	quote := ledger.Liquidation(position.Collateral.Big(), position.Debt.Big(), price.Price.Big(), repay.Big())
	return &core.LiquidationQuote{
		UserID:           userID,
		DebtRepaid:       core.NewAmountFromBig(quote.DebtRepaid),
		CollateralSeized: core.NewAmountFromBig(quote.CollateralSeized),
		LiquidatorSeized: core.NewAmountFromBig(quote.LiquidatorSeized),
		ProtocolSeized:   core.NewAmountFromBig(quote.ProtocolSeized),
		Price:            price.Price,
	}, nil
}

// Liquidate repays up to half the target's debt with the liquidator's debt
// units and routes the seized collateral, bonus included, to the liquidator
// and the treasury. Eligibility is re-checked on a fresh price inside the
// transaction.
func (s *liquidationService) Liquidate(ctx context.Context, liquidator, userID string, repay core.Amount) (*core.LiquidationQuote, error) {
	log := logger.FromContext(ctx).WithField("service", "liquidation")

	if v, err := s.propertyStore.Get(ctx, core.PropertyPaused); err != nil {
		return nil, err
	} else if cast.ToBool(v.String()) {
		return nil, core.ErrPaused
	}

	if liquidator == "" {
		return nil, core.ErrZeroAddress
	}
	if !repay.IsPositive() {
		return nil, core.ErrZeroAmount
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return nil, err
	}

	var result *core.LiquidationQuote
	err = s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, userID)
		if err != nil {
			return err
		}

		if !position.Debt.IsPositive() {
			return core.ErrSeizeNotAllowed
		}
		if !ledger.IsLiquidatable(position.Collateral.Big(), position.Debt.Big(), price.Price.Big()) {
			return core.ErrSeizeNotAllowed
		}

		quote := ledger.Liquidation(position.Collateral.Big(), position.Debt.Big(), price.Price.Big(), repay.Big())

		repaid := core.NewAmountFromBig(quote.DebtRepaid)
		if err := s.walletService.Burn(ctx, tx, liquidator, core.AssetDebt, repaid); err != nil {
			return err
		}

		collateral := position.Collateral.Big()
		position.Collateral = core.NewAmountFromBig(new(big.Int).Sub(collateral, quote.CollateralSeized))
		debt := position.Debt.Big()
		position.Debt = core.NewAmountFromBig(new(big.Int).Sub(debt, quote.DebtRepaid))
		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}

		vault, err := s.vaultStore.Get(ctx)
		if err != nil {
			return err
		}

		totalCollateral := vault.TotalCollateral.Big()
		vault.TotalCollateral = core.NewAmountFromBig(totalCollateral.Sub(totalCollateral, quote.CollateralSeized))
		totalDebt := vault.TotalDebt.Big()
		vault.TotalDebt = core.NewAmountFromBig(totalDebt.Sub(totalDebt, quote.DebtRepaid))
		if err := s.vaultStore.Update(ctx, tx, vault); err != nil {
			return err
		}

		seized := core.NewAmountFromBig(quote.CollateralSeized)
		if err := s.yieldService.Withdraw(ctx, tx, userID, seized); err != nil {
			return err
		}

		if quote.LiquidatorSeized.Sign() > 0 {
			if err := s.walletService.Transfer(ctx, tx, core.WalletVault, liquidator, core.AssetCollateral, core.NewAmountFromBig(quote.LiquidatorSeized)); err != nil {
				return err
			}
		}
		if quote.ProtocolSeized.Sign() > 0 {
			if err := s.walletService.Transfer(ctx, tx, core.WalletVault, core.WalletTreasury, core.AssetCollateral, core.NewAmountFromBig(quote.ProtocolSeized)); err != nil {
				return err
			}
		}

		result = &core.LiquidationQuote{
			UserID:           userID,
			DebtRepaid:       repaid,
			CollateralSeized: seized,
			LiquidatorSeized: core.NewAmountFromBig(quote.LiquidatorSeized),
			ProtocolSeized:   core.NewAmountFromBig(quote.ProtocolSeized),
			Price:            price.Price,
		}

		transaction := &core.Transaction{
			Action:  core.ActionTypeLiquidate,
			TraceID: id.GenTraceID(),
			UserID:  userID,
			Asset:   core.AssetCollateral,
			Amount:  seized,
		}
		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyLiquidator, liquidator)
		extra.Put(core.TransactionKeyRepaid, repaid)
		extra.Put(core.TransactionKeySeized, seized)
		extra.Put(core.TransactionKeyBonus, core.NewAmountFromBig(quote.Bonus))
		extra.Put(core.TransactionKeyPrice, price.Price)
		transaction.SetExtraData(extra)

		return s.transactionStore.Create(ctx, tx, transaction)
	})
	if err != nil {
		log.WithError(err).Errorln("liquidate failed")
		return nil, err
	}

	return result, nil
}
