package vault

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

type vaultService struct {
	config           *core.Config
	db               *db.DB
	system           *core.System
	positionStore    core.IPositionStore
	vaultStore       core.IVaultStore
	transactionStore core.TransactionStore
	walletService    core.IWalletService
	yieldService     core.IYieldService
	priceService     core.IPriceOracleService
	propertyStore    property.Store
}

// New new vault service
func New(cfg *core.Config,
	db *db.DB,
	system *core.System,
	positionStore core.IPositionStore,
	vaultStore core.IVaultStore,
	transactionStore core.TransactionStore,
	walletService core.IWalletService,
	yieldService core.IYieldService,
	priceService core.IPriceOracleService,
	propertyStore property.Store) core.IVaultService {
	return &vaultService{
		config:           cfg,
		db:               db,
		system:           system,
		positionStore:    positionStore,
		vaultStore:       vaultStore,
		transactionStore: transactionStore,
		walletService:    walletService,
		yieldService:     yieldService,
		priceService:     priceService,
		propertyStore:    propertyStore,
	}
}

// requireRunning rejects every mutating operation while the vault is
// paused.
func (s *vaultService) requireRunning(ctx context.Context) error {
	v, err := s.propertyStore.Get(ctx, core.PropertyPaused)
	if err != nil {
		return err
	}

	if cast.ToBool(v.String()) {
		return core.ErrPaused
	}

	return nil
}

// currentPrice re-reads the oracle and validates the reading. Readings are
// judged on their own feed timestamp; nothing is trusted across calls.
func (s *vaultService) currentPrice(ctx context.Context) (*core.PriceData, error) {
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

func (s *vaultService) minDeposit(ctx context.Context) (*big.Int, error) {
	v, err := s.propertyStore.Get(ctx, core.PropertyMinDeposit)
	if err != nil {
		return nil, err
	}

	if raw := v.String(); raw != "" {
		if min, ok := new(big.Int).SetString(raw, 10); ok {
			return min, nil
		}
	}

	if raw := s.config.App.MinDeposit; raw != "" {
		if min, ok := new(big.Int).SetString(raw, 10); ok {
			return min, nil
		}
	}

	return new(big.Int), nil
}

func (s *vaultService) findOrCreatePosition(ctx context.Context, tx *db.DB, userID string) (*core.Position, error) {
	position, err := s.positionStore.Find(ctx, userID)
	if err == nil {
		return position, nil
	}

	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	position = &core.Position{
		UserID:     userID,
		Collateral: core.NewAmount(0),
		Debt:       core.NewAmount(0),
	}
	if err := s.positionStore.Create(ctx, tx, position); err != nil {
		return nil, err
	}

	return position, nil
}

func (s *vaultService) findPosition(ctx context.Context, userID string) (*core.Position, error) {
	position, err := s.positionStore.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrNoPosition
		}
		return nil, err
	}

	return position, nil
}

func (s *vaultService) writeTransaction(ctx context.Context, tx *db.DB, action core.ActionType, userID, asset string, amount core.Amount, extra core.TransactionExtraData) error {
	transaction := &core.Transaction{
		Action:  action,
		TraceID: id.GenTraceID(),
		UserID:  userID,
		Asset:   asset,
		Amount:  amount,
	}
	transaction.SetExtraData(extra)

	return s.transactionStore.Create(ctx, tx, transaction)
}

func (s *vaultService) DepositCollateral(ctx context.Context, userID string, amount core.Amount) error {
	if err := s.requireRunning(ctx); err != nil {
		return err
	}
	if userID == "" {
		return core.ErrZeroAddress
	}
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	min, err := s.minDeposit(ctx)
	if err != nil {
		return err
	}
	if amount.Big().Cmp(min) < 0 {
		return core.ErrBelowMinimumDeposit
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		return s.deposit(ctx, tx, userID, amount, price)
	})
}

func (s *vaultService) deposit(ctx context.Context, tx *db.DB, userID string, amount core.Amount, price *core.PriceData) error {
	log := logger.FromContext(ctx).WithField("service", "vault")

	if err := s.walletService.Transfer(ctx, tx, userID, core.WalletVault, core.AssetCollateral, amount); err != nil {
		return err
	}

	position, err := s.findOrCreatePosition(ctx, tx, userID)
	if err != nil {
		return err
	}

	collateral := position.Collateral.Big()
	position.Collateral = core.NewAmountFromBig(collateral.Add(collateral, amount.Big()))
	if err := s.positionStore.Update(ctx, tx, position); err != nil {
		return err
	}

	vault, err := s.vaultStore.Get(ctx)
	if err != nil {
		return err
	}

	total := vault.TotalCollateral.Big()
	vault.TotalCollateral = core.NewAmountFromBig(total.Add(total, amount.Big()))
	if err := s.vaultStore.Update(ctx, tx, vault); err != nil {
		return err
	}

	if err := s.yieldService.Deposit(ctx, tx, userID, amount); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyAmount, amount)
	extra.Put(core.TransactionKeyPrice, price.Price)
	extra.Put(core.TransactionKeyTotalCollateral, vault.TotalCollateral)

	if err := s.writeTransaction(ctx, tx, core.ActionTypeDepositCollateral, userID, core.AssetCollateral, amount, extra); err != nil {
		return err
	}

	log.Infoln("deposit", amount.String(), "from", userID)
	return nil
}

func (s *vaultService) WithdrawCollateral(ctx context.Context, userID string, amount core.Amount) error {
	if err := s.requireRunning(ctx); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		return s.withdraw(ctx, tx, userID, amount, price)
	})
}

func (s *vaultService) withdraw(ctx context.Context, tx *db.DB, userID string, amount core.Amount, price *core.PriceData) error {
	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return err
	}

	collateral := position.Collateral.Big()
	if collateral.Cmp(amount.Big()) < 0 {
		return core.ErrInsufficientCollateral
	}

	remaining := new(big.Int).Sub(collateral, amount.Big())
	if position.Debt.IsPositive() && !ledger.IsHealthy(remaining, position.Debt.Big(), price.Price.Big()) {
		return core.ErrUnhealthyPosition
	}

	position.Collateral = core.NewAmountFromBig(remaining)
	if err := s.positionStore.Update(ctx, tx, position); err != nil {
		return err
	}

	vault, err := s.vaultStore.Get(ctx)
	if err != nil {
		return err
	}

	total := vault.TotalCollateral.Big()
	vault.TotalCollateral = core.NewAmountFromBig(total.Sub(total, amount.Big()))
	if err := s.vaultStore.Update(ctx, tx, vault); err != nil {
		return err
	}

	if err := s.yieldService.Withdraw(ctx, tx, userID, amount); err != nil {
		return err
	}

	if err := s.walletService.Transfer(ctx, tx, core.WalletVault, userID, core.AssetCollateral, amount); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyAmount, amount)
	extra.Put(core.TransactionKeyPrice, price.Price)
	extra.Put(core.TransactionKeyTotalCollateral, vault.TotalCollateral)

	return s.writeTransaction(ctx, tx, core.ActionTypeWithdrawCollateral, userID, core.AssetCollateral, amount, extra)
}

func (s *vaultService) Mint(ctx context.Context, userID string, amount core.Amount) error {
	if err := s.requireRunning(ctx); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		return s.mint(ctx, tx, userID, amount, price)
	})
}

func (s *vaultService) mint(ctx context.Context, tx *db.DB, userID string, amount core.Amount, price *core.PriceData) error {
	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return err
	}

	headroom := ledger.MaxMintable(position.Collateral.Big(), position.Debt.Big(), price.Price.Big())
	if headroom.Cmp(amount.Big()) < 0 {
		return core.ErrInsufficientCollateral
	}

	debt := position.Debt.Big()
	position.Debt = core.NewAmountFromBig(debt.Add(debt, amount.Big()))
	if err := s.positionStore.Update(ctx, tx, position); err != nil {
		return err
	}

	vault, err := s.vaultStore.Get(ctx)
	if err != nil {
		return err
	}

	total := vault.TotalDebt.Big()
	vault.TotalDebt = core.NewAmountFromBig(total.Add(total, amount.Big()))
	if err := s.vaultStore.Update(ctx, tx, vault); err != nil {
		return err
	}

	if err := s.walletService.Mint(ctx, tx, userID, core.AssetDebt, amount); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyAmount, amount)
	extra.Put(core.TransactionKeyPrice, price.Price)
	extra.Put(core.TransactionKeyTotalDebt, vault.TotalDebt)

	return s.writeTransaction(ctx, tx, core.ActionTypeMint, userID, core.AssetDebt, amount, extra)
}

func (s *vaultService) Burn(ctx context.Context, userID string, amount core.Amount) error {
	if err := s.requireRunning(ctx); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		return s.burn(ctx, tx, userID, amount, price)
	})
}

func (s *vaultService) burn(ctx context.Context, tx *db.DB, userID string, amount core.Amount, price *core.PriceData) error {
	position, err := s.findPosition(ctx, userID)
	if err != nil {
		return err
	}

	debt := position.Debt.Big()
	if debt.Cmp(amount.Big()) < 0 {
		return core.ErrInsufficientDebt
	}

	if err := s.walletService.Burn(ctx, tx, userID, core.AssetDebt, amount); err != nil {
		return err
	}

	position.Debt = core.NewAmountFromBig(debt.Sub(debt, amount.Big()))
	if err := s.positionStore.Update(ctx, tx, position); err != nil {
		return err
	}

	vault, err := s.vaultStore.Get(ctx)
	if err != nil {
		return err
	}

	total := vault.TotalDebt.Big()
	vault.TotalDebt = core.NewAmountFromBig(total.Sub(total, amount.Big()))
	if err := s.vaultStore.Update(ctx, tx, vault); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyAmount, amount)
	extra.Put(core.TransactionKeyPrice, price.Price)
	extra.Put(core.TransactionKeyTotalDebt, vault.TotalDebt)

	return s.writeTransaction(ctx, tx, core.ActionTypeBurn, userID, core.AssetDebt, amount, extra)
}

// DepositAndMint locks collateral and mints the maximum debt the new
// position supports, in one transaction.
func (s *vaultService) DepositAndMint(ctx context.Context, userID string, collateral core.Amount) (core.Amount, error) {
	if err := s.requireRunning(ctx); err != nil {
		return core.Amount{}, err
	}
	if userID == "" {
		return core.Amount{}, core.ErrZeroAddress
	}
	if !collateral.IsPositive() {
		return core.Amount{}, core.ErrZeroAmount
	}

	min, err := s.minDeposit(ctx)
	if err != nil {
		return core.Amount{}, err
	}
	if collateral.Big().Cmp(min) < 0 {
		return core.Amount{}, core.ErrBelowMinimumDeposit
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	var minted core.Amount
	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, userID, core.WalletVault, core.AssetCollateral, collateral); err != nil {
			return err
		}

		position, err := s.findOrCreatePosition(ctx, tx, userID)
		if err != nil {
			return err
		}

		newCollateral := new(big.Int).Add(position.Collateral.Big(), collateral.Big())
		// Zero headroom is not an error: the deposit still lands and the
		// call reports nothing minted.
		headroom := ledger.MaxMintable(newCollateral, position.Debt.Big(), price.Price.Big())

		minted = core.NewAmountFromBig(headroom)
		position.Collateral = core.NewAmountFromBig(newCollateral)
		position.Debt = core.NewAmountFromBig(new(big.Int).Add(position.Debt.Big(), headroom))
		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}

		vault, err := s.vaultStore.Get(ctx)
		if err != nil {
			return err
		}

		totalCollateral := vault.TotalCollateral.Big()
		vault.TotalCollateral = core.NewAmountFromBig(totalCollateral.Add(totalCollateral, collateral.Big()))
		totalDebt := vault.TotalDebt.Big()
		vault.TotalDebt = core.NewAmountFromBig(totalDebt.Add(totalDebt, headroom))
		if err := s.vaultStore.Update(ctx, tx, vault); err != nil {
			return err
		}

		if err := s.yieldService.Deposit(ctx, tx, userID, collateral); err != nil {
			return err
		}

		if minted.IsPositive() {
			if err := s.walletService.Mint(ctx, tx, userID, core.AssetDebt, minted); err != nil {
				return err
			}
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyAmount, collateral)
		extra.Put(core.TransactionKeyMinted, minted)
		extra.Put(core.TransactionKeyPrice, price.Price)

		return s.writeTransaction(ctx, tx, core.ActionTypeDepositAndMint, userID, core.AssetDebt, minted, extra)
	})
	if err != nil {
		return core.Amount{}, err
	}

	return minted, nil
}

// RepayAndWithdraw burns debt and releases collateral in proportion to the
// share of debt repaid, in one transaction.
func (s *vaultService) RepayAndWithdraw(ctx context.Context, userID string, debtAmount core.Amount) (core.Amount, error) {
	if err := s.requireRunning(ctx); err != nil {
		return core.Amount{}, err
	}
	if !debtAmount.IsPositive() {
		return core.Amount{}, core.ErrZeroAmount
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	var released core.Amount
	err = s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, userID)
		if err != nil {
			return err
		}

		debt := position.Debt.Big()
		if debt.Cmp(debtAmount.Big()) < 0 {
			return core.ErrInsufficientDebt
		}

		release := ledger.ProportionalRelease(position.Collateral.Big(), debt, debtAmount.Big())

		remainingCollateral := new(big.Int).Sub(position.Collateral.Big(), release)
		remainingDebt := new(big.Int).Sub(debt, debtAmount.Big())
		if remainingDebt.Sign() > 0 && !ledger.IsHealthy(remainingCollateral, remainingDebt, price.Price.Big()) {
			return core.ErrUnhealthyPosition
		}

		if err := s.walletService.Burn(ctx, tx, userID, core.AssetDebt, debtAmount); err != nil {
			return err
		}

		position.Collateral = core.NewAmountFromBig(remainingCollateral)
		position.Debt = core.NewAmountFromBig(remainingDebt)
		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}

		vault, err := s.vaultStore.Get(ctx)
		if err != nil {
			return err
		}

		totalCollateral := vault.TotalCollateral.Big()
		vault.TotalCollateral = core.NewAmountFromBig(totalCollateral.Sub(totalCollateral, release))
		totalDebt := vault.TotalDebt.Big()
		vault.TotalDebt = core.NewAmountFromBig(totalDebt.Sub(totalDebt, debtAmount.Big()))
		if err := s.vaultStore.Update(ctx, tx, vault); err != nil {
			return err
		}

		released = core.NewAmountFromBig(release)
		if release.Sign() > 0 {
			if err := s.yieldService.Withdraw(ctx, tx, userID, released); err != nil {
				return err
			}

			if err := s.walletService.Transfer(ctx, tx, core.WalletVault, userID, core.AssetCollateral, released); err != nil {
				return err
			}
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyRepaid, debtAmount)
		extra.Put(core.TransactionKeyReleased, released)
		extra.Put(core.TransactionKeyPrice, price.Price)

		return s.writeTransaction(ctx, tx, core.ActionTypeRepayAndWithdraw, userID, core.AssetCollateral, released, extra)
	})
	if err != nil {
		return core.Amount{}, err
	}

	return released, nil
}

func (s *vaultService) SetMinDeposit(ctx context.Context, operator string, amount core.Amount) error {
	if !s.system.IsOwner(operator) {
		return core.ErrUnauthorized
	}
	if amount.Big().Sign() < 0 {
		return core.ErrZeroAmount
	}

	return s.propertyStore.Save(ctx, core.PropertyMinDeposit, amount.String())
}

func (s *vaultService) Pause(ctx context.Context, operator string) error {
	if !s.system.IsOwner(operator) {
		return core.ErrUnauthorized
	}

	return s.propertyStore.Save(ctx, core.PropertyPaused, true)
}

func (s *vaultService) Unpause(ctx context.Context, operator string) error {
	if !s.system.IsOwner(operator) {
		return core.ErrUnauthorized
	}

	return s.propertyStore.Save(ctx, core.PropertyPaused, false)
}
