package yield

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"vault/core"
	"vault/internal/ledger"
	"vault/pkg/id"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type yieldService struct {
	config           *core.Config
	db               *db.DB
	system           *core.System
	yieldStore       core.IYieldStore
	transactionStore core.TransactionStore
	walletService    core.IWalletService
	propertyStore    property.Store
	source           core.YieldSource
	strategy         core.YieldStrategy
}

// New new yield service. The strategy and its matching source come from
// config and never change while the process runs.
func New(cfg *core.Config,
	db *db.DB,
	system *core.System,
	yieldStore core.IYieldStore,
	transactionStore core.TransactionStore,
	walletService core.IWalletService,
	propertyStore property.Store) core.IYieldService {
	s := &yieldService{
		config:           cfg,
		db:               db,
		system:           system,
		yieldStore:       yieldStore,
		transactionStore: transactionStore,
		walletService:    walletService,
		propertyStore:    propertyStore,
	}

	switch cfg.Yield.Strategy {
	case "pooled":
		s.strategy = newPooledStrategy()
		s.source = newPoolSource(s.poolEndpoint)
	default:
		s.strategy = newLinearStrategy(cfg.Yield.RateBps)
		s.source = newVaultSource(s.principalBalance)
	}

	return s
}

// principalBalance recovers the vault-held source balance after a restart.
// Deposits and withdrawals move the balance and the persisted total in
// lockstep, so the total is the balance.
func (s *yieldService) principalBalance(ctx context.Context) (*big.Int, error) {
	state, err := s.yieldStore.GetState(ctx)
	if err != nil {
		return nil, err
	}

	return state.TotalPrincipal.Big(), nil
}

func (s *yieldService) poolEndpoint(ctx context.Context) (string, error) {
	v, err := s.propertyStore.Get(ctx, core.PropertyPoolEndpoint)
	if err != nil {
		return "", err
	}

	if url := v.String(); url != "" {
		return url, nil
	}

	return s.config.Yield.PoolEndPoint, nil
}

func (s *yieldService) findOrCreateRecord(ctx context.Context, tx *db.DB, userID string) (*core.YieldRecord, error) {
	record, err := s.yieldStore.Find(ctx, userID)
	if err == nil {
		return record, nil
	}

	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	record = &core.YieldRecord{
		UserID:       userID,
		Principal:    core.NewAmount(0),
		AccruedYield: core.NewAmount(0),
		Shares:       core.NewAmount(0),
	}
	if err := s.yieldStore.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *yieldService) Deposit(ctx context.Context, tx *db.DB, userID string, amount core.Amount) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	record, err := s.findOrCreateRecord(ctx, tx, userID)
	if err != nil {
		return err
	}

	state, err := s.yieldStore.GetState(ctx)
	if err != nil {
		return err
	}

	sourceValue, err := s.source.TotalValue(ctx)
	if err != nil {
		return err
	}

	// Shares are minted against the pool value before the deposit lands.
	s.strategy.Deposit(record, state, amount.Big(), sourceValue, time.Now())

	if err := s.source.Deposit(ctx, amount.Big()); err != nil {
		return err
	}

	if err := s.yieldStore.Update(ctx, tx, record); err != nil {
		return err
	}

	return s.yieldStore.UpdateState(ctx, tx, state)
}

func (s *yieldService) Withdraw(ctx context.Context, tx *db.DB, userID string, amount core.Amount) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	record, err := s.yieldStore.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.ErrInsufficientCollateral
		}
		return err
	}

	if record.Principal.Big().Cmp(amount.Big()) < 0 {
		return core.ErrInsufficientCollateral
	}

	state, err := s.yieldStore.GetState(ctx)
	if err != nil {
		return err
	}

	sourceValue, err := s.source.TotalValue(ctx)
	if err != nil {
		return err
	}

	if sourceValue.Cmp(amount.Big()) < 0 {
		return core.ErrInsufficientLiquidity
	}

	s.strategy.Withdraw(record, state, amount.Big(), sourceValue, time.Now())

	if err := s.source.Withdraw(ctx, amount.Big()); err != nil {
		return err
	}

	if err := s.yieldStore.Update(ctx, tx, record); err != nil {
		return err
	}

	return s.yieldStore.UpdateState(ctx, tx, state)
}

func (s *yieldService) Harvest(ctx context.Context, userID string) (core.Amount, error) {
	var paid core.Amount
	err := s.db.Tx(func(tx *db.DB) error {
		var err error
		paid, err = s.harvest(ctx, tx, userID)
		return err
	})

	return paid, err
}

func (s *yieldService) harvest(ctx context.Context, tx *db.DB, userID string) (core.Amount, error) {
	log := logger.FromContext(ctx).WithField("service", "yield")

	record, err := s.yieldStore.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.NewAmount(0), nil
		}
		return core.Amount{}, err
	}

	state, err := s.yieldStore.GetState(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	sourceValue, err := s.source.TotalValue(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	pending := s.strategy.Pending(record, state, sourceValue, time.Now())
	if pending.Sign() <= 0 {
		return core.NewAmount(0), nil
	}

	userBps, err := s.userBps(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	userAmount, protocolAmount := ledger.SplitBps(pending, userBps)

	if err := s.source.Realize(ctx, pending); err != nil {
		return core.Amount{}, err
	}

	if userAmount.Sign() > 0 {
		if err := s.walletService.Mint(ctx, tx, userID, core.AssetCollateral, core.NewAmountFromBig(userAmount)); err != nil {
			return core.Amount{}, err
		}
	}
	if protocolAmount.Sign() > 0 {
		if err := s.walletService.Mint(ctx, tx, core.WalletTreasury, core.AssetCollateral, core.NewAmountFromBig(protocolAmount)); err != nil {
			return core.Amount{}, err
		}
	}

	s.strategy.Harvested(record, state, pending, sourceValue, time.Now())

	totalPaid := state.TotalYieldPaid.Big()
	state.TotalYieldPaid = core.NewAmountFromBig(totalPaid.Add(totalPaid, pending))

	if err := s.yieldStore.Update(ctx, tx, record); err != nil {
		return core.Amount{}, err
	}
	if err := s.yieldStore.UpdateState(ctx, tx, state); err != nil {
		return core.Amount{}, err
	}

	transaction := &core.Transaction{
		Action:  core.ActionTypeHarvest,
		TraceID: id.GenTraceID(),
		UserID:  userID,
		Asset:   core.AssetCollateral,
		Amount:  core.NewAmountFromBig(pending),
	}
	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyUserAmount, core.NewAmountFromBig(userAmount))
	extra.Put(core.TransactionKeyProtocolAmount, core.NewAmountFromBig(protocolAmount))
	transaction.SetExtraData(extra)

	if err := s.transactionStore.Create(ctx, tx, transaction); err != nil {
		return core.Amount{}, err
	}

	log.Infoln("harvested", pending, "for", userID)
	return core.NewAmountFromBig(userAmount), nil
}

// HarvestAll sweeps every record; one record's failure must not starve the
// rest of the payout.
func (s *yieldService) HarvestAll(ctx context.Context) (core.Amount, error) {
	log := logger.FromContext(ctx).WithField("service", "yield")

	records, err := s.yieldStore.All(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	total := new(big.Int)
	for _, record := range records {
		paid, err := s.Harvest(ctx, record.UserID)
		if err != nil {
			log.WithError(err).Errorln("harvest failed for", record.UserID)
			continue
		}

		total.Add(total, paid.Big())
	}

	return core.NewAmountFromBig(total), nil
}

func (s *yieldService) PendingYield(ctx context.Context, userID string) (core.Amount, error) {
	record, err := s.yieldStore.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.NewAmount(0), nil
		}
		return core.Amount{}, err
	}

	state, err := s.yieldStore.GetState(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	sourceValue, err := s.source.TotalValue(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	return core.NewAmountFromBig(s.strategy.Pending(record, state, sourceValue, time.Now())), nil
}

func (s *yieldService) TotalDeposits(ctx context.Context) (core.Amount, error) {
	state, err := s.yieldStore.GetState(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	return state.TotalPrincipal, nil
}

func (s *yieldService) TotalYield(ctx context.Context) (core.Amount, error) {
	state, err := s.yieldStore.GetState(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	return state.TotalYieldPaid, nil
}

func (s *yieldService) userBps(ctx context.Context) (int64, error) {
	user, err := s.propertyStore.Get(ctx, core.PropertyUserBps)
	if err != nil {
		return 0, err
	}
	protocol, err := s.propertyStore.Get(ctx, core.PropertyProtocolBps)
	if err != nil {
		return 0, err
	}

	// A stored split always sums to PRECISION, including an all-protocol
	// 0/10000 one. Anything else means the owner never set a split and
	// the config default applies.
	if user.Int64()+protocol.Int64() == ledger.Precision {
		return user.Int64(), nil
	}

	return s.config.Yield.UserBps, nil
}

func (s *yieldService) SetFeeSplit(ctx context.Context, operator string, userBps, protocolBps int64) error {
	if !s.system.IsOwner(operator) {
		return core.ErrUnauthorized
	}

	if userBps < 0 || protocolBps < 0 || userBps+protocolBps != ledger.Precision {
		return core.ErrInvalidFeeConfiguration
	}

	if err := s.propertyStore.Save(ctx, core.PropertyUserBps, userBps); err != nil {
		return err
	}

	return s.propertyStore.Save(ctx, core.PropertyProtocolBps, protocolBps)
}

// SetPoolEndpoint repoints the pooled venue. The next source call uses the
// new url; the linear strategy ignores it.
func (s *yieldService) SetPoolEndpoint(ctx context.Context, operator, endpoint string) error {
	if !s.system.IsOwner(operator) {
		return core.ErrUnauthorized
	}
	if !govalidator.IsURL(endpoint) {
		return fmt.Errorf("yield: invalid pool endpoint %q", endpoint)
	}

	return s.propertyStore.Save(ctx, core.PropertyPoolEndpoint, endpoint)
}

func (s *yieldService) EmergencyWithdrawAll(ctx context.Context, operator string) (core.Amount, error) {
	log := logger.FromContext(ctx).WithField("service", "yield")

	if !s.system.IsOwner(operator) {
		return core.Amount{}, core.ErrUnauthorized
	}

	sourceValue, err := s.source.TotalValue(ctx)
	if err != nil {
		return core.Amount{}, err
	}

	if sourceValue.Sign() <= 0 {
		return core.NewAmount(0), nil
	}

	var recovered core.Amount
	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.source.Withdraw(ctx, sourceValue); err != nil {
			return err
		}

		recovered = core.NewAmountFromBig(sourceValue)
		if err := s.walletService.Mint(ctx, tx, core.WalletVault, core.AssetCollateral, recovered); err != nil {
			return err
		}

		if err := s.propertyStore.Save(ctx, core.PropertyPaused, true); err != nil {
			return err
		}

		transaction := &core.Transaction{
			Action:  core.ActionTypeEmergencyWithdraw,
			TraceID: id.GenTraceID(),
			UserID:  operator,
			Asset:   core.AssetCollateral,
			Amount:  recovered,
		}
		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyAmount, recovered)
		transaction.SetExtraData(extra)

		return s.transactionStore.Create(ctx, tx, transaction)
	})

	if err != nil {
		log.WithError(err).Errorln("emergency withdraw failed")
		return core.Amount{}, err
	}

	return recovered, nil
}
