package wallet

import (
	"context"

	"vault/core"
	"vault/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type walletService struct {
	db               *db.DB
	system           *core.System
	walletStore      core.IWalletStore
	transactionStore core.TransactionStore
}

// New new wallet service
func New(db *db.DB,
	system *core.System,
	walletStore core.IWalletStore,
	transactionStore core.TransactionStore) core.IWalletService {
	return &walletService{
		db:               db,
		system:           system,
		walletStore:      walletStore,
		transactionStore: transactionStore,
	}
}

func (s *walletService) Transfer(ctx context.Context, tx *db.DB, from, to, asset string, amount core.Amount) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}
	if from == "" || to == "" {
		return core.ErrZeroAddress
	}

	source, err := s.walletStore.FindOrCreate(ctx, tx, from, asset)
	if err != nil {
		return err
	}

	balance := source.Balance.Big()
	if balance.Cmp(amount.Big()) < 0 {
		return core.ErrInsufficientBalance
	}

	source.Balance = core.NewAmountFromBig(balance.Sub(balance, amount.Big()))
	if err := s.walletStore.Update(ctx, tx, source); err != nil {
		return err
	}

	target, err := s.walletStore.FindOrCreate(ctx, tx, to, asset)
	if err != nil {
		return err
	}

	targetBalance := target.Balance.Big()
	target.Balance = core.NewAmountFromBig(targetBalance.Add(targetBalance, amount.Big()))
	return s.walletStore.Update(ctx, tx, target)
}

func (s *walletService) Mint(ctx context.Context, tx *db.DB, userID, asset string, amount core.Amount) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}
	if userID == "" {
		return core.ErrZeroAddress
	}

	wallet, err := s.walletStore.FindOrCreate(ctx, tx, userID, asset)
	if err != nil {
		return err
	}

	balance := wallet.Balance.Big()
	wallet.Balance = core.NewAmountFromBig(balance.Add(balance, amount.Big()))
	return s.walletStore.Update(ctx, tx, wallet)
}

func (s *walletService) Burn(ctx context.Context, tx *db.DB, userID, asset string, amount core.Amount) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}
	if userID == "" {
		return core.ErrZeroAddress
	}

	wallet, err := s.walletStore.FindOrCreate(ctx, tx, userID, asset)
	if err != nil {
		return err
	}

	balance := wallet.Balance.Big()
	if balance.Cmp(amount.Big()) < 0 {
		return core.ErrInsufficientBalance
	}

	wallet.Balance = core.NewAmountFromBig(balance.Sub(balance, amount.Big()))
	return s.walletStore.Update(ctx, tx, wallet)
}

func (s *walletService) Balance(ctx context.Context, userID, asset string) (core.Amount, error) {
	wallet, err := s.walletStore.Find(ctx, userID, asset)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.NewAmount(0), nil
		}
		return core.Amount{}, err
	}

	return wallet.Balance, nil
}

func (s *walletService) BridgeCredit(ctx context.Context, operator, userID string, amount core.Amount) error {
	log := logger.FromContext(ctx).WithField("service", "wallet")

	if !s.system.IsOwner(operator) {
		return core.ErrUnauthorized
	}
	if userID == "" {
		return core.ErrZeroAddress
	}
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.Mint(ctx, tx, userID, core.AssetCollateral, amount); err != nil {
			log.WithError(err).Errorln("bridge credit failed")
			return err
		}

		transaction := &core.Transaction{
			Action:  core.ActionTypeBridgeCredit,
			TraceID: id.GenTraceID(),
			UserID:  userID,
			Asset:   core.AssetCollateral,
			Amount:  amount,
		}
		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyAmount, amount)
		extra.Put(core.TransactionKeyUser, userID)
		transaction.SetExtraData(extra)

		return s.transactionStore.Create(ctx, tx, transaction)
	})
}
