package wallet

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

type walletStore struct {
	db *db.DB
}

// New new wallet store
func New(db *db.DB) core.IWalletStore {
	return &walletStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Wallet{})
		if err := tx.AutoMigrate(core.Wallet{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *walletStore) FindOrCreate(ctx context.Context, tx *db.DB, userID, asset string) (*core.Wallet, error) {
	wallet := core.Wallet{
		UserID:  userID,
		Asset:   asset,
		Balance: core.NewAmount(0),
	}
	if err := tx.Update().Where("user_id=? and asset=?", userID, asset).FirstOrCreate(&wallet).Error; err != nil {
		return nil, err
	}

	return &wallet, nil
}

func (s *walletStore) Find(ctx context.Context, userID, asset string) (*core.Wallet, error) {
	var wallet core.Wallet
	if err := s.db.View().Where("user_id=? and asset=?", userID, asset).First(&wallet).Error; err != nil {
		return nil, err
	}

	return &wallet, nil
}

func (s *walletStore) FindByUser(ctx context.Context, userID string) ([]*core.Wallet, error) {
	var wallets []*core.Wallet
	if err := s.db.View().Where("user_id=?", userID).Find(&wallets).Error; err != nil {
		return nil, err
	}

	return wallets, nil
}

func (s *walletStore) Update(ctx context.Context, tx *db.DB, wallet *core.Wallet) error {
	version := wallet.Version
	wallet.Version++
	updates := map[string]interface{}{
		"balance": wallet.Balance,
		"version": wallet.Version,
	}
	query := tx.Update().Model(core.Wallet{}).Where("user_id=? and asset=? and version=?", wallet.UserID, wallet.Asset, version).Updates(updates)
	if err := query.Error; err != nil {
		return err
	}

	if query.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
