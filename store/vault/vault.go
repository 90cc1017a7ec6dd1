package vault

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

const vaultID = 1

type vaultStore struct {
	db *db.DB
}

// New new vault store
func New(db *db.DB) core.IVaultStore {
	return &vaultStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Vault{})
		if err := tx.AutoMigrate(core.Vault{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *vaultStore) Get(ctx context.Context) (*core.Vault, error) {
	var vault core.Vault
	err := s.db.View().Where("id=?", vaultID).First(&vault).Error
	if err == nil {
		return &vault, nil
	}

	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	vault = core.Vault{
		ID:              vaultID,
		TotalCollateral: core.NewAmount(0),
		TotalDebt:       core.NewAmount(0),
	}
	if err := s.db.Update().Where("id=?", vaultID).FirstOrCreate(&vault).Error; err != nil {
		return nil, err
	}

	return &vault, nil
}

func (s *vaultStore) Update(ctx context.Context, tx *db.DB, vault *core.Vault) error {
	version := vault.Version
	vault.Version++
	updates := map[string]interface{}{
		"total_collateral": vault.TotalCollateral,
		"total_debt":       vault.TotalDebt,
		"version":          vault.Version,
	}
	query := tx.Update().Model(core.Vault{}).Where("id=? and version=?", vault.ID, version).Updates(updates)
	if err := query.Error; err != nil {
		return err
	}

	if query.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
