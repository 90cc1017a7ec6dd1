package price

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PriceData{})
		if err := tx.AutoMigrate(core.PriceData{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Save(ctx context.Context, price *core.PriceData) error {
	return s.db.Tx(func(tx *db.DB) error {
		return tx.Update().Create(price).Error
	})
}

func (s *priceStore) Latest(ctx context.Context) (*core.PriceData, error) {
	var price core.PriceData
	if err := s.db.View().Order("timestamp DESC").First(&price).Error; err != nil {
		return nil, err
	}

	return &price, nil
}
