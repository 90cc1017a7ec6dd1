package position

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Create(ctx context.Context, tx *db.DB, position *core.Position) error {
	if err := tx.Update().Where("user_id=?", position.UserID).FirstOrCreate(position).Error; err != nil {
		return err
	}

	return nil
}

func (s *positionStore) Find(ctx context.Context, userID string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("user_id=?", userID).First(&position).Error; err != nil {
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) All(ctx context.Context) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Indebted(ctx context.Context) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("debt > 0").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	version := position.Version
	position.Version++
	// column map so balances persist when they drop to zero
	updates := map[string]interface{}{
		"collateral": position.Collateral,
		"debt":       position.Debt,
		"version":    position.Version,
	}
	query := tx.Update().Model(core.Position{}).Where("user_id=? and version=?", position.UserID, version).Updates(updates)
	if err := query.Error; err != nil {
		return err
	}

	if query.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
