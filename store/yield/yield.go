package yield

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

const stateID = 1

type yieldStore struct {
	db *db.DB
}

// New new yield store
func New(db *db.DB) core.IYieldStore {
	return &yieldStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.YieldRecord{}).Error; err != nil {
			return err
		}

		if err := db.Update().AutoMigrate(core.YieldState{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *yieldStore) Create(ctx context.Context, tx *db.DB, record *core.YieldRecord) error {
	if err := tx.Update().Where("user_id=?", record.UserID).FirstOrCreate(record).Error; err != nil {
		return err
	}

	return nil
}

func (s *yieldStore) Find(ctx context.Context, userID string) (*core.YieldRecord, error) {
	var record core.YieldRecord
	if err := s.db.View().Where("user_id=?", userID).First(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *yieldStore) All(ctx context.Context) ([]*core.YieldRecord, error) {
	var records []*core.YieldRecord
	if err := s.db.View().Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (s *yieldStore) Update(ctx context.Context, tx *db.DB, record *core.YieldRecord) error {
	version := record.Version
	record.Version++
	updates := map[string]interface{}{
		"principal":     record.Principal,
		"accrued_yield": record.AccruedYield,
		"shares":        record.Shares,
		"last_update":   record.LastUpdate,
		"version":       record.Version,
	}
	query := tx.Update().Model(core.YieldRecord{}).Where("user_id=? and version=?", record.UserID, version).Updates(updates)
	if err := query.Error; err != nil {
		return err
	}

	if query.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *yieldStore) GetState(ctx context.Context) (*core.YieldState, error) {
	var state core.YieldState
	err := s.db.View().Where("id=?", stateID).First(&state).Error
	if err == nil {
		return &state, nil
	}

	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	state = core.YieldState{
		ID:             stateID,
		TotalPrincipal: core.NewAmount(0),
		TotalShares:    core.NewAmount(0),
		TotalYieldPaid: core.NewAmount(0),
	}
	if err := s.db.Update().Where("id=?", stateID).FirstOrCreate(&state).Error; err != nil {
		return nil, err
	}

	return &state, nil
}

func (s *yieldStore) UpdateState(ctx context.Context, tx *db.DB, state *core.YieldState) error {
	version := state.Version
	state.Version++
	updates := map[string]interface{}{
		"total_principal":  state.TotalPrincipal,
		"total_shares":     state.TotalShares,
		"total_yield_paid": state.TotalYieldPaid,
		"version":          state.Version,
	}
	query := tx.Update().Model(core.YieldState{}).Where("id=? and version=?", state.ID, version).Updates(updates)
	if err := query.Error; err != nil {
		return err
	}

	if query.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
