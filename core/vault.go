package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Vault is the single global ledger row. TotalCollateral and TotalDebt are
// running sums kept equal to the column sums over positions on every
// mutation.
type Vault struct {
	ID              uint64    `sql:"PRIMARY_KEY" json:"id"`
	TotalCollateral Amount    `sql:"type:decimal(65,0)" json:"total_collateral"`
	TotalDebt       Amount    `sql:"type:decimal(65,0)" json:"total_debt"`
	Version         int64     `sql:"default:0" json:"version"`
	CreatedAt       time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IVaultStore vault store interface
type IVaultStore interface {
	// Get returns the singleton vault row, creating it on first use.
	Get(ctx context.Context) (*Vault, error)
	Update(ctx context.Context, tx *db.DB, vault *Vault) error
}
