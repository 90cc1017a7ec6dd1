package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Position tracks one account's collateral and debt. Created implicitly on
// the first deposit and never deleted, it only decays to zero balances.
type Position struct {
	ID         uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID     string    `sql:"size:36;unique_index:idx_positions_user" json:"user_id"`
	Collateral Amount    `sql:"type:decimal(65,0)" json:"collateral"`
	Debt       Amount    `sql:"type:decimal(65,0)" json:"debt"`
	Version    int64     `sql:"default:0" json:"version"`
	CreatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface
type IPositionStore interface {
	Create(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, userID string) (*Position, error)
	All(ctx context.Context) ([]*Position, error)
	Indebted(ctx context.Context) ([]*Position, error)
	Update(ctx context.Context, tx *db.DB, position *Position) error
}

// ProtocolStats read-only aggregate view for dashboards
type ProtocolStats struct {
	TotalCollateral Amount `json:"total_collateral"`
	TotalDebt       Amount `json:"total_debt"`
	TotalDeposits   Amount `json:"total_deposits"`
	TotalYieldPaid  Amount `json:"total_yield_paid"`
	Price           Amount `json:"price"`
	PriceTimestamp  int64  `json:"price_timestamp"`
	Paused          bool   `json:"paused"`
}

// IVaultService is the position ledger. Every mutating operation re-reads
// the price oracle, runs inside one database transaction and leaves every
// indebted position at or above the collateral ratio floor.
type IVaultService interface {
	DepositCollateral(ctx context.Context, userID string, amount Amount) error
	WithdrawCollateral(ctx context.Context, userID string, amount Amount) error
	Mint(ctx context.Context, userID string, amount Amount) error
	Burn(ctx context.Context, userID string, amount Amount) error
	DepositAndMint(ctx context.Context, userID string, collateral Amount) (Amount, error)
	RepayAndWithdraw(ctx context.Context, userID string, debtAmount Amount) (Amount, error)

	CollateralRatio(ctx context.Context, userID string) (int64, error)
	IsLiquidatable(ctx context.Context, userID string) (bool, error)
	MaxMintable(ctx context.Context, userID string) (Amount, error)
	MaxWithdrawable(ctx context.Context, userID string) (Amount, error)
	Stats(ctx context.Context) (*ProtocolStats, error)
	FlaggedAccounts(ctx context.Context) ([]string, error)

	SetMinDeposit(ctx context.Context, operator string, amount Amount) error
	Pause(ctx context.Context, operator string) error
	Unpause(ctx context.Context, operator string) error
}
