package core

import (
	"context"
	"math/big"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// YieldRecord tracks one depositor inside the yield accrual engine.
// Principal is the collateral routed to the yield source and not yet
// withdrawn. AccruedYield and LastUpdate serve the linear-rate strategy,
// Shares serves the pooled strategy; the inactive fields stay zero.
type YieldRecord struct {
	ID           uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID       string    `sql:"size:36;unique_index:idx_yields_user" json:"user_id"`
	Principal    Amount    `sql:"type:decimal(65,0)" json:"principal"`
	AccruedYield Amount    `sql:"type:decimal(65,0)" json:"accrued_yield"`
	Shares       Amount    `sql:"type:decimal(65,0)" json:"shares"`
	LastUpdate   int64     `sql:"default:0" json:"last_update"`
	Version      int64     `sql:"default:0" json:"version"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// YieldState is the engine-level singleton row.
type YieldState struct {
	ID             uint64    `sql:"PRIMARY_KEY" json:"id"`
	TotalPrincipal Amount    `sql:"type:decimal(65,0)" json:"total_principal"`
	TotalShares    Amount    `sql:"type:decimal(65,0)" json:"total_shares"`
	TotalYieldPaid Amount    `sql:"type:decimal(65,0)" json:"total_yield_paid"`
	Version        int64     `sql:"default:0" json:"version"`
	CreatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IYieldStore yield store interface
type IYieldStore interface {
	Create(ctx context.Context, tx *db.DB, record *YieldRecord) error
	Find(ctx context.Context, userID string) (*YieldRecord, error)
	All(ctx context.Context) ([]*YieldRecord, error)
	Update(ctx context.Context, tx *db.DB, record *YieldRecord) error

	GetState(ctx context.Context) (*YieldState, error)
	UpdateState(ctx context.Context, tx *db.DB, state *YieldState) error
}

// YieldSource is the external pool the collateral is routed to. Calls are
// synchronous, fallible and untrusted; any failure aborts the ledger
// operation that triggered it.
type YieldSource interface {
	Deposit(ctx context.Context, amount *big.Int) error
	Withdraw(ctx context.Context, amount *big.Int) error
	// Realize makes a pending payout spendable: a remote venue pulls the
	// funds back, a vault-held source has nothing to move.
	Realize(ctx context.Context, amount *big.Int) error
	TotalValue(ctx context.Context) (*big.Int, error)
}

// YieldStrategy computes accrual for one record. The two implementations
// (linear-rate, pooled-share) satisfy the same contract so the engine never
// branches on which one is active.
type YieldStrategy interface {
	// Pending returns the yield claimable right now, never negative.
	Pending(record *YieldRecord, state *YieldState, sourceValue *big.Int, now time.Time) *big.Int
	// Deposit settles elapsed accrual and adds amount to the record.
	Deposit(record *YieldRecord, state *YieldState, amount, sourceValue *big.Int, now time.Time)
	// Withdraw settles elapsed accrual and removes amount of principal.
	Withdraw(record *YieldRecord, state *YieldState, amount, sourceValue *big.Int, now time.Time)
	// Harvested clears the record's pending yield after a payout of paid.
	Harvested(record *YieldRecord, state *YieldState, paid, sourceValue *big.Int, now time.Time)
}

// IYieldService is the yield accrual engine. Deposit and Withdraw run
// inside the caller's ledger transaction; the remaining operations manage
// their own.
type IYieldService interface {
	Deposit(ctx context.Context, tx *db.DB, userID string, amount Amount) error
	Withdraw(ctx context.Context, tx *db.DB, userID string, amount Amount) error
	Harvest(ctx context.Context, userID string) (Amount, error)
	HarvestAll(ctx context.Context) (Amount, error)
	PendingYield(ctx context.Context, userID string) (Amount, error)
	TotalDeposits(ctx context.Context) (Amount, error)
	TotalYield(ctx context.Context) (Amount, error)

	SetFeeSplit(ctx context.Context, operator string, userBps, protocolBps int64) error
	// SetPoolEndpoint repoints the pooled yield venue at runtime. Owner only.
	SetPoolEndpoint(ctx context.Context, operator, endpoint string) error
	EmergencyWithdrawAll(ctx context.Context, operator string) (Amount, error)
}
