package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
)

// ActionType vault action type
type ActionType int

const (
	// ActionTypeDepositCollateral deposit collateral
	ActionTypeDepositCollateral ActionType = iota + 1
	// ActionTypeWithdrawCollateral withdraw collateral
	ActionTypeWithdrawCollateral
	// ActionTypeMint mint debt units
	ActionTypeMint
	// ActionTypeBurn burn debt units
	ActionTypeBurn
	// ActionTypeDepositAndMint composite deposit then mint to max ltv
	ActionTypeDepositAndMint
	// ActionTypeRepayAndWithdraw composite burn then proportional release
	ActionTypeRepayAndWithdraw
	// ActionTypeLiquidate partial liquidation settlement
	ActionTypeLiquidate
	// ActionTypeHarvest yield harvest payout
	ActionTypeHarvest
	// ActionTypeBridgeCredit bridge claim credited to a wallet
	ActionTypeBridgeCredit
	// ActionTypeEmergencyWithdraw owner pulled everything back and paused
	ActionTypeEmergencyWithdraw
)

const (
	// TransactionKeyAmount amount
	TransactionKeyAmount = "amount"
	// TransactionKeyUser user
	TransactionKeyUser = "user"
	// TransactionKeyPrice price
	TransactionKeyPrice = "price"
	// TransactionKeyTotalCollateral new total collateral
	TransactionKeyTotalCollateral = "total_collateral"
	// TransactionKeyTotalDebt new total debt
	TransactionKeyTotalDebt = "total_debt"
	// TransactionKeyMinted minted amount
	TransactionKeyMinted = "minted"
	// TransactionKeyReleased collateral released
	TransactionKeyReleased = "released"
	// TransactionKeyRepaid debt repaid
	TransactionKeyRepaid = "repaid"
	// TransactionKeySeized collateral seized
	TransactionKeySeized = "seized"
	// TransactionKeyBonus liquidation bonus
	TransactionKeyBonus = "bonus"
	// TransactionKeyLiquidator liquidator
	TransactionKeyLiquidator = "liquidator"
	// TransactionKeyUserAmount harvest share paid to the user
	TransactionKeyUserAmount = "user_amount"
	// TransactionKeyProtocolAmount harvest share paid to the treasury
	TransactionKeyProtocolAmount = "protocol_amount"
)

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	return make(TransactionExtraData)
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction is one row of the append-only audit trail. It is emitted
// alongside every state change for off-chain indexers and is not part of
// the invariant surface.
type Transaction struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Action    ActionType     `json:"action,omitempty"`
	TraceID   string         `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	UserID    string         `sql:"size:36;index:idx_transactions_user_id" json:"user_id,omitempty"`
	FollowID  string         `sql:"size:36;index:idx_transactions_follow_id" json:"follow_id,omitempty"`
	Asset     string         `sql:"size:10" json:"asset,omitempty"`
	Amount    Amount         `sql:"type:decimal(65,0)" json:"amount,omitempty"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

// SetExtraData set extra data
func (t *Transaction) SetExtraData(extra TransactionExtraData) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Transaction, error)
	FindByUser(ctx context.Context, userID string, limit int) ([]*Transaction, error)
}
