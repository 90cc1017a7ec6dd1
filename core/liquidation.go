package core

import (
	"context"
)

// LiquidationQuote is the outcome of one liquidation, in position units.
type LiquidationQuote struct {
	UserID           string `json:"user_id"`
	DebtRepaid       Amount `json:"debt_repaid"`
	CollateralSeized Amount `json:"collateral_seized"`
	LiquidatorSeized Amount `json:"liquidator_seized"`
	ProtocolSeized   Amount `json:"protocol_seized"`
	Price            Amount `json:"price"`
}

// ILiquidationService closes out underwater positions. Liquidate re-reads
// the oracle and re-checks eligibility inside its own transaction; Preview
// prices the same trade without executing it.
type ILiquidationService interface {
	IsLiquidatable(ctx context.Context, userID string) (bool, error)
	Preview(ctx context.Context, userID string, repay Amount) (*LiquidationQuote, error)
	Liquidate(ctx context.Context, liquidator, userID string, repay Amount) (*LiquidationQuote, error)
}
