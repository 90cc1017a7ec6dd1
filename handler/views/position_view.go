package views

import (
	"vault/core"
	"vault/pkg/number"

	"github.com/shopspring/decimal"
)

// Position position view with human decimals alongside the raw integers
type Position struct {
	core.Position
	CollateralDisplay decimal.Decimal `json:"collateral_display"`
	DebtDisplay       decimal.Decimal `json:"debt_display"`
	RatioPercent      decimal.Decimal `json:"ratio_percent"`
	Liquidatable      bool            `json:"liquidatable"`
	MaxMintable       core.Amount     `json:"max_mintable"`
	MaxWithdrawable   core.Amount     `json:"max_withdrawable"`
	PendingYield      core.Amount     `json:"pending_yield"`
}

// NewPosition new position view
func NewPosition(p *core.Position, ratioBps int64) *Position {
	return &Position{
		Position:          *p,
		CollateralDisplay: number.FromBig(p.Collateral.Big(), number.CollateralDecimals),
		DebtDisplay:       number.FromBig(p.Debt.Big(), number.DebtDecimals),
		RatioPercent:      number.Percent(ratioBps),
	}
}
