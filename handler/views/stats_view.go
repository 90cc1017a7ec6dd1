package views

import (
	"vault/core"
	"vault/pkg/number"

	"github.com/shopspring/decimal"
)

// Stats protocol stats view
type Stats struct {
	core.ProtocolStats
	TotalCollateralDisplay decimal.Decimal `json:"total_collateral_display"`
	TotalDebtDisplay       decimal.Decimal `json:"total_debt_display"`
	PriceDisplay           decimal.Decimal `json:"price_display"`
}

// NewStats new stats view
func NewStats(s *core.ProtocolStats) *Stats {
	return &Stats{
		ProtocolStats:          *s,
		TotalCollateralDisplay: number.FromBig(s.TotalCollateral.Big(), number.CollateralDecimals),
		TotalDebtDisplay:       number.FromBig(s.TotalDebt.Big(), number.DebtDecimals),
		PriceDisplay:           number.FromBig(s.Price.Big(), number.PriceDecimals),
	}
}
