package number

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// CollateralDecimals fixed point decimals of collateral amounts
	CollateralDecimals = 8
	// PriceDecimals fixed point decimals of oracle prices
	PriceDecimals = 8
	// DebtDecimals fixed point decimals of debt amounts
	DebtDecimals = 18
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// FromBig render a fixed point integer as a human decimal
func FromBig(v *big.Int, decimals int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -decimals)
}

// ToBig convert a human decimal into a fixed point integer, truncating
func ToBig(d decimal.Decimal, decimals int32) *big.Int {
	return d.Shift(decimals).Truncate(0).BigInt()
}

// Percent render basis points as a percentage
func Percent(bps int64) decimal.Decimal {
	return decimal.New(bps, -2)
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}
