package ledger

import "math/big"

// Basis-point constants shared by the ledger, the yield engine and the
// liquidation engine. PRECISION is 100%.
const (
	Precision            int64 = 10_000
	MinCollateralRatio   int64 = 15_000
	LiquidationThreshold int64 = 12_000
	LiquidationPenalty   int64 = 1_000
	LiquidatorReward     int64 = 500
	SecondsPerYear       int64 = 31_536_000
)

// Fixed-point scales: collateral in 1e8 units, debt in 1e18 units, price
// quoted at 1e8. All arithmetic is big.Int with multiplication strictly
// before truncating division.
var (
	precision       = big.NewInt(Precision)
	collateralScale = big.NewInt(100_000_000)
	priceScale      = big.NewInt(100_000_000)
	debtScale       = mustBigInt("1000000000000000000")
)

func mustBigInt(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("invalid big integer constant")
	}
	return v
}

// CollateralValue converts a collateral amount into debt-scale value:
// collateral * price * debtScale / (collateralScale * priceScale).
func CollateralValue(collateral, price *big.Int) *big.Int {
	if collateral == nil || price == nil || collateral.Sign() <= 0 || price.Sign() <= 0 {
		return big.NewInt(0)
	}

	value := new(big.Int).Mul(collateral, price)
	value.Mul(value, debtScale)
	value.Quo(value, collateralScale)
	value.Quo(value, priceScale)
	return value
}

// CollateralEquivalent is the inverse valuation: the collateral amount
// worth debtValue at price, truncating.
func CollateralEquivalent(debtValue, price *big.Int) *big.Int {
	if debtValue == nil || price == nil || debtValue.Sign() <= 0 || price.Sign() <= 0 {
		return big.NewInt(0)
	}

	amount := new(big.Int).Mul(debtValue, collateralScale)
	amount.Mul(amount, priceScale)
	amount.Quo(amount, price)
	amount.Quo(amount, debtScale)
	return amount
}

// CollateralRatio returns the ratio in basis points, 0 when debt is zero.
// The zero sentinel means "no debt", not an infinite ratio.
func CollateralRatio(collateral, debt, price *big.Int) *big.Int {
	if debt == nil || debt.Sign() == 0 {
		return big.NewInt(0)
	}

	ratio := CollateralValue(collateral, price)
	ratio.Mul(ratio, precision)
	ratio.Quo(ratio, debt)
	return ratio
}

// IsHealthy reports whether the position satisfies the ratio floor.
// Debt-free positions are always healthy.
func IsHealthy(collateral, debt, price *big.Int) bool {
	if debt == nil || debt.Sign() == 0 {
		return true
	}

	return CollateralRatio(collateral, debt, price).Cmp(big.NewInt(MinCollateralRatio)) >= 0
}

// IsLiquidatable reports whether the position is below the liquidation
// threshold. Debt-free positions are never liquidatable.
func IsLiquidatable(collateral, debt, price *big.Int) bool {
	if debt == nil || debt.Sign() == 0 {
		return false
	}

	return CollateralRatio(collateral, debt, price).Cmp(big.NewInt(LiquidationThreshold)) < 0
}

// MaxMintable returns the debt headroom: the most additional debt the
// collateral can back while the ratio stays at or above the floor. The
// limit is value * Precision / MinCollateralRatio; truncation keeps the
// resulting ratio from ever dipping below the floor.
func MaxMintable(collateral, debt, price *big.Int) *big.Int {
	limit := CollateralValue(collateral, price)
	limit.Mul(limit, precision)
	limit.Quo(limit, big.NewInt(MinCollateralRatio))

	if debt != nil {
		limit.Sub(limit, debt)
	}
	if limit.Sign() < 0 {
		return big.NewInt(0)
	}
	return limit
}

// MaxWithdrawable returns how much collateral can leave the position while
// keeping the ratio floor. The collateral required to back the debt rounds
// up so the remainder can never dip below the floor.
func MaxWithdrawable(collateral, debt, price *big.Int) *big.Int {
	if collateral == nil || collateral.Sign() <= 0 {
		return big.NewInt(0)
	}
	if debt == nil || debt.Sign() == 0 {
		return new(big.Int).Set(collateral)
	}
	if price == nil || price.Sign() <= 0 {
		return big.NewInt(0)
	}

	requiredValue := new(big.Int).Mul(debt, big.NewInt(MinCollateralRatio))
	requiredValue.Quo(requiredValue, precision)

	required := new(big.Int).Mul(requiredValue, collateralScale)
	required.Mul(required, priceScale)
	num := new(big.Int).Mul(price, debtScale)
	required.Add(required, new(big.Int).Sub(num, big.NewInt(1)))
	required.Quo(required, num)

	free := new(big.Int).Sub(collateral, required)
	if free.Sign() < 0 {
		return big.NewInt(0)
	}
	return free
}

// ProportionalRelease returns repay * collateral / debt: an account
// repaying half its debt gets back exactly half its collateral, regardless
// of the current price.
func ProportionalRelease(collateral, debt, repay *big.Int) *big.Int {
	if collateral == nil || debt == nil || repay == nil || debt.Sign() == 0 || repay.Sign() <= 0 {
		return big.NewInt(0)
	}

	released := new(big.Int).Mul(repay, collateral)
	released.Quo(released, debt)
	return released
}

// SplitBps splits total into total*bps/Precision and the remainder; the
// truncation dust always lands in the second share.
func SplitBps(total *big.Int, bps int64) (*big.Int, *big.Int) {
	if total == nil || total.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0)
	}

	first := new(big.Int).Mul(total, big.NewInt(bps))
	first.Quo(first, precision)
	second := new(big.Int).Sub(total, first)
	return first, second
}
