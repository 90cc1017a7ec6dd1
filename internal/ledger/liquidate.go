package ledger

import "math/big"

// Quote is a liquidation settlement derived on demand from a position and
// the current price; it is never stored.
type Quote struct {
	// DebtRepaid is capped at half the outstanding debt per call.
	DebtRepaid *big.Int
	// CollateralSeized leaves the target position: the collateral
	// equivalent of DebtRepaid plus Bonus, clamped to the position.
	CollateralSeized *big.Int
	// Bonus is LiquidationPenalty bps of the collateral equivalent.
	Bonus *big.Int
	// LiquidatorSeized is the caller's share: equivalent plus
	// LiquidatorReward bps.
	LiquidatorSeized *big.Int
	// ProtocolSeized is the remainder routed to the treasury.
	ProtocolSeized *big.Int
}

// Liquidation computes the seize/repay/bonus amounts for repaying up to
// request against a position of (collateral, debt) at price. The target is
// never over-liquidated: repayment stops at debt/2 and seizure at the
// position's collateral.
func Liquidation(collateral, debt, price, request *big.Int) Quote {
	zero := func() Quote {
		return Quote{
			DebtRepaid:       big.NewInt(0),
			CollateralSeized: big.NewInt(0),
			Bonus:            big.NewInt(0),
			LiquidatorSeized: big.NewInt(0),
			ProtocolSeized:   big.NewInt(0),
		}
	}

	if collateral == nil || debt == nil || price == nil || request == nil {
		return zero()
	}
	if debt.Sign() == 0 || price.Sign() <= 0 || request.Sign() <= 0 {
		return zero()
	}

	repaid := new(big.Int).Quo(debt, big.NewInt(2))
	if request.Cmp(repaid) < 0 {
		repaid = new(big.Int).Set(request)
	}
	if repaid.Sign() == 0 {
		return zero()
	}

	equivalent := CollateralEquivalent(repaid, price)
	bonus := new(big.Int).Mul(equivalent, big.NewInt(LiquidationPenalty))
	bonus.Quo(bonus, precision)

	seized := new(big.Int).Add(equivalent, bonus)
	if collateral.Cmp(seized) < 0 {
		seized = new(big.Int).Set(collateral)
	}

	reward := new(big.Int).Mul(equivalent, big.NewInt(LiquidatorReward))
	reward.Quo(reward, precision)
	liquidator := new(big.Int).Add(equivalent, reward)
	if liquidator.Cmp(seized) > 0 {
		liquidator = new(big.Int).Set(seized)
	}
	protocol := new(big.Int).Sub(seized, liquidator)

	return Quote{
		DebtRepaid:       repaid,
		CollateralSeized: seized,
		Bonus:            bonus,
		LiquidatorSeized: liquidator,
		ProtocolSeized:   protocol,
	}
}
