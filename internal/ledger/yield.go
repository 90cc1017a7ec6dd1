package ledger

import "math/big"

// LinearAccrual returns principal * rateBps * elapsed seconds /
// (Precision * SecondsPerYear). Yield is zero at the instant of deposit
// and grows monotonically with elapsed time.
func LinearAccrual(principal *big.Int, rateBps, elapsed int64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || rateBps <= 0 || elapsed <= 0 {
		return big.NewInt(0)
	}

	accrued := new(big.Int).Mul(principal, big.NewInt(rateBps))
	accrued.Mul(accrued, big.NewInt(elapsed))
	accrued.Quo(accrued, precision)
	accrued.Quo(accrued, big.NewInt(SecondsPerYear))
	return accrued
}

// SharesForDeposit converts a deposit into pool shares at the current
// exchange rate: 1:1 on the very first deposit, amount * totalShares /
// poolValue afterwards.
func SharesForDeposit(amount, totalShares, poolValue *big.Int) *big.Int {
	if amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	if totalShares == nil || totalShares.Sign() == 0 || poolValue == nil || poolValue.Sign() == 0 {
		return new(big.Int).Set(amount)
	}

	shares := new(big.Int).Mul(amount, totalShares)
	shares.Quo(shares, poolValue)
	if shares.Sign() == 0 {
		shares = big.NewInt(1)
	}
	return shares
}

// ShareValue returns poolValue * shares / totalShares.
func ShareValue(shares, totalShares, poolValue *big.Int) *big.Int {
	if shares == nil || shares.Sign() <= 0 || totalShares == nil || totalShares.Sign() == 0 || poolValue == nil || poolValue.Sign() <= 0 {
		return big.NewInt(0)
	}

	value := new(big.Int).Mul(poolValue, shares)
	value.Quo(value, totalShares)
	return value
}

// PooledPending returns the claimable pooled yield, floor-clamped to zero:
// the share value never reports negative even when the pool dips below
// principal.
func PooledPending(principal, shares, totalShares, poolValue *big.Int) *big.Int {
	value := ShareValue(shares, totalShares, poolValue)
	if principal != nil {
		value.Sub(value, principal)
	}
	if value.Sign() < 0 {
		return big.NewInt(0)
	}
	return value
}

// SharesForWithdraw burns the fraction of shares equal to the fraction of
// principal withdrawn: shares * amount / principal.
func SharesForWithdraw(shares, amount, principal *big.Int) *big.Int {
	if shares == nil || amount == nil || principal == nil || principal.Sign() == 0 || amount.Sign() <= 0 {
		return big.NewInt(0)
	}

	burned := new(big.Int).Mul(shares, amount)
	burned.Quo(burned, principal)
	if burned.Cmp(shares) > 0 {
		return new(big.Int).Set(shares)
	}
	return burned
}
