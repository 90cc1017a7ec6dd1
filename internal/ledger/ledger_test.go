package ledger

import (
	"math/big"
	"testing"
)

func amount(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid amount: " + s)
	}
	return v
}

var (
	oneBTC     = amount("100000000")
	price65000 = amount("6500000000000")
	price45000 = amount("4500000000000")
	debt30000  = amount("30000000000000000000000")
)

func TestCollateralValue(t *testing.T) {
	value := CollateralValue(oneBTC, price65000)
	if want := amount("65000000000000000000000"); value.Cmp(want) != 0 {
		t.Fatalf("unexpected value: got %s want %s", value, want)
	}

	if CollateralValue(big.NewInt(0), price65000).Sign() != 0 {
		t.Fatal("zero collateral must value to zero")
	}
	if CollateralValue(oneBTC, big.NewInt(0)).Sign() != 0 {
		t.Fatal("zero price must value to zero")
	}
}

func TestCollateralEquivalentRoundTrip(t *testing.T) {
	value := CollateralValue(oneBTC, price65000)
	back := CollateralEquivalent(value, price65000)
	if back.Cmp(oneBTC) != 0 {
		t.Fatalf("round trip drifted: got %s want %s", back, oneBTC)
	}
}

func TestCollateralRatioScenario(t *testing.T) {
	// 1 BTC at $65,000 against 30,000 debt units: 216.66%.
	ratio := CollateralRatio(oneBTC, debt30000, price65000)
	if ratio.Cmp(big.NewInt(21666)) != 0 {
		t.Fatalf("unexpected ratio: %s", ratio)
	}

	if CollateralRatio(oneBTC, big.NewInt(0), price65000).Sign() != 0 {
		t.Fatal("debt-free ratio sentinel must be zero")
	}
}

func TestLiquidatableAfterPriceDrop(t *testing.T) {
	// Mint to max LTV at $65,000, then drop the price to $45,000.
	maxDebt := MaxMintable(oneBTC, big.NewInt(0), price65000)

	if IsLiquidatable(oneBTC, maxDebt, price65000) {
		t.Fatal("fresh max-ltv position must not be liquidatable")
	}
	if !IsHealthy(oneBTC, maxDebt, price65000) {
		t.Fatal("fresh max-ltv position must be healthy")
	}

	ratio := CollateralRatio(oneBTC, maxDebt, price45000)
	if ratio.Cmp(big.NewInt(LiquidationThreshold)) >= 0 {
		t.Fatalf("ratio %s should be below the liquidation threshold", ratio)
	}
	if !IsLiquidatable(oneBTC, maxDebt, price45000) {
		t.Fatal("underwater position must be liquidatable")
	}
}

func TestMaxMintable(t *testing.T) {
	headroom := MaxMintable(oneBTC, debt30000, price65000)

	// value * Precision / MinCollateralRatio - debt
	want := CollateralValue(oneBTC, price65000)
	want.Mul(want, big.NewInt(Precision))
	want.Quo(want, big.NewInt(MinCollateralRatio))
	want.Sub(want, debt30000)
	if headroom.Cmp(want) != 0 {
		t.Fatalf("unexpected max mintable: got %s want %s", headroom, want)
	}

	// Already at max leverage: clamp to zero, not negative.
	over := MaxMintable(oneBTC, amount("50000000000000000000000"), price65000)
	if over.Sign() != 0 {
		t.Fatalf("over-levered position must have zero headroom, got %s", over)
	}
}

func TestMaxMintableKeepsFloor(t *testing.T) {
	maxDebt := MaxMintable(oneBTC, big.NewInt(0), price65000)

	// 1 BTC at $65,000 supports at most ~43,333 debt units.
	if want := amount("43333333333333333333333"); maxDebt.Cmp(want) != 0 {
		t.Fatalf("unexpected headroom: got %s want %s", maxDebt, want)
	}

	ratio := CollateralRatio(oneBTC, maxDebt, price65000)
	if ratio.Cmp(big.NewInt(MinCollateralRatio)) != 0 {
		t.Fatalf("max mint must sit exactly on the ratio floor: %s", ratio)
	}
	if !IsHealthy(oneBTC, maxDebt, price65000) {
		t.Fatal("max-mint position must be healthy")
	}

	// One more debt unit must break the floor.
	over := new(big.Int).Add(maxDebt, big.NewInt(1))
	if IsHealthy(oneBTC, over, price65000) {
		t.Fatal("headroom is not tight")
	}
}

func TestMaxWithdrawableKeepsFloor(t *testing.T) {
	free := MaxWithdrawable(oneBTC, debt30000, price65000)
	if free.Sign() <= 0 {
		t.Fatalf("expected positive headroom, got %s", free)
	}

	remaining := new(big.Int).Sub(oneBTC, free)
	if !IsHealthy(remaining, debt30000, price65000) {
		t.Fatalf("remaining %s violates the ratio floor", remaining)
	}

	// One more unit out must break the floor.
	remaining.Sub(remaining, big.NewInt(1))
	if IsHealthy(remaining, debt30000, price65000) {
		t.Fatal("headroom is not tight")
	}

	if MaxWithdrawable(oneBTC, big.NewInt(0), price65000).Cmp(oneBTC) != 0 {
		t.Fatal("debt-free position must be fully withdrawable")
	}
}

func TestProportionalRelease(t *testing.T) {
	collateral := amount("100000001")
	debt := amount("30000000000000000000000")

	half := new(big.Int).Quo(debt, big.NewInt(2))
	released := ProportionalRelease(collateral, debt, half)
	if want := amount("50000000"); released.Cmp(want) != 0 {
		t.Fatalf("repaying half the debt must release exactly half the collateral: got %s want %s", released, want)
	}

	full := ProportionalRelease(collateral, debt, debt)
	if full.Cmp(collateral) != 0 {
		t.Fatalf("full repay must release everything: got %s", full)
	}
}

func TestSplitBps(t *testing.T) {
	total := big.NewInt(1000001)
	user, protocol := SplitBps(total, 8000)

	if user.Cmp(big.NewInt(800000)) != 0 {
		t.Fatalf("unexpected user share: %s", user)
	}
	if protocol.Cmp(big.NewInt(200001)) != 0 {
		t.Fatalf("truncation dust must land in the second share: %s", protocol)
	}

	sum := new(big.Int).Add(user, protocol)
	if sum.Cmp(total) != 0 {
		t.Fatalf("split must conserve the total: %s != %s", sum, total)
	}
}
