package ledger

import (
	"math/big"
	"testing"
)

func TestLiquidationQuote(t *testing.T) {
	collateral := oneBTC
	debt := amount("40000000000000000000000")
	price := price45000

	request := amount("10000000000000000000000")
	quote := Liquidation(collateral, debt, price, request)

	if quote.DebtRepaid.Cmp(request) != 0 {
		t.Fatalf("unexpected repaid: %s", quote.DebtRepaid)
	}
	// 10,000 / 45,000 BTC plus a 10% bonus.
	if want := amount("22222222"); quote.CollateralSeized.Cmp(new(big.Int).Add(want, amount("2222222"))) != 0 {
		t.Fatalf("unexpected seized: %s", quote.CollateralSeized)
	}
	if want := amount("23333333"); quote.LiquidatorSeized.Cmp(want) != 0 {
		t.Fatalf("unexpected liquidator cut: got %s want %s", quote.LiquidatorSeized, want)
	}
	if want := amount("1111111"); quote.ProtocolSeized.Cmp(want) != 0 {
		t.Fatalf("unexpected protocol cut: got %s want %s", quote.ProtocolSeized, want)
	}

	sum := new(big.Int).Add(quote.LiquidatorSeized, quote.ProtocolSeized)
	if sum.Cmp(quote.CollateralSeized) != 0 {
		t.Fatalf("seized collateral must be fully routed: %s != %s", sum, quote.CollateralSeized)
	}
}

func TestLiquidationCap(t *testing.T) {
	debt := amount("40000000000000000000000")

	quote := Liquidation(oneBTC, debt, price45000, debt)
	if cap := new(big.Int).Quo(debt, big.NewInt(2)); quote.DebtRepaid.Cmp(cap) != 0 {
		t.Fatalf("repaid must be capped at half the debt: got %s want %s", quote.DebtRepaid, cap)
	}
}

func TestLiquidationSeizeClampedToCollateral(t *testing.T) {
	// Deeply underwater: the equivalent plus bonus exceeds what is there.
	collateral := amount("1000000")
	debt := amount("40000000000000000000000")

	quote := Liquidation(collateral, debt, price45000, debt)
	if quote.CollateralSeized.Cmp(collateral) != 0 {
		t.Fatalf("seizure must not exceed the position: %s", quote.CollateralSeized)
	}
	if quote.LiquidatorSeized.Cmp(collateral) > 0 {
		t.Fatalf("liquidator cut must not exceed the position: %s", quote.LiquidatorSeized)
	}
	if quote.ProtocolSeized.Sign() < 0 {
		t.Fatalf("protocol cut must not go negative: %s", quote.ProtocolSeized)
	}
}
