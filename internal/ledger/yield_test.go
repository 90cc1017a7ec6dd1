package ledger

import (
	"math/big"
	"testing"
)

func TestLinearAccrual(t *testing.T) {
	principal := amount("100000000")

	// 8% over a full year accrues 8,000,000 exactly.
	earned := LinearAccrual(principal, 800, SecondsPerYear)
	if want := amount("8000000"); earned.Cmp(want) != 0 {
		t.Fatalf("unexpected accrual: got %s want %s", earned, want)
	}

	if LinearAccrual(principal, 800, 0).Sign() != 0 {
		t.Fatal("zero elapsed must accrue nothing")
	}
	if LinearAccrual(big.NewInt(0), 800, SecondsPerYear).Sign() != 0 {
		t.Fatal("zero principal must accrue nothing")
	}

	// Half a year at half the rate.
	quarter := LinearAccrual(principal, 400, SecondsPerYear/2)
	if want := amount("2000000"); quarter.Cmp(want) != 0 {
		t.Fatalf("unexpected accrual: got %s want %s", quarter, want)
	}
}

func TestSharesForDeposit(t *testing.T) {
	first := SharesForDeposit(amount("100000000"), big.NewInt(0), big.NewInt(0))
	if first.Cmp(amount("100000000")) != 0 {
		t.Fatalf("first deposit must mint 1:1: %s", first)
	}

	// The pool doubled, so a matching deposit mints half the shares.
	next := SharesForDeposit(amount("100000000"), amount("100000000"), amount("200000000"))
	if next.Cmp(amount("50000000")) != 0 {
		t.Fatalf("unexpected shares: %s", next)
	}

	// A dust deposit never rounds to zero shares.
	dust := SharesForDeposit(big.NewInt(1), amount("100000000"), amount("300000000"))
	if dust.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("dust deposit must mint at least one share: %s", dust)
	}
}

func TestPooledPending(t *testing.T) {
	shares := amount("50000000")
	totalShares := amount("150000000")
	principal := amount("100000000")

	// Pool grew: a third of 330,000,000 is 110,000,000.
	pending := PooledPending(principal, shares, totalShares, amount("330000000"))
	if want := amount("10000000"); pending.Cmp(want) != 0 {
		t.Fatalf("unexpected pending: got %s want %s", pending, want)
	}

	// Pool under water: pending clamps at zero instead of going negative.
	under := PooledPending(principal, shares, totalShares, amount("270000000"))
	if under.Sign() != 0 {
		t.Fatalf("pending must floor at zero: %s", under)
	}
}

func TestSharesForWithdraw(t *testing.T) {
	shares := amount("50000000")
	principal := amount("100000000")

	half := SharesForWithdraw(shares, amount("50000000"), principal)
	if half.Cmp(amount("25000000")) != 0 {
		t.Fatalf("half the principal must burn half the shares: %s", half)
	}

	all := SharesForWithdraw(shares, principal, principal)
	if all.Cmp(shares) != 0 {
		t.Fatalf("full withdraw must burn every share: %s", all)
	}

	over := SharesForWithdraw(shares, amount("200000000"), principal)
	if over.Cmp(shares) != 0 {
		t.Fatalf("burn must clamp at the share balance: %s", over)
	}
}
