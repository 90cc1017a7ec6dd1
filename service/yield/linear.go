package yield

import (
	"math/big"
	"time"

	"vault/core"
	"vault/internal/ledger"
)

// linearStrategy accrues a fixed annual rate on principal. Every mutation
// settles the accrual earned so far into the record and restarts the clock.
type linearStrategy struct {
	rateBps int64
}

func newLinearStrategy(rateBps int64) core.YieldStrategy {
	return &linearStrategy{rateBps: rateBps}
}

func (s *linearStrategy) settle(record *core.YieldRecord, now time.Time) {
	elapsed := now.Unix() - record.LastUpdate
	if record.LastUpdate == 0 || elapsed < 0 {
		elapsed = 0
	}

	earned := ledger.LinearAccrual(record.Principal.Big(), s.rateBps, elapsed)
	accrued := record.AccruedYield.Big()
	record.AccruedYield = core.NewAmountFromBig(accrued.Add(accrued, earned))
	record.LastUpdate = now.Unix()
}

func (s *linearStrategy) Pending(record *core.YieldRecord, state *core.YieldState, sourceValue *big.Int, now time.Time) *big.Int {
	elapsed := now.Unix() - record.LastUpdate
	if record.LastUpdate == 0 || elapsed < 0 {
		elapsed = 0
	}

	pending := ledger.LinearAccrual(record.Principal.Big(), s.rateBps, elapsed)
	return pending.Add(pending, record.AccruedYield.Big())
}

func (s *linearStrategy) Deposit(record *core.YieldRecord, state *core.YieldState, amount, sourceValue *big.Int, now time.Time) {
	s.settle(record, now)

	principal := record.Principal.Big()
	record.Principal = core.NewAmountFromBig(principal.Add(principal, amount))

	total := state.TotalPrincipal.Big()
	state.TotalPrincipal = core.NewAmountFromBig(total.Add(total, amount))
}

func (s *linearStrategy) Withdraw(record *core.YieldRecord, state *core.YieldState, amount, sourceValue *big.Int, now time.Time) {
	s.settle(record, now)

	principal := record.Principal.Big()
	record.Principal = core.NewAmountFromBig(principal.Sub(principal, amount))

	total := state.TotalPrincipal.Big()
	state.TotalPrincipal = core.NewAmountFromBig(total.Sub(total, amount))
}

func (s *linearStrategy) Harvested(record *core.YieldRecord, state *core.YieldState, paid, sourceValue *big.Int, now time.Time) {
	s.settle(record, now)

	accrued := record.AccruedYield.Big()
	accrued.Sub(accrued, paid)
	if accrued.Sign() < 0 {
		accrued.SetInt64(0)
	}
	record.AccruedYield = core.NewAmountFromBig(accrued)
}
