package yield

import (
	"math/big"
	"time"

	"vault/core"
	"vault/internal/ledger"
)

// pooledStrategy tracks ownership of an external pool through shares. Yield
// is whatever the share value exceeds the principal by; a pool that lost
// value reports zero yield, never negative.
type pooledStrategy struct{}

func newPooledStrategy() core.YieldStrategy {
	return &pooledStrategy{}
}

func (s *pooledStrategy) Pending(record *core.YieldRecord, state *core.YieldState, sourceValue *big.Int, now time.Time) *big.Int {
	return ledger.PooledPending(record.Principal.Big(), record.Shares.Big(), state.TotalShares.Big(), sourceValue)
}

// Deposit mints shares against the pool value before the deposit lands.
func (s *pooledStrategy) Deposit(record *core.YieldRecord, state *core.YieldState, amount, sourceValue *big.Int, now time.Time) {
	minted := ledger.SharesForDeposit(amount, state.TotalShares.Big(), sourceValue)

	shares := record.Shares.Big()
	record.Shares = core.NewAmountFromBig(shares.Add(shares, minted))

	principal := record.Principal.Big()
	record.Principal = core.NewAmountFromBig(principal.Add(principal, amount))

	totalShares := state.TotalShares.Big()
	state.TotalShares = core.NewAmountFromBig(totalShares.Add(totalShares, minted))

	total := state.TotalPrincipal.Big()
	state.TotalPrincipal = core.NewAmountFromBig(total.Add(total, amount))
}

func (s *pooledStrategy) Withdraw(record *core.YieldRecord, state *core.YieldState, amount, sourceValue *big.Int, now time.Time) {
	burned := ledger.SharesForWithdraw(record.Shares.Big(), amount, record.Principal.Big())

	shares := record.Shares.Big()
	record.Shares = core.NewAmountFromBig(shares.Sub(shares, burned))

	principal := record.Principal.Big()
	record.Principal = core.NewAmountFromBig(principal.Sub(principal, amount))

	totalShares := state.TotalShares.Big()
	state.TotalShares = core.NewAmountFromBig(totalShares.Sub(totalShares, burned))

	total := state.TotalPrincipal.Big()
	state.TotalPrincipal = core.NewAmountFromBig(total.Sub(total, amount))
}

// Harvested burns the shares backing the payout so the remaining shares are
// worth exactly the principal again.
func (s *pooledStrategy) Harvested(record *core.YieldRecord, state *core.YieldState, paid, sourceValue *big.Int, now time.Time) {
	totalShares := state.TotalShares.Big()
	if sourceValue.Sign() <= 0 || totalShares.Sign() <= 0 {
		return
	}

	burned := new(big.Int).Mul(paid, totalShares)
	burned.Quo(burned, sourceValue)
	if burned.Cmp(record.Shares.Big()) > 0 {
		burned.Set(record.Shares.Big())
	}

	shares := record.Shares.Big()
	record.Shares = core.NewAmountFromBig(shares.Sub(shares, burned))
	state.TotalShares = core.NewAmountFromBig(totalShares.Sub(totalShares, burned))
}
