package yield

import (
	"math/big"
	"testing"
	"time"

	"vault/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(userID string) *core.YieldRecord {
	return &core.YieldRecord{
		UserID:       userID,
		Principal:    core.NewAmount(0),
		AccruedYield: core.NewAmount(0),
		Shares:       core.NewAmount(0),
	}
}

func newState() *core.YieldState {
	return &core.YieldState{
		ID:             1,
		TotalPrincipal: core.NewAmount(0),
		TotalShares:    core.NewAmount(0),
		TotalYieldPaid: core.NewAmount(0),
	}
}

func TestLinearStrategyAccrual(t *testing.T) {
	s := newLinearStrategy(800)
	record := newRecord("alice")
	state := newState()

	begin := time.Unix(1700000000, 0)
	s.Deposit(record, state, big.NewInt(100000000), nil, begin)

	require.Equal(t, "100000000", record.Principal.String())
	require.Equal(t, "100000000", state.TotalPrincipal.String())

	// Nothing accrues at deposit time.
	pending := s.Pending(record, state, nil, begin)
	assert.Equal(t, int64(0), pending.Int64())

	// A full year at 8% yields 8,000,000.
	oneYear := begin.Add(365 * 24 * time.Hour)
	pending = s.Pending(record, state, nil, oneYear)
	assert.Equal(t, "8000000", pending.String())

	// Withdrawing settles the accrual instead of losing it.
	s.Withdraw(record, state, big.NewInt(100000000), nil, oneYear)
	require.Equal(t, "0", record.Principal.String())
	assert.Equal(t, "8000000", record.AccruedYield.String())

	pending = s.Pending(record, state, nil, oneYear.Add(time.Hour))
	assert.Equal(t, "8000000", pending.String())
}

func TestLinearStrategyHarvested(t *testing.T) {
	s := newLinearStrategy(800)
	record := newRecord("alice")
	state := newState()

	begin := time.Unix(1700000000, 0)
	s.Deposit(record, state, big.NewInt(100000000), nil, begin)

	oneYear := begin.Add(365 * 24 * time.Hour)
	pending := s.Pending(record, state, nil, oneYear)

	s.Harvested(record, state, pending, nil, oneYear)
	assert.Equal(t, "0", record.AccruedYield.String())
	assert.Equal(t, int64(0), s.Pending(record, state, nil, oneYear).Int64())
}

func TestPooledStrategyLifecycle(t *testing.T) {
	s := newPooledStrategy()
	state := newState()
	now := time.Unix(1700000000, 0)

	alice := newRecord("alice")
	s.Deposit(alice, state, big.NewInt(100000000), big.NewInt(0), now)
	require.Equal(t, "100000000", alice.Shares.String())

	// Pool appreciated 10% before bob joins: bob's shares mint at the new
	// share value.
	bob := newRecord("bob")
	s.Deposit(bob, state, big.NewInt(110000000), big.NewInt(110000000), now)
	require.Equal(t, "100000000", bob.Shares.String())
	require.Equal(t, "200000000", state.TotalShares.String())

	// Alice owns half of 220,000,000, principal 100,000,000.
	pending := s.Pending(alice, state, big.NewInt(220000000), now)
	assert.Equal(t, "10000000", pending.String())

	// Bob just entered, nothing pending.
	pending = s.Pending(bob, state, big.NewInt(220000000), now)
	assert.Equal(t, int64(0), pending.Int64())
}

func TestPooledStrategyLossClampsToZero(t *testing.T) {
	s := newPooledStrategy()
	state := newState()
	now := time.Unix(1700000000, 0)

	record := newRecord("alice")
	s.Deposit(record, state, big.NewInt(100000000), big.NewInt(0), now)

	pending := s.Pending(record, state, big.NewInt(90000000), now)
	assert.Equal(t, int64(0), pending.Int64())
}

func TestPooledStrategyWithdrawBurnsProportion(t *testing.T) {
	s := newPooledStrategy()
	state := newState()
	now := time.Unix(1700000000, 0)

	record := newRecord("alice")
	s.Deposit(record, state, big.NewInt(100000000), big.NewInt(0), now)

	s.Withdraw(record, state, big.NewInt(40000000), big.NewInt(100000000), now)
	assert.Equal(t, "60000000", record.Shares.String())
	assert.Equal(t, "60000000", record.Principal.String())
	assert.Equal(t, "60000000", state.TotalShares.String())
	assert.Equal(t, "60000000", state.TotalPrincipal.String())
}
