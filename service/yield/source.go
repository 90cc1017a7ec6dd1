package yield

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"vault/core"
	"vault/pkg/resthttp"
)

// vaultSource keeps routed collateral inside the vault itself. It backs the
// linear strategy, where accrual is simulated and the pool value is simply
// the principal held. The balance is seeded from the persisted engine
// state on first use so a restart does not strand deposited principal.
type vaultSource struct {
	mux     sync.Mutex
	seed    func(ctx context.Context) (*big.Int, error)
	balance *big.Int
}

func newVaultSource(seed func(ctx context.Context) (*big.Int, error)) core.YieldSource {
	return &vaultSource{seed: seed}
}

// load must run with mux held.
func (s *vaultSource) load(ctx context.Context) error {
	if s.balance != nil {
		return nil
	}

	balance, err := s.seed(ctx)
	if err != nil {
		return err
	}

	s.balance = new(big.Int).Set(balance)
	return nil
}

func (s *vaultSource) Deposit(ctx context.Context, amount *big.Int) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	s.balance.Add(s.balance, amount)
	return nil
}

func (s *vaultSource) Withdraw(ctx context.Context, amount *big.Int) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	if s.balance.Cmp(amount) < 0 {
		return core.ErrInsufficientLiquidity
	}

	s.balance.Sub(s.balance, amount)
	return nil
}

func (s *vaultSource) Realize(ctx context.Context, amount *big.Int) error {
	// Simulated accrual never leaves the vault; there is nothing to pull
	// back before a payout.
	return nil
}

func (s *vaultSource) TotalValue(ctx context.Context) (*big.Int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return new(big.Int).Set(s.balance), nil
}

// poolSource routes collateral to a remote venue over its REST API. Calls
// are synchronous; any failure bubbles up and aborts the enclosing ledger
// transaction. The endpoint is resolved per call so the owner can repoint
// the venue without a restart.
type poolSource struct {
	endpoint func(ctx context.Context) (string, error)
}

func newPoolSource(endpoint func(ctx context.Context) (string, error)) core.YieldSource {
	return &poolSource{endpoint: endpoint}
}

type poolRequest struct {
	Amount string `json:"amount"`
}

type poolValue struct {
	Value string `json:"value"`
}

func (s *poolSource) Deposit(ctx context.Context, amount *big.Int) error {
	endpoint, err := s.endpoint(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/deposit", endpoint)
	_, err = resthttp.Execute(resthttp.Request(ctx), "POST", url, poolRequest{Amount: amount.String()}, nil)
	return err
}

func (s *poolSource) Withdraw(ctx context.Context, amount *big.Int) error {
	endpoint, err := s.endpoint(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/withdraw", endpoint)
	_, err = resthttp.Execute(resthttp.Request(ctx), "POST", url, poolRequest{Amount: amount.String()}, nil)
	return err
}

// Realize pulls harvested yield back from the venue so it can be credited
// to wallets.
func (s *poolSource) Realize(ctx context.Context, amount *big.Int) error {
	return s.Withdraw(ctx, amount)
}

func (s *poolSource) TotalValue(ctx context.Context) (*big.Int, error) {
	endpoint, err := s.endpoint(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v1/value", endpoint)

	var v poolValue
	if _, err := resthttp.Execute(resthttp.Request(ctx), "GET", url, nil, &v); err != nil {
		return nil, err
	}

	value, ok := new(big.Int).SetString(v.Value, 10)
	if !ok {
		return nil, fmt.Errorf("pool: invalid value %q", v.Value)
	}

	return value, nil
}
