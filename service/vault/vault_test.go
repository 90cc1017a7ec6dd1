package vault

import (
	"context"
	"math/big"
	"testing"
	"time"

	"vault/core"
	"vault/internal/ledger"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAmount(t *testing.T, s string) core.Amount {
	t.Helper()
	a, err := core.NewAmountFromString(s)
	require.NoError(t, err)
	return a
}

type memPositionStore struct {
	positions map[string]*core.Position
}

func newMemPositionStore() *memPositionStore {
	return &memPositionStore{positions: make(map[string]*core.Position)}
}

func (s *memPositionStore) Create(ctx context.Context, tx *db.DB, position *core.Position) error {
	s.positions[position.UserID] = position
	return nil
}

func (s *memPositionStore) Find(ctx context.Context, userID string) (*core.Position, error) {
	if position, ok := s.positions[userID]; ok {
		return position, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memPositionStore) All(ctx context.Context) ([]*core.Position, error) {
	var out []*core.Position
	for _, position := range s.positions {
		out = append(out, position)
	}
	return out, nil
}

func (s *memPositionStore) Indebted(ctx context.Context) ([]*core.Position, error) {
	var out []*core.Position
	for _, position := range s.positions {
		if position.Debt.IsPositive() {
			out = append(out, position)
		}
	}
	return out, nil
}

func (s *memPositionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	s.positions[position.UserID] = position
	return nil
}

type memVaultStore struct {
	vault *core.Vault
}

func newMemVaultStore() *memVaultStore {
	return &memVaultStore{vault: &core.Vault{
		TotalCollateral: core.NewAmount(0),
		TotalDebt:       core.NewAmount(0),
	}}
}

func (s *memVaultStore) Get(ctx context.Context) (*core.Vault, error) {
	return s.vault, nil
}

func (s *memVaultStore) Update(ctx context.Context, tx *db.DB, vault *core.Vault) error {
	s.vault = vault
	return nil
}

type memTransactionStore struct {
	transactions []*core.Transaction
}

func (s *memTransactionStore) Create(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	s.transactions = append(s.transactions, transaction)
	return nil
}

func (s *memTransactionStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Transaction, error) {
	return s.transactions, nil
}

func (s *memTransactionStore) FindByUser(ctx context.Context, userID string, limit int) ([]*core.Transaction, error) {
	return s.transactions, nil
}

type memWalletService struct {
	minted map[string]*big.Int
}

func newMemWalletService() *memWalletService {
	return &memWalletService{minted: make(map[string]*big.Int)}
}

func (s *memWalletService) key(userID, asset string) string {
	return userID + "/" + asset
}

func (s *memWalletService) Transfer(ctx context.Context, tx *db.DB, from, to, asset string, amount core.Amount) error {
	return nil
}

func (s *memWalletService) Mint(ctx context.Context, tx *db.DB, userID, asset string, amount core.Amount) error {
	total, ok := s.minted[s.key(userID, asset)]
	if !ok {
		total = new(big.Int)
		s.minted[s.key(userID, asset)] = total
	}
	total.Add(total, amount.Big())
	return nil
}

func (s *memWalletService) Burn(ctx context.Context, tx *db.DB, userID, asset string, amount core.Amount) error {
	return nil
}

func (s *memWalletService) Balance(ctx context.Context, userID, asset string) (core.Amount, error) {
	return core.NewAmount(0), nil
}

func (s *memWalletService) BridgeCredit(ctx context.Context, operator, userID string, amount core.Amount) error {
	return nil
}

type memYieldService struct{}

func (s *memYieldService) Deposit(ctx context.Context, tx *db.DB, userID string, amount core.Amount) error {
	return nil
}

func (s *memYieldService) Withdraw(ctx context.Context, tx *db.DB, userID string, amount core.Amount) error {
	return nil
}

func (s *memYieldService) Harvest(ctx context.Context, userID string) (core.Amount, error) {
	return core.NewAmount(0), nil
}

func (s *memYieldService) HarvestAll(ctx context.Context) (core.Amount, error) {
	return core.NewAmount(0), nil
}

func (s *memYieldService) PendingYield(ctx context.Context, userID string) (core.Amount, error) {
	return core.NewAmount(0), nil
}

func (s *memYieldService) TotalDeposits(ctx context.Context) (core.Amount, error) {
	return core.NewAmount(0), nil
}

func (s *memYieldService) TotalYield(ctx context.Context) (core.Amount, error) {
	return core.NewAmount(0), nil
}

func (s *memYieldService) SetFeeSplit(ctx context.Context, operator string, userBps, protocolBps int64) error {
	return nil
}

func (s *memYieldService) SetPoolEndpoint(ctx context.Context, operator, endpoint string) error {
	return nil
}

func (s *memYieldService) EmergencyWithdrawAll(ctx context.Context, operator string) (core.Amount, error) {
	return core.NewAmount(0), nil
}

type memPriceService struct {
	price *core.PriceData
}

func (s *memPriceService) GetPrice(ctx context.Context) (*core.PriceData, error) {
	return s.price, nil
}

func (s *memPriceService) MaxAge() time.Duration {
	return 5 * time.Minute
}

func (s *memPriceService) PullPrice(ctx context.Context, t time.Time) (*core.PriceData, error) {
	return s.price, nil
}

func (s *memPriceService) SetEndpoint(ctx context.Context, operator, endpoint string) error {
	return nil
}

type memPropertyStore struct {
	values map[string]property.Value
}

func newMemPropertyStore() property.Store {
	return &memPropertyStore{values: make(map[string]property.Value)}
}

func (s *memPropertyStore) Get(ctx context.Context, key string) (property.Value, error) {
	return s.values[key], nil
}

func (s *memPropertyStore) Save(ctx context.Context, key string, value interface{}) error {
	s.values[key] = property.Parse(value)
	return nil
}

func (s *memPropertyStore) Expire(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func (s *memPropertyStore) List(ctx context.Context) (map[string]property.Value, error) {
	return s.values, nil
}

type testHarness struct {
	service   core.IVaultService
	positions *memPositionStore
	vaults    *memVaultStore
	wallets   *memWalletService
	database  *db.DB
}

func newTestHarness(t *testing.T, price string) *testHarness {
	t.Helper()

	database := db.MustOpen(db.SqliteInMemory())
	t.Cleanup(func() { database.Close() })

	positions := newMemPositionStore()
	vaults := newMemVaultStore()
	wallets := newMemWalletService()

	service := New(
		&core.Config{},
		database,
		&core.System{Owner: "owner", Treasury: "treasury"},
		positions,
		vaults,
		&memTransactionStore{},
		wallets,
		&memYieldService{},
		&memPriceService{price: &core.PriceData{
			Price:     mustAmount(t, price),
			Timestamp: time.Now().Unix(),
		}},
		newMemPropertyStore(),
	)

	return &testHarness{
		service:   service,
		positions: positions,
		vaults:    vaults,
		wallets:   wallets,
		database:  database,
	}
}

func TestDepositAndMintAtMaxLeverage(t *testing.T) {
	ctx := context.Background()
	h := newTestHarness(t, "6500000000000")

	h.positions.positions["alice"] = &core.Position{
		UserID:     "alice",
		Collateral: core.NewAmount(100000000),
		Debt:       mustAmount(t, "50000000000000000000000"),
	}
	h.vaults.vault = &core.Vault{
		TotalCollateral: core.NewAmount(100000000),
		TotalDebt:       mustAmount(t, "50000000000000000000000"),
	}

	// Already over max leverage: the deposit still lands, nothing mints.
	minted, err := h.service.DepositAndMint(ctx, "alice", core.NewAmount(1000))
	require.NoError(t, err)
	assert.Equal(t, "0", minted.String())

	position := h.positions.positions["alice"]
	assert.Equal(t, "100001000", position.Collateral.String())
	assert.Equal(t, "50000000000000000000000", position.Debt.String())
	assert.Equal(t, "100001000", h.vaults.vault.TotalCollateral.String())
	assert.Equal(t, "50000000000000000000000", h.vaults.vault.TotalDebt.String())
	assert.Nil(t, h.wallets.minted["alice/"+core.AssetDebt])
}

func TestMintKeepsRatioFloor(t *testing.T) {
	ctx := context.Background()
	h := newTestHarness(t, "6500000000000")

	h.positions.positions["alice"] = &core.Position{
		UserID:     "alice",
		Collateral: core.NewAmount(100000000),
		Debt:       core.NewAmount(0),
	}

	// 1 BTC at $65,000 backs at most ~43,333 debt units.
	max := mustAmount(t, "43333333333333333333333")
	require.NoError(t, h.service.Mint(ctx, "alice", max))

	position := h.positions.positions["alice"]
	price := mustAmount(t, "6500000000000")
	assert.True(t, ledger.IsHealthy(position.Collateral.Big(), position.Debt.Big(), price.Big()))

	// No headroom is left: one more unit must be rejected.
	err := h.service.Mint(ctx, "alice", core.NewAmount(1))
	assert.Equal(t, core.ErrInsufficientCollateral, err)
}
