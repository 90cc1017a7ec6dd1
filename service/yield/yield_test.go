package yield

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"vault/core"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memYieldStore struct {
	order   []string
	records map[string]*core.YieldRecord
	broken  map[string]error
	state   *core.YieldState
}

func newMemYieldStore() *memYieldStore {
	return &memYieldStore{
		records: make(map[string]*core.YieldRecord),
		broken:  make(map[string]error),
		state: &core.YieldState{
			TotalPrincipal: core.NewAmount(0),
			TotalShares:    core.NewAmount(0),
			TotalYieldPaid: core.NewAmount(0),
		},
	}
}

func (s *memYieldStore) put(record *core.YieldRecord) {
	s.order = append(s.order, record.UserID)
	s.records[record.UserID] = record
}

func (s *memYieldStore) Create(ctx context.Context, tx *db.DB, record *core.YieldRecord) error {
	s.put(record)
	return nil
}

func (s *memYieldStore) Find(ctx context.Context, userID string) (*core.YieldRecord, error) {
	if err, ok := s.broken[userID]; ok {
		return nil, err
	}
	if record, ok := s.records[userID]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memYieldStore) All(ctx context.Context) ([]*core.YieldRecord, error) {
	var out []*core.YieldRecord
	for _, userID := range s.order {
		out = append(out, s.records[userID])
	}
	return out, nil
}

func (s *memYieldStore) Update(ctx context.Context, tx *db.DB, record *core.YieldRecord) error {
	s.records[record.UserID] = record
	return nil
}

func (s *memYieldStore) GetState(ctx context.Context) (*core.YieldState, error) {
	return s.state, nil
}

func (s *memYieldStore) UpdateState(ctx context.Context, tx *db.DB, state *core.YieldState) error {
	s.state = state
	return nil
}

type memWalletService struct {
	minted map[string]*big.Int
}

func newMemWalletService() *memWalletService {
	return &memWalletService{minted: make(map[string]*big.Int)}
}

func (s *memWalletService) Transfer(ctx context.Context, tx *db.DB, from, to, asset string, amount core.Amount) error {
	return nil
}

func (s *memWalletService) Mint(ctx context.Context, tx *db.DB, userID, asset string, amount core.Amount) error {
	total, ok := s.minted[userID]
	if !ok {
		total = new(big.Int)
		s.minted[userID] = total
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

func newTestService(store *memYieldStore, wallet *memWalletService) *yieldService {
	cfg := &core.Config{
		Yield: core.Yield{Strategy: "linear", RateBps: 0, UserBps: 8000, ProtocolBps: 2000},
	}
	s := &yieldService{
		config:           cfg,
		system:           &core.System{Owner: "owner", Treasury: "treasury"},
		yieldStore:       store,
		transactionStore: &memTransactionStore{},
		walletService:    wallet,
		propertyStore:    newMemPropertyStore(),
	}
	s.strategy = newLinearStrategy(cfg.Yield.RateBps)
	s.source = newVaultSource(s.principalBalance)
	return s
}

func TestSetFeeSplitAllProtocol(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemYieldStore(), newMemWalletService())

	bps, err := s.userBps(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), bps)

	assert.Equal(t, core.ErrUnauthorized, s.SetFeeSplit(ctx, "mallory", 0, 10000))
	assert.Equal(t, core.ErrInvalidFeeConfiguration, s.SetFeeSplit(ctx, "owner", 5000, 4000))

	// Routing the whole harvest to the treasury is a valid split; it must
	// not be mistaken for "never set" and fall back to the config default.
	require.NoError(t, s.SetFeeSplit(ctx, "owner", 0, 10000))
	bps, err = s.userBps(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bps)

	require.NoError(t, s.SetFeeSplit(ctx, "owner", 2500, 7500))
	bps, err = s.userBps(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), bps)
}

func TestHarvestAllContinuesPastBadRecord(t *testing.T) {
	ctx := context.Background()
	store := newMemYieldStore()
	wallet := newMemWalletService()

	store.put(&core.YieldRecord{
		UserID:       "bad",
		Principal:    core.NewAmount(0),
		AccruedYield: core.NewAmount(0),
		Shares:       core.NewAmount(0),
	})
	store.broken["bad"] = errors.New("record unreadable")

	store.put(&core.YieldRecord{
		UserID:       "alice",
		Principal:    core.NewAmount(0),
		AccruedYield: core.NewAmount(1000),
		Shares:       core.NewAmount(0),
	})

	s := newTestService(store, wallet)
	s.db = db.MustOpen(db.SqliteInMemory())
	defer s.db.Close()

	total, err := s.HarvestAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "800", total.String())

	assert.Equal(t, "800", wallet.minted["alice"].String())
	assert.Equal(t, "200", wallet.minted[core.WalletTreasury].String())
	assert.Nil(t, wallet.minted["bad"])
}
