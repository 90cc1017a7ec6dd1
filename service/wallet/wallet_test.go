package wallet

import (
	"context"
	"testing"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWalletStore struct {
	wallets map[string]*core.Wallet
}

func newMemWalletStore() *memWalletStore {
	return &memWalletStore{wallets: make(map[string]*core.Wallet)}
}

func key(userID, asset string) string {
	return userID + "/" + asset
}

func (s *memWalletStore) FindOrCreate(ctx context.Context, tx *db.DB, userID, asset string) (*core.Wallet, error) {
	if w, ok := s.wallets[key(userID, asset)]; ok {
		return w, nil
	}

	w := &core.Wallet{UserID: userID, Asset: asset, Balance: core.NewAmount(0)}
	s.wallets[key(userID, asset)] = w
	return w, nil
}

func (s *memWalletStore) Find(ctx context.Context, userID, asset string) (*core.Wallet, error) {
	if w, ok := s.wallets[key(userID, asset)]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memWalletStore) FindByUser(ctx context.Context, userID string) ([]*core.Wallet, error) {
	var out []*core.Wallet
	for _, w := range s.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memWalletStore) Update(ctx context.Context, tx *db.DB, wallet *core.Wallet) error {
	s.wallets[key(wallet.UserID, wallet.Asset)] = wallet
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

func newTestService(store core.IWalletStore) core.IWalletService {
	system := &core.System{Owner: "owner", Treasury: "treasury"}
	return New(nil, system, store, &memTransactionStore{})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	store := newMemWalletStore()
	service := newTestService(store)

	require.NoError(t, service.Mint(ctx, nil, "alice", core.AssetCollateral, core.NewAmount(100)))
	require.NoError(t, service.Transfer(ctx, nil, "alice", "bob", core.AssetCollateral, core.NewAmount(40)))

	alice, err := service.Balance(ctx, "alice", core.AssetCollateral)
	require.NoError(t, err)
	assert.Equal(t, "60", alice.String())

	bob, err := service.Balance(ctx, "bob", core.AssetCollateral)
	require.NoError(t, err)
	assert.Equal(t, "40", bob.String())
}

func TestTransferInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newMemWalletStore())

	require.NoError(t, service.Mint(ctx, nil, "alice", core.AssetCollateral, core.NewAmount(10)))

	err := service.Transfer(ctx, nil, "alice", "bob", core.AssetCollateral, core.NewAmount(11))
	assert.Equal(t, core.ErrInsufficientBalance, err)

	// The failed transfer must not touch either side.
	alice, _ := service.Balance(ctx, "alice", core.AssetCollateral)
	assert.Equal(t, "10", alice.String())
	bob, _ := service.Balance(ctx, "bob", core.AssetCollateral)
	assert.Equal(t, "0", bob.String())
}

func TestTransferRejectsZero(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newMemWalletStore())

	err := service.Transfer(ctx, nil, "alice", "bob", core.AssetCollateral, core.NewAmount(0))
	assert.Equal(t, core.ErrZeroAmount, err)

	err = service.Transfer(ctx, nil, "", "bob", core.AssetCollateral, core.NewAmount(1))
	assert.Equal(t, core.ErrZeroAddress, err)
}

func TestBurn(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newMemWalletStore())

	require.NoError(t, service.Mint(ctx, nil, "alice", core.AssetDebt, core.NewAmount(100)))
	require.NoError(t, service.Burn(ctx, nil, "alice", core.AssetDebt, core.NewAmount(100)))

	balance, err := service.Balance(ctx, "alice", core.AssetDebt)
	require.NoError(t, err)
	assert.Equal(t, "0", balance.String())

	err = service.Burn(ctx, nil, "alice", core.AssetDebt, core.NewAmount(1))
	assert.Equal(t, core.ErrInsufficientBalance, err)
}

func TestBridgeCreditUnauthorized(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newMemWalletStore())

	err := service.BridgeCredit(ctx, "mallory", "alice", core.NewAmount(100))
	assert.Equal(t, core.ErrUnauthorized, err)
}
