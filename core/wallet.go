package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

const (
	// AssetCollateral bitcoin-denominated collateral, 8 decimals
	AssetCollateral = "BTC"
	// AssetDebt dollar-pegged debt unit, 18 decimals
	AssetDebt = "VUSD"

	// WalletVault module account holding locked collateral
	WalletVault = "vault"
	// WalletTreasury protocol treasury account
	WalletTreasury = "treasury"
)

// Wallet one balance row per user per asset.
type Wallet struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string    `sql:"size:36;unique_index:idx_wallets_user_asset" json:"user_id"`
	Asset     string    `sql:"size:10;unique_index:idx_wallets_user_asset" json:"asset"`
	Balance   Amount    `sql:"type:decimal(65,0)" json:"balance"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IWalletStore wallet store interface
type IWalletStore interface {
	FindOrCreate(ctx context.Context, tx *db.DB, userID, asset string) (*Wallet, error)
	Find(ctx context.Context, userID, asset string) (*Wallet, error)
	FindByUser(ctx context.Context, userID string) ([]*Wallet, error)
	Update(ctx context.Context, tx *db.DB, wallet *Wallet) error
}

// IWalletService moves balances between accounts. Transfer, Mint and Burn
// run inside the caller's ledger transaction.
type IWalletService interface {
	Transfer(ctx context.Context, tx *db.DB, from, to, asset string, amount Amount) error
	Mint(ctx context.Context, tx *db.DB, userID, asset string, amount Amount) error
	Burn(ctx context.Context, tx *db.DB, userID, asset string, amount Amount) error
	Balance(ctx context.Context, userID, asset string) (Amount, error)

	// BridgeCredit records the ledger effect of a confirmed bridge claim:
	// the operator credits collateral units to a user wallet. Owner only.
	BridgeCredit(ctx context.Context, operator, userID string, amount Amount) error
}
