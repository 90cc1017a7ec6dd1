package cmd

import (
	"vault/core"
	liquidationservice "vault/service/liquidation"
	oracleservice "vault/service/oracle"
	vaultservice "vault/service/vault"
	walletservice "vault/service/wallet"
	yieldservice "vault/service/yield"
	"vault/store/position"
	"vault/store/price"
	"vault/store/transaction"
	vaultstore "vault/store/vault"
	"vault/store/wallet"
	"vault/store/yield"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideSystem() *core.System {
	return &core.System{
		Owner:    cfg.Owner,
		Treasury: cfg.Treasury,
		Version:  rootCmd.Version,
	}
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideVaultStore(db *db.DB) core.IVaultStore {
	return vaultstore.New(db)
}

func provideYieldStore(db *db.DB) core.IYieldStore {
	return yield.New(db)
}

func provideWalletStore(db *db.DB) core.IWalletStore {
	return wallet.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return price.New(db)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.New(db)
}

// ------------------service------------------------------------

func provideWalletService(db *db.DB, system *core.System) core.IWalletService {
	return walletservice.New(db, system, provideWalletStore(db), provideTransactionStore(db))
}

func providePriceService(db *db.DB, system *core.System) core.IPriceOracleService {
	return oracleservice.New(provideConfig(), system, providePriceStore(db), providePropertyStore(db))
}

func provideYieldService(db *db.DB, system *core.System, walletSrv core.IWalletService) core.IYieldService {
	return yieldservice.New(provideConfig(),
		db,
		system,
		provideYieldStore(db),
		provideTransactionStore(db),
		walletSrv,
		providePropertyStore(db))
}

func provideVaultService(db *db.DB, system *core.System, walletSrv core.IWalletService, yieldSrv core.IYieldService, priceSrv core.IPriceOracleService) core.IVaultService {
	return vaultservice.New(provideConfig(),
		db,
		system,
		providePositionStore(db),
		provideVaultStore(db),
		provideTransactionStore(db),
		walletSrv,
		yieldSrv,
		priceSrv,
		providePropertyStore(db))
}

func provideLiquidationService(db *db.DB, walletSrv core.IWalletService, yieldSrv core.IYieldService, priceSrv core.IPriceOracleService) core.ILiquidationService {
	return liquidationservice.New(db,
		providePositionStore(db),
		provideVaultStore(db),
		provideTransactionStore(db),
		walletSrv,
		yieldSrv,
		priceSrv,
		providePropertyStore(db))
}
