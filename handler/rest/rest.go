package rest

import (
	"errors"
	"net/http"

	"vault/core"
	"vault/handler/render"

	"github.com/go-chi/chi"
)

const headerKeyUser = "X-Vault-User"

// Handle handle rest api request
func Handle(system *core.System,
	vaultSrv core.IVaultService,
	yieldSrv core.IYieldService,
	liquidationSrv core.ILiquidationService,
	walletSrv core.IWalletService,
	priceSrv core.IPriceOracleService,
	positionStore core.IPositionStore,
	transactionStore core.TransactionStore) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/stats", statsHandler(vaultSrv))
	router.Get("/positions/{user}", positionHandler(vaultSrv, yieldSrv, positionStore))
	router.Get("/flagged", flaggedHandler(vaultSrv))

	router.Post("/deposit", depositHandler(vaultSrv))
	router.Post("/withdraw", withdrawHandler(vaultSrv))
	router.Post("/mint", mintHandler(vaultSrv))
	router.Post("/burn", burnHandler(vaultSrv))
	router.Post("/deposit-and-mint", depositAndMintHandler(vaultSrv))
	router.Post("/repay-and-withdraw", repayAndWithdrawHandler(vaultSrv))

	router.Get("/liquidations/preview", liquidationPreviewHandler(liquidationSrv))
	router.Post("/liquidations", liquidateHandler(liquidationSrv))

	router.Get("/yield", yieldHandler(yieldSrv))
	router.Post("/harvest", harvestHandler(yieldSrv))

	router.Post("/admin/pause", pauseHandler(vaultSrv))
	router.Post("/admin/unpause", unpauseHandler(vaultSrv))
	router.Post("/admin/min-deposit", minDepositHandler(vaultSrv))
	router.Post("/admin/fee-split", feeSplitHandler(yieldSrv))
	router.Post("/admin/oracle", setOracleHandler(priceSrv))
	router.Post("/admin/pool", setPoolHandler(yieldSrv))

	router.Get("/wallets", walletsHandler(walletSrv))
	router.Get("/transactions", transactionsHandler(transactionStore))

	return router
}

// userFrom returns the caller identity. Authentication lives at the edge;
// the gateway injects this header after verifying the session.
func userFrom(r *http.Request) string {
	return r.Header.Get(headerKeyUser)
}
