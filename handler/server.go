package handler

import (
	"net/http"

	"vault/core"
	"vault/handler/hc"
	"vault/handler/render"
	"vault/handler/rest"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	cfg              *core.Config
	system           *core.System
	vaultService     core.IVaultService
	yieldService     core.IYieldService
	liquidationSrv   core.ILiquidationService
	walletService    core.IWalletService
	priceService     core.IPriceOracleService
	positionStore    core.IPositionStore
	transactionStore core.TransactionStore
}

// New new server
func New(cfg *core.Config,
	system *core.System,
	vaultSrv core.IVaultService,
	yieldSrv core.IYieldService,
	liquidationSrv core.ILiquidationService,
	walletSrv core.IWalletService,
	priceSrv core.IPriceOracleService,
	positionStore core.IPositionStore,
	transactionStore core.TransactionStore) Server {
	return Server{
		cfg:              cfg,
		system:           system,
		vaultService:     vaultSrv,
		yieldService:     yieldSrv,
		liquidationSrv:   liquidationSrv,
		walletService:    walletSrv,
		priceService:     priceSrv,
		positionStore:    positionStore,
		transactionStore: transactionStore,
	}
}

// Handler returns the root http handler
func (s Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.AllowAll().Handler)
	r.Use(render.WrapResponse(true))

	r.Mount("/hc", hc.Handle(s.system.Version))
	r.Mount("/api", rest.Handle(s.system,
		s.vaultService,
		s.yieldService,
		s.liquidationSrv,
		s.walletService,
		s.priceService,
		s.positionStore,
		s.transactionStore))

	return r
}
