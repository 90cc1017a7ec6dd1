package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
	"vault/handler/views"
)

// admin endpoints run as the caller identity; the services reject anyone
// but the configured owner.

func pauseHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := vaultSrv.Pause(r.Context(), userFrom(r)); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func unpauseHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := vaultSrv.Unpause(r.Context(), userFrom(r)); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func minDepositHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := vaultSrv.SetMinDeposit(r.Context(), userFrom(r), amount); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

type endpointParams struct {
	URL string `json:"url"`
}

func setOracleHandler(priceSrv core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params endpointParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := priceSrv.SetEndpoint(r.Context(), userFrom(r), params.URL); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func setPoolHandler(yieldSrv core.IYieldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params endpointParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := yieldSrv.SetPoolEndpoint(r.Context(), userFrom(r), params.URL); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func feeSplitHandler(yieldSrv core.IYieldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			UserBps     int64 `json:"user_bps"`
			ProtocolBps int64 `json:"protocol_bps"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := yieldSrv.SetFeeSplit(r.Context(), userFrom(r), params.UserBps, params.ProtocolBps); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}
