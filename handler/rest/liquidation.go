package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
)

type liquidationParams struct {
	UserID string `json:"user"`
	Amount string `json:"amount"`
}

func liquidationPreviewHandler(liquidationSrv core.ILiquidationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params liquidationParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		repay, err := core.NewAmountFromString(params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		quote, err := liquidationSrv.Preview(r.Context(), params.UserID, repay)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, quote)
	}
}

func liquidateHandler(liquidationSrv core.ILiquidationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params liquidationParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		repay, err := core.NewAmountFromString(params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		quote, err := liquidationSrv.Liquidate(r.Context(), userFrom(r), params.UserID, repay)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, quote)
	}
}
