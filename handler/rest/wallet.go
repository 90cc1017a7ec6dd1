package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/render"
)

func walletsHandler(walletSrv core.IWalletService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := userFrom(r)

		collateral, err := walletSrv.Balance(ctx, userID, core.AssetCollateral)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		debt, err := walletSrv.Balance(ctx, userID, core.AssetDebt)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{
			core.AssetCollateral: collateral,
			core.AssetDebt:       debt,
		})
	}
}
