package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/render"
)

func yieldHandler(yieldSrv core.IYieldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pending, err := yieldSrv.PendingYield(ctx, userFrom(r))
		if err != nil {
			render.OperationError(w, err)
			return
		}

		deposits, err := yieldSrv.TotalDeposits(ctx)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		paid, err := yieldSrv.TotalYield(ctx)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{
			"pending":          pending,
			"total_deposits":   deposits,
			"total_yield_paid": paid,
		})
	}
}

func harvestHandler(yieldSrv core.IYieldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paid, err := yieldSrv.Harvest(r.Context(), userFrom(r))
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"paid": paid})
	}
}
