package rest

import (
	"errors"
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
	"vault/handler/views"

	"github.com/jinzhu/gorm"
)

type amountParams struct {
	Amount string `json:"amount"`
}

func bindAmount(r *http.Request) (core.Amount, error) {
	var params amountParams
	if err := param.Binding(r, &params); err != nil {
		return core.Amount{}, err
	}

	return core.NewAmountFromString(params.Amount)
}

func statsHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := vaultSrv.Stats(r.Context())
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.NewStats(stats))
	}
}

func positionHandler(vaultSrv core.IVaultService, yieldSrv core.IYieldService, positionStore core.IPositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := param.String(r, "user")
		if userID == "" {
			render.BadRequest(w, errors.New("missing user"))
			return
		}

		position, err := positionStore.Find(ctx, userID)
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				render.OperationError(w, core.ErrNoPosition)
				return
			}
			render.BadRequest(w, err)
			return
		}

		ratio, err := vaultSrv.CollateralRatio(ctx, userID)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		view := views.NewPosition(position, ratio)

		if flagged, err := vaultSrv.IsLiquidatable(ctx, userID); err == nil {
			view.Liquidatable = flagged
		}
		if maxMint, err := vaultSrv.MaxMintable(ctx, userID); err == nil {
			view.MaxMintable = maxMint
		}
		if maxWithdraw, err := vaultSrv.MaxWithdrawable(ctx, userID); err == nil {
			view.MaxWithdrawable = maxWithdraw
		}
		if pending, err := yieldSrv.PendingYield(ctx, userID); err == nil {
			view.PendingYield = pending
		}

		render.JSON(w, view)
	}
}

func flaggedHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flagged, err := vaultSrv.FlaggedAccounts(r.Context())
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"accounts": flagged})
	}
}

func depositHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := vaultSrv.DepositCollateral(r.Context(), userFrom(r), amount); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func withdrawHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := vaultSrv.WithdrawCollateral(r.Context(), userFrom(r), amount); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func mintHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := vaultSrv.Mint(r.Context(), userFrom(r), amount); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func burnHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := vaultSrv.Burn(r.Context(), userFrom(r), amount); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func depositAndMintHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		minted, err := vaultSrv.DepositAndMint(r.Context(), userFrom(r), amount)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"minted": minted})
	}
}

func repayAndWithdrawHandler(vaultSrv core.IVaultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		released, err := vaultSrv.RepayAndWithdraw(r.Context(), userFrom(r), amount)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"released": released})
	}
}
