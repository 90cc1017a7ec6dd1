package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
)

// response user transactions
func transactionsHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			From  uint64 `json:"from"`
			Limit int    `json:"limit"`
			User  string `json:"user"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if params.User != "" {
			transactions, e := transactionStr.FindByUser(ctx, params.User, params.Limit)
			if e != nil {
				render.BadRequest(w, e)
				return
			}

			render.JSON(w, transactions)
			return
		}

		transactions, e := transactionStr.List(ctx, params.From, params.Limit)
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		render.JSON(w, transactions)
	}
}
