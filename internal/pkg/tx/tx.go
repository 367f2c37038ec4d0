package tx

import (
	"context"
	"net/http"
)

type key string

const KeyTx key = "tx"

// DBRepo is the slice of the repository the transaction helper needs.
type DBRepo interface {
	WithTx(ctx context.Context, cb func(ctx context.Context) error) error
}

// Tx is placed into the request context by the middleware so that handlers
// can open a transaction without holding the repository themselves.
type Tx struct {
	DbRepo DBRepo
}

// TxExecute runs cb inside a single database transaction when the context
// carries a repository, and directly otherwise (unit tests, read paths).
func TxExecute(ctx context.Context, cb func(ctx context.Context) error) error {
	t, ok := ctx.Value(KeyTx).(Tx)
	if !ok || t.DbRepo == nil {
		return cb(ctx)
	}
	return t.DbRepo.WithTx(ctx, cb)
}

func TxMiddlewareHTTP(repo DBRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), KeyTx, Tx{DbRepo: repo})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
