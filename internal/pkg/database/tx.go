package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// WithTx begins a transaction, runs fn with it, and commits when fn returns nil.
// Any error or panic rolls the transaction back; panics are re-raised.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
