package database

import (
	"context"
	stdsql "database/sql"
	"fmt"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx, letting repositories
// run against either a pooled connection or an explicit transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (stdsql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*stdsql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *stdsql.Row
}

// TxRepos bundles repositories bound to a single transaction, so several
// writes commit or roll back together. The orchestrator uses it to create
// a pending session and store its select payload atomically; its other
// status transitions and queue-head promotion run outside a transaction.
type TxRepos struct {
	Sessions *SessionRepo
	APILogs  *APILogRepo
	Pending  *PendingRepo
}

// WithinTx runs fn inside a serializable transaction, committing on success
// and rolling back if fn returns an error or panics.
func (c *Client) WithinTx(ctx context.Context, fn func(TxRepos) error) (err error) {
	tx, err := c.db.BeginTx(ctx, &stdsql.TxOptions{Isolation: stdsql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
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

	err = fn(TxRepos{
		Sessions: &SessionRepo{db: tx},
		APILogs:  &APILogRepo{db: tx},
		Pending:  &PendingRepo{db: tx},
	})
	return err
}
