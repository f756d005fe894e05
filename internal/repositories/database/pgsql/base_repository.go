package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pos_core/internal/apperrors"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE codes the repositories react to.
const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	lockNotAvailable     = "55P03"

	oneOpenDrawerIndex = "cash_drawers_one_open_idx"
)

// UnitOfWork runs repository calls on a single pgx transaction.
type UnitOfWork struct {
	pool     *pgxpool.Pool
	tx       pgx.Tx
	restores []func()
}

// Ensure UnitOfWork implements the UnitOfWork interface
var _ portsrepo.UnitOfWork = (*UnitOfWork)(nil)

func isoLevel(l portsrepo.IsolationLevel) pgx.TxIsoLevel {
	switch l {
	case portsrepo.RepeatableRead:
		return pgx.RepeatableRead
	case portsrepo.Serializable:
		return pgx.Serializable
	default:
		return pgx.ReadCommitted
	}
}

// BeginTransaction starts a new database transaction
func (u *UnitOfWork) BeginTransaction(ctx context.Context, isolation portsrepo.IsolationLevel) error {
	if u.tx != nil {
		return apperrors.New(apperrors.CodeTransactionActive, "a transaction is already active")
	}
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: isoLevel(isolation)})
	if err != nil {
		return translate(err, "failed to begin transaction")
	}
	u.tx = tx
	u.restores = nil
	return nil
}

// Commit commits the transaction. A failed commit has already been rolled
// back by the server, so tracked entities are restored here.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return apperrors.New(apperrors.CodeNoActiveTransaction, "no active transaction to commit")
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(ctx); err != nil {
		u.restore()
		return translate(err, "failed to commit transaction")
	}
	u.restores = nil
	return nil
}

// Rollback rolls back the transaction
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return apperrors.New(apperrors.CodeNoActiveTransaction, "no active transaction to roll back")
	}
	tx := u.tx
	u.tx = nil
	u.restore()
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *UnitOfWork) restore() {
	for i := len(u.restores) - 1; i >= 0; i-- {
		u.restores[i]()
	}
	u.restores = nil
}

func (u *UnitOfWork) Track(entity portsrepo.Trackable) {
	if u.tx == nil {
		return
	}
	u.restores = append(u.restores, entity.Checkpoint())
}

func (u *UnitOfWork) InTransaction() bool {
	return u.tx != nil
}

// conn returns the open transaction, failing outside of one.
func (u *UnitOfWork) conn() (pgx.Tx, error) {
	if u.tx == nil {
		return nil, apperrors.New(apperrors.CodeNoActiveTransaction, "repository used outside of a transaction")
	}
	return u.tx, nil
}

// translate maps driver errors onto the application error model. Lock and
// serialization failures become retryable.
func translate(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			if pgErr.ConstraintName == oneOpenDrawerIndex {
				return apperrors.New(apperrors.CodeDrawerAlreadyOpen, "another cash drawer is already open")
			}
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, msg, pgErr.ConstraintName)
		case serializationFailure, deadlockDetected, lockNotAvailable:
			return apperrors.Retryable(fmt.Errorf("%s: %w", msg, err))
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// notFoundOr returns notFound when err means no row matched.
func notFoundOr(err error, notFound error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return translate(err, msg)
}

// checkAffected turns an update that matched no row into a concurrency error.
func checkAffected(tag pgconn.CommandTag, entity, id string) error {
	if tag.RowsAffected() == 0 {
		return apperrors.NewConcurrencyError(entity, id)
	}
	return nil
}

func pageLimit(limit int) int {
	if limit <= 0 {
		return 1000
	}
	return limit
}
