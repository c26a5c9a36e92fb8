package repository

import (
	"context"
	"database/sql"

	"github.com/bookloop/library-service/library/internal/errs"
	"github.com/bookloop/library-service/library/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// lockBook takes an exclusive row lock on a live (non-deleted) book.
// Soft-deleted rows are indistinguishable from absent ones here.
func lockBook(ctx context.Context, tx *sqlx.Tx, bookID int64) (model.Book, error) {
	const q = `
	select id, title, author, genre, status, created_at, deleted_at from books
	where id = $1 and deleted_at is null
	for update`

	var book model.Book
	if err := tx.GetContext(ctx, &book, q, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, wrapTxError(err)
	}
	return book, nil
}

// wrapTxError maps transient postgres failures onto ErrStorageRetry.
// Serialization conflicts and lock timeouts are safe to retry end to end:
// the next attempt re-reads current state under its own lock.
func wrapTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return errors.Wrap(errs.ErrStorageRetry, pgErr.Message)
		}
	}
	return err
}

// BorrowBook flips an available book to borrowed and records the borrow
// event, all inside one transaction holding the book's row lock. Two
// concurrent borrows of the same book serialize on that lock; the blocked
// one re-reads the winner's committed row, observes status=borrowed and
// fails with ErrConflict. Locking beats SERIALIZABLE here: under SSI the
// loser would surface a retryable 40001 instead of the post-state.
func (r *repository) BorrowBook(ctx context.Context, bookID, userID int64) (model.BorrowEvent, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BorrowEvent{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	book, err := lockBook(ctx, tx, bookID)
	if err != nil {
		return model.BorrowEvent{}, err
	}
	if book.Status == model.StatusBorrowed {
		return model.BorrowEvent{}, errors.Wrap(errs.ErrConflict, "book already borrowed")
	}

	const updateQ = `update books set status = $2 where id = $1`
	if _, err := tx.ExecContext(ctx, updateQ, bookID, model.StatusBorrowed); err != nil {
		return model.BorrowEvent{}, wrapTxError(err)
	}

	const insertQ = `
	insert into borrow_events (borrow_uid, book_id, user_id)
	values ($1, $2, $3)
	returning *`

	var event model.BorrowEvent
	if err := tx.GetContext(ctx, &event, insertQ, uuid.New(), bookID, userID); err != nil {
		r.log.Error("BorrowBook insert event", zap.Int64("bookID", bookID), zap.Error(err))
		return model.BorrowEvent{}, wrapTxError(err)
	}

	if err := tx.Commit(); err != nil {
		return model.BorrowEvent{}, wrapTxError(err)
	}
	return event, nil
}

func (r *repository) ListBorrowsByUser(ctx context.Context, userID int64, page, limit int) (model.ListBorrowed, error) {
	const q = `
	select be.id, be.borrow_uid, be.book_id, be.user_id, be.borrowed_at,
	       b.title, b.author, b.genre, b.status as book_status
	from borrow_events be
	join books b on b.id = be.book_id
	where be.user_id = $1
	order by be.borrowed_at desc
	limit $2 offset $3`

	var (
		items []model.BorrowedBook
		total int
	)
	if err := r.db.SelectContext(ctx, &items, q, userID, limit, (page-1)*limit); err != nil {
		return model.ListBorrowed{}, err
	}
	const countQ = `select count(*) from borrow_events where user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQ, userID); err != nil {
		return model.ListBorrowed{}, err
	}

	return model.ListBorrowed{
		Paging: model.Paging{Page: page, Limit: limit, Total: total},
		Items:  items,
	}, nil
}

func (r *repository) ListBorrowEvents(ctx context.Context, page, limit int) (model.ListBorrowLogs, error) {
	const q = `
	select be.id, be.borrow_uid, be.book_id, be.user_id, be.borrowed_at,
	       u.name as user_name, u.email as user_email,
	       b.title, b.author, b.genre, b.status as book_status
	from borrow_events be
	join users u on u.id = be.user_id
	join books b on b.id = be.book_id
	order by be.id
	limit $1 offset $2`

	var (
		items []model.BorrowLog
		total int
	)
	if err := r.db.SelectContext(ctx, &items, q, limit, (page-1)*limit); err != nil {
		return model.ListBorrowLogs{}, err
	}
	if err := r.db.GetContext(ctx, &total, `select count(*) from borrow_events`); err != nil {
		return model.ListBorrowLogs{}, err
	}

	return model.ListBorrowLogs{
		Paging: model.Paging{Page: page, Limit: limit, Total: total},
		Items:  items,
	}, nil
}
