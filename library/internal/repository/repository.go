package repository

import (
	"context"
	"database/sql"

	"github.com/bookloop/library-service/library/internal/errs"
	"github.com/bookloop/library-service/library/internal/model"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	sq "github.com/Masterminds/squirrel"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Repository interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, bookID int64, fields map[string]any) (model.Book, error)
	DeleteBook(ctx context.Context, bookID int64) error
	ListBooks(ctx context.Context, filter model.BookFilter, page, limit int) (model.ListBooks, error)
	GetBook(ctx context.Context, bookID int64) (model.Book, error)

	BorrowBook(ctx context.Context, bookID, userID int64) (model.BorrowEvent, error)
	ListBorrowsByUser(ctx context.Context, userID int64, page, limit int) (model.ListBorrowed, error)
	ListBorrowEvents(ctx context.Context, page, limit int) (model.ListBorrowLogs, error)

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName        = `books`
	borrowEventsTableName = `borrow_events`
	usersTableName        = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var bookColumns = []string{"id", "title", "author", "genre", "status", "created_at", "deleted_at"}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	status := req.Status
	if status == "" {
		status = model.StatusAvailable
	}
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "genre", "status").
		Values(req.Title, req.Author, req.Genre, status).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, bookID int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	if book.DeletedAt != nil {
		return model.Book{}, errs.ErrGone
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter, page, limit int) (model.ListBooks, error) {
	base := qb.Select().From(booksTableName)
	if !filter.IncludeDeleted {
		base = base.Where(sq.Eq{"deleted_at": nil})
	}
	if filter.Status != "" {
		base = base.Where(sq.Eq{"status": filter.Status})
	}

	sel := base.Columns(bookColumns...).
		OrderBy("created_at desc").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))

	query, args, err := sel.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	countQuery, countArgs, err := base.Columns("count(*)").ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var (
		books []model.Book
		total int
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return r.db.SelectContext(ctx, &books, query, args...)
	})
	gg.Go(func() error {
		return r.db.GetContext(ctx, &total, countQuery, countArgs...)
	})
	if err := gg.Wait(); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:  page,
			Limit: limit,
			Total: total,
		},
		Items: books,
	}, nil
}

// UpdateBook applies an allow-listed field set under the same row lock
// the borrow path takes, so a racing borrow can never be lost.
func (r *repository) UpdateBook(ctx context.Context, bookID int64, fields map[string]any) (model.Book, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := lockBook(ctx, tx, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if current.Status == model.StatusBorrowed {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "cannot update a borrowed book")
	}

	query, args, err := qb.Update(booksTableName).
		SetMap(fields).
		Where(sq.Eq{"id": bookID}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := tx.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("UpdateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, wrapTxError(err)
	}
	if err := tx.Commit(); err != nil {
		return model.Book{}, wrapTxError(err)
	}
	return book, nil
}

// DeleteBook soft-deletes: the row survives, deleted_at marks it gone.
func (r *repository) DeleteBook(ctx context.Context, bookID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := lockBook(ctx, tx, bookID)
	if err != nil {
		return err
	}
	if current.Status == model.StatusBorrowed {
		return errors.Wrap(errs.ErrConflict, "cannot delete: book is currently borrowed")
	}

	q := `update books set deleted_at = now() where id = $1`
	if _, err := tx.ExecContext(ctx, q, bookID); err != nil {
		return wrapTxError(err)
	}
	return wrapTxError(tx.Commit())
}
