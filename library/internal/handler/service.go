package handler

import (
	"context"

	"github.com/bookloop/library-service/library/internal/model"
	"github.com/bookloop/library-service/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, bookID int64, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID int64) error
	ListBooks(ctx context.Context, filter model.BookFilter, page, limit int) (model.ListBooks, error)
	GetBook(ctx context.Context, bookID int64) (model.Book, error)
	BorrowBook(ctx context.Context, bookID, userID int64) (model.BorrowEvent, error)
	UserBorrowed(ctx context.Context, userID int64, page, limit int) (model.ListBorrowed, error)
	BorrowLogs(ctx context.Context, page, limit int) (model.ListBorrowLogs, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest, role model.Role) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (string, error)
}

var _ BookService = (*service.Service)(nil)
var _ AuthService = (*service.Service)(nil)
