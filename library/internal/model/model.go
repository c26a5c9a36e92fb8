package model

import (
	"time"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBorrowed  Status = "borrowed"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Book struct {
	ID        int64      `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Author    string     `json:"author" db:"author"`
	Genre     string     `json:"genre" db:"genre"`
	Status    Status     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// BorrowEvent is an append-only audit record of one borrow action.
type BorrowEvent struct {
	ID         int64     `json:"id" db:"id"`
	BorrowUid  string    `json:"borrowUid" db:"borrow_uid"`
	BookID     int64     `json:"bookId" db:"book_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	BorrowedAt time.Time `json:"borrowedAt" db:"borrowed_at"`
}

type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreateBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Genre  string `json:"genre" validate:"required"`
	Status Status `json:"status" validate:"omitempty,oneof=available borrowed"`
}

type UpdateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
	Status *Status `json:"status" validate:"omitempty,oneof=available borrowed"`
}

// Fields maps the recognized fields onto column assignments.
// Anything outside the allow-list never reaches here: unknown json
// fields are dropped at bind time.
func (r UpdateBookRequest) Fields() map[string]any {
	fields := make(map[string]any, 4)
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Author != nil {
		fields["author"] = *r.Author
	}
	if r.Genre != nil {
		fields["genre"] = *r.Genre
	}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	return fields
}

type BookFilter struct {
	Status         Status
	IncludeDeleted bool
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Paging struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

// BorrowedBook is a borrow event joined with its book, for the
// caller-facing borrow history.
type BorrowedBook struct {
	BorrowEvent
	Title      string `json:"title" db:"title"`
	Author     string `json:"author" db:"author"`
	Genre      string `json:"genre" db:"genre"`
	BookStatus Status `json:"bookStatus" db:"book_status"`
}

type ListBorrowed struct {
	Paging `json:",inline"`
	Items  []BorrowedBook `json:"items"`
}

// BorrowLog is the admin audit view: event + user + book.
type BorrowLog struct {
	BorrowedBook
	UserName  string `json:"userName" db:"user_name"`
	UserEmail string `json:"userEmail" db:"user_email"`
}

type ListBorrowLogs struct {
	Paging `json:",inline"`
	Items  []BorrowLog `json:"items"`
}
