package service

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/bookloop/library-service/library/internal/errs"
	"github.com/bookloop/library-service/library/internal/model"
	libraryRepo "github.com/bookloop/library-service/library/internal/repository"
	"github.com/bookloop/library-service/pkg/auth"
	"github.com/bookloop/library-service/pkg/kafka"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	repo     libraryRepo.Repository
	producer sarama.SyncProducer
}

// NewService wires the repository and an optional Kafka producer for the
// borrow audit stream. A nil producer disables publishing.
func NewService(repo libraryRepo.Repository, producer sarama.SyncProducer, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		producer: producer,
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, bookID int64, req model.UpdateBookRequest) (model.Book, error) {
	if bookID <= 0 {
		return model.Book{}, errors.Wrap(errs.ErrInvalidInput, "invalid book id")
	}
	fields := req.Fields()
	if len(fields) == 0 {
		return model.Book{}, errors.Wrap(errs.ErrInvalidInput, "no valid fields provided for update")
	}
	return s.repo.UpdateBook(ctx, bookID, fields)
}

func (s *Service) DeleteBook(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return errors.Wrap(errs.ErrInvalidInput, "invalid book id")
	}
	return s.repo.DeleteBook(ctx, bookID)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter, page, limit int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, filter, page, limit)
}

func (s *Service) GetBook(ctx context.Context, bookID int64) (model.Book, error) {
	if bookID <= 0 {
		return model.Book{}, errors.Wrap(errs.ErrInvalidInput, "invalid book id")
	}
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) BorrowBook(ctx context.Context, bookID, userID int64) (model.BorrowEvent, error) {
	if bookID <= 0 {
		return model.BorrowEvent{}, errors.Wrap(errs.ErrInvalidInput, "invalid book id")
	}
	event, err := s.repo.BorrowBook(ctx, bookID, userID)
	if err != nil {
		return model.BorrowEvent{}, err
	}
	s.publishBorrow(event)
	return event, nil
}

// publishBorrow emits the audit event after the commit. Publishing is
// best effort: a broker failure must never undo a committed borrow.
func (s *Service) publishBorrow(event model.BorrowEvent) {
	if s.producer == nil {
		return
	}
	data, err := json.Marshal(kafka.EventBorrow{
		BorrowUid:  event.BorrowUid,
		BookID:     event.BookID,
		UserID:     event.UserID,
		BorrowedAt: event.BorrowedAt,
	})
	if err != nil {
		s.log.Error("publishBorrow marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{Topic: kafka.BorrowEventsTopic, Value: sarama.StringEncoder(data)}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		s.log.Error("publishBorrow send", zap.String("borrowUid", event.BorrowUid), zap.Error(err))
	}
}

func (s *Service) UserBorrowed(ctx context.Context, userID int64, page, limit int) (model.ListBorrowed, error) {
	return s.repo.ListBorrowsByUser(ctx, userID, page, limit)
}

func (s *Service) BorrowLogs(ctx context.Context, page, limit int) (model.ListBorrowLogs, error) {
	return s.repo.ListBorrowEvents(ctx, page, limit)
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest, role model.Role) (model.User, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	})
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrCredentials
		}
		return "", err
	}
	if !checkPassword(user.Password, req.Password) {
		return "", errs.ErrCredentials
	}
	return auth.SignToken(user.ID, string(user.Role))
}
