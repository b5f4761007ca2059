package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"portals_watcher/internal/domain"
	"portals_watcher/internal/domain/entity"
	"portals_watcher/internal/domain/value"
	"portals_watcher/pkg/errcodes"
)

type Repository interface {
	Add(ctx context.Context, sub entity.Subscription) error
	Remove(ctx context.Context, userID int64, collection string) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]entity.Subscription, error)
}

type subscribeRequest struct {
	UserID       int64   `validate:"required"`
	Collection   string  `validate:"required,max=64,collection"`
	ThresholdPct float64 `validate:"gte=0,lte=90"`
}

// Service — точка входа для команд пользователя: проверяет ввод и
// делегирует хранение репозиторию.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Имя коллекции передаётся одним аргументом команды.
	_ = validate.RegisterValidation("collection", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})

	return &Service{
		repo:     repo,
		validate: validate,
	}
}

// Subscribe создаёт подписку или обновляет порог существующей.
func (s *Service) Subscribe(
	ctx context.Context,
	userID int64,
	collection string,
	thresholdPct float64,
) (entity.Subscription, error) {
	req := subscribeRequest{
		UserID:       userID,
		Collection:   value.NormalizeCollection(collection),
		ThresholdPct: thresholdPct,
	}

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return entity.Subscription{}, validationError(err)
	}

	sub := entity.Subscription{
		UserID:       req.UserID,
		Collection:   req.Collection,
		ThresholdPct: req.ThresholdPct,
	}

	if err := s.repo.Add(ctx, sub); err != nil {
		return entity.Subscription{}, fmt.Errorf("repo.Add: %w", err)
	}

	return sub, nil
}

// Unsubscribe сообщает, существовала ли подписка.
func (s *Service) Unsubscribe(ctx context.Context, userID int64, collection string) (bool, error) {
	collection = value.NormalizeCollection(collection)
	if collection == "" {
		return false, domain.NewError(errcodes.InvalidCollection, "collection name is required")
	}

	removed, err := s.repo.Remove(ctx, userID, collection)
	if err != nil {
		return false, fmt.Errorf("repo.Remove: %w", err)
	}

	return removed, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]entity.Subscription, error) {
	subs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("repo.ListForUser: %w", err)
	}

	return subs, nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.WrapError(err, errcodes.ValidationError, "invalid subscription")
	}

	fe := fieldErrs[0]

	switch fe.Field() {
	case "ThresholdPct":
		return domain.WrapError(err, errcodes.InvalidThreshold,
			fmt.Sprintf("threshold must be between %d and %d percent", value.MinThresholdPct, value.MaxThresholdPct))
	case "Collection":
		if fe.Tag() == "max" {
			return domain.WrapError(err, errcodes.InvalidCollection,
				fmt.Sprintf("collection name must be at most %d characters", value.MaxCollectionLen))
		}
		if fe.Tag() == "required" {
			return domain.WrapError(err, errcodes.InvalidCollection, "collection name is required")
		}
		return domain.WrapError(err, errcodes.InvalidCollection, "collection name must not contain spaces")
	case "UserID":
		return domain.WrapError(err, errcodes.InvalidUserID, "user id is required")
	default:
		return domain.WrapError(err, errcodes.ValidationError, "invalid subscription")
	}
}
