package collector

import (
	"collection-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

type CollectorService interface {
	CreateCollector(ctx context.Context, name, phone, area, password string) (*Collector, error)
	GetCollector(ctx context.Context, collectorID int64) (*Collector, error)
	ListCollectors(ctx context.Context) ([]*Collector, error)
	DeleteCollector(ctx context.Context, collectorID int64) error

	// Authenticate verifies phone+password and returns the collector.
	// Fails with ErrUnauthorized on a wrong password and ErrNotFound
	// when no collector uses the phone number.
	Authenticate(ctx context.Context, phone, password string) (*Collector, error)

	// RotatePassword replaces the stored hash. The old password is not
	// required; rotation is an administrative action.
	RotatePassword(ctx context.Context, collectorID int64, newPassword string) error
}

var _ CollectorService = (*collectorService)(nil)

type collectorService struct {
	repo   CollectorRepository
	logger *slog.Logger
}

func NewCollectorService(repo CollectorRepository, logger *slog.Logger) CollectorService {
	if repo == nil {
		panic("collector repository cannot be nil")
	}
	return &collectorService{
		repo:   repo,
		logger: logger.With(slog.String("component", "collectorService")),
	}
}

func (s *collectorService) CreateCollector(ctx context.Context, name, phone, area, password string) (*Collector, error) {
	s.logger.InfoContext(ctx, "Creating collector", slog.String("phone", strings.TrimSpace(phone)))

	coll, err := NewCollector(name, phone, area, password)
	if err != nil {
		s.logger.WarnContext(ctx, "Collector validation failed", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Save(ctx, coll); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Collector phone already registered")
			return nil, fmt.Errorf("%w: a collector with phone %s already exists", apperrors.ErrConflict, coll.Phone)
		}
		s.logger.ErrorContext(ctx, "Repository failed to save collector", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save collector: %w", err)
	}

	s.logger.InfoContext(ctx, "Collector created", slog.Int64("collectorID", coll.CollectorID))
	return coll, nil
}

func (s *collectorService) GetCollector(ctx context.Context, collectorID int64) (*Collector, error) {
	coll, err := s.repo.FindByID(ctx, collectorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get collector %d: %w", collectorID, err)
	}
	return coll, nil
}

func (s *collectorService) ListCollectors(ctx context.Context) ([]*Collector, error) {
	collectors, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing collectors", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list collectors: %w", err)
	}
	return collectors, nil
}

func (s *collectorService) DeleteCollector(ctx context.Context, collectorID int64) error {
	if err := s.repo.Delete(ctx, collectorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete collector %d: %w", collectorID, err)
	}
	return nil
}

func (s *collectorService) Authenticate(ctx context.Context, phone, password string) (*Collector, error) {
	phone = strings.TrimSpace(phone)

	coll, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Login attempt for unknown phone")
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up collector by phone: %w", err)
	}

	if !coll.CheckPassword(strings.TrimSpace(password)) {
		s.logger.WarnContext(ctx, "Login attempt with wrong password", slog.Int64("collectorID", coll.CollectorID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	s.logger.InfoContext(ctx, "Collector authenticated", slog.Int64("collectorID", coll.CollectorID))
	return coll, nil
}

func (s *collectorService) RotatePassword(ctx context.Context, collectorID int64, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < 6 {
		return apperrors.NewValidationError("password", "must be at least 6 characters")
	}

	coll, err := s.repo.FindByID(ctx, collectorID)
	if err != nil {
		return err
	}

	hash, err := HashPassword(strings.TrimSpace(newPassword))
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	coll.PasswordHash = hash

	if err := s.repo.Save(ctx, coll); err != nil {
		return fmt.Errorf("failed to save rotated credentials: %w", err)
	}

	s.logger.InfoContext(ctx, "Collector password rotated", slog.Int64("collectorID", collectorID))
	return nil
}
