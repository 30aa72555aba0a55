package customer

import (
	"collection-engine/internal/event"
	"collection-engine/internal/infrastructure/monitoring"
	"collection-engine/internal/pkg/apperrors"
	"collection-engine/internal/pkg/timeutil"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type CreateParams struct {
	Name       string
	Phone      string
	Address    string
	Area       string
	LoanAmount Money
	DueDate    time.Time

	// AmountPaid seeds an opening payment entry, so the paid total and
	// the history stay in agreement even for imported accounts.
	AmountPaid Money
}

type UpdateParams struct {
	Name       *string
	Phone      *string
	Address    *string
	Area       *string
	LoanAmount *Money
	DueDate    *time.Time
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, params CreateParams) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, filter Filter) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, params UpdateParams) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error

	// RecordPayment appends a payment and re-derives the balance and
	// status inside one transaction. Returns the updated snapshot.
	RecordPayment(ctx context.Context, customerID int64, amount Money) (*Customer, error)

	// RecordVisit overwrites the visit outcome and promise date.
	RecordVisit(ctx context.Context, customerID int64, status VisitStatus, promiseDate *time.Time) (*Customer, error)

	// RefreshStatus re-derives the status against the current date.
	// Used by the overdue sweep for accounts whose due date passed
	// without any mutation touching them.
	RefreshStatus(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.Publisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.Publisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, params CreateParams) (*Customer, error) {
	s.logger.InfoContext(ctx, "Creating new customer", slog.String("name", params.Name))

	cust, err := NewCustomer(
		strings.TrimSpace(params.Name),
		strings.TrimSpace(params.Phone),
		strings.TrimSpace(params.Address),
		strings.TrimSpace(params.Area),
		params.LoanAmount,
		params.DueDate,
	)
	if err != nil {
		s.logger.WarnContext(ctx, "Customer validation failed", slog.Any("error", err))
		return nil, err
	}

	if params.AmountPaid < 0 {
		return nil, apperrors.NewValidationError("amountPaid", "cannot be negative")
	}
	if params.AmountPaid > 0 {
		if _, err := cust.ApplyPayment(params.AmountPaid, timeutil.Now()); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	if pubErr := s.pub.PublishCustomerCreated(ctx, event.NewCustomerCreatedEvent(customerPayload(cust))); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer created, but failed to publish creation event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Customer created", slog.Int64("customerID", cust.CustomerID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter Filter) ([]*Customer, error) {
	customers, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, params UpdateParams) (*Customer, error) {
	s.logger.InfoContext(ctx, "Updating customer", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cannot find customer %d to update: %w", customerID, err)
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, apperrors.NewValidationError("name", "cannot be empty")
		}
		cust.Name = strings.TrimSpace(*params.Name)
	}
	if params.Phone != nil {
		if strings.TrimSpace(*params.Phone) == "" {
			return nil, apperrors.NewValidationError("phone", "cannot be empty")
		}
		cust.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.Address != nil {
		cust.Address = strings.TrimSpace(*params.Address)
	}
	if params.Area != nil {
		cust.Area = strings.TrimSpace(*params.Area)
	}
	if params.LoanAmount != nil {
		if *params.LoanAmount < 0 {
			return nil, apperrors.NewValidationError("loanAmount", "cannot be negative")
		}
		cust.LoanAmount = *params.LoanAmount
	}
	if params.DueDate != nil {
		cust.DueDate = *params.DueDate
	}

	// Profile edits can shift the derived fields (a changed principal or
	// due date moves the balance and status).
	cust.Recalculate(timeutil.Now())

	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save customer %d: %w", customerID, err)
	}

	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	s.logger.InfoContext(ctx, "Deleting customer", slog.Int64("customerID", customerID))

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.logger.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}
	return nil
}

func (s *customerService) RecordPayment(ctx context.Context, customerID int64, amount Money) (cust *Customer, err error) {
	s.logger.InfoContext(ctx, "Recording payment", slog.Int64("customerID", customerID), slog.Float64("amount", amount))

	if amount <= 0 {
		monitoring.RecordPayment("failure_amount")
		return nil, fmt.Errorf("%w: amount %.2f must be positive", apperrors.ErrInvalidPaymentAmount, amount)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				monitoring.RecordPayment("failure_not_found")
			} else {
				monitoring.RecordPayment("failure_internal")
			}
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	locked, err := s.repo.FindByIDForUpdate(ctx, tx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("%w: could not load customer for payment: %v", apperrors.ErrInternalServer, err)
	}

	entry, err := locked.ApplyPayment(amount, timeutil.Now())
	if err != nil {
		return nil, err
	}

	if err = s.repo.InsertPaymentInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("%w: could not insert payment entry: %v", apperrors.ErrInternalServer, err)
	}
	if err = s.repo.UpdateFinancialsInTx(ctx, tx, locked); err != nil {
		return nil, fmt.Errorf("%w: could not update customer balance: %v", apperrors.ErrInternalServer, err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit payment transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordPayment("success")

	if pubErr := s.pub.PublishPaymentRecorded(ctx, event.NewPaymentRecordedEvent(customerID, amount, locked.RemainingAmount, string(locked.Status))); pubErr != nil {
		s.logger.ErrorContext(ctx, "Payment recorded, but failed to publish event", slog.Any("error", pubErr))
	}

	// Return a full snapshot including the complete history.
	cust, err = s.repo.FindByID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Payment committed but snapshot re-fetch failed", slog.Any("error", err))
		return locked, nil
	}

	s.logger.InfoContext(ctx, "Payment recorded",
		slog.Int64("customerID", customerID),
		slog.Float64("remaining", cust.RemainingAmount),
		slog.String("status", string(cust.Status)))
	return cust, nil
}

func (s *customerService) RecordVisit(ctx context.Context, customerID int64, status VisitStatus, promiseDate *time.Time) (*Customer, error) {
	s.logger.InfoContext(ctx, "Recording visit", slog.Int64("customerID", customerID), slog.String("visitStatus", string(status)))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cannot find customer %d to record visit: %w", customerID, err)
	}

	if err := cust.RecordVisit(status, promiseDate, timeutil.Now()); err != nil {
		s.logger.WarnContext(ctx, "Visit validation failed", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to save visit for customer %d: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) RefreshStatus(ctx context.Context, customerID int64) error {
	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	before := cust.Status
	cust.Recalculate(timeutil.Now())
	if cust.Status == before {
		return nil
	}

	s.logger.InfoContext(ctx, "Status changed on refresh",
		slog.Int64("customerID", customerID),
		slog.String("from", string(before)),
		slog.String("to", string(cust.Status)))
	return s.repo.Save(ctx, cust)
}

func customerPayload(c *Customer) event.CustomerPayload {
	return event.CustomerPayload{
		CustomerID:      c.CustomerID,
		Name:            c.Name,
		Phone:           c.Phone,
		Area:            c.Area,
		LoanAmount:      c.LoanAmount,
		AmountPaid:      c.AmountPaid,
		RemainingAmount: c.RemainingAmount,
		Status:          string(c.Status),
		AssignedTo:      c.AssignedTo,
	}
}
