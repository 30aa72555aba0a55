// Package assignment owns the customer-collector relation. The relation
// is stored single-sided on the customer row and written under a row
// lock, so a collector's working set (derived by query) can never hold a
// stale reference after a reassignment.
package assignment

import (
	"collection-engine/internal/domain/collector"
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/event"
	"collection-engine/internal/infrastructure/monitoring"
	"collection-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type AssignmentService interface {
	// AssignCustomer makes collectorID the customer's one active
	// collector. Assigning to the current collector is a no-op.
	AssignCustomer(ctx context.Context, customerID, collectorID int64) error

	// UnassignCustomer clears the relation.
	UnassignCustomer(ctx context.Context, customerID int64) error
}

var _ AssignmentService = (*assignmentService)(nil)

type assignmentService struct {
	customers  customer.CustomerRepository
	collectors collector.CollectorRepository
	pub        event.Publisher
	logger     *slog.Logger
}

func NewAssignmentService(
	customers customer.CustomerRepository,
	collectors collector.CollectorRepository,
	pub event.Publisher,
	logger *slog.Logger,
) AssignmentService {
	if customers == nil || collectors == nil {
		panic("assignment service repositories cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &assignmentService{
		customers:  customers,
		collectors: collectors,
		pub:        pub,
		logger:     logger.With(slog.String("component", "assignmentService")),
	}
}

func (s *assignmentService) AssignCustomer(ctx context.Context, customerID, collectorID int64) error {
	return s.reassign(ctx, customerID, &collectorID)
}

func (s *assignmentService) UnassignCustomer(ctx context.Context, customerID int64) error {
	return s.reassign(ctx, customerID, nil)
}

func (s *assignmentService) reassign(ctx context.Context, customerID int64, collectorID *int64) (err error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	if collectorID != nil {
		logCtx = logCtx.With(slog.Int64("collectorID", *collectorID))
	}
	logCtx.InfoContext(ctx, "Reassigning customer")

	tx, err := s.customers.BeginTx(ctx)
	if err != nil {
		monitoring.RecordAssignment("failure_internal")
		return fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.customers.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				monitoring.RecordAssignment("failure_not_found")
			} else {
				monitoring.RecordAssignment("failure_internal")
			}
			_ = s.customers.RollbackTx(ctx, tx)
		}
	}()

	cust, err := s.customers.FindByIDForUpdate(ctx, tx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found for assignment")
			return fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		return fmt.Errorf("%w: could not load customer for assignment: %v", apperrors.ErrInternalServer, err)
	}

	if collectorID != nil {
		exists, checkErr := s.collectors.ExistsInTx(ctx, tx, *collectorID)
		if checkErr != nil {
			err = fmt.Errorf("%w: could not verify collector: %v", apperrors.ErrInternalServer, checkErr)
			return err
		}
		if !exists {
			logCtx.WarnContext(ctx, "Collector not found for assignment")
			err = fmt.Errorf("%w: collector %d not found", apperrors.ErrNotFound, *collectorID)
			return err
		}
	}

	previous := cust.AssignedTo
	if sameAssignment(previous, collectorID) {
		logCtx.InfoContext(ctx, "Assignment already in place, no action needed")
		err = s.customers.CommitTx(ctx, tx)
		return err
	}

	if err = s.customers.UpdateAssignmentInTx(ctx, tx, customerID, collectorID); err != nil {
		return fmt.Errorf("%w: could not update assignment: %v", apperrors.ErrInternalServer, err)
	}
	if err = s.customers.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("%w: could not commit assignment: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordAssignment("success")

	if pubErr := s.pub.PublishCustomerAssigned(ctx, event.NewCustomerAssignedEvent(customerID, collectorID, previous)); pubErr != nil {
		logCtx.ErrorContext(ctx, "Assignment committed, but failed to publish event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Customer reassigned")
	return nil
}

func sameAssignment(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
