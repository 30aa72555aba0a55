package customer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Filter narrows FindAll. Search matches name, phone or area
// case-insensitively; Area and AssignedTo are exact.
type Filter struct {
	Search     string
	Area       string
	AssignedTo *int64
}

type CustomerRepository interface {
	Save(ctx context.Context, cust *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindAll(ctx context.Context, filter Filter) ([]*Customer, error)

	Delete(ctx context.Context, customerID int64) error

	// FindByIDForUpdate locks the customer row for the duration of the
	// transaction. Payment history is not loaded.
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*Customer, error)

	InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment *Payment) error

	UpdateFinancialsInTx(ctx context.Context, tx pgx.Tx, cust *Customer) error

	UpdateAssignmentInTx(ctx context.Context, tx pgx.Tx, customerID int64, collectorID *int64) error

	ListPaymentsBetween(ctx context.Context, from, to time.Time) ([]Payment, error)

	FindIDsPastDue(ctx context.Context, asOf time.Time) ([]int64, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
