package collector

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type CollectorRepository interface {
	Save(ctx context.Context, coll *Collector) error

	// FindByID loads the collector including the derived
	// AssignedCustomers set.
	FindByID(ctx context.Context, collectorID int64) (*Collector, error)

	FindByPhone(ctx context.Context, phone string) (*Collector, error)

	FindAll(ctx context.Context) ([]*Collector, error)

	Delete(ctx context.Context, collectorID int64) error

	// ExistsInTx checks for the collector inside a running transaction,
	// so assignment can verify both sides under one snapshot.
	ExistsInTx(ctx context.Context, tx pgx.Tx, collectorID int64) (bool, error)
}
