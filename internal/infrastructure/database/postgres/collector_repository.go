package postgres

import (
	"collection-engine/internal/domain/collector"
	"collection-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

type CollectorRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ collector.CollectorRepository = (*CollectorRepository)(nil)

func NewCollectorRepository(db DBPool, logger *slog.Logger) *CollectorRepository {
	if db == nil {
		panic("DBPool cannot be nil for CollectorRepository")
	}
	return &CollectorRepository{
		db:     db,
		logger: logger.With("component", "CollectorRepository"),
	}
}

func (r *CollectorRepository) Save(ctx context.Context, coll *collector.Collector) error {
	if coll == nil {
		return fmt.Errorf("%w: collector cannot be nil", apperrors.ErrInvalidArgument)
	}
	if coll.CollectorID == 0 {
		return r.createCollector(ctx, coll)
	}
	return r.updateCollector(ctx, coll)
}

func (r *CollectorRepository) createCollector(ctx context.Context, coll *collector.Collector) error {
	query := `
        INSERT INTO collectors (name, phone, area, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		coll.Name,
		coll.Phone,
		coll.Area,
		coll.PasswordHash,
	).Scan(
		&coll.CollectorID,
		&coll.CreatedAt,
		&coll.UpdatedAt,
	)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Collector insert hit unique phone constraint")
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert collector", slog.Any("error", err))
		return translated
	}
	return nil
}

func (r *CollectorRepository) updateCollector(ctx context.Context, coll *collector.Collector) error {
	query := `
        UPDATE collectors
        SET name = $1,
            phone = $2,
            area = $3,
            password_hash = $4,
            updated_at = NOW()
        WHERE id = $5`

	cmdTag, err := r.db.Exec(ctx, query,
		coll.Name,
		coll.Phone,
		coll.Area,
		coll.PasswordHash,
		coll.CollectorID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update collector", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CollectorRepository) FindByID(ctx context.Context, collectorID int64) (*collector.Collector, error) {
	query := `
        SELECT id, name, phone, area, password_hash, created_at, updated_at
        FROM collectors
        WHERE id = $1`

	coll, err := r.scanCollector(r.db.QueryRow(ctx, query, collectorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Collector not found", slog.Int64("collectorID", collectorID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query collector by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get collector by ID: %w", apperrors.ErrDatabase, err)
	}

	if err := r.loadAssignedCustomers(ctx, coll); err != nil {
		return nil, err
	}
	return coll, nil
}

func (r *CollectorRepository) FindByPhone(ctx context.Context, phone string) (*collector.Collector, error) {
	query := `
        SELECT id, name, phone, area, password_hash, created_at, updated_at
        FROM collectors
        WHERE phone = $1`

	coll, err := r.scanCollector(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query collector by phone", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get collector by phone: %w", apperrors.ErrDatabase, err)
	}
	return coll, nil
}

func (r *CollectorRepository) FindAll(ctx context.Context) ([]*collector.Collector, error) {
	query := `
        SELECT id, name, phone, area, password_hash, created_at, updated_at
        FROM collectors
        ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query collectors", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list collectors: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	collectors := make([]*collector.Collector, 0)
	for rows.Next() {
		coll, err := r.scanCollector(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan collector row: %w", apperrors.ErrDatabase, err)
		}
		collectors = append(collectors, coll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: collector row iteration failed: %w", apperrors.ErrDatabase, err)
	}
	return collectors, nil
}

func (r *CollectorRepository) Delete(ctx context.Context, collectorID int64) error {
	// Customers assigned to the collector fall back to unassigned
	// (ON DELETE SET NULL on customers.assigned_to).
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM collectors WHERE id = $1`, collectorID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete collector", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CollectorRepository) ExistsInTx(ctx context.Context, tx pgx.Tx, collectorID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM collectors WHERE id = $1)`, collectorID).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check collector existence", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check collector existence: %w", apperrors.ErrDatabase, err)
	}
	return exists, nil
}

// loadAssignedCustomers derives the working set from the customers side
// of the relation.
func (r *CollectorRepository) loadAssignedCustomers(ctx context.Context, coll *collector.Collector) error {
	rows, err := r.db.Query(ctx, `SELECT id FROM customers WHERE assigned_to = $1 ORDER BY id`, coll.CollectorID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query assigned customers", slog.Any("error", err))
		return fmt.Errorf("%w: failed to load assigned customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	assigned := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("%w: failed to scan assigned customer id: %w", apperrors.ErrDatabase, err)
		}
		assigned = append(assigned, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: assigned customer iteration failed: %w", apperrors.ErrDatabase, err)
	}
	coll.AssignedCustomers = assigned
	return nil
}

func (r *CollectorRepository) scanCollector(row pgx.Row) (*collector.Collector, error) {
	var coll collector.Collector
	err := row.Scan(
		&coll.CollectorID,
		&coll.Name,
		&coll.Phone,
		&coll.Area,
		&coll.PasswordHash,
		&coll.CreatedAt,
		&coll.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coll, nil
}
