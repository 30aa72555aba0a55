package postgres

import (
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/infrastructure/monitoring"
	"collection-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const customerColumns = `id, name, phone, address, area, loan_amount, amount_paid, remaining_amount,
        due_date, status, visit_status, promise_date, assigned_to, created_at, updated_at`

var errMsgFormat = "%w: %w"

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *CustomerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *CustomerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if cust.CustomerID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) error {
	start := time.Now()
	query := `
        INSERT INTO customers (name, phone, address, area, loan_amount, amount_paid, remaining_amount,
            due_date, status, visit_status, promise_date, assigned_to, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		cust.Name,
		cust.Phone,
		cust.Address,
		cust.Area,
		cust.LoanAmount,
		cust.AmountPaid,
		cust.RemainingAmount,
		cust.DueDate,
		cust.Status,
		cust.VisitStatus,
		cust.PromiseDate,
		cust.AssignedTo,
	).Scan(
		&cust.CustomerID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		monitoring.RecordDBQuery("customer_insert", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	monitoring.RecordDBQuery("customer_insert", "ok", time.Since(start))

	// Persist any seeded opening payment so history and totals agree.
	for i := range cust.PaymentHistory {
		entry := &cust.PaymentHistory[i]
		entry.CustomerID = cust.CustomerID
		if entry.ID != 0 {
			continue
		}
		if err := r.insertPayment(ctx, r.db, entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	query := `
        UPDATE customers
        SET name = $1,
            phone = $2,
            address = $3,
            area = $4,
            loan_amount = $5,
            amount_paid = $6,
            remaining_amount = $7,
            due_date = $8,
            status = $9,
            visit_status = $10,
            promise_date = $11,
            updated_at = NOW()
        WHERE id = $12`

	cmdTag, err := r.db.Exec(ctx, query,
		cust.Name,
		cust.Phone,
		cust.Address,
		cust.Area,
		cust.LoanAmount,
		cust.AmountPaid,
		cust.RemainingAmount,
		cust.DueDate,
		cust.Status,
		cust.VisitStatus,
		cust.PromiseDate,
		cust.CustomerID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1`

	cust, err := r.scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	if err := r.loadPaymentHistory(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

func (r *CustomerRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1
        FOR UPDATE`

	cust, err := r.scanCustomer(tx.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock customer row", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to lock customer row: %w", apperrors.ErrDatabase, err)
	}
	return cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, filter customer.Filter) ([]*customer.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers`

	var (
		conditions []string
		args       []any
	)
	addCondition := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Search != "" {
		addCondition("(name ILIKE $%[1]d OR phone ILIKE $%[1]d OR area ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	if filter.Area != "" {
		addCondition("area = $%d", filter.Area)
	}
	if filter.AssignedTo != nil {
		addCondition("assigned_to = $%d", *filter.AssignedTo)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += "\n        WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += "\n        ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := r.scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: customer row iteration failed: %w", apperrors.ErrDatabase, err)
	}
	return customers, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	// Payment rows go with the customer (ON DELETE CASCADE); the
	// assignment needs no cleanup because it lives on this row.
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *CustomerRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment *customer.Payment) error {
	return r.insertPayment(ctx, tx, payment)
}

func (r *CustomerRepository) insertPayment(ctx context.Context, q execQuerier, payment *customer.Payment) error {
	query := `
        INSERT INTO payments (customer_id, amount, paid_at)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := q.QueryRow(ctx, query, payment.CustomerID, payment.Amount, payment.PaidAt).Scan(&payment.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert payment", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *CustomerRepository) UpdateFinancialsInTx(ctx context.Context, tx pgx.Tx, cust *customer.Customer) error {
	query := `
        UPDATE customers
        SET amount_paid = $1,
            remaining_amount = $2,
            status = $3,
            updated_at = NOW()
        WHERE id = $4`

	cmdTag, err := tx.Exec(ctx, query, cust.AmountPaid, cust.RemainingAmount, cust.Status, cust.CustomerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer financials", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) UpdateAssignmentInTx(ctx context.Context, tx pgx.Tx, customerID int64, collectorID *int64) error {
	query := `
        UPDATE customers
        SET assigned_to = $1,
            updated_at = NOW()
        WHERE id = $2`

	cmdTag, err := tx.Exec(ctx, query, collectorID, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer assignment", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) ListPaymentsBetween(ctx context.Context, from, to time.Time) ([]customer.Payment, error) {
	query := `
        SELECT id, customer_id, amount, paid_at
        FROM payments
        WHERE paid_at >= $1 AND paid_at < $2
        ORDER BY id`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list payments: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments := make([]customer.Payment, 0)
	for rows.Next() {
		var p customer.Payment
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan payment row: %w", apperrors.ErrDatabase, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: payment row iteration failed: %w", apperrors.ErrDatabase, err)
	}
	return payments, nil
}

func (r *CustomerRepository) FindIDsPastDue(ctx context.Context, asOf time.Time) ([]int64, error) {
	query := `
        SELECT id
        FROM customers
        WHERE status = $1 AND due_date < $2 AND remaining_amount > 0
        ORDER BY id`

	rows, err := r.db.Query(ctx, query, customer.StatusPending, asOf)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query past-due customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list past-due customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: failed to scan past-due id: %w", apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: past-due row iteration failed: %w", apperrors.ErrDatabase, err)
	}
	return ids, nil
}

func (r *CustomerRepository) loadPaymentHistory(ctx context.Context, cust *customer.Customer) error {
	query := `
        SELECT id, customer_id, amount, paid_at
        FROM payments
        WHERE customer_id = $1
        ORDER BY id`

	rows, err := r.db.Query(ctx, query, cust.CustomerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payment history", slog.Any("error", err))
		return fmt.Errorf("%w: failed to load payment history: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	history := make([]customer.Payment, 0)
	for rows.Next() {
		var p customer.Payment
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &p.PaidAt); err != nil {
			return fmt.Errorf("%w: failed to scan payment history row: %w", apperrors.ErrDatabase, err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: payment history iteration failed: %w", apperrors.ErrDatabase, err)
	}
	cust.PaymentHistory = history
	return nil
}

func (r *CustomerRepository) scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.CustomerID,
		&cust.Name,
		&cust.Phone,
		&cust.Address,
		&cust.Area,
		&cust.LoanAmount,
		&cust.AmountPaid,
		&cust.RemainingAmount,
		&cust.DueDate,
		&cust.Status,
		&cust.VisitStatus,
		&cust.PromiseDate,
		&cust.AssignedTo,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}
		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
