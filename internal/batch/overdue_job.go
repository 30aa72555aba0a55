package batch

import (
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/pkg/apperrors"
	"collection-engine/internal/pkg/timeutil"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// OverdueSweepJob re-derives the status of every account whose due date
// passed without any payment or edit touching it. Without the sweep
// such accounts would sit in "pending" until the next mutation.
type OverdueSweepJob struct {
	customerRepo    customer.CustomerRepository
	customerService customer.CustomerService
	logger          *slog.Logger
}

func NewOverdueSweepJob(
	customerRepo customer.CustomerRepository,
	customerSvc customer.CustomerService,
	logger *slog.Logger,
) *OverdueSweepJob {
	if customerRepo == nil || customerSvc == nil || logger == nil {
		panic("OverdueSweepJob dependencies cannot be nil")
	}
	return &OverdueSweepJob{
		customerRepo:    customerRepo,
		customerService: customerSvc,
		logger:          logger.With("job", "OverdueSweep"),
	}
}

func (j *OverdueSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting overdue status sweep job.")

	candidateIDs, err := j.customerRepo.FindIDsPastDue(ctx, timeutil.Now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to get past-due customer IDs, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run sweep, failed to get past-due customers: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched past-due candidates.", slog.Int("count", len(candidateIDs)))

	if len(candidateIDs) == 0 {
		j.logger.InfoContext(ctx, "No past-due accounts to process.")
		j.logger.InfoContext(ctx, "Overdue status sweep job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var processedCount, errorCount atomic.Int32

	for _, customerID := range candidateIDs {
		wg.Add(1)
		go func(currentID int64) {
			defer wg.Done()

			logCtx := j.logger.With(slog.Int64("customerID", currentID))

			if refreshErr := j.customerService.RefreshStatus(ctx, currentID); refreshErr != nil {
				if errors.Is(refreshErr, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Customer not found during sweep (deleted since candidate scan?)", slog.Any("error", refreshErr))
				} else {
					logCtx.ErrorContext(ctx, "Failed to refresh customer status", slog.Any("error", refreshErr))
					errorCount.Add(1)
				}
				return
			}
			processedCount.Add(1)
		}(customerID)
	}

	wg.Wait()
	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("candidates", len(candidateIDs)),
		slog.Int("processed", int(processedCount.Load())),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)
	if errorCount.Load() > 0 {
		summaryLog.WarnContext(ctx, "Overdue status sweep job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount.Load())
	}
	summaryLog.InfoContext(ctx, "Overdue status sweep job finished successfully.")
	return nil
}
