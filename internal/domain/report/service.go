package report

import (
	"collection-engine/internal/domain/collector"
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/pkg/apperrors"
	"collection-engine/internal/pkg/timeutil"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// ReportService derives every view by scanning the entity store; it
// holds no state of its own and never writes.
type ReportService interface {
	GetSummary(ctx context.Context) (*Summary, error)
	GetCollectorPerformance(ctx context.Context) ([]CollectorPerformance, error)
	GetAreaReport(ctx context.Context) ([]AreaPerformance, error)
	GetPromiseBuckets(ctx context.Context) (*PromiseBuckets, error)
	GetCollectorDashboard(ctx context.Context, collectorID int64) (*CollectorDashboard, error)
}

var _ ReportService = (*reportService)(nil)

type reportService struct {
	customers  customer.CustomerRepository
	collectors collector.CollectorRepository
	logger     *slog.Logger
}

func NewReportService(customers customer.CustomerRepository, collectors collector.CollectorRepository, logger *slog.Logger) ReportService {
	if customers == nil || collectors == nil {
		panic("report service repositories cannot be nil")
	}
	return &reportService{
		customers:  customers,
		collectors: collectors,
		logger:     logger.With(slog.String("component", "reportService")),
	}
}

func (s *reportService) GetSummary(ctx context.Context) (*Summary, error) {
	customers, err := s.customers.FindAll(ctx, customer.Filter{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to scan customers for summary", slog.Any("error", err))
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	summary := &Summary{TotalCustomers: len(customers)}
	for _, c := range customers {
		summary.TotalRecovered += c.AmountPaid
		summary.TotalPending += c.RemainingAmount
		if c.Status == customer.StatusPaid {
			summary.PaidCount++
		} else {
			summary.PendingCount++
		}
	}

	now := timeutil.Now()
	payments, err := s.customers.ListPaymentsBetween(ctx, timeutil.StartOfDay(now), timeutil.StartOfDay(now).AddDate(0, 0, 1))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to scan today's payments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	for _, p := range payments {
		summary.TodayCollection += p.Amount
	}

	return summary, nil
}

func (s *reportService) GetCollectorPerformance(ctx context.Context) ([]CollectorPerformance, error) {
	collectors, customersByCollector, err := s.scanAssignments(ctx)
	if err != nil {
		return nil, err
	}

	perf := make([]CollectorPerformance, 0, len(collectors))
	for _, coll := range collectors {
		entry := CollectorPerformance{
			CollectorID: coll.CollectorID,
			Name:        coll.Name,
			Area:        coll.Area,
			VisitCounts: make(map[customer.VisitStatus]int),
		}
		for _, c := range customersByCollector[coll.CollectorID] {
			entry.TotalAssigned++
			entry.TotalRecovered += c.AmountPaid
			entry.TotalPending += c.RemainingAmount
			entry.VisitCounts[c.VisitStatus]++
		}
		perf = append(perf, entry)
	}
	return perf, nil
}

func (s *reportService) GetAreaReport(ctx context.Context) ([]AreaPerformance, error) {
	perCollector, err := s.GetCollectorPerformance(ctx)
	if err != nil {
		return nil, err
	}

	byArea := make(map[string]*AreaPerformance)
	for _, p := range perCollector {
		area, ok := byArea[p.Area]
		if !ok {
			area = &AreaPerformance{Area: p.Area}
			byArea[p.Area] = area
		}
		area.Collectors++
		area.TotalAssigned += p.TotalAssigned
		area.TotalRecovered += p.TotalRecovered
		area.TotalPending += p.TotalPending
	}

	areas := make([]AreaPerformance, 0, len(byArea))
	for _, a := range byArea {
		areas = append(areas, *a)
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].Area < areas[j].Area })
	return areas, nil
}

func (s *reportService) GetPromiseBuckets(ctx context.Context) (*PromiseBuckets, error) {
	customers, err := s.customers.FindAll(ctx, customer.Filter{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to scan customers for promise buckets", slog.Any("error", err))
		return nil, fmt.Errorf("failed to build promise buckets: %w", err)
	}

	now := timeutil.Now()
	buckets := &PromiseBuckets{
		Today:    []*customer.Customer{},
		Tomorrow: []*customer.Customer{},
		Overdue:  []*customer.Customer{},
	}
	for _, c := range customers {
		bucketPromise(buckets, c, now)
	}
	return buckets, nil
}

func bucketPromise(buckets *PromiseBuckets, c *customer.Customer, now time.Time) {
	if c.PromiseDate == nil {
		return
	}
	switch {
	case timeutil.SameDay(*c.PromiseDate, now):
		buckets.Today = append(buckets.Today, c)
	case timeutil.SameDay(*c.PromiseDate, now.AddDate(0, 0, 1)):
		buckets.Tomorrow = append(buckets.Tomorrow, c)
	case timeutil.BeforeDay(*c.PromiseDate, now):
		buckets.Overdue = append(buckets.Overdue, c)
	}
}

func (s *reportService) GetCollectorDashboard(ctx context.Context, collectorID int64) (*CollectorDashboard, error) {
	if _, err := s.collectors.FindByID(ctx, collectorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load collector %d: %w", collectorID, err)
	}

	assigned, err := s.customers.FindAll(ctx, customer.Filter{AssignedTo: &collectorID})
	if err != nil {
		return nil, fmt.Errorf("failed to scan assigned customers: %w", err)
	}

	dash := &CollectorDashboard{TotalAssigned: len(assigned)}
	for _, c := range assigned {
		dash.PendingAmount += c.RemainingAmount
	}
	return dash, nil
}

func (s *reportService) scanAssignments(ctx context.Context) ([]*collector.Collector, map[int64][]*customer.Customer, error) {
	collectors, err := s.collectors.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to scan collectors", slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to scan collectors: %w", err)
	}

	customers, err := s.customers.FindAll(ctx, customer.Filter{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to scan customers", slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to scan customers: %w", err)
	}

	byCollector := make(map[int64][]*customer.Customer)
	for _, c := range customers {
		if c.AssignedTo != nil {
			byCollector[*c.AssignedTo] = append(byCollector[*c.AssignedTo], c)
		}
	}
	return collectors, byCollector, nil
}
