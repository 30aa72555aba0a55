package report

import (
	"collection-engine/internal/domain/customer"
)

type Money = customer.Money

// Summary is the admin dashboard headline view.
type Summary struct {
	TotalCustomers  int   `json:"totalCustomers"`
	TotalRecovered  Money `json:"totalRecovered"`
	TotalPending    Money `json:"totalPending"`
	PaidCount       int   `json:"paidCount"`
	PendingCount    int   `json:"pendingCount"`
	TodayCollection Money `json:"todayCollection"`
}

// CollectorPerformance aggregates one collector's working set.
type CollectorPerformance struct {
	CollectorID    int64                        `json:"collectorId"`
	Name           string                       `json:"name"`
	Area           string                       `json:"area"`
	TotalAssigned  int                          `json:"totalAssigned"`
	TotalRecovered Money                        `json:"totalRecovered"`
	TotalPending   Money                        `json:"totalPending"`
	VisitCounts    map[customer.VisitStatus]int `json:"visitCounts"`
}

// AreaPerformance sums CollectorPerformance across collectors sharing
// an area.
type AreaPerformance struct {
	Area           string `json:"area"`
	Collectors     int    `json:"collectors"`
	TotalAssigned  int    `json:"totalAssigned"`
	TotalRecovered Money  `json:"totalRecovered"`
	TotalPending   Money  `json:"totalPending"`
}

// PromiseBuckets partitions customers with a promise date by calendar
// day: due today, due tomorrow, or already broken.
type PromiseBuckets struct {
	Today    []*customer.Customer `json:"today"`
	Tomorrow []*customer.Customer `json:"tomorrow"`
	Overdue  []*customer.Customer `json:"overdue"`
}

// CollectorDashboard is the headline view a collector sees after login.
type CollectorDashboard struct {
	TotalAssigned int   `json:"totalAssigned"`
	PendingAmount Money `json:"pendingAmount"`
}
