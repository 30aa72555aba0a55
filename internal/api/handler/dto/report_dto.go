package dto

import (
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/domain/report"
	"strconv"
)

type SummaryResponse struct {
	TotalCustomers  int    `json:"totalCustomers"`
	TotalRecovered  string `json:"totalRecovered"`
	TotalPending    string `json:"totalPending"`
	PaidCount       int    `json:"paidCount"`
	PendingCount    int    `json:"pendingCount"`
	TodayCollection string `json:"todayCollection"`
}

func NewSummaryResponse(s *report.Summary) SummaryResponse {
	if s == nil {
		return SummaryResponse{}
	}
	return SummaryResponse{
		TotalCustomers:  s.TotalCustomers,
		TotalRecovered:  formatMoney(s.TotalRecovered),
		TotalPending:    formatMoney(s.TotalPending),
		PaidCount:       s.PaidCount,
		PendingCount:    s.PendingCount,
		TodayCollection: formatMoney(s.TodayCollection),
	}
}

type CollectorPerformanceResponse struct {
	CollectorID    string         `json:"collectorId"`
	Name           string         `json:"name"`
	Area           string         `json:"area"`
	TotalAssigned  int            `json:"totalAssigned"`
	TotalRecovered string         `json:"totalRecovered"`
	TotalPending   string         `json:"totalPending"`
	VisitCounts    map[string]int `json:"visitCounts"`
}

func NewCollectorPerformanceResponse(p *report.CollectorPerformance) CollectorPerformanceResponse {
	visitCounts := make(map[string]int, len(p.VisitCounts))
	for status, count := range p.VisitCounts {
		visitCounts[string(status)] = count
	}
	return CollectorPerformanceResponse{
		CollectorID:    strconv.FormatInt(p.CollectorID, 10),
		Name:           p.Name,
		Area:           p.Area,
		TotalAssigned:  p.TotalAssigned,
		TotalRecovered: formatMoney(p.TotalRecovered),
		TotalPending:   formatMoney(p.TotalPending),
		VisitCounts:    visitCounts,
	}
}

type AreaPerformanceResponse struct {
	Area           string `json:"area"`
	Collectors     int    `json:"collectors"`
	TotalAssigned  int    `json:"totalAssigned"`
	TotalRecovered string `json:"totalRecovered"`
	TotalPending   string `json:"totalPending"`
}

func NewAreaPerformanceResponse(a *report.AreaPerformance) AreaPerformanceResponse {
	return AreaPerformanceResponse{
		Area:           a.Area,
		Collectors:     a.Collectors,
		TotalAssigned:  a.TotalAssigned,
		TotalRecovered: formatMoney(a.TotalRecovered),
		TotalPending:   formatMoney(a.TotalPending),
	}
}

type PromiseBucketsResponse struct {
	Today    []CustomerResponse `json:"today"`
	Tomorrow []CustomerResponse `json:"tomorrow"`
	Overdue  []CustomerResponse `json:"overdue"`
}

func NewPromiseBucketsResponse(b *report.PromiseBuckets) PromiseBucketsResponse {
	toResponses := func(customers []*customer.Customer) []CustomerResponse {
		out := make([]CustomerResponse, len(customers))
		for i, c := range customers {
			out[i] = NewCustomerResponse(c, false)
		}
		return out
	}
	return PromiseBucketsResponse{
		Today:    toResponses(b.Today),
		Tomorrow: toResponses(b.Tomorrow),
		Overdue:  toResponses(b.Overdue),
	}
}

type CollectorDashboardResponse struct {
	TotalAssigned int    `json:"totalAssigned"`
	PendingAmount string `json:"pendingAmount"`
}

func NewCollectorDashboardResponse(d *report.CollectorDashboard) CollectorDashboardResponse {
	if d == nil {
		return CollectorDashboardResponse{}
	}
	return CollectorDashboardResponse{
		TotalAssigned: d.TotalAssigned,
		PendingAmount: formatMoney(d.PendingAmount),
	}
}
