package dto

import (
	"collection-engine/internal/domain/customer"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreateCustomerRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	Area       string  `json:"area"`
	LoanAmount float64 `json:"loanAmount"`
	AmountPaid float64 `json:"amountPaid"`
	DueDate    string  `json:"dueDate"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if r.LoanAmount < 0 {
		return fmt.Errorf("loanAmount cannot be negative")
	}
	if r.AmountPaid < 0 {
		return fmt.Errorf("amountPaid cannot be negative")
	}
	if _, err := time.Parse(dateLayout, r.DueDate); err != nil || r.DueDate == "" {
		return fmt.Errorf("invalid dueDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

func (r *CreateCustomerRequest) ParsedDueDate() time.Time {
	t, _ := time.Parse(dateLayout, r.DueDate)
	return t
}

type UpdateCustomerRequest struct {
	Name       *string  `json:"name,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	Address    *string  `json:"address,omitempty"`
	Area       *string  `json:"area,omitempty"`
	LoanAmount *float64 `json:"loanAmount,omitempty"`
	DueDate    *string  `json:"dueDate,omitempty"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.Phone != nil && strings.TrimSpace(*r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if r.LoanAmount != nil && *r.LoanAmount < 0 {
		return fmt.Errorf("loanAmount cannot be negative")
	}
	if r.DueDate != nil {
		if _, err := time.Parse(dateLayout, *r.DueDate); err != nil {
			return fmt.Errorf("invalid dueDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

func (r *UpdateCustomerRequest) ParsedDueDate() *time.Time {
	if r.DueDate == nil {
		return nil
	}
	t, _ := time.Parse(dateLayout, *r.DueDate)
	return &t
}

type RecordPaymentRequest struct {
	Amount string `json:"amount"`
}

func (r *RecordPaymentRequest) Validate() error {
	if _, err := decimal.NewFromString(r.Amount); err != nil || r.Amount == "" {
		return fmt.Errorf("invalid payment amount: %w", err)
	}
	return nil
}

func (r *RecordPaymentRequest) ParsedAmount() float64 {
	d, _ := decimal.NewFromString(r.Amount)
	f, _ := d.Float64()
	return f
}

type RecordVisitRequest struct {
	VisitStatus string  `json:"visitStatus"`
	PromiseDate *string `json:"promiseDate,omitempty"`
}

func (r *RecordVisitRequest) Validate() error {
	if strings.TrimSpace(r.VisitStatus) == "" {
		return fmt.Errorf("visitStatus cannot be empty")
	}
	if r.PromiseDate != nil {
		if _, err := time.Parse(dateLayout, *r.PromiseDate); err != nil {
			return fmt.Errorf("invalid promiseDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

func (r *RecordVisitRequest) ParsedPromiseDate() *time.Time {
	if r.PromiseDate == nil {
		return nil
	}
	t, _ := time.Parse(dateLayout, *r.PromiseDate)
	return &t
}

// AssignCollectorRequest carries the target collector; a null
// collectorId clears the assignment.
type AssignCollectorRequest struct {
	CollectorID *int64 `json:"collectorId"`
}

func (r *AssignCollectorRequest) Validate() error {
	if r.CollectorID != nil && *r.CollectorID <= 0 {
		return fmt.Errorf("collectorId must be a positive number")
	}
	return nil
}

type PaymentResponse struct {
	ID     string    `json:"id"`
	Amount string    `json:"amount"`
	PaidAt time.Time `json:"paidAt"`
}

type CustomerResponse struct {
	CustomerID      string            `json:"customerId"`
	Name            string            `json:"name"`
	Phone           string            `json:"phone"`
	Address         string            `json:"address"`
	Area            string            `json:"area"`
	LoanAmount      string            `json:"loanAmount"`
	AmountPaid      string            `json:"amountPaid"`
	RemainingAmount string            `json:"remainingAmount"`
	DueDate         string            `json:"dueDate"`
	Status          string            `json:"status"`
	VisitStatus     string            `json:"visitStatus"`
	PromiseDate     *string           `json:"promiseDate,omitempty"`
	AssignedTo      *string           `json:"assignedTo,omitempty"`
	PaymentHistory  []PaymentResponse `json:"paymentHistory,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func formatMoney(m customer.Money) string {
	return decimal.NewFromFloat(m).StringFixed(2)
}

func NewCustomerResponse(cust *customer.Customer, includeHistory bool) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	var promiseDateStr *string
	if cust.PromiseDate != nil {
		s := cust.PromiseDate.Format(dateLayout)
		promiseDateStr = &s
	}

	var assignedToStr *string
	if cust.AssignedTo != nil {
		s := strconv.FormatInt(*cust.AssignedTo, 10)
		assignedToStr = &s
	}

	resp := CustomerResponse{
		CustomerID:      strconv.FormatInt(cust.CustomerID, 10),
		Name:            cust.Name,
		Phone:           cust.Phone,
		Address:         cust.Address,
		Area:            cust.Area,
		LoanAmount:      formatMoney(cust.LoanAmount),
		AmountPaid:      formatMoney(cust.AmountPaid),
		RemainingAmount: formatMoney(cust.RemainingAmount),
		DueDate:         cust.DueDate.Format(dateLayout),
		Status:          string(cust.Status),
		VisitStatus:     string(cust.VisitStatus),
		PromiseDate:     promiseDateStr,
		AssignedTo:      assignedToStr,
		CreatedAt:       cust.CreatedAt,
		UpdatedAt:       cust.UpdatedAt,
	}

	if includeHistory && cust.PaymentHistory != nil {
		resp.PaymentHistory = make([]PaymentResponse, len(cust.PaymentHistory))
		for i, entry := range cust.PaymentHistory {
			resp.PaymentHistory[i] = PaymentResponse{
				ID:     strconv.FormatInt(entry.ID, 10),
				Amount: formatMoney(entry.Amount),
				PaidAt: entry.PaidAt,
			}
		}
	}

	return resp
}
