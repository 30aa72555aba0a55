package customer

import (
	"collection-engine/internal/pkg/apperrors"
	"collection-engine/internal/pkg/timeutil"
	"fmt"
	"time"
)

type Money = float64

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

type VisitStatus string

const (
	VisitNotVisited   VisitStatus = "not_visited"
	VisitVisited      VisitStatus = "visited"
	VisitNotHome      VisitStatus = "not_home"
	VisitWrongAddress VisitStatus = "wrong_address"
	VisitPromised     VisitStatus = "promised"
	VisitShifted      VisitStatus = "shifted"
)

func (v VisitStatus) Valid() bool {
	switch v {
	case VisitNotVisited, VisitVisited, VisitNotHome, VisitWrongAddress, VisitPromised, VisitShifted:
		return true
	}
	return false
}

// Payment is one entry of a customer's append-only payment history.
type Payment struct {
	ID         int64
	CustomerID int64
	Amount     Money
	PaidAt     time.Time
}

type Customer struct {
	CustomerID int64
	Name       string
	Phone      string
	Address    string
	Area       string

	LoanAmount      Money
	AmountPaid      Money
	RemainingAmount Money
	DueDate         time.Time
	Status          Status

	VisitStatus VisitStatus
	PromiseDate *time.Time

	// AssignedTo is written only through the assignment manager.
	AssignedTo *int64

	PaymentHistory []Payment

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCustomer(name, phone, address, area string, loanAmount Money, dueDate time.Time) (*Customer, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if phone == "" {
		return nil, apperrors.NewValidationError("phone", "cannot be empty")
	}
	if loanAmount < 0 {
		return nil, apperrors.NewValidationError("loanAmount", "cannot be negative")
	}
	if dueDate.IsZero() {
		return nil, apperrors.NewValidationError("dueDate", "is required")
	}

	c := &Customer{
		Name:        name,
		Phone:       phone,
		Address:     address,
		Area:        area,
		LoanAmount:  loanAmount,
		DueDate:     dueDate,
		VisitStatus: VisitNotVisited,
	}
	c.Recalculate(timeutil.Now())
	return c, nil
}

// Recalculate is the single derivation point for RemainingAmount and
// Status. Every mutation path must go through it; callers never set the
// derived fields directly.
//
// The remaining balance floors at zero on overpayment; the raw balance
// still decides the paid flag, so "paid" means exactly
// loanAmount - amountPaid <= 0.
func (c *Customer) Recalculate(now time.Time) {
	raw := c.LoanAmount - c.AmountPaid

	c.RemainingAmount = raw
	if c.RemainingAmount < 0 {
		c.RemainingAmount = 0
	}

	switch {
	case raw <= 0:
		c.Status = StatusPaid
	case timeutil.BeforeDay(c.DueDate, now):
		c.Status = StatusOverdue
	default:
		c.Status = StatusPending
	}
}

// ApplyPayment appends a payment to the history and re-derives the
// balance and status. The returned entry is the one appended.
func (c *Customer) ApplyPayment(amount Money, now time.Time) (*Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount %.2f must be positive", apperrors.ErrInvalidPaymentAmount, amount)
	}

	entry := Payment{
		CustomerID: c.CustomerID,
		Amount:     amount,
		PaidAt:     now,
	}
	c.PaymentHistory = append(c.PaymentHistory, entry)
	c.AmountPaid += amount
	c.Recalculate(now)
	c.UpdatedAt = now

	return &c.PaymentHistory[len(c.PaymentHistory)-1], nil
}

// RecordVisit overwrites the visit outcome. A promise date is required
// only when the outcome is "promised"; any other outcome must not carry
// one. A promise date in the past is accepted (it shows up in the
// broken-promise bucket of the reports). Financial fields are untouched.
func (c *Customer) RecordVisit(status VisitStatus, promiseDate *time.Time, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidVisitStatus, status)
	}

	if status == VisitPromised {
		if promiseDate == nil {
			return fmt.Errorf("%w: promise date is required for a promised visit", apperrors.ErrInvalidPromiseDate)
		}
	} else if promiseDate != nil {
		return fmt.Errorf("%w: promise date only applies to a promised visit", apperrors.ErrInvalidPromiseDate)
	}

	c.VisitStatus = status
	c.PromiseDate = promiseDate
	c.UpdatedAt = now
	return nil
}
