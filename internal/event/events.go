package event

import (
	"context"
	"time"
)

type CustomerPayload struct {
	CustomerID      int64   `json:"customerId"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Area            string  `json:"area"`
	LoanAmount      float64 `json:"loanAmount"`
	AmountPaid      float64 `json:"amountPaid"`
	RemainingAmount float64 `json:"remainingAmount"`
	Status          string  `json:"status"`
	AssignedTo      *int64  `json:"assignedTo,omitempty"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Payload   CustomerPayload `json:"payload"`
}

type PaymentRecordedEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	CustomerID      int64     `json:"customerId"`
	Amount          float64   `json:"amount"`
	RemainingAmount float64   `json:"remainingAmount"`
	Status          string    `json:"status"`
}

type CustomerAssignedEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	CustomerID  int64     `json:"customerId"`
	CollectorID *int64    `json:"collectorId,omitempty"`
	PreviousID  *int64    `json:"previousCollectorId,omitempty"`
}

func NewCustomerCreatedEvent(payload CustomerPayload) CustomerCreatedEvent {
	return CustomerCreatedEvent{Timestamp: time.Now(), Payload: payload}
}

func NewPaymentRecordedEvent(customerID int64, amount, remaining float64, status string) PaymentRecordedEvent {
	return PaymentRecordedEvent{
		Timestamp:       time.Now(),
		CustomerID:      customerID,
		Amount:          amount,
		RemainingAmount: remaining,
		Status:          status,
	}
}

func NewCustomerAssignedEvent(customerID int64, collectorID, previousID *int64) CustomerAssignedEvent {
	return CustomerAssignedEvent{
		Timestamp:   time.Now(),
		CustomerID:  customerID,
		CollectorID: collectorID,
		PreviousID:  previousID,
	}
}

type Publisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error
	PublishCustomerAssigned(ctx context.Context, event CustomerAssignedEvent) error
}

// NoopPublisher is used when RabbitMQ is disabled in configuration.
type NoopPublisher struct{}

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error {
	return nil
}

func (NoopPublisher) PublishPaymentRecorded(context.Context, PaymentRecordedEvent) error {
	return nil
}

func (NoopPublisher) PublishCustomerAssigned(context.Context, CustomerAssignedEvent) error {
	return nil
}

var _ Publisher = NoopPublisher{}
