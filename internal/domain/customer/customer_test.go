package customer

import (
	"collection-engine/internal/pkg/apperrors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCustomer(t *testing.T) {
	dueDate := time.Now().AddDate(0, 1, 0)

	t.Run("should error when name is empty", func(t *testing.T) {
		cust, err := NewCustomer("", "9876543210", "12 Market Rd", "North", 5000, dueDate)
		assert.Error(t, err)
		assert.Nil(t, cust)
	})

	t.Run("should error when phone is empty", func(t *testing.T) {
		cust, err := NewCustomer("Ravi Kumar", "", "12 Market Rd", "North", 5000, dueDate)
		assert.Error(t, err)
		assert.Nil(t, cust)
	})

	t.Run("should error when loan amount is negative", func(t *testing.T) {
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", -1, dueDate)
		assert.Error(t, err)
		assert.Nil(t, cust)
	})

	t.Run("should error when due date is zero", func(t *testing.T) {
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", 5000, time.Time{})
		assert.Error(t, err)
		assert.Nil(t, cust)
	})

	t.Run("should create a pending customer with derived fields", func(t *testing.T) {
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", 5000, dueDate)
		assert.NoError(t, err)
		assert.NotNil(t, cust)
		assert.Equal(t, StatusPending, cust.Status)
		assert.Equal(t, VisitNotVisited, cust.VisitStatus)
		assert.Equal(t, 5000.0, cust.RemainingAmount)
		assert.Equal(t, 0.0, cust.AmountPaid)
	})

	t.Run("should derive overdue when due date already passed", func(t *testing.T) {
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", 5000, time.Now().AddDate(0, 0, -3))
		assert.NoError(t, err)
		assert.Equal(t, StatusOverdue, cust.Status)
	})

	t.Run("should derive paid for a zero loan amount", func(t *testing.T) {
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", 0, dueDate)
		assert.NoError(t, err)
		assert.Equal(t, StatusPaid, cust.Status)
	})
}

func TestApplyPayment(t *testing.T) {
	now := time.Now()
	dueDate := now.AddDate(0, 1, 0)

	newTestCustomer := func(t *testing.T) *Customer {
		t.Helper()
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", 5000, dueDate)
		assert.NoError(t, err)
		cust.CustomerID = 42
		return cust
	}

	t.Run("should reject a zero payment", func(t *testing.T) {
		cust := newTestCustomer(t)
		entry, err := cust.ApplyPayment(0, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentAmount)
		assert.Nil(t, entry)
		assert.Equal(t, 5000.0, cust.RemainingAmount)
	})

	t.Run("should reject a negative payment", func(t *testing.T) {
		cust := newTestCustomer(t)
		_, err := cust.ApplyPayment(-100, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentAmount)
	})

	t.Run("should append history and reduce balance", func(t *testing.T) {
		cust := newTestCustomer(t)
		entry, err := cust.ApplyPayment(1500, now)
		assert.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, int64(42), entry.CustomerID)
		assert.Equal(t, 1500.0, entry.Amount)
		assert.Len(t, cust.PaymentHistory, 1)
		assert.Equal(t, 1500.0, cust.AmountPaid)
		assert.Equal(t, 3500.0, cust.RemainingAmount)
		assert.Equal(t, StatusPending, cust.Status)
	})

	t.Run("should flip to paid when the balance clears exactly", func(t *testing.T) {
		cust := newTestCustomer(t)
		_, err := cust.ApplyPayment(5000, now)
		assert.NoError(t, err)
		assert.Equal(t, StatusPaid, cust.Status)
		assert.Equal(t, 0.0, cust.RemainingAmount)
	})

	t.Run("should clamp remaining at zero on overpayment", func(t *testing.T) {
		cust := newTestCustomer(t)
		_, err := cust.ApplyPayment(6000, now)
		assert.NoError(t, err)
		assert.Equal(t, StatusPaid, cust.Status)
		assert.Equal(t, 0.0, cust.RemainingAmount)
		assert.Equal(t, 6000.0, cust.AmountPaid)
	})

	t.Run("should mark a cleared overdue account as paid", func(t *testing.T) {
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", 5000, now.AddDate(0, 0, -3))
		assert.NoError(t, err)
		assert.Equal(t, StatusOverdue, cust.Status)

		_, err = cust.ApplyPayment(5000, now)
		assert.NoError(t, err)
		assert.Equal(t, StatusPaid, cust.Status)
	})

	t.Run("should accumulate across several payments", func(t *testing.T) {
		cust := newTestCustomer(t)
		for _, amount := range []Money{1000, 2000, 2000} {
			_, err := cust.ApplyPayment(amount, now)
			assert.NoError(t, err)
		}
		assert.Len(t, cust.PaymentHistory, 3)
		assert.Equal(t, 5000.0, cust.AmountPaid)
		assert.Equal(t, StatusPaid, cust.Status)
	})
}

func TestRecalculate(t *testing.T) {
	now := time.Now()

	t.Run("due today is still pending", func(t *testing.T) {
		cust := &Customer{LoanAmount: 5000, DueDate: now}
		cust.Recalculate(now)
		assert.Equal(t, StatusPending, cust.Status)
	})

	t.Run("due yesterday is overdue", func(t *testing.T) {
		cust := &Customer{LoanAmount: 5000, DueDate: now.AddDate(0, 0, -1)}
		cust.Recalculate(now)
		assert.Equal(t, StatusOverdue, cust.Status)
	})

	t.Run("paid wins over overdue", func(t *testing.T) {
		cust := &Customer{LoanAmount: 5000, AmountPaid: 5000, DueDate: now.AddDate(0, 0, -10)}
		cust.Recalculate(now)
		assert.Equal(t, StatusPaid, cust.Status)
		assert.Equal(t, 0.0, cust.RemainingAmount)
	})
}

func TestRecordVisit(t *testing.T) {
	now := time.Now()
	dueDate := now.AddDate(0, 1, 0)

	newTestCustomer := func(t *testing.T) *Customer {
		t.Helper()
		cust, err := NewCustomer("Ravi Kumar", "9876543210", "12 Market Rd", "North", 5000, dueDate)
		assert.NoError(t, err)
		return cust
	}

	t.Run("should reject an unknown visit status", func(t *testing.T) {
		cust := newTestCustomer(t)
		err := cust.RecordVisit("vanished", nil, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidVisitStatus)
	})

	t.Run("should require a promise date for a promised visit", func(t *testing.T) {
		cust := newTestCustomer(t)
		err := cust.RecordVisit(VisitPromised, nil, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPromiseDate)
	})

	t.Run("should reject a promise date on a non-promised visit", func(t *testing.T) {
		cust := newTestCustomer(t)
		promiseDate := now.AddDate(0, 0, 2)
		err := cust.RecordVisit(VisitNotHome, &promiseDate, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPromiseDate)
	})

	t.Run("should record a promised visit with a future date", func(t *testing.T) {
		cust := newTestCustomer(t)
		promiseDate := now.AddDate(0, 0, 2)
		err := cust.RecordVisit(VisitPromised, &promiseDate, now)
		assert.NoError(t, err)
		assert.Equal(t, VisitPromised, cust.VisitStatus)
		assert.NotNil(t, cust.PromiseDate)
	})

	t.Run("should accept a past promise date", func(t *testing.T) {
		cust := newTestCustomer(t)
		promiseDate := now.AddDate(0, 0, -2)
		err := cust.RecordVisit(VisitPromised, &promiseDate, now)
		assert.NoError(t, err)
	})

	t.Run("should clear the promise date on a later non-promised visit", func(t *testing.T) {
		cust := newTestCustomer(t)
		promiseDate := now.AddDate(0, 0, 2)
		assert.NoError(t, cust.RecordVisit(VisitPromised, &promiseDate, now))
		assert.NoError(t, cust.RecordVisit(VisitVisited, nil, now))
		assert.Nil(t, cust.PromiseDate)
	})

	t.Run("should leave financial fields untouched", func(t *testing.T) {
		cust := newTestCustomer(t)
		err := cust.RecordVisit(VisitVisited, nil, now)
		assert.NoError(t, err)
		assert.Equal(t, 5000.0, cust.RemainingAmount)
		assert.Equal(t, StatusPending, cust.Status)
	})
}
