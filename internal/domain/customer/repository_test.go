package customer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Save(ctx context.Context, cust *Customer) error {
	ret := _m.Called(ctx, cust)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, cust)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Customer); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Customer)
		}
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindAll(ctx context.Context, filter Filter) ([]*Customer, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Delete(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, tx, customerID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment *Payment) error {
	ret := _m.Called(ctx, tx, payment)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) UpdateFinancialsInTx(ctx context.Context, tx pgx.Tx, cust *Customer) error {
	ret := _m.Called(ctx, tx, cust)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) UpdateAssignmentInTx(ctx context.Context, tx pgx.Tx, customerID int64, collectorID *int64) error {
	ret := _m.Called(ctx, tx, customerID, collectorID)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) ListPaymentsBetween(ctx context.Context, from, to time.Time) ([]Payment, error) {
	ret := _m.Called(ctx, from, to)

	var r0 []Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Payment)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindIDsPastDue(ctx context.Context, asOf time.Time) ([]int64, error) {
	ret := _m.Called(ctx, asOf)

	var r0 []int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]int64)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

var _ CustomerRepository = (*MockCustomerRepository)(nil)
