package collector

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockCollectorRepository struct {
	mock.Mock
}

func (_m *MockCollectorRepository) Save(ctx context.Context, coll *Collector) error {
	ret := _m.Called(ctx, coll)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Collector) error); ok {
		r0 = rf(ctx, coll)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCollectorRepository) FindByID(ctx context.Context, collectorID int64) (*Collector, error) {
	ret := _m.Called(ctx, collectorID)

	var r0 *Collector
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Collector)
	}

	return r0, ret.Error(1)
}

func (_m *MockCollectorRepository) FindByPhone(ctx context.Context, phone string) (*Collector, error) {
	ret := _m.Called(ctx, phone)

	var r0 *Collector
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Collector)
	}

	return r0, ret.Error(1)
}

func (_m *MockCollectorRepository) FindAll(ctx context.Context) ([]*Collector, error) {
	ret := _m.Called(ctx)

	var r0 []*Collector
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Collector)
	}

	return r0, ret.Error(1)
}

func (_m *MockCollectorRepository) Delete(ctx context.Context, collectorID int64) error {
	ret := _m.Called(ctx, collectorID)
	return ret.Error(0)
}

func (_m *MockCollectorRepository) ExistsInTx(ctx context.Context, tx pgx.Tx, collectorID int64) (bool, error) {
	ret := _m.Called(ctx, tx, collectorID)
	return ret.Bool(0), ret.Error(1)
}

var _ CollectorRepository = (*MockCollectorRepository)(nil)
