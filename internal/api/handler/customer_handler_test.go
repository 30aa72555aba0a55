package handler_test

import (
	"bytes"
	"collection-engine/internal/api/handler"
	"collection-engine/internal/api/handler/dto"
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/pkg/apperrors"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) CreateCustomer(ctx context.Context, params customer.CreateParams) (*customer.Customer, error) {
	ret := _m.Called(ctx, params)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) ListCustomers(ctx context.Context, filter customer.Filter) ([]*customer.Customer, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID int64, params customer.UpdateParams) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, params)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	return _m.Called(ctx, customerID).Error(0)
}

func (_m *MockCustomerService) RecordPayment(ctx context.Context, customerID int64, amount customer.Money) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, amount)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) RecordVisit(ctx context.Context, customerID int64, status customer.VisitStatus, promiseDate *time.Time) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, status, promiseDate)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) RefreshStatus(ctx context.Context, customerID int64) error {
	return _m.Called(ctx, customerID).Error(0)
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

type MockAssignmentService struct {
	mock.Mock
}

func (_m *MockAssignmentService) AssignCustomer(ctx context.Context, customerID, collectorID int64) error {
	return _m.Called(ctx, customerID, collectorID).Error(0)
}

func (_m *MockAssignmentService) UnassignCustomer(ctx context.Context, customerID int64) error {
	return _m.Called(ctx, customerID).Error(0)
}

func withCustomerID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("customerID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newCustomerHandler() (*MockCustomerService, *MockAssignmentService, *handler.CustomerHandler) {
	mockService := new(MockCustomerService)
	mockAssignments := new(MockAssignmentService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return mockService, mockAssignments, handler.NewCustomerHandler(mockService, mockAssignments, logger)
}

func sampleCustomer() *customer.Customer {
	return &customer.Customer{
		CustomerID:      1,
		Name:            "Ramesh Kumar",
		Phone:           "9876543210",
		Area:            "North",
		LoanAmount:      5000,
		AmountPaid:      2000,
		RemainingAmount: 3000,
		DueDate:         time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:          customer.StatusPending,
		VisitStatus:     customer.VisitNotVisited,
	}
}

func TestCreateCustomer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		reqBody := dto.CreateCustomerRequest{
			Name:       "Ramesh Kumar",
			Phone:      "9876543210",
			Area:       "North",
			LoanAmount: 5000,
			DueDate:    "2026-09-15",
		}
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewReader(reqBodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mockService.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(p customer.CreateParams) bool {
			return p.Name == reqBody.Name && p.Phone == reqBody.Phone && p.LoanAmount == 5000
		})).Return(sampleCustomer(), nil)

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CustomerResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, strconv.FormatInt(1, 10), resp.CustomerID)
		assert.Equal(t, "3000.00", resp.RemainingAmount)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid payload", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateCustomer")
	})

	t.Run("duplicate phone", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		reqBody := dto.CreateCustomerRequest{Name: "Ramesh", Phone: "9876543210", LoanAmount: 5000, DueDate: "2026-09-15"}
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewReader(reqBodyBytes))
		rec := httptest.NewRecorder()

		mockService.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, apperrors.ErrConflict)

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetCustomer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		mockService.On("GetCustomer", mock.Anything, int64(1)).Return(sampleCustomer(), nil)

		req := withCustomerID(httptest.NewRequest(http.MethodGet, "/customers/1", nil), "1")
		rec := httptest.NewRecorder()

		h.GetCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CustomerResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "1", resp.CustomerID)
		assert.Equal(t, "pending", resp.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid customer ID", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		req := withCustomerID(httptest.NewRequest(http.MethodGet, "/customers/abc", nil), "abc")
		rec := httptest.NewRecorder()

		h.GetCustomer(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetCustomer")
	})

	t.Run("customer not found", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		mockService.On("GetCustomer", mock.Anything, int64(2)).Return(nil, apperrors.ErrNotFound)

		req := withCustomerID(httptest.NewRequest(http.MethodGet, "/customers/2", nil), "2")
		rec := httptest.NewRecorder()

		h.GetCustomer(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListCustomers(t *testing.T) {
	t.Run("passes query filters through", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		mockService.On("ListCustomers", mock.Anything, mock.MatchedBy(func(f customer.Filter) bool {
			return f.Search == "ramesh" && f.Area == "North" && f.AssignedTo != nil && *f.AssignedTo == 7
		})).Return([]*customer.Customer{sampleCustomer()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/customers?search=ramesh&area=North&assignedTo=7", nil)
		rec := httptest.NewRecorder()

		h.ListCustomers(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.CustomerResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects malformed assignedTo", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		req := httptest.NewRequest(http.MethodGet, "/customers?assignedTo=abc", nil)
		rec := httptest.NewRecorder()

		h.ListCustomers(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "ListCustomers")
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		paid := sampleCustomer()
		paid.AmountPaid = 2500
		paid.RemainingAmount = 2500
		mockService.On("RecordPayment", mock.Anything, int64(1), 500.0).Return(paid, nil)

		body, _ := json.Marshal(dto.RecordPaymentRequest{Amount: "500"})
		req := withCustomerID(httptest.NewRequest(http.MethodPost, "/customers/1/payments", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.RecordPayment(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CustomerResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2500.00", resp.RemainingAmount)
		mockService.AssertExpectations(t)
	})

	t.Run("malformed amount", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		body, _ := json.Marshal(dto.RecordPaymentRequest{Amount: "lots"})
		req := withCustomerID(httptest.NewRequest(http.MethodPost, "/customers/1/payments", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.RecordPayment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "RecordPayment")
	})

	t.Run("non-positive amount rejected by service", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		mockService.On("RecordPayment", mock.Anything, int64(1), 0.0).Return(nil, apperrors.ErrInvalidPaymentAmount)

		body, _ := json.Marshal(dto.RecordPaymentRequest{Amount: "0"})
		req := withCustomerID(httptest.NewRequest(http.MethodPost, "/customers/1/payments", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.RecordPayment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecordVisit(t *testing.T) {
	t.Run("success with promise date", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		visited := sampleCustomer()
		visited.VisitStatus = customer.VisitPromised
		mockService.On("RecordVisit", mock.Anything, int64(1), customer.VisitPromised, mock.MatchedBy(func(d *time.Time) bool {
			return d != nil && d.Format("2006-01-02") == "2026-09-05"
		})).Return(visited, nil)

		body, _ := json.Marshal(dto.RecordVisitRequest{VisitStatus: "promised", PromiseDate: strPtr("2026-09-05")})
		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1/visit", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.RecordVisit(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown visit status", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		mockService.On("RecordVisit", mock.Anything, int64(1), customer.VisitStatus("vanished"), (*time.Time)(nil)).
			Return(nil, apperrors.ErrInvalidVisitStatus)

		body, _ := json.Marshal(dto.RecordVisitRequest{VisitStatus: "vanished"})
		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1/visit", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.RecordVisit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateAssignment(t *testing.T) {
	t.Run("assign", func(t *testing.T) {
		_, mockAssignments, h := newCustomerHandler()
		mockAssignments.On("AssignCustomer", mock.Anything, int64(1), int64(7)).Return(nil)

		body := []byte(`{"collectorId": 7}`)
		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1/assignment", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.UpdateAssignment(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockAssignments.AssertExpectations(t)
	})

	t.Run("unassign with null collectorId", func(t *testing.T) {
		_, mockAssignments, h := newCustomerHandler()
		mockAssignments.On("UnassignCustomer", mock.Anything, int64(1)).Return(nil)

		body := []byte(`{"collectorId": null}`)
		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1/assignment", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.UpdateAssignment(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockAssignments.AssertNotCalled(t, "AssignCustomer", mock.Anything, mock.Anything, mock.Anything)
		mockAssignments.AssertExpectations(t)
	})

	t.Run("collector not found", func(t *testing.T) {
		_, mockAssignments, h := newCustomerHandler()
		mockAssignments.On("AssignCustomer", mock.Anything, int64(1), int64(99)).Return(apperrors.ErrNotFound)

		body := []byte(`{"collectorId": 99}`)
		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1/assignment", bytes.NewReader(body)), "1")
		rec := httptest.NewRecorder()

		h.UpdateAssignment(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteCustomer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		mockService.On("DeleteCustomer", mock.Anything, int64(1)).Return(nil)

		req := withCustomerID(httptest.NewRequest(http.MethodDelete, "/customers/1", nil), "1")
		rec := httptest.NewRecorder()

		h.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockService, _, h := newCustomerHandler()
		mockService.On("DeleteCustomer", mock.Anything, int64(2)).Return(apperrors.ErrNotFound)

		req := withCustomerID(httptest.NewRequest(http.MethodDelete, "/customers/2", nil), "2")
		rec := httptest.NewRecorder()

		h.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func strPtr(s string) *string { return &s }
