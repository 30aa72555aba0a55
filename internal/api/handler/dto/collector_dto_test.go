package dto

import (
	"collection-engine/internal/domain/collector"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCollectorRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateCollectorRequest
		wantErr bool
	}{
		{validRequest, CreateCollectorRequest{Name: "Suresh", Phone: "9876543210", Area: "North", Password: "secret123"}, false},
		{"Empty name", CreateCollectorRequest{Name: "", Phone: "9876543210", Password: "secret123"}, true},
		{"Empty phone", CreateCollectorRequest{Name: "Suresh", Phone: " ", Password: "secret123"}, true},
		{"Short password", CreateCollectorRequest{Name: "Suresh", Phone: "9876543210", Password: "12345"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCollectorLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request CollectorLoginRequest
		wantErr bool
	}{
		{validRequest, CollectorLoginRequest{Phone: "9876543210", Password: "secret123"}, false},
		{"Empty phone", CollectorLoginRequest{Password: "secret123"}, true},
		{"Empty password", CollectorLoginRequest{Phone: "9876543210"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdminLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request AdminLoginRequest
		wantErr bool
	}{
		{validRequest, AdminLoginRequest{Email: "admin@example.com", Password: "secret123"}, false},
		{"Empty email", AdminLoginRequest{Password: "secret123"}, true},
		{"Empty password", AdminLoginRequest{Email: "admin@example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCollectorResponse(t *testing.T) {
	coll := &collector.Collector{
		CollectorID:       7,
		Name:              "Suresh",
		Phone:             "9876543210",
		Area:              "North",
		PasswordHash:      "$2a$10$abcdefghijklmnopqrstuv",
		AssignedCustomers: []int64{1, 3},
	}

	resp := NewCollectorResponse(coll)
	assert.Equal(t, "7", resp.CollectorID)
	assert.Equal(t, coll.Name, resp.Name)
	assert.Equal(t, coll.Phone, resp.Phone)
	assert.Equal(t, coll.Area, resp.Area)
	assert.Equal(t, []string{"1", "3"}, resp.AssignedCustomers)

	resp = NewCollectorResponse(nil)
	assert.Equal(t, CollectorResponse{}, resp)
}
