package dto

import (
	"collection-engine/internal/domain/collector"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type CreateCollectorRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Area     string `json:"area"`
	Password string `json:"password"`
}

func (r *CreateCollectorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if len(strings.TrimSpace(r.Password)) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

type CollectorLoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r *CollectorLoginRequest) Validate() error {
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if r.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *AdminLoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if r.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

// CollectorResponse never carries the password hash.
type CollectorResponse struct {
	CollectorID       string    `json:"collectorId"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Area              string    `json:"area"`
	AssignedCustomers []string  `json:"assignedCustomers"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type TokenResponse struct {
	Token     string             `json:"token"`
	Collector *CollectorResponse `json:"collector,omitempty"`
}

func NewCollectorResponse(coll *collector.Collector) CollectorResponse {
	if coll == nil {
		return CollectorResponse{}
	}

	assigned := make([]string, len(coll.AssignedCustomers))
	for i, id := range coll.AssignedCustomers {
		assigned[i] = strconv.FormatInt(id, 10)
	}

	return CollectorResponse{
		CollectorID:       strconv.FormatInt(coll.CollectorID, 10),
		Name:              coll.Name,
		Phone:             coll.Phone,
		Area:              coll.Area,
		AssignedCustomers: assigned,
		CreatedAt:         coll.CreatedAt,
		UpdatedAt:         coll.UpdatedAt,
	}
}
