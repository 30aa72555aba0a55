package collector

import (
	"collection-engine/internal/pkg/apperrors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type Collector struct {
	CollectorID int64
	Name        string
	Phone       string
	Area        string

	// PasswordHash is the bcrypt hash of the login password. The
	// plaintext is never persisted or logged.
	PasswordHash string

	// AssignedCustomers is derived from each customer's assignedTo
	// reference; it is never written directly.
	AssignedCustomers []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCollector(name, phone, area, password string) (*Collector, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	area = strings.TrimSpace(area)
	password = strings.TrimSpace(password)

	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if phone == "" {
		return nil, apperrors.NewValidationError("phone", "cannot be empty")
	}
	if area == "" {
		return nil, apperrors.NewValidationError("area", "cannot be empty")
	}
	if len(password) < 6 {
		return nil, apperrors.NewValidationError("password", "must be at least 6 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &Collector{
		Name:         name,
		Phone:        phone,
		Area:         area,
		PasswordHash: hash,
	}, nil
}

func (c *Collector) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
