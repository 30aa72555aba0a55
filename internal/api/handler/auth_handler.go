package handler

import (
	"collection-engine/internal/api/handler/dto"
	"collection-engine/internal/api/middleware"
	"collection-engine/internal/config"
	"collection-engine/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
}

func NewAuthHandler(cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// AdminLogin handles POST /auth/login. Credentials are checked against
// the operator account from configuration.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if req.Email != h.cfg.AdminEmail ||
		bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password)) != nil {
		h.logger.WarnContext(r.Context(), "Admin login failed")
		respondError(w, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized))
		return
	}

	token, err := issueToken(h.cfg, middleware.RoleAdmin, 0, req.Email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign admin token", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: could not issue token", apperrors.ErrInternalServer))
		return
	}

	h.logger.InfoContext(r.Context(), "Admin authenticated")
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

func issueToken(cfg config.AuthConfig, role string, collectorID int64, subject string) (string, error) {
	if subject == "" {
		subject = strconv.FormatInt(collectorID, 10)
	}
	now := time.Now()
	claims := middleware.Claims{
		CollectorID: collectorID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
