// Package http wires the carlot REST API: login, car listings and health
// endpoints on a chi router.
package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/apperr"
	"github.com/atinyakov/carlot/internal/service"
)

// AuthService exchanges credentials for an access token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	AuthService AuthService
	Logger      *zap.Logger
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /v1/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}

	tok, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		apperr.Write(w, apperr.ErrBadLogin)
		return
	}
	if err != nil {
		h.Logger.Error("login failed", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: tok, TokenType: "bearer"})
}
