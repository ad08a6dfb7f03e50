// Package middleware provides HTTP middlewares for authentication, request
// logging and metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/apperr"
	"github.com/atinyakov/carlot/internal/models"
	"github.com/atinyakov/carlot/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// Authorizer resolves a bearer token to an active user.
type Authorizer interface {
	Authorize(ctx context.Context, tok string) (*models.User, error)
}

// BearerAuth rejects requests that do not carry a valid bearer token for an
// active user. The user is stored in the request context for handlers to
// read with UserFromContext.
//
// A missing or non-Bearer Authorization header yields 403. A rejected token
// or unknown user yields 401 with a Bearer challenge. A disabled account
// yields 403.
func BearerAuth(auth Authorizer, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				apperr.Write(w, apperr.ErrForbidden)
				return
			}

			user, err := auth.Authorize(r.Context(), tok)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrInactiveUser):
					apperr.Write(w, apperr.ErrInactiveUser)
				case errors.Is(err, service.ErrInvalidToken):
					log.Debug("token rejected", zap.Error(err))
					apperr.Write(w, apperr.ErrUnauthorized)
				default:
					log.Error("authorize request", zap.Error(err))
					apperr.Write(w, apperr.ErrInternal)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, cred, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	cred = strings.TrimSpace(cred)
	return cred, cred != ""
}

// UserFromContext returns the user stored by BearerAuth, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
