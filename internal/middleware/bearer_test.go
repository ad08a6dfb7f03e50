package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/models"
	"github.com/atinyakov/carlot/internal/service"
)

type fakeAuthorizer struct {
	user *models.User
	err  error
	seen string
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, tok string) (*models.User, error) {
	f.seen = tok
	return f.user, f.err
}

// dummyHandler records whether it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func TestBearerAuth(t *testing.T) {
	active := &models.User{ID: 1, Email: "admin@example.com", IsActive: true}

	tests := []struct {
		name       string
		header     string
		auth       *fakeAuthorizer
		wantStatus int
		wantDetail string
		wantCalled bool
	}{
		{"no header", "", &fakeAuthorizer{user: active}, http.StatusForbidden, "Not authenticated", false},
		{"basic scheme", "Basic YWRtaW46YWRtaW4=", &fakeAuthorizer{user: active}, http.StatusForbidden, "Not authenticated", false},
		{"empty credential", "Bearer ", &fakeAuthorizer{user: active}, http.StatusForbidden, "Not authenticated", false},
		{"rejected token", "Bearer bad", &fakeAuthorizer{err: service.ErrInvalidToken}, http.StatusUnauthorized, "Could not validate credentials", false},
		{"inactive user", "Bearer good", &fakeAuthorizer{err: service.ErrInactiveUser}, http.StatusForbidden, "Inactive user", false},
		{"store failure", "Bearer good", &fakeAuthorizer{err: errors.New("db down")}, http.StatusInternalServerError, "An internal error occurred", false},
		{"valid", "Bearer good", &fakeAuthorizer{user: active}, http.StatusOK, "", true},
		{"scheme case-insensitive", "bearer good", &fakeAuthorizer{user: active}, http.StatusOK, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &dummyHandler{}
			h := BearerAuth(tt.auth, zap.NewNop())(next)

			req := httptest.NewRequest(http.MethodGet, "/v1/cars", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
			if next.called != tt.wantCalled {
				t.Errorf("next called = %v; want %v", next.called, tt.wantCalled)
			}
			if tt.wantDetail != "" {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body["detail"] != tt.wantDetail {
					t.Errorf("detail = %q; want %q", body["detail"], tt.wantDetail)
				}
			}
			if rec.Code == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate challenge")
			}
		})
	}
}

func TestBearerAuth_StoresUser(t *testing.T) {
	user := &models.User{ID: 9, Email: "admin@example.com", IsActive: true}
	auth := &fakeAuthorizer{user: user}
	next := &dummyHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/cars", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	BearerAuth(auth, zap.NewNop())(next).ServeHTTP(httptest.NewRecorder(), req)

	if auth.seen != "abc.def.ghi" {
		t.Errorf("authorizer saw %q", auth.seen)
	}
	if got := UserFromContext(next.ctx); got == nil || got.ID != 9 {
		t.Errorf("UserFromContext = %+v; want user 9", got)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if u := UserFromContext(context.Background()); u != nil {
		t.Errorf("expected nil user, got %+v", u)
	}
}
