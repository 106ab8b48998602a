package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/api/middleware"
	"github.com/diecastgarage/storefront/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	currentFn  func(ctx context.Context, userID string) (*domain.User, error)
	updateFn   func(ctx context.Context, userID, name string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentFn(ctx, userID)
}

func (s *stubAuthService) UpdateDisplayName(ctx context.Context, userID, name string) (*domain.User, error) {
	return s.updateFn(ctx, userID, name)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			if name != "Alice" || email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return &domain.User{ID: "u1", Name: name, Email: email, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != "u1" || user["name"] != "Alice" || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, ok := resp["token"]; ok {
		t.Fatalf("register must not issue a token")
	}
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"email in use", domain.ErrEmailInUse, http.StatusConflict, "This email is already in use"},
		{"weak password", domain.ErrWeakPassword, http.StatusBadRequest, "Password must be at least 6 characters"},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest, "Invalid email"},
		{"missing name", domain.ErrInvalidName, http.StatusBadRequest, "Name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			handler := NewAuthHandler(&stubAuthService{
				registerFn: func(context.Context, string, string, string) (*domain.User, error) {
					return nil, tt.err
				},
			})

			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"name":"Bob"}`), rec)
			_ = handler.Register(c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, resp.Error)
			}
		})
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", "not-json"), rec)
	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Name: "Alice", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["name"] != "Alice" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_SetsSessionIdentity(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "token123", &domain.User{ID: "u1", Name: "Alice"}, nil
		},
	})

	req := jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	rec := env.serve(req, "session-login-1", handler.Login)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	s := env.sessions.Session(context.Background(), "session-login-1")
	if s.Identity() == nil || s.Identity().ID != "u1" {
		t.Fatalf("expected session identity u1, got %+v", s.Identity())
	}

	rec = env.serve(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), "session-login-1", handler.Logout)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if s.Identity() != nil {
		t.Fatalf("expected identity cleared after logout")
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"wrong password", domain.ErrWrongPassword, http.StatusUnauthorized},
		{"user not found", domain.ErrUserNotFound, http.StatusUnauthorized},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"rate limited", domain.ErrTooManyRequests, http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			handler := NewAuthHandler(&stubAuthService{
				loginFn: func(context.Context, string, string) (string, *domain.User, error) {
					return "", nil, tt.err
				},
			})

			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`), rec)
			_ = handler.Login(c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", "{"), rec)
	_ = handler.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		currentFn: func(_ context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Name: "Alice"}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	c.Set(middleware.CtxUserID, "u1")

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"id":"u1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), httptest.NewRecorder())
	err := handler.Me(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_UpdateMe_Validation(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	handler := NewAuthHandler(&stubAuthService{
		updateFn: func(context.Context, string, string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPatch, "/auth/me", `{"name":""}`), httptest.NewRecorder())
	c.Set(middleware.CtxUserID, "u1")
	err := handler.UpdateMe(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}
