package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/core/domain/auth"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/test/mocks"
)

const validToken = "valid-token"

type testEnv struct {
	users   *mocks.UserServiceMock
	auth    *mocks.AuthServiceMock
	access  *mocks.AccessControlServiceMock
	limiter ports.RateLimiterService
	health  []ports.HealthChecker
	actor   *user.User
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:  &mocks.UserServiceMock{},
		access: &mocks.AccessControlServiceMock{},
		actor:  &user.User{ID: 1, Email: "alice@example.com", IsActive: true},
	}
	env.auth = &mocks.AuthServiceMock{
		ValidateTokenFn: func(token string) (*auth.Claims, error) {
			if token != validToken {
				return nil, errors.New("bad token")
			}
			return &auth.Claims{}, nil
		},
		ResolveUserFn: func(ctx context.Context, claims *auth.Claims) (*user.User, error) {
			return env.actor, nil
		},
	}
	return env
}

func (env *testEnv) server() *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(&ServerConfig{ProjectName: "User Management API", APIPrefix: "/api/v1"}, logger, ServerDeps{
		UserService:          env.users,
		AuthService:          env.auth,
		ProjectService:       &mocks.ProjectServiceMock{},
		ActivityService:      &mocks.ActivityServiceMock{},
		ReportService:        &mocks.ReportServiceMock{},
		AccessControlService: env.access,
		RateLimiterService:   env.limiter,
		HealthCheckers:       env.health,
	})
}

func do(t *testing.T, s *Server, method, target, contentType, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRoot(t *testing.T) {
	rec := do(t, newTestEnv().server(), http.MethodGet, "/", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Welcome to User Management API", body["message"])
	endpoints := body["api_endpoints"].(map[string]interface{})
	assert.Equal(t, "/api/v1/admin/reports", endpoints["admin"])
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name     string
		dbErr    error
		cacheErr error
		code     int
		status   string
	}{
		{"healthy", nil, nil, http.StatusOK, "healthy"},
		{"cache down", nil, errors.New("dial tcp 127.0.0.1:6379: connection refused"), http.StatusOK, "degraded"},
		{"database down", errors.New("connection refused"), nil, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			env.health = []ports.HealthChecker{
				&mocks.HealthCheckerMock{NameValue: "database", IsCritical: true, Err: tc.dbErr},
				&mocks.HealthCheckerMock{NameValue: "cache", Err: tc.cacheErr},
			}
			rec := do(t, env.server(), http.MethodGet, "/health", "", "", "")
			assert.Equal(t, tc.code, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.status, body["status"])
			assert.Equal(t, "User Management API", body["service"])
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestEnv().server()

	for _, token := range []string{"", "forged"} {
		rec := do(t, s, http.MethodGet, "/api/v1/users", "", "", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Could not validate credentials", decode(t, rec)["message"])
	}
}

func TestResolveUserFailures(t *testing.T) {
	env := newTestEnv()
	env.auth.ResolveUserFn = func(ctx context.Context, claims *auth.Claims) (*user.User, error) {
		return nil, user.ErrInactiveUser
	}
	rec := do(t, env.server(), http.MethodGet, "/api/v1/auth/me", "", "", validToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Inactive user", decode(t, rec)["message"])
}

func TestMe(t *testing.T) {
	rec := do(t, newTestEnv().server(), http.MethodGet, "/api/v1/auth/me", "", "", validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, body, "hashed_password")
}

func TestDeleteUserRequiresSuperuser(t *testing.T) {
	env := newTestEnv()
	deleted := false
	env.users.DeleteUserFn = func(ctx context.Context, id int64) (*user.User, error) {
		deleted = true
		return &user.User{ID: id}, nil
	}
	s := env.server()

	rec := do(t, s, http.MethodDelete, "/api/v1/users/2", "", "", validToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "The user doesn't have enough privileges", decode(t, rec)["message"])
	assert.False(t, deleted)

	env.actor.IsSuperuser = true
	rec = do(t, s, http.MethodDelete, "/api/v1/users/2", "", "", validToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, deleted)
}

func TestUpdateUserAccessDenied(t *testing.T) {
	env := newTestEnv()
	env.access.CanActOnUserFn = func(ctx context.Context, actor *user.User, targetID int64, action ports.AccessAction) (*user.User, error) {
		return nil, ports.NewAccessControlError(ports.ACCodeForbidden, "Not enough permissions")
	}
	rec := do(t, env.server(), http.MethodPut, "/api/v1/users/2", "application/json", `{"full_name":"Eve"}`, validToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not enough permissions", decode(t, rec)["message"])
}

func TestRegister(t *testing.T) {
	env := newTestEnv()
	env.users.RegisterFn = func(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
		if req.Email == "taken@example.com" {
			return nil, user.ErrEmailAlreadyRegistered
		}
		return &user.User{ID: 7, Email: req.Email, FullName: req.FullName, HashedPassword: "hash", IsActive: true}, nil
	}
	s := env.server()

	rec := do(t, s, http.MethodPost, "/api/v1/auth/register", "application/json",
		`{"email":"bob@example.com","full_name":"Bob","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(7), body["id"])
	assert.NotContains(t, body, "hashed_password")

	rec = do(t, s, http.MethodPost, "/api/v1/auth/register", "application/json",
		`{"email":"taken@example.com","full_name":"Bob","password":"password123"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decode(t, rec)["message"])

	rec = do(t, s, http.MethodPost, "/api/v1/auth/register", "application/json",
		`{"email":"not-an-email","full_name":"Bob","password":"short"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	env.auth.LoginFn = func(ctx context.Context, req *auth.LoginRequest, ip, ua string) (*auth.Token, error) {
		if req.Email == "bob@example.com" && req.Password == "password123" {
			return &auth.Token{AccessToken: "jwt", TokenType: auth.TokenTypeBearer}, nil
		}
		return nil, user.ErrInvalidCredentials
	}
	s := env.server()

	form := url.Values{"username": {"bob@example.com"}, "password": {"password123"}}
	rec := do(t, s, http.MethodPost, "/api/v1/auth/login", "application/x-www-form-urlencoded", form.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bearer", decode(t, rec)["token_type"])

	rec = do(t, s, http.MethodPost, "/api/v1/auth/login", "application/json", `{"email":"bob@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Incorrect email or password", decode(t, rec)["message"])
}

func TestAuthRateLimit(t *testing.T) {
	env := newTestEnv()
	reset := time.Now().Add(time.Minute)
	env.limiter = &mocks.RateLimiterServiceMock{
		AllowFn: func(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
			return false, 0, 5, reset, nil
		},
	}
	rec := do(t, env.server(), http.MethodPost, "/api/v1/auth/login", "application/json", `{"email":"a@b.c","password":"x"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestListUsersQueryValidation(t *testing.T) {
	env := newTestEnv()
	var got user.ListQuery
	env.users.ListUsersFn = func(ctx context.Context, q user.ListQuery) ([]*user.User, error) {
		got = q
		return []*user.User{{ID: 1}}, nil
	}
	s := env.server()

	rec := do(t, s, http.MethodGet, "/api/v1/users?limit=101", "", "", validToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/users?countries=us,de&countries=fr&skip=5", "", "", validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"us", "de", "fr"}, got.Countries)
	assert.Equal(t, 5, got.Skip)
	assert.Equal(t, 100, got.Limit)
}
