package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend-template/internal/auth"
	"backend-template/internal/domain"
	"backend-template/internal/repository"
	"backend-template/internal/repository/sqlstore"
	"backend-template/internal/service"
)

type apiFixture struct {
	router *gin.Engine
	users  repository.UserRepository
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	StatusCode int             `json:"statusCode"`
	Path       string          `json:"path"`
}

func newAPIFixture(t *testing.T, db Pinger) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	users := sqlstore.NewUserRepository(store)
	products := sqlstore.NewProductRepository(store)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, products.Init(ctx))

	logger, _ := test.NewNullLogger()
	tokens, err := auth.NewTokenManager("api-test-secret", "backend-template", time.Hour)
	require.NoError(t, err)

	if db == nil {
		db = store
	}
	handler := NewHandler(
		service.NewUserService(users, logger),
		service.NewProductService(products, nil, service.ImageOptions{}, logger),
		service.NewAuthService(users, tokens, service.AuthOptions{}, logger),
		db,
		logger,
		Options{CORSOrigins: []string{"https://shop.example.com"}},
	)
	router := gin.New()
	handler.RegisterRoutes(router)
	return &apiFixture{router: router, users: users}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

// signup registers an account, optionally promotes it, and returns a session token.
func (f *apiFixture) signup(t *testing.T, email string, role domain.Role) (string, string) {
	t.Helper()

	rec, env := f.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":     email,
		"password":  "pw123",
		"firstName": "Test",
		"lastName":  "User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var user UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &user))

	if role != domain.RoleUser {
		stored, err := f.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		stored.Role = role
		_, err = f.users.Save(context.Background(), stored)
		require.NoError(t, err)
	}

	rec, env = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "pw123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "Bearer", login.Type)
	assert.Equal(t, role, login.Role)
	return login.Token, user.ID
}

func TestAuthEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)
	token, id := f.signup(t, "alice@example.com", domain.RoleUser)

	rec, env := f.do(t, http.MethodGet, "/auth/validate", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "/auth/validate", env.Path)
	assert.Contains(t, string(env.Data), id)

	rec, env = f.do(t, http.MethodGet, "/auth/validate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = f.do(t, http.MethodGet, "/auth/validate", token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, wrongPassword := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, unknown := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "pw123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, wrongPassword.Message, unknown.Message)

	rec, env = f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "pw123", "firstName": "A", "lastName": "B",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", env.Message)

	rec, env = f.do(t, http.MethodPost, "/auth/register", "", map[string]string{"email": "broken"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", env.Message)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestRegisterCannotChooseRole(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "mallory@example.com", "password": "pw123", "firstName": "M", "lastName": "X", "role": "ADMIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var user UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestUserEndpointsEnforceRoles(t *testing.T) {
	f := newAPIFixture(t, nil)
	userToken, userID := f.signup(t, "user@example.com", domain.RoleUser)
	modToken, _ := f.signup(t, "mod@example.com", domain.RoleModerator)
	adminToken, _ := f.signup(t, "admin@example.com", domain.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{name: "list requires admin", method: http.MethodGet, path: "/users", token: modToken, want: http.StatusForbidden},
		{name: "admin lists users", method: http.MethodGet, path: "/users?size=2", token: adminToken, want: http.StatusOK},
		{name: "me", method: http.MethodGet, path: "/users/me", token: userToken, want: http.StatusOK},
		{name: "self read", method: http.MethodGet, path: "/users/" + userID, token: userToken, want: http.StatusOK},
		{name: "moderator reads others", method: http.MethodGet, path: "/users/" + userID, token: modToken, want: http.StatusOK},
		{name: "by email requires staff", method: http.MethodGet, path: "/users/email/mod@example.com", token: userToken, want: http.StatusForbidden},
		{name: "moderator reads by email", method: http.MethodGet, path: "/users/email/user@example.com", token: modToken, want: http.StatusOK},
		{name: "moderator cannot update others", method: http.MethodPut, path: "/users/" + userID, token: modToken,
			body: map[string]string{"firstName": "X", "lastName": "Y"}, want: http.StatusForbidden},
		{name: "self update", method: http.MethodPut, path: "/users/" + userID, token: userToken,
			body: map[string]string{"firstName": "New", "lastName": "Name"}, want: http.StatusOK},
		{name: "delete requires admin", method: http.MethodDelete, path: "/users/" + userID, token: modToken, want: http.StatusForbidden},
		{name: "unknown user", method: http.MethodGet, path: "/users/missing", token: adminToken, want: http.StatusNotFound},
		{name: "anonymous", method: http.MethodGet, path: "/users/me", want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := f.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	rec, _ := f.do(t, http.MethodDelete, "/users/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/users/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductFlow(t *testing.T) {
	f := newAPIFixture(t, nil)
	userToken, _ := f.signup(t, "shopper@example.com", domain.RoleUser)
	adminToken, _ := f.signup(t, "admin@example.com", domain.RoleAdmin)

	widget := map[string]any{"name": "Widget", "price": "4.50", "quantity": 0, "category": "Tools", "sku": "W-1"}
	rec, _ := f.do(t, http.MethodPost, "/products", userToken, widget)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := f.do(t, http.MethodPost, "/products", adminToken, widget)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.False(t, created.InStock)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	rec, env = f.do(t, http.MethodPost, "/products", adminToken, widget)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SKU already exists", env.Message)

	rec, env = f.do(t, http.MethodGet, "/products/in-stock", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page PageResponse[ProductResponse]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Content)
	assert.True(t, page.First)

	rec, _ = f.do(t, http.MethodPut, "/products/"+created.ID, adminToken, map[string]any{
		"name": "Widget", "price": "4.50", "quantity": 3, "category": "Tools",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = f.do(t, http.MethodGet, "/products/in-stock", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "W-1", page.Content[0].SKU)

	rec, env = f.do(t, http.MethodGet, "/products/search?name=widg", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.TotalElements)

	rec, env = f.do(t, http.MethodGet, "/products/category/tools", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Content, 1)

	rec, env = f.do(t, http.MethodGet, "/products/sku/W-1", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bySKU ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &bySKU))
	assert.Equal(t, created.ID, bySKU.ID)

	rec, _ = f.do(t, http.MethodDelete, "/products/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/products/"+created.ID, userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/products/sku/W-1", userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductImageWithoutStorage(t *testing.T) {
	f := newAPIFixture(t, nil)
	adminToken, _ := f.signup(t, "admin@example.com", domain.RoleAdmin)

	rec, env := f.do(t, http.MethodPost, "/products", adminToken, map[string]any{"name": "Lamp", "price": 10, "quantity": 1, "sku": "L-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "lamp.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/"+created.ID+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Contains(t, res.Body.String(), unexpectedMessage)
}

type downDB struct{}

func (downDB) PingContext(context.Context) error { return errors.New("connection refused") }

func TestHealthEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)
	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec, env := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, env.Success, path)
	}

	down := newAPIFixture(t, downDB{})
	rec, env := down.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, env.Success)
}

func TestCORS(t *testing.T) {
	f := newAPIFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
