package usercontroller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/middleware"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRouter mirrors the production wiring without the public-route table:
// a valid bearer token puts claims on the context, a missing one does not.
func setupRouter(s *memstore.Store, tokens *auth.Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims, err := tokens.Parse(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")); err == nil {
			auth.SetClaims(c, claims)
		}
		c.Next()
	})
	r.POST("/users/register", Register(s))
	r.POST("/users/login", Login(s, tokens))
	r.GET("/users", GetAllUsers(s))
	r.GET("/users/:id", GetUser(s))
	r.POST("/users", middleware.RequireAdmin(), CreateUser(s))
	r.PUT("/users/:id", UpdateUser(s))
	r.DELETE("/users/:id", middleware.RequireAdmin(), DeleteUser(s))
	r.GET("/users/get/count", GetUserCount(s))
	r.GET("/me", GetCurrentUser(s))
	return r
}

// bearer issues a token for a user stored directly in s.
func bearer(t *testing.T, s *memstore.Store, tokens *auth.Tokens, email string, admin bool) (string, *models.User) {
	t.Helper()
	u := &models.User{Name: email, Email: email, PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, s.CreateUser(t.Context(), u))
	token, err := tokens.Issue(u)
	require.NoError(t, err)
	return "Bearer " + token, u
}

func registered(t *testing.T, r *gin.Engine, tokens *auth.Tokens, body string) (string, models.User) {
	t.Helper()
	w := do(r, http.MethodPost, "/users/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	token, err := tokens.Issue(&u)
	require.NoError(t, err)
	return "Bearer " + token, u
}

func do(r *gin.Engine, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(header) > 0 {
		req.Header.Set("Authorization", header[0])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const alice = `{"name":"Alice","email":"Alice@Example.com","password":"secret1","phone":"123","city":"Dubai"}`

func TestRegisterAndLogin(t *testing.T) {
	s := memstore.New()
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := setupRouter(s, tokens)

	w := do(r, http.MethodPost, "/users/register", alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret1")
	assert.NotContains(t, w.Body.String(), "passwordHash")

	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "alice@example.com", created.Email)

	w = do(r, http.MethodPost, "/users/login", `{"email":"ALICE@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.User.ID)

	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)

	w = do(r, http.MethodGet, "/me", "", "Bearer "+resp.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)
}

func TestLoginFailures(t *testing.T) {
	s := memstore.New()
	r := setupRouter(s, auth.NewTokens("test-secret", time.Hour))
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/users/register", alice).Code)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"alice@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"bob@example.com","password":"secret1"}`, http.StatusUnauthorized},
		{"missing password", `{"email":"alice@example.com"}`, http.StatusBadRequest},
		{"unknown field", `{"email":"alice@example.com","password":"secret1","remember":true}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/users/login", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	s := memstore.New()
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := setupRouter(s, tokens)
	admin, _ := bearer(t, s, tokens, "admin@example.com", true)

	w := do(r, http.MethodPost, "/users/register", `{"name":"Eve","email":"eve@example.com","password":"secret1","isAdmin":true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":false`)

	w = do(r, http.MethodPost, "/users", `{"name":"Root","email":"root@example.com","password":"secret1","isAdmin":true}`, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":true`)
}

func TestNonAdminCannotEscalate(t *testing.T) {
	s := memstore.New()
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := setupRouter(s, tokens)
	eve, self := registered(t, r, tokens, `{"name":"Eve","email":"eve@example.com","password":"secret1"}`)
	_, other := bearer(t, s, tokens, "bob@example.com", false)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"grant self admin", http.MethodPut, "/users/" + self.ID, `{"isAdmin":true}`, eve, http.StatusForbidden},
		{"edit another account", http.MethodPut, "/users/" + other.ID, `{"password":"hijack1"}`, eve, http.StatusForbidden},
		{"create admin", http.MethodPost, "/users", `{"name":"M","email":"m@example.com","password":"secret1","isAdmin":true}`, eve, http.StatusForbidden},
		{"delete another account", http.MethodDelete, "/users/" + other.ID, "", eve, http.StatusForbidden},
		{"no token", http.MethodPut, "/users/" + self.ID, `{"city":"x"}`, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if tt.token == "" {
				w = do(r, tt.method, tt.path, tt.body)
			} else {
				w = do(r, tt.method, tt.path, tt.body, tt.token)
			}
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}

	got, err := s.GetUser(t.Context(), self.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
	count, err := s.CountUsers(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	w := do(r, http.MethodPut, "/users/"+self.ID, `{"isAdmin":false,"city":"Ajman"}`, eve)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminManagesAccounts(t *testing.T) {
	s := memstore.New()
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := setupRouter(s, tokens)
	admin, _ := bearer(t, s, tokens, "admin@example.com", true)
	_, bob := bearer(t, s, tokens, "bob@example.com", false)

	w := do(r, http.MethodPut, "/users/"+bob.ID, `{"isAdmin":true}`, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, err := s.GetUser(t.Context(), bob.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/users/"+bob.ID, "", admin).Code)
}

func TestPasswordTooLong(t *testing.T) {
	s := memstore.New()
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := setupRouter(s, tokens)
	token, self := registered(t, r, tokens, alice)

	long := strings.Repeat("a", 73)
	// 30 runes but 90 bytes, which passes max=72 and still overflows bcrypt.
	wide := strings.Repeat("密", 30)

	for _, pw := range []string{long, wide} {
		w := do(r, http.MethodPost, "/users/register", `{"name":"Bob","email":"bob@example.com","password":"`+pw+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		w = do(r, http.MethodPut, "/users/"+self.ID, `{"password":"`+pw+`"}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	}

	count, err := s.CountUsers(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestEnsureAdmin(t *testing.T) {
	s := memstore.New()
	ctx := t.Context()

	created, err := EnsureAdmin(ctx, s, "Root", "Root@Example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, created.IsAdmin)
	assert.Equal(t, "root@example.com", created.Email)
	require.NoError(t, auth.CheckPassword(created.PasswordHash, "secret1"))

	again, err := EnsureAdmin(ctx, s, "Root", "root@example.com", "other-pw")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	plain := &models.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "keep"}
	require.NoError(t, s.CreateUser(ctx, plain))
	promoted, err := EnsureAdmin(ctx, s, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, plain.ID, promoted.ID)
	got, err := s.GetUser(ctx, plain.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, "keep", got.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := memstore.New()
	r := setupRouter(s, auth.NewTokens("test-secret", time.Hour))

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/users/register", alice).Code)
	w := do(r, http.MethodPost, "/users/register", strings.Replace(alice, "Alice@Example.com", "alice@example.com", 1))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/users/get/count", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userCount":1}`, w.Body.String())
}

func TestUpdateUser(t *testing.T) {
	s := memstore.New()
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := setupRouter(s, tokens)
	token, created := registered(t, r, tokens, alice)
	admin, _ := bearer(t, s, tokens, "admin@example.com", true)
	before, err := s.GetUser(t.Context(), created.ID)
	require.NoError(t, err)

	w := do(r, http.MethodPut, "/users/"+created.ID, `{"city":"Sharjah"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	after, err := s.GetUser(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sharjah", after.City)
	assert.Equal(t, "Alice", after.Name)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)

	w = do(r, http.MethodPut, "/users/"+created.ID, `{"password":"changed1"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/users/login", `{"email":"alice@example.com","password":"changed1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPut, "/users/00000000-0000-0000-0000-000000000000", `{"city":"x"}`, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetListDeleteUser(t *testing.T) {
	s := memstore.New()
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := setupRouter(s, tokens)
	_, created := registered(t, r, tokens, alice)
	admin, _ := bearer(t, s, tokens, "admin@example.com", true)

	w := do(r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/users/"+created.ID, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/users/bad-id", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/users/"+created.ID, "", admin).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/users/"+created.ID, "").Code)
}
