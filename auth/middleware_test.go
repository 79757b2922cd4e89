package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const middlewareSecret = "session-secret"

func protected(t *testing.T, m *Middleware, role Role) (http.Handler, **Claims) {
	t.Helper()
	var seen *Claims
	h := m.RequireRole(role)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &seen
}

func sign(t *testing.T, codec *TokenCodec, claims *Claims, secret string) string {
	t.Helper()
	token, err := codec.Sign(claims, []byte(secret), SignOptions{ExpiresIn: time.Hour})
	require.NoError(t, err)
	return token
}

func call(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, rec.Code, body.Status)
	return body.Message
}

func TestRequireRole_HeaderProblems(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(NewTokenCodec(), middlewareSecret)
	h, _ := protected(t, m, RoleAny)

	for _, header := range []string{"", "Token abc", "bearer abc", "Basic dXNlcjpwYXNz"} {
		rec := call(h, header)
		assert.Equal(t, http.StatusBadRequest, rec.Code, header)
		assert.Equal(t, "Missing or invalid authorization header", messageOf(t, rec))
	}
}

func TestRequireRole_InvalidToken(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec()
	m := NewMiddleware(codec, middlewareSecret)
	h, _ := protected(t, m, RoleAny)

	tests := map[string]string{
		"garbage":        "Bearer not-a-token",
		"empty":          "Bearer ",
		"wrong secret":   "Bearer " + sign(t, codec, &Claims{ID: 1, Purpose: PurposeSession}, "other-secret"),
		"verify token":   "Bearer " + sign(t, codec, &Claims{Email: "a@b.c", Purpose: PurposeVerifyEmail}, middlewareSecret),
		"reset purposed": "Bearer " + sign(t, codec, &Claims{Email: "a@b.c", Purpose: PurposeResetPassword}, middlewareSecret),
	}
	for name, header := range tests {
		rec := call(h, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Equal(t, "Unauthorized: Invalid token", messageOf(t, rec), name)
	}
}

func TestRequireRole_ExpiredToken(t *testing.T) {
	t.Parallel()

	clock := newClock()
	codec := NewTokenCodec().WithClock(clock.Now)
	m := NewMiddleware(codec, middlewareSecret)
	h, _ := protected(t, m, RoleAny)

	token := sign(t, codec, &Claims{ID: 1, Purpose: PurposeSession}, middlewareSecret)
	clock.Advance(2 * time.Hour)

	assert.Equal(t, http.StatusUnauthorized, call(h, "Bearer "+token).Code)
}

func TestRequireRole_Any(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec()
	m := NewMiddleware(codec, middlewareSecret)
	h, seen := protected(t, m, RoleAny)

	rec := call(h, "Bearer "+sign(t, codec, &Claims{ID: 5, Purpose: PurposeSession}, middlewareSecret))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, *seen)
	assert.Equal(t, 5, (*seen).ID)
	assert.False(t, (*seen).IsAdmin)
}

func TestRequireRole_Admin(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec()
	m := NewMiddleware(codec, middlewareSecret)
	h, seen := protected(t, m, RoleAdmin)

	rec := call(h, "Bearer "+sign(t, codec, &Claims{ID: 5, Purpose: PurposeSession}, middlewareSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: Admin access required", messageOf(t, rec))
	assert.Nil(t, *seen)

	rec = call(h, "Bearer "+sign(t, codec, &Claims{ID: 1, IsAdmin: true, Purpose: PurposeSession}, middlewareSecret))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, *seen)
	assert.True(t, (*seen).IsAdmin)
}

func TestAuthenticateAliases(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec()
	m := NewMiddleware(codec, middlewareSecret)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	user := "Bearer " + sign(t, codec, &Claims{ID: 2, Purpose: PurposeSession}, middlewareSecret)

	assert.Equal(t, http.StatusNoContent, call(m.Authenticate()(ok), user).Code)
	assert.Equal(t, http.StatusUnauthorized, call(m.AuthenticateAdmin()(ok), user).Code)
}
