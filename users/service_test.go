package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/catalog"
	"github.com/user/carcatalog-go/query"
	"github.com/user/carcatalog-go/store"
)

const testSecret = "users-test-secret"

// memUsers is an in-memory catalog.Records[auth.User].
type memUsers struct {
	rows map[int]*auth.User
	next int
}

func newMemUsers(users ...auth.User) *memUsers {
	m := &memUsers{rows: map[int]*auth.User{}, next: 1}
	for _, u := range users {
		u := u
		u.ID = m.next
		m.rows[u.ID] = &u
		m.next++
	}
	return m
}

func (m *memUsers) FindByID(_ context.Context, id int) (*auth.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Taken(_ context.Context, column string, value any, exceptID int) (bool, error) {
	for id, u := range m.rows {
		if id != exceptID && column == "email" && u.Email == value {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Count(_ context.Context, _ []query.Filter) (int, error) {
	return len(m.rows), nil
}

func (m *memUsers) List(_ context.Context, d *query.Descriptor) ([]auth.User, error) {
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var out []auth.User
	for i := d.Offset; i < len(ids) && len(out) < d.Limit; i++ {
		out = append(out, *m.rows[ids[i]])
	}
	return out, nil
}

func (m *memUsers) Create(context.Context, map[string]any) (*auth.User, error) {
	panic("users are created through registration")
}

func (m *memUsers) Update(ctx context.Context, id int, values map[string]any) (*auth.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range values {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "password":
			u.Password = v.(string)
		case "is_admin":
			u.IsAdmin = v.(bool)
		case "is_verified":
			u.IsVerified = v.(bool)
		}
	}
	return m.FindByID(ctx, id)
}

func (m *memUsers) Delete(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type noLookup struct{}

func (noLookup) Exists(context.Context, string, int) (bool, error) { return true, nil }

func newTestService() (*UserService, *memUsers) {
	records := newMemUsers(
		auth.User{Name: "Admin", Email: "admin@gmail.com", IsAdmin: true, IsVerified: true},
		auth.User{Name: "User", Email: "user@gmail.com", IsVerified: true},
	)
	svc := NewUserService(
		catalog.NewService[auth.User](UserResource, records, noLookup{}, 100),
		auth.NewPasswordHasher(bcrypt.MinCost),
	)
	return svc, records
}

func TestUserService_UpdateHashesPassword(t *testing.T) {
	svc, records := newTestService()

	user, err := svc.Update(context.Background(), 2, UpdateUserRequest{Password: "new-secret"})
	require.NoError(t, err)
	assert.Equal(t, "User", user.Name)

	stored := records.rows[2].Password
	assert.NotEqual(t, "new-secret", stored)
	assert.True(t, auth.NewPasswordHasher(bcrypt.MinCost).Verify("new-secret", stored))
}

func TestUserService_UpdateEmailUniqueness(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), 2, UpdateUserRequest{Email: "admin@gmail.com"})
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ConflictError, appErr.Type)
	assert.Equal(t, "email already exist", appErr.Message)

	// Keeping one's own email is fine.
	_, err = svc.Update(context.Background(), 2, UpdateUserRequest{Email: "user@gmail.com", Name: "Renamed"})
	require.NoError(t, err)
}

func TestUserService_UpdateFlags(t *testing.T) {
	svc, records := newTestService()
	no := false

	_, err := svc.Update(context.Background(), 1, UpdateUserRequest{IsAdmin: &no})
	require.NoError(t, err)
	assert.False(t, records.rows[1].IsAdmin)
	assert.True(t, records.rows[1].IsVerified)
}

func TestUserService_UpdateMissingAndEmpty(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), 9, UpdateUserRequest{Name: "Ghost"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Contains(t, err.Error(), "user not found")

	_, err = svc.Update(context.Background(), 1, UpdateUserRequest{})
	require.Error(t, err)
	assert.True(t, apperror.IsBadRequest(err))
}

func TestUserService_ListRejectsPasswordFilter(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.List(context.Background(), map[string][]string{"password": {"x"}})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))

	_, err = svc.List(context.Background(), map[string][]string{"sort": {"password"}})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func newUsersRouter(t *testing.T) (http.Handler, *memUsers) {
	t.Helper()
	svc, records := newTestService()
	h := NewUserHandlers(svc)
	mw := auth.NewMiddleware(auth.NewTokenCodec(), testSecret)
	me := func(w http.ResponseWriter, r *http.Request) {
		claims, _ := auth.ClaimsFromContext(r.Context())
		user, err := svc.Get(r.Context(), claims.ID)
		if err != nil {
			t.Fatalf("me: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(apperror.Response{Data: user, Message: "success", Status: http.StatusOK})
	}

	r := chi.NewRouter()
	r.Route("/user", h.Routes(mw, me))
	return r, records
}

func token(t *testing.T, id int, admin bool) string {
	t.Helper()
	claims := &auth.Claims{ID: id, IsAdmin: admin, Purpose: auth.PurposeSession}
	tok, err := auth.NewTokenCodec().Sign(claims, []byte(testSecret), auth.SignOptions{})
	require.NoError(t, err)
	return tok
}

func call(t *testing.T, h http.Handler, method, target, body, tok string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestUserHandlers_AdminOnly(t *testing.T) {
	router, _ := newUsersRouter(t)
	user := token(t, 2, false)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/user/all"},
		{http.MethodGet, "/user/1"},
		{http.MethodPatch, "/user/1"},
		{http.MethodDelete, "/user/1"},
	} {
		rec, _ := call(t, router, tc.method, tc.target, `{"name":"x"}`, user)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.target)
	}

	rec, env := call(t, router, http.MethodGet, "/user/me", "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@gmail.com", env["data"].(map[string]any)["email"])
}

func TestUserHandlers_AdminFlow(t *testing.T) {
	router, records := newUsersRouter(t)
	admin := token(t, 1, true)

	rec, env := call(t, router, http.MethodGet, "/user/all?sort=email", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, env["data"].(map[string]any)["total_data"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec, _ = call(t, router, http.MethodPatch, "/user/2", `{"password":"123"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = call(t, router, http.MethodPatch, "/user/2", `{"name":"Bob"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bob", env["data"].(map[string]any)["name"])

	rec, env = call(t, router, http.MethodDelete, "/user/2", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.MessageDeleteSuccess, env["message"])
	assert.NotContains(t, records.rows, 2)
}
