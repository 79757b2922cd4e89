package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/carcatalog-go/auth"
)

const testSecret = "catalog-test-secret"

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   any             `json:"error"`
	Status  int             `json:"status"`
}

func newBrandRouter(t *testing.T) (http.Handler, *memRecords[Brand]) {
	t.Helper()
	svc, records := newBrandService()
	h := NewHandlers[Brand, CreateBrandRequest, UpdateBrandRequest](svc)
	mw := auth.NewMiddleware(auth.NewTokenCodec(), testSecret)

	r := chi.NewRouter()
	r.Route("/brand", h.Routes(mw))
	return r, records
}

func sessionToken(t *testing.T, admin bool) string {
	t.Helper()
	claims := &auth.Claims{ID: 1, Email: "someone@example.com", IsAdmin: admin, Purpose: auth.PurposeSession}
	token, err := auth.NewTokenCodec().Sign(claims, []byte(testSecret), auth.SignOptions{})
	require.NoError(t, err)
	return token
}

func do(t *testing.T, h http.Handler, method, target, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHandlers_ReadsNeedSession(t *testing.T) {
	router, records := newBrandRouter(t)
	records.seed(map[string]any{"name": "Toyota"})

	rec, _ := do(t, router, http.MethodGet, "/brand/all", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := do(t, router, http.MethodGet, "/brand/all?name=toy", "", sessionToken(t, false))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body.Message)

	var page struct {
		CurrentPage int     `json:"current_page"`
		TotalPage   int     `json:"total_page"`
		TotalData   int     `json:"total_data"`
		Data        []Brand `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPage)
	assert.Equal(t, 1, page.TotalData)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Toyota", page.Data[0].Name)

	rec, body = do(t, router, http.MethodGet, "/brand/1", "", sessionToken(t, false))
	require.Equal(t, http.StatusOK, rec.Code)
	var brand Brand
	require.NoError(t, json.Unmarshal(body.Data, &brand))
	assert.Equal(t, "Toyota", brand.Name)
}

func TestHandlers_WritesNeedAdmin(t *testing.T) {
	router, records := newBrandRouter(t)

	rec, body := do(t, router, http.MethodPost, "/brand", `{"name":"Toyota"}`, sessionToken(t, false))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: Admin access required", body.Message)
	assert.Zero(t, records.writes)

	rec, body = do(t, router, http.MethodPost, "/brand", `{"name":"Toyota"}`, sessionToken(t, true))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, string(body.Data), `"name":"Toyota"`)
}

func TestHandlers_CreateValidation(t *testing.T) {
	router, _ := newBrandRouter(t)
	admin := sessionToken(t, true)

	rec, body := do(t, router, http.MethodPost, "/brand", `{}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"name" is required`, body.Error)

	rec, body = do(t, router, http.MethodPost, "/brand", `{"name":"Toyota","brand_id":1}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"brand_id" is not allowed`, body.Error)

	do(t, router, http.MethodPost, "/brand", `{"name":"Toyota"}`, admin)
	rec, body = do(t, router, http.MethodPost, "/brand", `{"name":"Toyota"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MessageDuplicate, body.Message)
}

func TestHandlers_UpdateAndDelete(t *testing.T) {
	router, records := newBrandRouter(t)
	admin := sessionToken(t, true)
	records.seed(map[string]any{"name": "Toyota"})

	rec, body := do(t, router, http.MethodPatch, "/brand/abc", `{"name":"Lexus"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"id" must be a positive number`, body.Error)

	rec, body = do(t, router, http.MethodPatch, "/brand/1", `{}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MessageBadRequest, body.Message)

	rec, body = do(t, router, http.MethodPatch, "/brand/42", `{"name":"Lexus"}`, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "brand not found", body.Message)

	rec, body = do(t, router, http.MethodPatch, "/brand/1", `{"name":"Lexus"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), `"name":"Lexus"`)

	rec, body = do(t, router, http.MethodDelete, "/brand/1", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MessageDeleteSuccess, body.Message)

	rec, body = do(t, router, http.MethodGet, "/brand/1", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MessageNotFound, body.Message)
}

func TestHandlers_IntegersBeyondColumnRange(t *testing.T) {
	records := newMemRecords(buildPricelist)
	svc := NewService[Pricelist](PricelistResource, records, fakeLookup{}, 0)
	h := NewHandlers[Pricelist, CreatePricelistRequest, UpdatePricelistRequest](svc)
	r := chi.NewRouter()
	r.Route("/pricelist", h.Routes(auth.NewMiddleware(auth.NewTokenCodec(), testSecret)))
	admin := sessionToken(t, true)

	rec, body := do(t, r, http.MethodPost, "/pricelist",
		`{"code":"A","user_id":1,"price":3000000000,"year_id":1,"model_id":1}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"price" must be less than or equal to 2147483647`, body.Error)

	rec, body = do(t, r, http.MethodPatch, "/pricelist/1", `{"year_id":2147483648}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"year_id" must be less than or equal to 2147483647`, body.Error)

	rec, _ = do(t, r, http.MethodGet, "/pricelist/3000000000", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, r, http.MethodGet, "/pricelist/all?model_id=99999999999", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, records.writes)
}
