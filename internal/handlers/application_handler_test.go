package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microgram17/jobtracker/internal/dtos"
	"github.com/microgram17/jobtracker/internal/handlers"
	"github.com/microgram17/jobtracker/internal/models"
	"github.com/microgram17/jobtracker/internal/repository"
	"github.com/microgram17/jobtracker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := services.NewApplicationService(repository.NewMemoryStore(), quiet)
	return handlers.NewRouter(handlers.RouterConfig{RequestTimeout: time.Second}, svc, quiet)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	rec := do(newRouter(t), http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateApplication(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/api/v1/applications",
		`{"company":"Acme","position":"Engineer","status":"applied","link":"https://acme.com","applied_date":"2024-02-03"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"id": 1, "company": "Acme", "position": "Engineer", "status": "applied",
		"link": "https://acme.com", "notes": null, "applied_date": "2024-02-03", "updated_date": null
	}`, rec.Body.String())
}

func TestCreateApplication_Duplicate(t *testing.T) {
	r := newRouter(t)
	body := `{"company":"Acme","position":"Engineer","status":"applied"}`

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/applications", body).Code)
	rec := do(r, http.MethodPost, "/api/v1/applications", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[dtos.ErrorResponse](t, rec)
	assert.Equal(t, dtos.CodeDuplicate, resp.Error)
	assert.Equal(t, "Acme", resp.Company)
	assert.Equal(t, "Engineer", resp.Position)

	list := decode[[]models.Application](t, do(r, http.MethodGet, "/api/v1/applications", ""))
	assert.Len(t, list, 1)
}

func TestCreateApplication_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"company":`, http.StatusBadRequest, dtos.CodeInvalidJSON},
		{"missing status", `{"company":"Acme","position":"Engineer"}`, http.StatusUnprocessableEntity, dtos.CodeValidation},
		{"unknown status", `{"company":"Acme","position":"Engineer","status":"ghosted"}`, http.StatusUnprocessableEntity, dtos.CodeValidation},
		{"empty company", `{"company":"","position":"Engineer","status":"applied"}`, http.StatusUnprocessableEntity, dtos.CodeValidation},
		{"blank company", `{"company":"  ","position":"Engineer","status":"applied"}`, http.StatusUnprocessableEntity, dtos.CodeValidation},
		{"impossible applied date", `{"company":"Acme","position":"Engineer","status":"applied","applied_date":"2024-13-45"}`, http.StatusUnprocessableEntity, dtos.CodeValidation},
		{"mass assignment of id", `{"id":9,"company":"Acme","position":"Engineer","status":"applied"}`, http.StatusUnprocessableEntity, dtos.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t)

			rec := do(r, http.MethodPost, "/api/v1/applications", tt.body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[dtos.ErrorResponse](t, rec).Error)

			list := decode[[]models.Application](t, do(r, http.MethodGet, "/api/v1/applications", ""))
			assert.Empty(t, list)
		})
	}
}

func TestGetApplication(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"offer"}`)

	rec := do(r, http.MethodGet, "/api/v1/applications/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusOffer, decode[models.Application](t, rec).Status)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/applications/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/applications/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/applications/0", "").Code)
}

func TestListApplications_StatusFilter(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"applied"}`)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Globex","position":"Engineer","status":"offer"}`)

	all := decode[[]models.Application](t, do(r, http.MethodGet, "/api/v1/applications?status=all", ""))
	assert.Len(t, all, 2)

	offers := decode[[]models.Application](t, do(r, http.MethodGet, "/api/v1/applications?status=offer", ""))
	require.Len(t, offers, 1)
	assert.Equal(t, "Globex", offers[0].Company)

	rec := do(r, http.MethodGet, "/api/v1/applications?status=hired", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListApplications_EmptyIsArray(t *testing.T) {
	rec := do(newRouter(t), http.MethodGet, "/api/v1/applications", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateApplication_PartialMerge(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"applied","notes":"x","link":"https://acme.com"}`)

	rec := do(r, http.MethodPut, "/api/v1/applications/1", `{"notes":"y","updated_date":"2024-03-04"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	app := decode[models.Application](t, rec)
	assert.Equal(t, "y", *app.Notes)
	assert.Equal(t, "Acme", app.Company)
	assert.Equal(t, "Engineer", app.Position)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, "https://acme.com", *app.Link)
	assert.Equal(t, "2024-03-04", app.UpdatedDate.String())
}

func TestUpdateApplication_NullClearsOptionalField(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"applied","link":"https://acme.com"}`)

	rec := do(r, http.MethodPatch, "/api/v1/applications/1", `{"link":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[models.Application](t, rec).Link)
}

func TestUpdateApplication_DuplicateViaMerge(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"applied"}`)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Manager","status":"applied"}`)

	rec := do(r, http.MethodPut, "/api/v1/applications/2", `{"position":"Engineer"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	app := decode[models.Application](t, do(r, http.MethodGet, "/api/v1/applications/2", ""))
	assert.Equal(t, "Manager", app.Position)

	// Re-sending the record's own pair is not a conflict.
	rec = do(r, http.MethodPut, "/api/v1/applications/1", `{"position":"Engineer"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateApplication_Errors(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"applied"}`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/v1/applications/5", `{"notes":"n"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPut, "/api/v1/applications/1", `{"status":"hired"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPut, "/api/v1/applications/1", `{"company":null}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPut, "/api/v1/applications/1", `{"id":3}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/v1/applications/1", `not json`).Code)
}

func TestUpdateApplication_ImpossibleDateIsValidationError(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"applied"}`)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		rec := do(r, method, "/api/v1/applications/1", `{"updated_date":"2024-02-30"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		body := decode[dtos.ErrorResponse](t, rec)
		assert.Equal(t, dtos.CodeValidation, body.Error)
		require.Len(t, body.Fields, 1)
		assert.Equal(t, "updated_date", body.Fields[0].Field)
	}

	got := decode[models.Application](t, do(r, http.MethodGet, "/api/v1/applications/1", ""))
	assert.Nil(t, got.UpdatedDate)
}

func TestDeleteApplication(t *testing.T) {
	r := newRouter(t)
	do(r, http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","status":"rejected"}`)

	rec := do(r, http.MethodDelete, "/api/v1/applications/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", decode[models.Application](t, rec).Company)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/applications/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/v1/applications/1", "").Code)
}

// failingService reports the same error from every operation.
type failingService struct{ err error }

func (f failingService) List(context.Context) ([]models.Application, error) { return nil, f.err }
func (f failingService) Get(context.Context, int64) (*models.Application, error) {
	return nil, f.err
}
func (f failingService) Create(context.Context, models.NewApplication) (*models.Application, error) {
	return nil, f.err
}
func (f failingService) Update(context.Context, int64, models.ApplicationPatch) (*models.Application, error) {
	return nil, f.err
}
func (f failingService) Delete(context.Context, int64) (*models.Application, error) {
	return nil, f.err
}

func TestErrorMapping_InfrastructureFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"store down", &models.StoreError{Op: "list", Err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, dtos.CodeStoreUnavailable},
		{"deadline", &models.StoreError{Op: "list", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, dtos.CodeTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dtos.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := handlers.NewRouter(handlers.RouterConfig{}, failingService{tt.err}, quiet)

			rec := do(r, http.MethodGet, "/api/v1/applications", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode[dtos.ErrorResponse](t, rec).Error)
		})
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	svc := services.NewApplicationService(repository.NewMemoryStore(), quiet)
	r := handlers.NewRouter(handlers.RouterConfig{AllowedOrigins: []string{"http://dashboard.test"}}, svc, quiet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
	req.Header.Set("Origin", "http://dashboard.test")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://dashboard.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
