package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekzitek/crudelty/internal/utils"
)

// These tests cover validation and dispatch, which never reach the
// repository. Database-backed behavior is covered by the integration
// tests alongside.

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestOrganizationsHandler_Validation(t *testing.T) {
	h := NewOrganizationsHandler(nil)

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/organizations", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeError(t, rec))
	})

	t.Run("missing name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/organizations", strings.NewReader(`{"Address":"1 Main St"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name is required", decodeError(t, rec))
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodGet, "/organizations/acme", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid ID", decodeError(t, rec))
	})

	t.Run("unsupported collection method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodDelete, "/organizations", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("unsupported item method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/organizations/5", strings.NewReader("{}")))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestDepartmentsHandler_Validation(t *testing.T) {
	h := NewDepartmentsHandler(nil)

	t.Run("missing name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"OrganizationID":1}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name is required", decodeError(t, rec))
	})

	t.Run("missing organization", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"Name":"Engineering"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "OrganizationID is required", decodeError(t, rec))
	})
}

func TestEmployeesHandler_Validation(t *testing.T) {
	h := NewEmployeesHandler(nil)

	t.Run("missing email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"Name":"Ann","OrganizationID":1}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email is required", decodeError(t, rec))
	})

	t.Run("missing organization", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"Name":"Ann","Email":"ann@example.com"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "OrganizationID is required", decodeError(t, rec))
	})
}

func TestPositionsHandler_Validation(t *testing.T) {
	h := NewPositionsHandler(nil)

	t.Run("missing department", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/positions", strings.NewReader(`{"Name":"Engineer"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "DepartmentID is required", decodeError(t, rec))
	})
}

func TestTeamsHandler_Validation(t *testing.T) {
	h := NewTeamsHandler(nil)

	t.Run("missing name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"OrganizationID":1}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name is required", decodeError(t, rec))
	})

	t.Run("invalid org filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodGet, "/teams?org_id=acme", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
