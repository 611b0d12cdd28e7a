package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekzitek/crudelty/internal/logstore"
	"github.com/radekzitek/crudelty/internal/metrics"
	"github.com/radekzitek/crudelty/internal/models"
	"github.com/radekzitek/crudelty/internal/storage"
)

// Integration tests for the CRUD handlers.
//
// These tests require a PostgreSQL database to be running:
//
//   DATABASE_URL="postgres://postgres@localhost:5432/orgdb_test?sslmode=disable" go test ./internal/httpapi/

func skipIfNoDatabase(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
}

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.NewDB(storage.DBConfig{
		DSN:             os.Getenv("DATABASE_URL"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 15 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		OrgCacheSize:    100,
		OrgCacheTTL:     time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.Ping(ctx))

	schema, err := os.ReadFile("../../migrations/schema.sql")
	require.NoError(t, err)
	_, err = db.Conn().ExecContext(ctx, string(schema))
	require.NoError(t, err)

	_, err = db.Conn().ExecContext(ctx,
		`TRUNCATE teams, positions, employees, departments, organizations RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestOrganizationsHandler_Lifecycle(t *testing.T) {
	skipIfNoDatabase(t)
	db := setupTestDB(t)
	h := NewOrganizationsHandler(storage.NewOrganizationRepository(db))

	// Create
	rec, created := doJSON(t, h.Handle, http.MethodPost, "/organizations",
		`{"Name":"Acme","Address":"1 Main St","Website":"https://acme.example"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Acme", created["Name"])
	require.NotZero(t, created["OrganizationID"])
	id := int64(created["OrganizationID"].(float64))

	// Get
	rec, fetched := doJSON(t, h.Handle, http.MethodGet, fmt.Sprintf("/organizations/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", fetched["Name"])
	assert.Equal(t, "1 Main St", fetched["Address"])

	// List
	rec, _ = doJSON(t, h.Handle, http.MethodGet, "/organizations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []*models.Organization
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	// Partial update leaves other fields alone
	rec, updated := doJSON(t, h.Handle, http.MethodPut, fmt.Sprintf("/organizations/%d", id),
		`{"Phone":"555-0100"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555-0100", updated["Phone"])
	assert.Equal(t, "Acme", updated["Name"])
	assert.Equal(t, "1 Main St", updated["Address"])

	// Delete returns the deleted entity
	rec, deleted := doJSON(t, h.Handle, http.MethodDelete, fmt.Sprintf("/organizations/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", deleted["Name"])

	// Gone afterwards
	rec, _ = doJSON(t, h.Handle, http.MethodGet, fmt.Sprintf("/organizations/%d", id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployeesHandler_DuplicateEmail(t *testing.T) {
	skipIfNoDatabase(t)
	db := setupTestDB(t)

	orgs := NewOrganizationsHandler(storage.NewOrganizationRepository(db))
	rec, org := doJSON(t, orgs.Handle, http.MethodPost, "/organizations", `{"Name":"Acme"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	orgID := int64(org["OrganizationID"].(float64))

	h := NewEmployeesHandler(storage.NewEmployeeRepository(db))

	rec, _ = doJSON(t, h.Handle, http.MethodPost, "/employees",
		fmt.Sprintf(`{"Name":"Ann","Email":"ann@example.com","OrganizationID":%d}`, orgID))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same address with different casing is still a duplicate.
	rec, resp := doJSON(t, h.Handle, http.MethodPost, "/employees",
		fmt.Sprintf(`{"Name":"Ann Again","Email":"  ANN@Example.com ","OrganizationID":%d}`, orgID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", resp["error"])
}

func TestDepartmentsHandler_Filter(t *testing.T) {
	skipIfNoDatabase(t)
	db := setupTestDB(t)

	orgs := NewOrganizationsHandler(storage.NewOrganizationRepository(db))
	_, first := doJSON(t, orgs.Handle, http.MethodPost, "/organizations", `{"Name":"First"}`)
	_, second := doJSON(t, orgs.Handle, http.MethodPost, "/organizations", `{"Name":"Second"}`)
	firstID := int64(first["OrganizationID"].(float64))
	secondID := int64(second["OrganizationID"].(float64))

	h := NewDepartmentsHandler(storage.NewDepartmentRepository(db))
	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, h.Handle, http.MethodPost, "/departments",
			fmt.Sprintf(`{"Name":"Dept %d","OrganizationID":%d}`, i, firstID))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec, _ := doJSON(t, h.Handle, http.MethodPost, "/departments",
		fmt.Sprintf(`{"Name":"Elsewhere","OrganizationID":%d}`, secondID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/departments?org_id=%d", firstID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []*models.Department
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestHealthEndpoint_Integration(t *testing.T) {
	skipIfNoDatabase(t)
	db := setupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := logstore.New(logstore.DefaultConfig(mr.Addr()))
	t.Cleanup(func() { store.Close() })

	h := NewObservabilityHandler(db, store, metrics.New(time.Hour, true))

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, "connected", resp.LogStore)
	assert.Equal(t, Version, resp.Version)
}
