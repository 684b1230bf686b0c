package claims

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saasid/pkg/permissions"
)

func newTestApp(t *testing.T) (*App, *permissions.MemoryStore, http.Handler) {
	t.Helper()
	log := zap.NewNop().Sugar()
	store := permissions.NewMemoryStore(log)
	app := New(log, permissions.NewService(store, nil, 0, log))
	r := chi.NewRouter()
	app.RegisterHTTP(r)
	return app, store, r
}

func callbackBody(subjectID, correlationID string) []byte {
	payload := map[string]any{
		"data": map[string]any{
			"authenticationContext": map[string]any{
				"user":          map[string]any{"id": subjectID},
				"correlationId": correlationID,
			},
		},
	}
	b, _ := json.Marshal(payload)
	return b
}

func TestPermissions_UserWithClaims(t *testing.T) {
	_, store, h := newTestApp(t)
	userID := uuid.New()
	tenantID := uuid.New()
	store.Put(userID, &tenantID, []string{"invoice.read"}, []string{"tenant.admin"})

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", bytes.NewReader(callbackBody(userID.String(), "abc-123")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtensionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "microsoft.graph.onTokenIssuanceStartResponseData", resp.Data.ODataType)
	require.Len(t, resp.Data.Actions, 1)
	action := resp.Data.Actions[0]
	require.Equal(t, "microsoft.graph.tokenIssuanceStart.provideClaimsForToken", action.ODataType)
	require.NotNil(t, action.Claims.CorrelationID)
	require.Equal(t, "abc-123", *action.Claims.CorrelationID)
	require.Equal(t, "1.0.0", action.Claims.APIVersion)
	require.Equal(t, []string{"invoice.read", "tenant.admin"}, action.Claims.Permissions)
}

func TestPermissions_UserWithoutRecords(t *testing.T) {
	_, _, h := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", bytes.NewReader(callbackBody(uuid.NewString(), "corr-1")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtensionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{}, resp.Data.Actions[0].Claims.Permissions)
}

func TestPermissions_MissingSubject(t *testing.T) {
	_, _, h := newTestApp(t)

	body := []byte(`{"data":{"authenticationContext":{"correlationId":"x"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid-identifier")
}

func TestPermissions_UnparsableSubject(t *testing.T) {
	_, _, h := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", bytes.NewReader(callbackBody("not-a-guid", "x")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid-identifier")
}

func TestPermissions_MalformedBody(t *testing.T) {
	_, _, h := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "malformed-request")
}

func TestPermissions_NullCorrelationID(t *testing.T) {
	_, _, h := newTestApp(t)

	body := []byte(`{"data":{"authenticationContext":{"user":{"id":"` + uuid.NewString() + `"}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	data := raw["data"].(map[string]any)
	action := data["actions"].([]any)[0].(map[string]any)
	claimsObj := action["claims"].(map[string]any)
	require.Nil(t, claimsObj["correlationId"])
}

type failingStore struct{}

func (failingStore) GetPermissions(ctx context.Context, userID uuid.UUID) ([]permissions.Record, error) {
	return nil, errors.Join(permissions.ErrStoreUnavailable, errors.New("connection refused"))
}

func TestPermissions_StoreFailure(t *testing.T) {
	log := zap.NewNop().Sugar()
	app := New(log, permissions.NewService(failingStore{}, nil, 0, log))
	r := chi.NewRouter()
	app.RegisterHTTP(r)

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", bytes.NewReader(callbackBody(uuid.NewString(), "x")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "store-unavailable")
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRoles_AlwaysEmpty(t *testing.T) {
	_, _, h := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/roles", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RolesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{}, resp.Roles)
}
