package permissions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStore_EmptyUser(t *testing.T) {
	s := NewMemoryStore(zap.NewNop().Sugar())
	recs, err := s.GetPermissions(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	s := NewMemoryStore(zap.NewNop().Sugar())
	userID := uuid.New()
	tenantID := uuid.New()

	s.Put(userID, &tenantID, []string{"invoice.read"}, []string{"tenant.admin"})
	s.Put(userID, nil, []string{"global.read"}, nil)

	recs, err := s.GetPermissions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, []string{"invoice.read", "tenant.admin", "global.read"}, BuildClaims(recs))
}

func TestMemoryStore_PutReplacesAggregate(t *testing.T) {
	s := NewMemoryStore(zap.NewNop().Sugar())
	userID := uuid.New()
	tenantID := uuid.New()

	s.Put(userID, &tenantID, []string{"old"}, nil)
	s.Put(userID, &tenantID, []string{"new"}, []string{"tenant.new"})

	recs, err := s.GetPermissions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, []string{"new", "tenant.new"}, BuildClaims(recs))
}

func TestMemoryStoreFromEnv(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()
	t.Setenv("PERMISSION_SEED_JSON",
		`[{"userId":"`+userID.String()+`","tenantId":"`+tenantID.String()+`","userPermissions":["invoice.read"],"tenantPermissions":["tenant.admin"]},`+
			`{"userId":"not-a-guid","userPermissions":["ignored"]}]`)

	s := NewMemoryStoreFromEnv(zap.NewNop().Sugar())
	recs, err := s.GetPermissions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, userID, recs[0].UserID)
	require.NotNil(t, recs[0].TenantID)
	require.Equal(t, tenantID, *recs[0].TenantID)
	require.Equal(t, []string{"invoice.read", "tenant.admin"}, BuildClaims(recs))
}
