// pkg/permissions/postgres.go
package permissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool  *pgxpool.Pool      // Connection pool to PostgreSQL
	timeout time.Duration      // Per-query deadline (token-issuance critical path)
	log     *zap.SugaredLogger // Logger for diagnostic output
}

// NewPostgresStore constructs a PostgreSQL-backed permission store.
func NewPostgresStore(dbPool *pgxpool.Pool, timeout time.Duration, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, timeout: timeout, log: log}
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent). The partial index enforces at most one
// global (tenant-less) record per user, which a plain composite unique index
// would not because NULLs never compare equal.
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS saas_permissions (
  id uuid PRIMARY KEY,
  user_id uuid NOT NULL,
  tenant_id uuid,
  created_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS saas_permissions_user_tenant_idx ON saas_permissions(user_id, tenant_id);
CREATE UNIQUE INDEX IF NOT EXISTS saas_permissions_user_global_idx ON saas_permissions(user_id) WHERE tenant_id IS NULL;
CREATE TABLE IF NOT EXISTS user_permissions (
  id uuid PRIMARY KEY,
  saas_permission_id uuid NOT NULL REFERENCES saas_permissions(id) ON DELETE CASCADE,
  permission_name text NOT NULL,
  seq int NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS user_permissions_parent_idx ON user_permissions(saas_permission_id);
CREATE TABLE IF NOT EXISTS tenant_permissions (
  id uuid PRIMARY KEY,
  saas_permission_id uuid NOT NULL REFERENCES saas_permissions(id) ON DELETE CASCADE,
  permission_name text NOT NULL,
  seq int NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS tenant_permissions_parent_idx ON tenant_permissions(saas_permission_id);
`)
	return err
}

// GetPermissions loads every aggregate for the user with both child sets
// fully materialized. Returns an empty slice when the user has no records.
func (s *pgStore) GetPermissions(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	s.log.Debugw("permissions requested", "userId", userID)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.dbPool.Query(ctx, `SELECT id, user_id, tenant_id FROM saas_permissions WHERE user_id=$1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := []Record{}
	index := map[uuid.UUID]int{}
	var ids []uuid.UUID
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.TenantID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		rec.UserPermissions = []UserPermission{}
		rec.TenantPermissions = []TenantPermission{}
		index[rec.ID] = len(records)
		records = append(records, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(records) == 0 {
		return records, nil
	}

	urows, err := s.dbPool.Query(ctx, `SELECT id, saas_permission_id, permission_name FROM user_permissions WHERE saas_permission_id = ANY($1) ORDER BY saas_permission_id, seq, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer urows.Close()
	for urows.Next() {
		var p UserPermission
		if err := urows.Scan(&p.ID, &p.RecordID, &p.PermissionName); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		i := index[p.RecordID]
		records[i].UserPermissions = append(records[i].UserPermissions, p)
	}
	if err := urows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	trows, err := s.dbPool.Query(ctx, `SELECT id, saas_permission_id, permission_name FROM tenant_permissions WHERE saas_permission_id = ANY($1) ORDER BY saas_permission_id, seq, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer trows.Close()
	for trows.Next() {
		var p TenantPermission
		if err := trows.Scan(&p.ID, &p.RecordID, &p.PermissionName); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		i := index[p.RecordID]
		records[i].TenantPermissions = append(records[i].TenantPermissions, p)
	}
	if err := trows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return records, nil
}
