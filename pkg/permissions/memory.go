// pkg/permissions/memory.go
package permissions

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory Store for dev bring-up and tests. Unlike the
// Postgres store it is also writable, via Put, so seeds and tests can shape it.
type MemoryStore struct {
	log    *zap.SugaredLogger
	mu     sync.RWMutex
	byUser map[uuid.UUID][]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(log *zap.SugaredLogger) *MemoryStore {
	return &MemoryStore{log: log, byUser: map[uuid.UUID][]Record{}}
}

// NewMemoryStoreFromEnv seeds the store from PERMISSION_SEED_JSON:
// [
//
//	{"userId":"...","tenantId":"...","userPermissions":["..."],"tenantPermissions":["..."]}
//
// ]
func NewMemoryStoreFromEnv(log *zap.SugaredLogger) *MemoryStore {
	s := NewMemoryStore(log)
	seed := os.Getenv("PERMISSION_SEED_JSON")
	if seed == "" {
		return s
	}
	var entries []struct {
		UserID            string   `json:"userId"`
		TenantID          string   `json:"tenantId"`
		UserPermissions   []string `json:"userPermissions"`
		TenantPermissions []string `json:"tenantPermissions"`
	}
	if err := json.Unmarshal([]byte(seed), &entries); err != nil {
		log.Warnw("permission seed parse", "err", err)
		return s
	}
	for _, e := range entries {
		uid, err := uuid.Parse(e.UserID)
		if err != nil {
			log.Warnw("permission seed skipped", "userId", e.UserID, "err", err)
			continue
		}
		var tid *uuid.UUID
		if e.TenantID != "" {
			t, err := uuid.Parse(e.TenantID)
			if err != nil {
				log.Warnw("permission seed skipped", "tenantId", e.TenantID, "err", err)
				continue
			}
			tid = &t
		}
		s.Put(uid, tid, e.UserPermissions, e.TenantPermissions)
	}
	return s
}

// Put upserts the aggregate for (userID, tenantID), replacing both child sets.
func (s *MemoryStore) Put(userID uuid.UUID, tenantID *uuid.UUID, userPerms, tenantPerms []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := Record{ID: uuid.New(), UserID: userID, TenantID: tenantID,
		UserPermissions: []UserPermission{}, TenantPermissions: []TenantPermission{}}
	for _, name := range userPerms {
		rec.UserPermissions = append(rec.UserPermissions, UserPermission{ID: uuid.New(), RecordID: rec.ID, PermissionName: name})
	}
	for _, name := range tenantPerms {
		rec.TenantPermissions = append(rec.TenantPermissions, TenantPermission{ID: uuid.New(), RecordID: rec.ID, PermissionName: name})
	}
	recs := s.byUser[userID]
	for i := range recs {
		if sameTenant(recs[i].TenantID, tenantID) {
			rec.ID = recs[i].ID
			recs[i] = rec
			return
		}
	}
	s.byUser[userID] = append(recs, rec)
}

// GetPermissions returns copies of the user's aggregates in insertion order.
func (s *MemoryStore) GetPermissions(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.byUser[userID]
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
