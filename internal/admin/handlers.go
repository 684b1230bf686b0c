// internal/admin/handlers.go
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"saasid/pkg/permissions"
)

// PermissionAggregate is the wire shape of a whole permission record. Writes
// always replace both child sets: the record owns them exclusively, so there
// is no partial child update.
type PermissionAggregate struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"userId"`
	TenantID          *uuid.UUID `json:"tenantId"`
	UserPermissions   []string   `json:"userPermissions"`
	TenantPermissions []string   `json:"tenantPermissions"`
}

func aggregateFromRecord(rec permissions.Record) PermissionAggregate {
	agg := PermissionAggregate{
		ID: rec.ID, UserID: rec.UserID, TenantID: rec.TenantID,
		UserPermissions: []string{}, TenantPermissions: []string{},
	}
	for _, p := range rec.UserPermissions {
		agg.UserPermissions = append(agg.UserPermissions, p.PermissionName)
	}
	for _, p := range rec.TenantPermissions {
		agg.TenantPermissions = append(agg.TenantPermissions, p.PermissionName)
	}
	return agg
}

func (a *App) listUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := permissions.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	records, err := a.store.GetPermissions(r.Context(), userID)
	if err != nil {
		a.log.Errorw("list permissions", "userId", userID, "err", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	out := []PermissionAggregate{}
	for _, rec := range records {
		out = append(out, aggregateFromRecord(rec))
	}
	writeJSON(w, out, http.StatusOK)
}

type upsertBody struct {
	TenantID          *uuid.UUID `json:"tenantId"`
	UserPermissions   []string   `json:"userPermissions"`
	TenantPermissions []string   `json:"tenantPermissions"`
}

func (a *App) upsertUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := permissions.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var b upsertBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	tx, err := a.db.Begin(r.Context())
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(r.Context()) }()

	recID, err := upsertAggregate(r.Context(), tx, userID, b.TenantID, b.UserPermissions, b.TenantPermissions)
	if err != nil {
		a.log.Errorw("upsert permissions", "userId", userID, "err", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"id": recID}, http.StatusOK)
}

func (a *App) deletePermissionRecord(w http.ResponseWriter, r *http.Request) {
	recID, err := permissions.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}
	// Children go with the record via ON DELETE CASCADE.
	tag, err := a.db.Exec(r.Context(), `DELETE FROM saas_permissions WHERE id=$1`, recID)
	if err != nil {
		a.log.Errorw("delete permission record", "id", recID, "err", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if tag.RowsAffected() == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"ok": true}, http.StatusOK)
}

// upsertAggregate writes a whole permission record inside tx: the parent row
// is created if (userID, tenantID) is new, then both child sets are replaced
// with the given names in order.
func upsertAggregate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, tenantID *uuid.UUID, userPerms, tenantPerms []string) (uuid.UUID, error) {
	var recID uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM saas_permissions WHERE user_id=$1 AND tenant_id IS NOT DISTINCT FROM $2`, userID, tenantID).Scan(&recID)
	if errors.Is(err, pgx.ErrNoRows) {
		recID = uuid.New()
		if _, err := tx.Exec(ctx, `INSERT INTO saas_permissions(id, user_id, tenant_id) VALUES ($1,$2,$3)`, recID, userID, tenantID); err != nil {
			return uuid.Nil, err
		}
	} else if err != nil {
		return uuid.Nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_permissions WHERE saas_permission_id=$1`, recID); err != nil {
		return uuid.Nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM tenant_permissions WHERE saas_permission_id=$1`, recID); err != nil {
		return uuid.Nil, err
	}
	for i, name := range userPerms {
		if _, err := tx.Exec(ctx, `INSERT INTO user_permissions(id, saas_permission_id, permission_name, seq) VALUES ($1,$2,$3,$4)`, uuid.New(), recID, name, i); err != nil {
			return uuid.Nil, err
		}
	}
	for i, name := range tenantPerms {
		if _, err := tx.Exec(ctx, `INSERT INTO tenant_permissions(id, saas_permission_id, permission_name, seq) VALUES ($1,$2,$3,$4)`, uuid.New(), recID, name, i); err != nil {
			return uuid.Nil, err
		}
	}
	return recID, nil
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
