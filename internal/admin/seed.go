// internal/admin/seed.go
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PermissionSeed is one aggregate in a seed file (YAML or JSON).
type PermissionSeed struct {
	UserID            string   `json:"user_id" yaml:"user_id"`
	TenantID          string   `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	UserPermissions   []string `json:"user_permissions" yaml:"user_permissions"`
	TenantPermissions []string `json:"tenant_permissions" yaml:"tenant_permissions"`
}

func loadSeeds(dir string) ([]PermissionSeed, error) {
	if dir == "" {
		return nil, nil
	}
	out := []PermissionSeed{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			return nil
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var seeds []PermissionSeed
		if ext == ".json" {
			if err := json.Unmarshal(b, &seeds); err != nil {
				return fmt.Errorf("json parse %s: %w", path, err)
			}
		} else {
			if err := yaml.Unmarshal(b, &seeds); err != nil {
				return fmt.Errorf("yaml parse %s: %w", path, err)
			}
		}
		out = append(out, seeds...)
		return nil
	})
	return out, err
}

// importSeedsFromDir upserts every aggregate found under dir. Bad entries are
// skipped with a warning so one typo does not block startup.
func importSeedsFromDir(ctx context.Context, db *pgxpool.Pool, log *zap.SugaredLogger, dir string) error {
	seeds, err := loadSeeds(dir)
	if err != nil {
		return err
	}
	for _, s := range seeds {
		userID, err := uuid.Parse(s.UserID)
		if err != nil {
			log.Warnw("seed skipped", "userId", s.UserID, "err", err)
			continue
		}
		var tenantID *uuid.UUID
		if s.TenantID != "" {
			t, err := uuid.Parse(s.TenantID)
			if err != nil {
				log.Warnw("seed skipped", "tenantId", s.TenantID, "err", err)
				continue
			}
			tenantID = &t
		}
		tx, err := db.Begin(ctx)
		if err != nil {
			return err
		}
		if _, err := upsertAggregate(ctx, tx, userID, tenantID, s.UserPermissions, s.TenantPermissions); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}
	if len(seeds) > 0 {
		log.Infow("permission seeds imported", "count", len(seeds), "dir", dir)
	}
	return nil
}
