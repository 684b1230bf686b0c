// internal/admin/app.go
package admin

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"go.uber.org/zap"

	"saasid/pkg/permissions"
)

// Config holds permissions-admin specific configuration.
type Config struct {
	HTTPAddr     string
	OIDCIssuer   string
	OIDCAudience string
	JWKSURL      string
	SeedDir      string
}

// App is the permissions-admin application container.
// Handlers and middleware have methods on this type.
//
// Keep it lean: shared deps and config only.
// Request-scoped work should use context.
type App struct {
	log         *zap.SugaredLogger
	db          *pgxpool.Pool
	store       permissions.Store
	adminJWKS   jwk.Set
	adminIssuer string
	adminAud    string
}

// New constructs App and performs one-time startup tasks (schema, seed import).
func New(log *zap.SugaredLogger, db *pgxpool.Pool, cfg Config) *App {
	app := &App{
		log:         log,
		db:          db,
		store:       permissions.NewPostgresStore(db, 0, log),
		adminIssuer: cfg.OIDCIssuer,
		adminAud:    cfg.OIDCAudience,
	}
	if cfg.JWKSURL != "" {
		app.adminJWKS = mustJWKS(cfg.JWKSURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := permissions.EnsureSchema(ctx, app.db); err != nil {
		log.Fatalf("ensure permissions schema: %v", err)
	}
	if dir := cfg.SeedDir; dir != "" {
		if err := importSeedsFromDir(ctx, app.db, log, dir); err != nil {
			log.Warnf("seed import failed: %v", err)
		}
	}
	return app
}
