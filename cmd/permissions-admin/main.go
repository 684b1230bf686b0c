// cmd/permissions-admin/main.go
package main

import (
	"net/http"
	"os"
	"strings"

	"saasid/internal/admin"
	"saasid/pkg/config"
	pdb "saasid/pkg/db"
	"saasid/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()

	bind := os.Getenv("ADMIN_HTTP_ADDR")
	if strings.TrimSpace(bind) == "" {
		bind = cfg.AdminAddr
	}

	pool := pdb.MustConnect(cfg, log)
	if pool == nil {
		log.Fatalw("permissions-admin requires DATABASE_URL")
	}

	app := admin.New(
		log,
		pool,
		admin.Config{
			HTTPAddr:     bind,
			OIDCIssuer:   os.Getenv("ADMIN_OIDC_ISSUER"),
			OIDCAudience: os.Getenv("ADMIN_OIDC_AUDIENCE"),
			JWKSURL:      os.Getenv("ADMIN_JWKS_URL"),
			SeedDir:      os.Getenv("PERMISSION_SEED_DIR"),
		},
	)

	log.Infof("permissions-admin listening at %s", bind)
	if err := http.ListenAndServe(bind, app.Handler()); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
