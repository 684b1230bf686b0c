// internal/claims/app.go
package claims

import (
	"go.uber.org/zap"

	"saasid/pkg/permissions"
)

// App is the claims-service application container.
// Handlers are methods on this type.
//
// Keep it lean: shared deps only. Request-scoped work uses context.
type App struct {
	log *zap.SugaredLogger
	svc *permissions.Service
}

// New constructs the App with explicit dependencies — no ambient lookups.
func New(log *zap.SugaredLogger, svc *permissions.Service) *App {
	return &App{log: log, svc: svc}
}
