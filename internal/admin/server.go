// internal/admin/server.go
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler builds the HTTP handler with routes and middleware.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Logger, chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(a.adminAuth)
		ar.Get("/permissions/users/{userID}", a.listUserPermissions)
		ar.Put("/permissions/users/{userID}", a.upsertUserPermissions)
		ar.Delete("/permissions/{id}", a.deletePermissionRecord)
	})

	return r
}
