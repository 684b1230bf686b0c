// cmd/claims-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"saasid/internal/claims"
	"saasid/pkg/config"
	"saasid/pkg/db"
	"saasid/pkg/logger"
	"saasid/pkg/middleware"
	"saasid/pkg/permissions"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	trusted, err := uuid.Parse(cfg.TrustedParty)
	if err != nil {
		log.Fatalw("trusted party", "value", cfg.TrustedParty, "err", err)
	}

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var store permissions.Store
	if pool != nil {
		store = permissions.NewPostgresStore(pool, cfg.StoreTimeout, log)
		if err := permissions.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
	} else {
		store = permissions.NewMemoryStoreFromEnv(log)
	}

	svc := permissions.NewService(store, rdb, cfg.ClaimsCacheTTL, log)
	app := claims.New(log, svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing("saasid-claims"))
	r.Use(middleware.JWTAuth(cfg, trusted, log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	app.RegisterHTTP(r)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("claims-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("claims-service stopped")
}
