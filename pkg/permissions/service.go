// pkg/permissions/service.go
package permissions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Service composes the resolver and the claim shaper: it loads a user's
// permission aggregates and renders them into the flat claim list. An optional
// short-TTL Redis cache sits in front of the store; cache errors fail open to
// the store so Redis never blocks token issuance.
type Service struct {
	store Store
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.SugaredLogger
}

// NewService wires a Service. rdb may be nil and ttl zero, which disables caching.
func NewService(store Store, rdb *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *Service {
	return &Service{store: store, rdb: rdb, ttl: ttl, log: log}
}

// ClaimsFor resolves the user's effective permission claims.
func (s *Service) ClaimsFor(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if claims, ok := s.cacheGet(ctx, userID); ok {
		return claims, nil
	}
	records, err := s.store.GetPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	claims := BuildClaims(records)
	s.cachePut(ctx, userID, claims)
	return claims, nil
}

func cacheKey(userID uuid.UUID) string { return "claims:" + userID.String() }

func (s *Service) cacheGet(ctx context.Context, userID uuid.UUID) ([]string, bool) {
	if s.rdb == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Debugw("claims cache get", "err", err)
		}
		return nil, false
	}
	var claims []string
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, false
	}
	return claims, true
}

func (s *Service) cachePut(ctx context.Context, userID uuid.UUID, claims []string) {
	if s.rdb == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(userID), raw, s.ttl).Err(); err != nil {
		s.log.Debugw("claims cache set", "err", err)
	}
}
