// Package health answers liveness and readiness probes.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"

	"zayro/store"
	"zayro/utils"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type Service struct {
	checkers []Checker
	timeout  time.Duration
}

// NewService aggregates dependency checkers.
func NewService(checkers ...Checker) *Service {
	return &Service{checkers: checkers, timeout: 2 * time.Second}
}

// Ready runs every checker and returns the first failure.
func (s *Service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := ch.Check(cctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}

// Live always answers 200.
func (s *Service) Live(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) ReadyHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.Ready(r.Context()); err != nil {
		utils.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type StoreChecker struct {
	store store.Store
}

func NewStoreChecker(s store.Store) *StoreChecker { return &StoreChecker{store: s} }

func (c *StoreChecker) Name() string { return "store" }

func (c *StoreChecker) Check(ctx context.Context) error { return c.store.Ping(ctx) }

type RedisChecker struct {
	client *redis.Client
}

func NewRedisChecker(client *redis.Client) *RedisChecker { return &RedisChecker{client: client} }

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error { return c.client.Ping(ctx).Err() }
