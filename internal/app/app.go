// Package app assembles the blog service from its configuration and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goblog/internal/pkg/clock"
	"github.com/shandysiswandi/goblog/internal/pkg/config"
	"github.com/shandysiswandi/goblog/internal/pkg/hash"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/jwt"
	"github.com/shandysiswandi/goblog/internal/pkg/openapi"
	"github.com/shandysiswandi/goblog/internal/pkg/ratelimit"
	"github.com/shandysiswandi/goblog/internal/pkg/router"
	"github.com/shandysiswandi/goblog/internal/pkg/uid"
	"github.com/shandysiswandi/goblog/internal/pkg/validator"
)

// App holds the wired service and the resources it must release on exit.
type App struct {
	config config.Config
	ins    instrument.Instrumentation

	validator *validator.V10Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uuid      uid.StringID
	jwt       jwt.JWT

	dbConn        *pgxpool.Pool
	cacheConn     *redis.Client
	signInLimiter ratelimit.Limiter
	signUpLimiter ratelimit.Limiter

	router     *router.Router
	docs       *openapi.Registry
	httpServer *http.Server

	// released last to first
	resources []resource
}

type resource struct {
	name  string
	close func(context.Context) error
}

type step struct {
	name string
	run  func(context.Context) error
}

// New builds every dependency in order. When a step fails the resources
// opened so far are released and the step error is returned.
//
// ctx bounds startup only. Cancelling it aborts any dependency still
// being retried.
func New(ctx context.Context) (*App, error) {
	a := &App{}

	steps := []step{
		{"config", a.initConfig},
		{"instrument", a.initInstrument},
		{"libraries", a.initLibraries},
		{"jwt", a.initJWT},
		{"database", a.initDatabase},
		{"cache", a.initCache},
		{"rate limiter", a.initRateLimiter},
		{"http server", a.initHTTPServer},
		{"modules", a.initModules},
	}

	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			return nil, errors.Join(
				fmt.Errorf("init %s: %w", s.name, err),
				a.release(context.WithoutCancel(ctx)),
			)
		}
	}

	return a, nil
}

func (a *App) onRelease(name string, fn func(context.Context) error) {
	a.resources = append(a.resources, resource{name: name, close: fn})
}

// release closes resources in reverse order of acquisition and reports
// every failure.
func (a *App) release(ctx context.Context) error {
	var errs []error
	for i := len(a.resources) - 1; i >= 0; i-- {
		r := a.resources[i]
		if err := r.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", r.name, err))
		}
	}
	a.resources = nil

	return errors.Join(errs...)
}
