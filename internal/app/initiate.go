package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
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

const (
	defaultConfigPath = "/config/config.yaml"
	localConfigPath   = "./config/config.yaml"
	pingTimeout       = 5 * time.Second
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return localConfigPath
	}
	return defaultConfigPath
}

func (a *App) initConfig(context.Context) error {
	cfg, err := config.NewViper(configPath())
	if err != nil {
		return err
	}
	a.config = cfg
	a.onRelease("config", func(context.Context) error { return cfg.Close() })

	if tz := a.config.GetString("app.tz"); tz != "" {
		return os.Setenv("TZ", tz)
	}
	return nil
}

func (a *App) initInstrument(ctx context.Context) error {
	ins, err := instrument.New(ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("app.version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("app.log_level"),
	})
	if err != nil {
		return err
	}
	a.ins = ins
	a.onRelease("instrument", ins.Shutdown)

	return nil
}

func (a *App) initLibraries(context.Context) error {
	v, err := validator.NewV10Validator()
	if err != nil {
		return fmt.Errorf("validator: %w", err)
	}

	a.validator = v
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))

	return nil
}

func (a *App) initJWT(context.Context) error {
	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		return err
	}
	a.jwt = signer

	return nil
}

// waitReady pings a dependency with a capped fibonacci backoff until it
// answers, the attempts run out, or ctx is done.
func (a *App) waitReady(ctx context.Context, name string, ping func(context.Context) error) error {
	attempts := a.config.GetInt("app.startup.max_retries")
	if attempts <= 0 {
		attempts = 5
	}
	backoff := retry.WithMaxRetries(uint64(attempts),
		retry.WithCappedDuration(5*time.Second, retry.NewFibonacci(200*time.Millisecond)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := ping(pingCtx); err != nil {
			slog.WarnContext(ctx, "dependency not ready, retrying", "dependency", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initDatabase(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	cfg.MaxConns = a.config.GetInt32("database.pool.max_conns")
	cfg.MinConns = a.config.GetInt32("database.pool.min_conns")
	cfg.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	cfg.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	cfg.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return err
	}
	a.dbConn = pool
	a.onRelease("database", func(context.Context) error {
		pool.Close()
		return nil
	})

	return a.waitReady(ctx, "postgres", pool.Ping)
}

func (a *App) rateLimitDriver() string {
	return strings.TrimSpace(a.config.GetString("ratelimit.driver"))
}

// initCache connects redis only when a component needs it.
func (a *App) initCache(ctx context.Context) error {
	if a.rateLimitDriver() != ratelimit.DriverRedis {
		return nil
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	a.cacheConn = rdb
	a.onRelease("redis", func(context.Context) error { return rdb.Close() })

	return a.waitReady(ctx, "redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}

func (a *App) initRateLimiter(context.Context) error {
	driver := a.rateLimitDriver()

	var client redis.Cmdable
	if a.cacheConn != nil {
		client = a.cacheConn
	}

	limiters := []struct {
		dst  *ratelimit.Limiter
		rule ratelimit.Rule
	}{
		{&a.signInLimiter, ratelimit.Rule{Name: "signin", Limit: 15, Window: 5 * time.Minute}},
		{&a.signUpLimiter, ratelimit.Rule{Name: "signup", Limit: 15, Window: time.Hour}},
	}
	for _, l := range limiters {
		limiter, err := ratelimit.New(driver, client, l.rule)
		if err != nil {
			return fmt.Errorf("%s limiter on driver %q: %w", l.rule.Name, driver, err)
		}
		*l.dst = limiter
	}

	return nil
}

func (a *App) initHTTPServer(context.Context) error {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
	})
	a.docs = openapi.NewRegistry()

	if a.config.GetBool("app.docs.enabled") {
		a.router.GETRaw("/v1/docs/*any", a.docs.Handler(openapi.Info{
			Title:       a.config.GetString("app.name"),
			Version:     a.config.GetString("app.version"),
			Description: "API documentation for the Blog management system",
			Servers:     []string{a.config.GetString("app.base_url")},
		}))
	}

	withCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           withCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}

	return nil
}
