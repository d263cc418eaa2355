// Command carematch serves the caregiver sign-up and profile API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/carematch/handler"
	"github.com/dmitrymomot/carematch/modules/account"
	"github.com/dmitrymomot/carematch/pkg/clientip"
	"github.com/dmitrymomot/carematch/pkg/config"
	"github.com/dmitrymomot/carematch/pkg/environment"
	"github.com/dmitrymomot/carematch/pkg/file"
	"github.com/dmitrymomot/carematch/pkg/httpserver"
	"github.com/dmitrymomot/carematch/pkg/logger"
	"github.com/dmitrymomot/carematch/pkg/pg"
	"github.com/dmitrymomot/carematch/pkg/ratelimiter"
	"github.com/dmitrymomot/carematch/pkg/redis"
	"github.com/dmitrymomot/carematch/pkg/requestid"
	"github.com/dmitrymomot/carematch/pkg/secrets"
	"github.com/dmitrymomot/carematch/svc/photo"
	"github.com/dmitrymomot/carematch/svc/profile"
	"github.com/dmitrymomot/carematch/svc/signup"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"carematch"`

	// ProfileStore is "postgres" or "memory".
	ProfileStore string `env:"PROFILE_STORE" envDefault:"postgres"`
	RoleCache    bool   `env:"ROLE_CACHE_ENABLED" envDefault:"true"`

	// Used when S3_BUCKET is empty.
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"http://localhost:8080/uploads/"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	env := environment.Parse(cfg.Env)
	log := logger.New(
		logger.WithEnvironment(env, cfg.Service),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)

	if err := run(context.Background(), cfg, env, log); err != nil {
		log.Error("application stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, env environment.Environment, log *slog.Logger) error {
	checks := map[string]httpserver.Check{}

	var (
		store  profile.Store
		roles  profile.RoleResolver
		limits ratelimiter.Store
	)
	switch strings.ToLower(cfg.ProfileStore) {
	case "memory":
		log.Warn("profiles are kept in memory and lost on restart")
		store = profile.NewMemoryStore()

	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pg.Migrate(ctx, pool, pgCfg, profile.Migrations(), log); err != nil {
			return err
		}
		var secretsCfg secrets.Config
		if err := config.Load(&secretsCfg); err != nil {
			return err
		}
		key, err := secretsCfg.Key()
		if err != nil {
			return err
		}
		var storeOpts []profile.PostgresOption
		if key != nil {
			ssn, err := secrets.NewCipher(key, "ssn")
			if err != nil {
				return err
			}
			storeOpts = append(storeOpts, profile.WithSSNCipher(ssn))
		} else {
			log.Warn("SECRETS_MASTER_KEY is not set, SSNs are stored unencrypted")
		}
		store = profile.NewPostgresStore(pool, storeOpts...)
		checks["postgres"] = pg.Healthcheck(pool)

		if cfg.RoleCache {
			var redisCfg redis.Config
			if err := config.Load(&redisCfg); err != nil {
				return err
			}
			client, err := redis.Connect(ctx, redisCfg)
			if err != nil {
				return err
			}
			defer client.Close()

			roles = profile.NewRoleCache(store, client, profile.WithCacheLogger(log))
			checks["redis"] = redis.Healthcheck(client)
			limits = ratelimiter.NewRedisStore(client)
		}

	default:
		return fmt.Errorf("unknown profile store %q", cfg.ProfileStore)
	}

	if limits == nil {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limits = mem
	}
	var limitCfg ratelimiter.Config
	if err := config.Load(&limitCfg); err != nil {
		return err
	}
	limiter, err := ratelimiter.NewBucket(limits, limitCfg)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(clientip.Middleware)
	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(env))

	photoOpts := []photo.Option{photo.WithLogger(log)}
	var storage file.Storage

	var s3Cfg file.S3Config
	if err := config.Load(&s3Cfg); err != nil {
		return err
	}
	if s3Cfg.Bucket != "" {
		s3Storage, err := file.NewS3Storage(ctx, s3Cfg)
		if err != nil {
			return err
		}
		storage = s3Storage
		photoOpts = append(photoOpts, photo.WithPresigner(s3Storage))
	} else {
		local, err := file.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			return err
		}
		storage = local
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	r.Mount("/api", account.Router(account.RouterOptions{
		Signup:       signup.NewService(store, signup.WithLogger(log)),
		Directory:    profile.NewDirectory(store, profile.WithRoleResolver(roles)),
		Photos:       photo.NewService(storage, store, photoOpts...),
		RateLimiter:  limiter,
		HealthChecks: checks,
		Logger:       log,
		ErrorHandler: handler.NewErrorHandler(log),
	}))

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	return httpserver.New(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
}
