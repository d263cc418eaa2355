package account

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/carematch/binder"
	"github.com/dmitrymomot/carematch/handler"
	"github.com/dmitrymomot/carematch/pkg/clientip"
	"github.com/dmitrymomot/carematch/pkg/httpserver"
	"github.com/dmitrymomot/carematch/pkg/logger"
	"github.com/dmitrymomot/carematch/pkg/ratelimiter"
	"github.com/dmitrymomot/carematch/pkg/validator"
	"github.com/dmitrymomot/carematch/svc/photo"
	"github.com/dmitrymomot/carematch/svc/profile"
)

// SignupService validates and registers sign-up forms.
type SignupService interface {
	Validate(role profile.Role, record validator.Record, touched map[string]bool) (validator.Result, error)
	Register(ctx context.Context, role profile.Role, record validator.Record) (*profile.Profile, error)
}

// ProfileDirectory resolves a user id to its profile.
type ProfileDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// PhotoService stores profile photos.
type PhotoService interface {
	Presign(ctx context.Context, userID uuid.UUID) (*photo.PresignedUpload, error)
	Confirm(ctx context.Context, userID uuid.UUID, role profile.Role, url string) (string, error)
	Upload(ctx context.Context, userID uuid.UUID, role profile.Role, fh *multipart.FileHeader) (string, error)
}

// RouterOptions configures which services to mount in the account module.
// Each service is optional and its routes are only mounted if provided.
type RouterOptions struct {
	Signup    SignupService
	Directory ProfileDirectory
	Photos    PhotoService

	// HealthChecks are run by GET /health. Without checks it is a liveness probe.
	HealthChecks  map[string]httpserver.Check
	HealthTimeout time.Duration

	// RateLimiter throttles registrations and photo uploads per client IP.
	RateLimiter ratelimiter.Limiter

	Logger       *slog.Logger
	ErrorHandler handler.ErrorHandler[handler.Context]
}

// Router creates the account module router.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/api", account.Router(account.RouterOptions{
//	    Signup:    signup.NewService(store),
//	    Directory: profile.NewDirectory(store),
//	    Photos:    photo.NewService(storage, store),
//	}))
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(log)
	}
	timeout := opts.HealthTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)
	limit := rateLimit(opts.RateLimiter, log)

	r.Get("/health", httpserver.HealthHandler(log, timeout, opts.HealthChecks))
	r.Get("/states", wrap[struct{}](listStates, errorHandler))

	if opts.Signup != nil {
		h := &signupHandlers{svc: opts.Signup}
		r.Route("/signup/{role}", func(r chi.Router) {
			r.With(limit("signup")).Post("/", wrap[SignupRequest](h.register, errorHandler, path, binder.JSON()))
			r.Post("/validate", wrap[ValidateRequest](h.validate, errorHandler, path, binder.JSON()))
			r.Post("/live", wrap[LiveRequest](h.live, errorHandler, path, handler.SignalsBinder()))
		})
	}

	if opts.Directory == nil && opts.Photos == nil {
		return r
	}
	r.Route("/profiles/{id}", func(r chi.Router) {
		if opts.Directory != nil {
			h := &profileHandlers{directory: opts.Directory}
			r.Get("/", wrap[ProfileRequest](h.get, errorHandler, path))
		}
		if opts.Photos != nil {
			h := &photoHandlers{svc: opts.Photos}
			r.With(limit("photo")).Get("/photo/presign", wrap[ProfileRequest](h.presign, errorHandler, path))
			r.With(limit("photo")).Post("/photo", wrap[PhotoUploadRequest](h.upload, errorHandler, path, binder.Form()))
			r.Put("/photo", wrap[PhotoConfirmRequest](h.confirm, errorHandler, path, binder.JSON()))
		}
	})

	return r
}

// rateLimit returns a middleware factory keyed by route group and client IP.
// Without a limiter it is a no-op.
func rateLimit(l ratelimiter.Limiter, log *slog.Logger) func(group string) func(http.Handler) http.Handler {
	return func(group string) func(http.Handler) http.Handler {
		if l == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return ratelimiter.Middleware(l, ratelimiter.Prefix(group, clientip.Key),
			ratelimiter.WithDeniedHandler(func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
				_ = handler.JSONError(handler.ErrTooManyRequests).Render(w, r)
			}),
			ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				log.ErrorContext(r.Context(), "rate limiter failed", logger.Error(err))
				_ = handler.JSONError(handler.ErrServiceUnavailable).Render(w, r)
			}),
		)
	}
}

func wrap[R any](h handler.HandlerFunc[handler.Context, R], eh handler.ErrorHandler[handler.Context], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](eh),
	)
}
