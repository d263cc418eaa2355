package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/carematch/pkg/logger"
	"github.com/dmitrymomot/carematch/pkg/requestid"
)

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler creates the default error handler that adapts to request type.
// Plain requests get a JSON error body; DataStar requests get an "error"
// signal patched over SSE. Configure this once in main and pass it to every route.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		requestID := requestid.FromContext(r.Context())

		var status int
		detail := errorToDetail(err, &status)

		log.LogAttrs(r.Context(), determineLogLevel(status), "request error",
			logger.RequestID(requestID),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("is_datastar", IsDataStar(r)),
			logger.Component("error_handler"),
		)

		var resp Response
		if IsDataStar(r) {
			resp = Signals(map[string]any{"error": detail})
		} else {
			resp = JSON(JSONResponse{Error: detail}, WithJSONStatus(status))
		}

		if rerr := resp.Render(ctx.ResponseWriter(), r); rerr != nil {
			log.Error("failed to render error response",
				logger.RequestID(requestID),
				logger.Error(rerr),
				logger.Component("error_handler"),
			)
		}
	}
}
