// Package logger builds log/slog loggers for the service and provides the
// attribute helpers used across packages.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "carematch"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "profile created", logger.UserID(id), logger.Role(role))
//
// Attribute helpers return an empty slog.Attr for nil inputs, which slog
// drops, so callers need no nil checks.
package logger
