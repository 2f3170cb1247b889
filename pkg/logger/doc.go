// Package logger builds slog loggers for wirehttp processes and keeps
// attribute naming consistent across packages.
//
// New creates a *slog.Logger from Option functions: output format (text or
// JSON), level, static attributes and ContextExtractor callbacks. The
// resulting handler runs every extractor against the record's context, which
// is how request identifiers reach log lines without being passed around.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "wirehttpd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.WarnContext(ctx, "exchange rejected",
//	    logger.Method("GET"),
//	    logger.Status(431),
//	    logger.Remote("10.0.0.7:52144"),
//	)
//
// # Configuration
//
// NewFromConfig reads APP_ENV, APP_NAME, LOG_LEVEL and LOG_FORMAT (see
// Config). APP_ENV picks per-environment defaults; LOG_LEVEL and LOG_FORMAT
// override them.
//
// # Attributes
//
// Helpers such as Error, Method, Status and Kind return slog.Attr values
// under fixed keys. Error, Method, Path, Target, Status and Remote return an
// empty Attr for zero inputs, so call sites need no nil or zero checks.
package logger
