// Package logger builds configured log/slog loggers for the service.
//
// The factory produces JSON output for production log aggregation and text
// output for local development, selected through environment configuration:
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatJSON),
//		logger.WithLevel(slog.LevelInfo),
//		logger.WithAttr(slog.String("service", "ideahub-auth")),
//	)
//
// The package also carries the attribute helpers (logger.Error, logger.UserID,
// logger.Component, ...) used across the codebase so attribute keys stay
// consistent in every log record.
package logger
