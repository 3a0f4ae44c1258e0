// Package logger provides structured logging utilities built on Go's
// standard slog package: a small factory for configured loggers and a set of
// pre-built attribute helpers for common logging scenarios.
//
// # Basic Usage
//
//	import "github.com/cindy-puzzles/backend/core/logger"
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttr(slog.String("service", "subscriptions")),
//	)
//
//	log.Info("sweep finished",
//		logger.Component("sweeper"),
//		logger.Count("removed", removed),
//		logger.Elapsed(start),
//	)
//
// Deployment uses JSON output:
//
//	log := logger.New(logger.WithJSONFormatter())
//
// # Attribute Helpers
//
// Helpers follow the empty-Attr pattern: passing a nil error or nil value
// yields an attribute slog silently drops, so call sites need no nil checks:
//
//	log.Error("publish failed", logger.Error(err), logger.Topic(key))
package logger
