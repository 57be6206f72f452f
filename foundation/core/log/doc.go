// Package log provides structured logging for cmdcore and its hosts.
//
// Package: log
// Title: cmdcore Structured Logging
// Description: Structured logger with levels, persistent context fields,
//              clone-on-write configuration and pluggable formatters (JSON,
//              text, console, logfmt). The dispatch engine receives a
//              *Logger as an injected service; hosts build one through
//              pkg/core/logging.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2026-10-12 v0.2.0: Removed async buffering and timers, sorted field output,
//                       added NewNop for silent engines
//
// Usage:
//
//	logger := log.New().
//		WithLevel(log.LevelDebug).
//		WithFormat(log.FormatText).
//		WithField("component", "dispatch")
//
//	logger.Info("command registered", log.Fields{"path": "math.add", "aliases": 1})
//	logger.ErrorWithErr("registration failed", err, log.String("path", "teleport"))
//
// Audit entries are always written regardless of the configured level:
//
//	logger.Audit("command executed", log.Fields{"sender": "alice", "command": "ban"})
package log
