// Package logger provides structured logging for the signup service on top
// of zerolog.
//
// A process-wide logger is initialized once from Config and component
// loggers are derived from it:
//
//	logger.Init(cfg.Logging)
//	log := logger.WithComponent("registration")
//	log.Info("submission started", logger.Fields("session_id", id))
//
// Email addresses are never logged verbatim; use FieldEmailHash with
// util.EmailFingerprint.
package logger
