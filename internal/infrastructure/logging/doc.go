// Package logging provides structured logging for the smart home core.
//
// It wraps log/slog with JSON or text output, level filtering and default
// service/version fields on every entry.
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("rule fired", "rule", "Evening Lights")
//	logger.Component("mqtt").Error("publish failed", "error", err)
//
// Never log secrets such as the MQTT password or the door lock code.
package logging
