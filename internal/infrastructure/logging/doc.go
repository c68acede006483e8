// Package logging provides structured logging for Vixio Core.
//
// It wraps log/slog so every component logs with the same shape:
// JSON in production, text when a human is watching the console, and
// the service/version fields on every entry.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Domain packages do not import this package. They declare a small
// Logger interface (Debug/Info/Warn/Error) which *Logger satisfies.
package logging
