// Package logger builds slog loggers the rest of the application shares:
// JSON output for deployed environments, text for development, plus a
// handler decorator that pulls request-scoped attributes like the request ID
// out of the context on every log call.
package logger
