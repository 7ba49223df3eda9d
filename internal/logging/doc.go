// Package logging constructs slog loggers for the matchdeck daemon and CLI.
//
// It provides console and JSON handler construction from config, typed
// attribute helpers, component-scoped child loggers, and a no-op logger for
// tests. All packages accept a *slog.Logger rather than reaching for a
// global, so tests and embedded callers can inject their own.
package logging
