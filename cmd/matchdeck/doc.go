// Package main hosts the matchdeck CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into REST
// calls against the matchdeck daemon: match listing and transitions, catalog
// entry verification, the interactive review loop, dashboard statistics,
// report exports, and configuration scaffolding. It centralizes configuration
// resolution and API client construction so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
