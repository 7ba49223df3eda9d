// Package api defines the wire-level DTO types shared by the matchdeck
// daemon and its HTTP clients.
//
// Field names follow the REST contract (snake_case JSON). Conversion helpers
// translate between domain models and DTOs so handler and client code never
// hand-roll field mapping.
package api
