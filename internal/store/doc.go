// Package store persists match candidates and catalog entries in SQLite and
// exposes the filtered, paginated queries behind the review API.
//
// The Store manages database connections, schema initialization, list queries
// with status/score/search filters, single and bulk status transitions,
// idempotent entry verification, and the dashboard aggregates (summary,
// score distribution, not-uploaded categories).
//
// Rows originate from the external matching engine's import; the store never
// invents candidates, it only reads snapshots and applies transitions. Schema
// changes bump the version in schema.go; users clear the database to adopt
// the new schema.
package store
