// Package entry defines the candidate model for the catalog entry review
// domain.
//
// Unlike the match domain's single status enum, an Entry carries a MatchType
// describing how the matching engine paired it with a reference, plus an
// orthogonal verified flag set by a reviewer. Verification is idempotent:
// verifying an already-verified entry succeeds without changing audit fields.
package entry
