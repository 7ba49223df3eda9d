// Package match defines the candidate model for the file-to-video match
// review domain.
//
// A Match pairs a NAS media file with a possible YouTube reference, carries a
// 0-100 confidence score computed by the external matching engine, and moves
// through a closed status set as reviewers verify, reject, or exclude it.
// Status values reachable only through explicit reviewer action (VERIFIED,
// WRONG_MATCH, EXCLUDED, UPLOAD_PLANNED) are terminal from the review UI's
// perspective; the client never auto-transitions and defers transition
// legality to the server.
//
// Treat this package as the single source of truth for match status
// semantics; new statuses must be added to allStatuses and the store schema.
package match
