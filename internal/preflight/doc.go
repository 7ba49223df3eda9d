// Package preflight provides readiness checks for the filesystem paths and
// daemon endpoint that matchdeck depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll before opening the database. If a check
//     fails, startup aborts instead of limping along with a full disk or
//     an unwritable data directory.
//   - The CLI "matchdeck status" command uses individual check functions
//     (CheckAPI, CheckDirectoryAccess) to display daemon health.
package preflight
