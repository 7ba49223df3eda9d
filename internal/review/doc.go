// Package review implements the reconciliation workflow engine: filter
// state, candidate fetching with a staleness window, batch selection,
// status transitions, and the linear review cursor.
package review
