package preflight

import (
	"context"

	"matchdeck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if cfg.Paths.ExportDir != "" {
		results = append(results, CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir))
	}
	results = append(results, CheckDiskSpace(cfg.Paths.DataDir, cfg.Server.MinFreeDiskMiB))

	return results
}

// AllPassed reports whether every result succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
