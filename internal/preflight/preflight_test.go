package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"matchdeck/internal/preflight"
	"matchdeck/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Data directory", dir)
	if !result.Passed {
		t.Fatalf("check failed for writable dir: %s", result.Detail)
	}

	missing := filepath.Join(dir, "nope")
	result = preflight.CheckDirectoryAccess("Data directory", missing)
	if result.Passed {
		t.Fatal("check passed for missing dir")
	}
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDiskSpace(dir, 1)
	if !result.Passed {
		t.Fatalf("1 MiB threshold failed: %s", result.Detail)
	}

	result = preflight.CheckDiskSpace(dir, 0)
	if !result.Passed {
		t.Fatal("disabled check reported failure")
	}
}

func TestCheckAPI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	result := preflight.CheckAPI(context.Background(), ts.URL, "secret")
	if !result.Passed {
		t.Fatalf("check failed: %s", result.Detail)
	}

	result = preflight.CheckAPI(context.Background(), ts.URL, "wrong")
	if result.Passed {
		t.Fatal("check passed with bad token")
	}

	result = preflight.CheckAPI(context.Background(), "", "")
	if result.Passed {
		t.Fatal("check passed with empty url")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("no checks ran")
	}
	if !preflight.AllPassed(results) {
		for _, result := range results {
			t.Logf("%s: passed=%v %s", result.Name, result.Passed, result.Detail)
		}
		t.Fatal("preflight failed on a healthy config")
	}
}
