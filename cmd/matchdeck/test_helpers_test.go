package main

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"matchdeck/internal/config"
	"matchdeck/internal/metrics"
	"matchdeck/internal/server"
	"matchdeck/internal/store"
	"matchdeck/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	api        *httptest.Server
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Review.Reviewer = "alex"
	st := testsupport.MustOpenStore(t, cfg)

	srv := server.New(cfg, st, metrics.NewCollector(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg, ts.URL)

	return &cliTestEnv{
		cfg:        cfg,
		store:      st,
		api:        ts,
		configPath: configPath,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, baseURL string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
export_dir = %q

[api]
base_url = %q

[review]
reviewer = %q
`,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Paths.ExportDir,
		baseURL,
		cfg.Review.Reviewer,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
