package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soundvault/config"
	"soundvault/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(homeDir, ".config", "soundvault", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[library]\npath = %q\ndatabase_path = %q\ninbox_dir = %q\ncache_dir = %q\n\n[logging]\nlevel = %q\n",
		cfg.Library.Path,
		cfg.Library.DatabasePath,
		cfg.Library.InboxDir,
		cfg.Library.CacheDir,
		cfg.Logging.Level,
	)
	if cfg.Freesound.APIKey != "" {
		content += fmt.Sprintf(
			"\n[freesound]\napi_key = %q\nbase_url = %q\n",
			cfg.Freesound.APIKey,
			cfg.Freesound.BaseURL,
		)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// idAfterAs pulls the identifier out of confirmation lines shaped like
// "Imported Field Rain as <id>".
func idAfterAs(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if idx := strings.Index(line, " as "); idx >= 0 {
			rest := strings.Fields(line[idx+len(" as "):])
			if len(rest) > 0 {
				return rest[0]
			}
		}
	}
	t.Fatalf("no identifier found in output %q", output)
	return ""
}
