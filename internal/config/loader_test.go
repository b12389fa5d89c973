package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, ""))
	require.NoError(t, err)

	require.Equal(t, 1, cfg.FollowUpAfterDays)
	require.Equal(t, 300*time.Millisecond, cfg.Scan.Debounce)
	require.Equal(t, 60*time.Second, cfg.Scan.Interval)
	require.Equal(t, "/sales/inbox", cfg.Page.SectionPrefix)
	require.Equal(t, 5000, cfg.Database.BusyTimeoutMs)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileOverrides(t *testing.T) {
	path := writeConfig(t, `
follow_up_after_days: 3
scan:
  debounce: 500ms
  interval: 2m
page:
  snapshot: /tmp/inbox.html
  section_prefix: /messaging
logging:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Equal(t, 3, cfg.FollowUpAfterDays)
	require.Equal(t, 500*time.Millisecond, cfg.Scan.Debounce)
	require.Equal(t, 2*time.Minute, cfg.Scan.Interval)
	require.Equal(t, "/tmp/inbox.html", cfg.Page.Snapshot)
	require.Equal(t, "/messaging", cfg.Page.SectionPrefix)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "follow_up_after_days: 3\n")
	t.Setenv("INBOXDOT_FOLLOW_UP_AFTER_DAYS", "7")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.FollowUpAfterDays)
}

func TestLoadRejectsNegativeThreshold(t *testing.T) {
	path := writeConfig(t, "follow_up_after_days: -1\n")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "follow_up_after_days")
}

func TestLoadRejectsTinyInterval(t *testing.T) {
	path := writeConfig(t, "scan:\n  interval: 10ms\n")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "scan.interval")
}

func TestDatabasePathDefaultsToDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Global.DataDir = "/var/lib/inboxdot"
	require.Equal(t, filepath.Join("/var/lib/inboxdot", "inboxdot.db"), cfg.DatabasePath())

	cfg.Database.Path = "/elsewhere/state.db"
	require.Equal(t, "/elsewhere/state.db", cfg.DatabasePath())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
