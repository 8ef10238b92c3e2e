package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/config"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(config.EnvDBPath, filepath.Join(dir, "data", "tracker.db"))
	t.Setenv(config.EnvTimezone, "UTC")
	t.Setenv(config.EnvLogLevel, "error")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSetupPositionStatusFlow(t *testing.T) {
	setupTestEnv(t)

	out, err := runCLI(t, "", "setup", "--start", "2026-02-19", "--target", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2 kali hatam (1208 halaman)")
	assert.Contains(t, out, "19 Februari 2026")
	assert.Contains(t, out, "20 Maret 2026 (29 hari)")
	assert.Contains(t, out, "41.7 halaman/hari")

	out, err = runCLI(t, "", "position", "set", "20", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Posisi disimpan: Halaman 20, Baris 1")

	out, err = runCLI(t, "", "status", "--json", "--at", "2026-02-19T12:00:00Z")
	require.NoError(t, err)
	var decoded struct {
		TargetCount int `json:"targetCount"`
		Stats       struct {
			TargetPosition model.Position `json:"targetPosition"`
		} `json:"stats"`
		Comparison *model.ComparisonResult `json:"comparison"`
	}
	require.NoError(t, sonic.UnmarshalString(out, &decoded))
	assert.Equal(t, 2, decoded.TargetCount)
	assert.Equal(t, model.Position{Page: 20, Line: 13}, decoded.Stats.TargetPosition)
	require.NotNil(t, decoded.Comparison)
	assert.Equal(t, model.StatusOnTrack, decoded.Comparison.Status)

	out, err = runCLI(t, "", "status", "--at", "2026-02-19T12:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Halaman 20, Baris 13 (hatam ke-1)")
	assert.Contains(t, out, "Sesuai target")

	out, err = runCLI(t, "", "position", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Halaman 20, Baris 1")

	out, err = runCLI(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Hal. 20 Baris 1")
}

func TestStatusWithoutSetup(t *testing.T) {
	setupTestEnv(t)
	_, err := runCLI(t, "", "status")
	require.ErrorIs(t, err, errNoConfig)
}

func TestPositionClear(t *testing.T) {
	setupTestEnv(t)
	_, err := runCLI(t, "", "position", "set", "3", "4")
	require.NoError(t, err)

	out, err := runCLI(t, "", "position", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Posisi aktual dihapus.")

	out, err = runCLI(t, "", "position", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "belum diisi")
}

func TestResetConfirmation(t *testing.T) {
	setupTestEnv(t)
	_, err := runCLI(t, "", "setup", "--start", "2026-02-19")
	require.NoError(t, err)

	out, err := runCLI(t, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Dibatalkan.")
	_, err = runCLI(t, "", "status")
	require.NoError(t, err)

	out, err = runCLI(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Semua data dihapus.")
	_, err = runCLI(t, "", "status")
	require.ErrorIs(t, err, errNoConfig)
}

func TestSetupUsesConfigDefaults(t *testing.T) {
	setupTestEnv(t)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[tracker]\nstart-date = \"2026-03-01\"\ntarget = 3\n"), 0o644))

	out, err := runCLI(t, "", "setup")
	require.NoError(t, err)
	assert.Contains(t, out, "3 kali hatam (1812 halaman)")
	assert.Contains(t, out, "1 Maret 2026")

	out, err = runCLI(t, "", "setup", "--target", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 kali hatam (604 halaman)")
}

func TestInvalidRefreshInConfig(t *testing.T) {
	setupTestEnv(t)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[display]\nrefresh = \"10ms\"\n"), 0o644))

	_, err := runCLI(t, "", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid display.refresh")
}

func TestCommandValidation(t *testing.T) {
	setupTestEnv(t)

	_, err := runCLI(t, "", "setup", "--target", "6")
	require.EqualError(t, err, "--target must be between 1 and 5")

	_, err = runCLI(t, "", "setup", "--start", "19-02-2026")
	require.Error(t, err)

	_, err = runCLI(t, "", "position", "set", "605", "1")
	require.Error(t, err)

	_, err = runCLI(t, "", "status", "--at", "yesterday")
	require.Error(t, err)

	_, err = runCLI(t, "", "history", "--last", "-1")
	require.Error(t, err)

	_, err = runCLI(t, "", "watch", "--every", "500ms")
	require.EqualError(t, err, "--every must be at least 1s")
}

func TestParsePositionArgs(t *testing.T) {
	pos, err := parsePositionArgs([]string{"604", "15"})
	require.NoError(t, err)
	assert.Equal(t, model.Position{Page: 604, Line: 15}, pos)

	for _, args := range [][]string{{"0", "1"}, {"1", "16"}, {"x", "1"}, {"1", "y"}} {
		_, err := parsePositionArgs(args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestParseStartDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	start, err := parseStartDate("2026-02-19", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 19, 0, 0, 0, 0, loc), start)
	assert.Equal(t, loc, start.Location())
}

func TestParseRefresh(t *testing.T) {
	d, err := parseRefresh(" 30s ")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	_, err = parseRefresh("500ms")
	assert.Error(t, err)
	_, err = parseRefresh("soon")
	assert.Error(t, err)
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{"y\n": true, "ya\n": true, "YES\n": true, "n\n": false, "\n": false, "": false}
	for input, want := range cases {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(input), &out, "? ")
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
		assert.Equal(t, "? ", out.String())
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quran-tracker", "config.toml")
	require.NoError(t, writeDefaultConfig(path))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Tracker.StartDate)
	assert.Nil(t, cfg.Tracker.Target)
	assert.Nil(t, cfg.Display.Refresh)

	require.NoError(t, os.WriteFile(path, []byte("# edited\n"), 0o644))
	require.NoError(t, writeDefaultConfig(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# edited\n", string(data), "existing config must not be overwritten")
}
