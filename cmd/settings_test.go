package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vcmd/internal/config"
	"vcmd/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every VCMD_* variable the loader reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SCHEME", "HOST", "PORT", "REQUEST_TIMEOUT", "REFRESH_INTERVAL", "HISTORY_FILE", "COLOR", "VERBOSE", "METRICS_ADDRESS"} {
		t.Setenv("VCMD_"+key, "")
	}
}

// parsedCommand returns a command whose persistent flags were parsed from args.
func parsedCommand(t *testing.T, args ...string) (*cobra.Command, *rootOptions) {
	t.Helper()
	opts := &rootOptions{}
	cmd := &cobra.Command{Use: "test"}
	addRootFlags(cmd, opts)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, opts
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)
	cmd, opts := parsedCommand(t, "--config-path", t.TempDir())

	cfg, err := loadSettings(cmd, opts, "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8090", cfg.Server.BaseURL())
	assert.Equal(t, config.DefaultRequestTimeout, cfg.Session.RequestTimeout)
	assert.True(t, cfg.Shell.ColorEnabled())
}

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  host: from-file
  port: 9000
session:
  refreshInterval: 30s
`), 0o600))

	cmd, opts := parsedCommand(t,
		"--config-path", dir,
		"--port", "9100",
		"--no-color",
		"--timeout", "3s",
		"--metrics-addr", "127.0.0.1:9190",
	)

	cfg, err := loadSettings(cmd, opts, "")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Server.Host, "unset flags keep file values")
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Session.RefreshInterval)
	assert.Equal(t, 3*time.Second, cfg.Session.RequestTimeout)
	assert.False(t, cfg.Shell.ColorEnabled())
	assert.Equal(t, "127.0.0.1:9190", cfg.Metrics.ListenAddress)
}

func TestLoadSettings_EndpointArgument(t *testing.T) {
	clearEnv(t)
	cmd, opts := parsedCommand(t, "--config-path", t.TempDir(), "--host", "ignored")

	cfg, err := loadSettings(cmd, opts, "https://velocity.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://velocity.example.com:443", cfg.Server.BaseURL())
}

func TestLoadSettings_VerboseFromEnvEnablesDiagnostics(t *testing.T) {
	clearEnv(t)
	var buf bytes.Buffer
	diagnosticsOutput = &buf
	t.Cleanup(func() {
		diagnosticsOutput = nil
		logging.Discard()
	})

	cmd, opts := parsedCommand(t, "--config-path", t.TempDir())
	initLogging(opts.verbose)
	logging.Debug("test", "before settings")

	t.Setenv("VCMD_VERBOSE", "true")
	cfg, err := loadSettings(cmd, opts, "")
	require.NoError(t, err)
	require.True(t, cfg.Shell.Verbose)
	logging.Debug("test", "after settings")

	assert.NotContains(t, buf.String(), "before settings")
	assert.Contains(t, buf.String(), "after settings")
}

func TestLoadSettings_Invalid(t *testing.T) {
	clearEnv(t)
	cmd, opts := parsedCommand(t, "--config-path", t.TempDir(), "--port", "0")

	_, err := loadSettings(cmd, opts, "")
	var validationErrs config.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw     string
		want    config.ServerConfig
		wantErr bool
	}{
		{raw: "http://velocity:8090", want: config.ServerConfig{Scheme: "http", Host: "velocity", Port: 8090}},
		{raw: "HTTPS://velocity", want: config.ServerConfig{Scheme: "https", Host: "velocity", Port: 443}},
		{raw: "http://velocity", want: config.ServerConfig{Scheme: "http", Host: "velocity", Port: 80}},
		{raw: "http://[::1]:8090", want: config.ServerConfig{Scheme: "http", Host: "::1", Port: 8090}},
		{raw: "ftp://velocity", wantErr: true},
		{raw: "velocity:8090", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseEndpoint(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
