package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vcmd/internal/config"
	"vcmd/internal/metrics"
	"vcmd/internal/session"
	"vcmd/pkg/logging"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configPath      string
	scheme          string
	host            string
	port            int
	verbose         bool
	noColor         bool
	refreshInterval time.Duration
	timeout         time.Duration
	metricsAddr     string
	user            string
}

func addRootFlags(cmd *cobra.Command, opts *rootOptions) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config-path", config.GetDefaultConfigPath(), "Configuration directory")
	pf.StringVar(&opts.scheme, "scheme", config.DefaultScheme, "API scheme, http or https (env: VCMD_SCHEME)")
	pf.StringVar(&opts.host, "host", config.DefaultHost, "API host (env: VCMD_HOST)")
	pf.IntVar(&opts.port, "port", config.DefaultPort, "API port (env: VCMD_PORT)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests and responses (env: VCMD_VERBOSE)")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	pf.DurationVar(&opts.refreshInterval, "refresh-interval", config.DefaultRefreshInterval, "Background authkey refresh interval")
	pf.DurationVar(&opts.timeout, "timeout", config.DefaultRequestTimeout, "Timeout for each API request")
	pf.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. 127.0.0.1:9190")
}

// diagnosticsOutput receives background diagnostics. Nil means stderr.
var diagnosticsOutput io.Writer

// initLogging sets up background diagnostics. Below warnings they are only
// shown when verbose, the console logger covers everything else.
func initLogging(verbose bool) {
	level := logging.LevelWarn
	if verbose {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, diagnosticsOutput)
}

// loadSettings merges config file, environment, explicit flags and the
// optional endpoint argument, in increasing priority. The merged verbose
// setting then decides the diagnostics level.
func loadSettings(cmd *cobra.Command, opts *rootOptions, endpointArg string) (config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("scheme") {
		cfg.Server.Scheme = strings.ToLower(opts.scheme)
	}
	if flags.Changed("host") {
		cfg.Server.Host = opts.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if flags.Changed("verbose") {
		cfg.Shell.Verbose = opts.verbose
	}
	if flags.Changed("no-color") {
		color := !opts.noColor
		cfg.Shell.Color = &color
	}
	if flags.Changed("refresh-interval") {
		cfg.Session.RefreshInterval = opts.refreshInterval
	}
	if flags.Changed("timeout") {
		cfg.Session.RequestTimeout = opts.timeout
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.ListenAddress = opts.metricsAddr
	}

	if endpointArg != "" {
		server, err := parseEndpoint(endpointArg)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Server = server
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}

	initLogging(cfg.Shell.Verbose)
	return cfg, nil
}

// parseEndpoint turns "https://host[:port]" into a ServerConfig. A missing
// port defaults to the scheme's well-known port.
func parseEndpoint(raw string) (config.ServerConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return config.ServerConfig{}, fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return config.ServerConfig{}, fmt.Errorf("invalid endpoint %q: scheme must be http or https", raw)
	}
	if u.Hostname() == "" {
		return config.ServerConfig{}, fmt.Errorf("invalid endpoint %q: missing host", raw)
	}

	port := 80
	if scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return config.ServerConfig{}, fmt.Errorf("invalid endpoint %q: bad port", raw)
		}
	}

	return config.ServerConfig{Scheme: scheme, Host: u.Hostname(), Port: port}, nil
}

// newSessionClient builds the session client described by cfg.
func newSessionClient(cfg config.Config, logger session.Logger, recorder *metrics.Recorder) (*session.Client, error) {
	return session.New(cfg.Server.BaseURL(),
		session.WithLogger(logger),
		session.WithRequestTimeout(cfg.Session.RequestTimeout),
		session.WithRefreshInterval(cfg.Session.RefreshInterval),
		session.WithMetrics(recorder),
	)
}
