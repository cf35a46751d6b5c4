package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config is the top-level configuration structure for vcmd.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Shell   ShellConfig   `yaml:"shell"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig locates the Velocity API.
type ServerConfig struct {
	Scheme string `yaml:"scheme,omitempty"` // http or https (default: http)
	Host   string `yaml:"host,omitempty"`   // API host (default: localhost)
	Port   int    `yaml:"port,omitempty"`   // API port (default: 8090)
}

// SessionConfig tunes the session client.
type SessionConfig struct {
	RequestTimeout  time.Duration `yaml:"requestTimeout,omitempty"`  // Per-call timeout (default: 10s)
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"` // Background refresh interval (default: 50s)
}

// ShellConfig configures the interactive shell.
type ShellConfig struct {
	HistoryFile string `yaml:"historyFile,omitempty"` // Readline history (default: ~/.vcmd_history)
	Color       *bool  `yaml:"color,omitempty"`       // Coloured console output (default: true)
	Verbose     bool   `yaml:"verbose,omitempty"`     // Log request/response details
}

// MetricsConfig configures the optional Prometheus listener.
type MetricsConfig struct {
	ListenAddress string `yaml:"listenAddress,omitempty"` // e.g. "127.0.0.1:9190"; empty disables
}

// BaseURL returns the API base URL, e.g. "http://localhost:8090".
func (s ServerConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s", s.Scheme, net.JoinHostPort(s.Host, strconv.Itoa(s.Port)))
}

// ColorEnabled reports whether coloured output is on.
func (s ShellConfig) ColorEnabled() bool {
	return s.Color == nil || *s.Color
}
