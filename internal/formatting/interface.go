// Package formatting renders session state for the console front ends.
//
// The same SessionView can be printed as plain console lines, a rich table,
// JSON or YAML, selected through Options.Format.
package formatting

import (
	"fmt"
	"strings"
	"time"

	"vcmd/internal/session"
	pkgstrings "vcmd/pkg/strings"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// ExpiryLayout is the human-readable layout for expiry times.
const ExpiryLayout = "2006-01-02 15:04:05 MST"

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// ParseFormat maps a user supplied name to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: console, table, json, yaml)", s)
	}
}

// SessionView is the printable snapshot of a client's session.
type SessionView struct {
	Endpoint      string `json:"endpoint" yaml:"endpoint"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Authkey       string `json:"authkey,omitempty" yaml:"authkey,omitempty"`
	Expires       string `json:"expires,omitempty" yaml:"expires,omitempty"`
	ExpiresIn     string `json:"expiresIn,omitempty" yaml:"expiresIn,omitempty"`
}

// NewSessionView builds a view from the endpoint and the held credential, if
// any. Unless reveal is set the authkey is masked.
func NewSessionView(endpoint string, cred *session.Credential, now time.Time, reveal bool) SessionView {
	view := SessionView{Endpoint: endpoint}
	if cred == nil {
		return view
	}

	view.Authenticated = true
	view.Authkey = cred.Token
	if !reveal {
		view.Authkey = pkgstrings.MaskToken(cred.Token, pkgstrings.DefaultTokenVisibleLen)
	}
	view.Expires = cred.Expires.Local().Format(ExpiryLayout)
	if cred.Expired(now) {
		view.ExpiresIn = "expired"
	} else {
		view.ExpiresIn = cred.ExpiresIn(now).Round(time.Second).String()
	}
	return view
}

// Formatter renders a SessionView.
type Formatter interface {
	FormatSession(view SessionView) (string, error)
}

// NewFormatter creates the formatter for options.Format.
func NewFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}
	case FormatYAML:
		return &YAMLFormatter{options: options}
	case FormatTable:
		return &TableFormatter{options: options}
	case FormatConsole:
		fallthrough
	default:
		return &ConsoleFormatter{options: options}
	}
}
