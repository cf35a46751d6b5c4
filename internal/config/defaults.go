package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultScheme          = "http"
	DefaultHost            = "localhost"
	DefaultPort            = 8090
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRefreshInterval = 50 * time.Second

	historyFileName = ".vcmd_history"
)

// GetDefaultConfig returns the configuration used when no file or environment
// override is present.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Scheme: DefaultScheme,
			Host:   DefaultHost,
			Port:   DefaultPort,
		},
		Session: SessionConfig{
			RequestTimeout:  DefaultRequestTimeout,
			RefreshInterval: DefaultRefreshInterval,
		},
		Shell: ShellConfig{
			HistoryFile: defaultHistoryFile(),
		},
	}
}

// defaultHistoryFile lives in the home directory, falling back to the
// working directory when it cannot be determined.
func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}
	return filepath.Join(home, historyFileName)
}
