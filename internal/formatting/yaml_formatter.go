package formatting

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// FormatSession formats the session as YAML
func (f *YAMLFormatter) FormatSession(view SessionView) (string, error) {
	out, err := yaml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session as YAML: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
