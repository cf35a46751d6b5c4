package formatting

import (
	"fmt"
	"strings"
)

// ConsoleFormatter prints one "key: value" line per field.
type ConsoleFormatter struct {
	options Options
}

// FormatSession formats the session for console output
func (f *ConsoleFormatter) FormatSession(view SessionView) (string, error) {
	var lines []string
	lines = append(lines, fmt.Sprintf("Endpoint:      %s", view.Endpoint))
	if !view.Authenticated {
		lines = append(lines, "Authenticated: no")
		return strings.Join(lines, "\n"), nil
	}

	lines = append(lines,
		"Authenticated: yes",
		fmt.Sprintf("Authkey:       %s", view.Authkey),
		fmt.Sprintf("Expires:       %s (in %s)", view.Expires, view.ExpiresIn),
	)
	return strings.Join(lines, "\n"), nil
}
