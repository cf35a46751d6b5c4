package formatting

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// FormatSession formats the session as indented JSON
func (f *JSONFormatter) FormatSession(view SessionView) (string, error) {
	return PrettyJSON(view), nil
}
