package formatting

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	pkgstrings "vcmd/pkg/strings"
)

// maxEndpointWidth caps the endpoint cell so long URLs keep the table narrow.
const maxEndpointWidth = 60

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatSession renders the session as a two column table.
func (f *TableFormatter) FormatSession(view SessionView) (string, error) {
	t := f.createTable()
	t.AppendHeader(table.Row{f.header("FIELD"), f.header("VALUE")})

	t.AppendRow(table.Row{f.key("Endpoint"), pkgstrings.Truncate(view.Endpoint, maxEndpointWidth)})
	if view.Authenticated {
		t.AppendRow(table.Row{f.key("Status"), f.colorize(text.FgGreen, "authenticated")})
		t.AppendRow(table.Row{f.key("Authkey"), view.Authkey})
		t.AppendRow(table.Row{f.key("Expires"), view.Expires})
		t.AppendRow(table.Row{f.key("Expires in"), view.ExpiresIn})
	} else {
		t.AppendRow(table.Row{f.key("Status"), f.colorize(text.FgYellow, "not authenticated")})
	}

	return strings.TrimRight(t.Render(), "\n"), nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(s string) string {
	return f.colorize(text.FgHiCyan, s)
}

func (f *TableFormatter) key(s string) string {
	return f.colorize(text.FgHiCyan, s)
}

func (f *TableFormatter) colorize(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
