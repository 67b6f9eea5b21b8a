package cli

import (
	"encoding/json"
	"io"

	"github.com/loopblock/loopblock/internal/api"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output format flags (set by flags on commands that print data)
var (
	outputJSON bool
	outputYAML bool
)

// printJSON marshals v as JSON and prints it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML marshals v as YAML and prints it to w.
func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

// printFormatted prints v in JSON or YAML format based on flags.
// Returns true if output was printed, false if default format should be used.
func printFormatted(w io.Writer, v interface{}) (bool, error) {
	if outputJSON {
		return true, printJSON(w, v)
	}
	if outputYAML {
		return true, printYAML(w, v)
	}
	return false, nil
}

// newTable returns a borderless, left-aligned table writing to w.
func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// renderRoutes prints routes as an aligned table.
func renderRoutes(w io.Writer, routes []api.Route) {
	table := newTable(w)
	table.SetHeader([]string{"Kind", "Method", "Path", "Description"})
	for _, r := range routes {
		table.Append([]string{string(r.Category), r.Method, r.Path, r.Description})
	}
	table.Render()
}
