package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/admin"
)

var tokenColors = map[backoffice.ColorToken]*color.Color{
	backoffice.ColorSuccess: color.New(color.FgGreen),
	backoffice.ColorError:   color.New(color.FgRed),
	backoffice.ColorWarning: color.New(color.FgYellow),
	backoffice.ColorInfo:    color.New(color.FgCyan),
}

var severityTokens = map[backoffice.Severity]backoffice.ColorToken{
	backoffice.SeveritySuccess: backoffice.ColorSuccess,
	backoffice.SeverityError:   backoffice.ColorError,
	backoffice.SeverityWarning: backoffice.ColorWarning,
	backoffice.SeverityInfo:    backoffice.ColorInfo,
}

type printer struct {
	out    io.Writer
	format string
}

func newPrinter(out io.Writer, format string) *printer {
	if format == "" {
		format = "table"
	}
	return &printer{out: out, format: format}
}

func paint(token backoffice.ColorToken, s string) string {
	if c, ok := tokenColors[token]; ok {
		return c.Sprint(s)
	}
	return s
}

// table prints rows with the status cell colored. The status column is last so
// color codes never skew the alignment.
func (p *printer) table(t admin.Table, records []any) error {
	if p.format != "table" {
		return p.value(records)
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(p.out, "No records.")
		return nil
	}
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for i, row := range t.Rows {
		cells := append([]string(nil), row...)
		if i < len(t.Status) && len(cells) > 0 {
			last := len(cells) - 1
			cells[last] = paint(backoffice.StatusColor(t.Status[i]), cells[last])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

// value prints any result in the selected format; tables fall back to YAML.
func (p *printer) value(v any) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

func (p *printer) feedback(msg backoffice.Message) {
	fmt.Fprintln(p.out, paint(severityTokens[msg.Severity], msg.Text))
}

// fieldErrors prints inline validation errors in field order.
func (p *printer) fieldErrors(errs map[string]string) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(p.out, "  %s: %s\n", name, paint(backoffice.ColorError, errs[name]))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func itoa(n int) string { return strconv.Itoa(n) }
