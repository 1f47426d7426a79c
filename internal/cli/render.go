package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"wiremeta/internal/config"
	"wiremeta/internal/diagnostic"
	"wiremeta/resolve"
)

// typeView is the printable form of a resolved type.
type typeView struct {
	Type        string       `json:"type" yaml:"type"`
	Class       string       `json:"class" yaml:"class"`
	Constructor string       `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Binding     []string     `json:"binding,omitempty" yaml:"binding,omitempty"`
	Setters     []string     `json:"setters,omitempty" yaml:"setters,omitempty"`
	Members     []memberView `json:"members" yaml:"members"`
}

// diagnosticView is the printable form of a diagnostic.
type diagnosticView struct {
	Severity    string   `json:"severity" yaml:"severity"`
	Code        string   `json:"code" yaml:"code"`
	Message     string   `json:"message" yaml:"message"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Subject     string   `json:"subject,omitempty" yaml:"subject,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

func newDiagnosticViews(diags *diagnostic.Diagnostics) []diagnosticView {
	views := make([]diagnosticView, 0, diags.Len())
	for _, d := range diags.All() {
		views = append(views, diagnosticView{
			Severity:    d.Severity.String(),
			Code:        d.Code,
			Message:     d.Message,
			Type:        d.Type,
			Subject:     d.Subject,
			Suggestions: d.Suggestions,
		})
	}

	return views
}

type memberView struct {
	Wire     string `json:"wire" yaml:"wire"`
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Type     string `json:"type" yaml:"type"`
	Readable bool   `json:"readable" yaml:"readable"`
	Writable bool   `json:"writable" yaml:"writable"`
}

func newTypeView(meta *resolve.TypeMetadata) typeView {
	v := typeView{
		Type:    meta.ID.String(),
		Class:   meta.Class.String(),
		Binding: meta.Binding.WireNames(),
		Members: make([]memberView, 0, len(meta.Members)),
	}

	if meta.Constructor != nil {
		v.Constructor = meta.Constructor.Name
	}

	for _, m := range meta.Setters() {
		v.Setters = append(v.Setters, m.WireName)
	}

	for _, m := range meta.Members {
		v.Members = append(v.Members, memberView{
			Wire:     m.WireName,
			Name:     m.Name,
			Kind:     m.Kind.String(),
			Type:     m.Type.String(),
			Readable: m.Readable,
			Writable: m.Writable,
		})
	}

	return v
}

// render writes metas to w in format.
func render(w io.Writer, format string, metas []*resolve.TypeMetadata) error {
	views := make([]typeView, 0, len(metas))
	for _, meta := range metas {
		views = append(views, newTypeView(meta))
	}

	if format != config.FormatText {
		return encode(w, format, views)
	}

	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderText(w, v)
	}

	return nil
}

// encode writes v in one of the structured formats.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()

	case config.FormatDump:
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(w, v)
		return nil

	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func renderText(w io.Writer, v typeView) {
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintf(w, "%s", v.Type)
	fmt.Fprintf(w, " (%s)\n", v.Class)

	if v.Constructor != "" {
		fmt.Fprintf(w, "constructor: %s(%s)\n", v.Constructor, strings.Join(v.Binding, ", "))
	} else {
		fmt.Fprintln(w, "constructor: none")
	}

	if len(v.Members) == 0 {
		fmt.Fprintln(w, "no members")
		return
	}

	t := newTable(w, "WIRE", "NAME", "KIND", "TYPE", "ACCESS")
	for _, m := range v.Members {
		t.addRow(m.Wire, m.Name, m.Kind, m.Type, access(m))
	}
	t.render()
}

func access(m memberView) string {
	switch {
	case m.Readable && m.Writable:
		return "rw"
	case m.Readable:
		return "r"
	case m.Writable:
		return "w"
	default:
		return "-"
	}
}

// table is a simple aligned table for the text output.
type table struct {
	w       io.Writer
	headers []string
	rows    [][]string
}

func newTable(w io.Writer, headers ...string) *table {
	return &table{w: w, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	for i, h := range t.headers {
		bold.Fprint(t.w, padCell(h, widths[i], i == len(widths)-1))
	}
	fmt.Fprintln(t.w)

	for _, row := range t.rows {
		for i, cell := range row {
			fmt.Fprint(t.w, padCell(cell, widths[i], i == len(row)-1))
		}
		fmt.Fprintln(t.w)
	}
}

func padCell(s string, width int, last bool) string {
	if last {
		return s
	}

	return s + strings.Repeat(" ", width-len(s)+2)
}

// writeFailure prints a resolution error with its per-candidate diagnostics.
func writeFailure(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(w, "✗ %v\n", err)

	var rerr *resolve.Error
	if !errors.As(err, &rerr) {
		return
	}

	for _, d := range rerr.Diagnostics.All() {
		writeDiagnostic(w, d)
	}
}

func writeDiagnostic(w io.Writer, d diagnostic.Diagnostic) {
	c := color.New(color.FgYellow)
	if d.Severity == diagnostic.SeverityError {
		c = color.New(color.FgRed)
	}

	c.Fprintf(w, "    %s\n", d.String())

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(w, "      did you mean: %s?\n", strings.Join(d.Suggestions, ", "))
	}
}

func writeSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen, color.Bold)
	green.Fprintf(w, "✓ %s\n", msg)
}
