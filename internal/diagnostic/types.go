package diagnostic

import (
	"errors"
	"strings"

	"wiremeta/internal/common"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return common.UnknownStr
	}

	return severityNames[s]
}

// Diagnostic is one finding about a type, a constructor, a parameter or a
// member.
type Diagnostic struct {
	Severity    Severity
	Code        string   // stable machine-readable identifier, e.g. "param_unresolved"
	Message     string
	Type        string   // type id, if any
	Subject     string   // constructor, parameter or member, if any
	Suggestions []string // close names the user may have meant
}

// String renders "[type] subject: [code] message", leaving out empty parts.
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Type != "" {
		b.WriteString("[" + d.Type + "]")
	}

	if d.Subject != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Subject)
	}

	if b.Len() > 0 {
		b.WriteString(": ")
	}

	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}
	b.WriteString(d.Message)

	return b.String()
}

// Diagnostics groups findings by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Add files d under its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

func (d *Diagnostics) AddError(code, message, typ, subject string) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Type: typ, Subject: subject})
}

func (d *Diagnostics) AddWarning(code, message, typ, subject string) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Type: typ, Subject: subject})
}

func (d *Diagnostics) AddInfo(code, message, typ, subject string) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Type: typ, Subject: subject})
}

// Merge appends every finding of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	for _, diag := range other.All() {
		d.Add(diag)
	}
}

func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// All returns every finding, most severe first.
func (d *Diagnostics) All() []Diagnostic {
	return append(append(append(make([]Diagnostic, 0, d.Len()), d.Errors...), d.Warnings...), d.Infos...)
}

func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid is the negation of HasErrors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Error joins the error findings with "; ", or returns nil when there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	return errors.New(strings.Join(common.Map(d.Errors, Diagnostic.String), "; "))
}
