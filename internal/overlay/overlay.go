package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"wiremeta/descriptor"
	"wiremeta/internal/analyze"
	"wiremeta/internal/diagnostic"
	"wiremeta/internal/match"
)

// File is the root structure of an overlay file.
type File struct {
	// Version is the schema version.
	Version string `yaml:"version"`
	// Types holds the per-type overlays, applied in order.
	Types []TypeOverlay `yaml:"types"`
}

// TypeOverlay configures the serialization of a single type.
type TypeOverlay struct {
	// Type is a type reference: "Order", "catalog.Order" or "wiremeta/catalog.Order".
	Type string `yaml:"type"`
	// Ignore lists declared member names to skip.
	Ignore StringOrArray `yaml:"ignore,omitempty"`
	// Names maps declared member names to explicit wire names.
	Names map[string]string `yaml:"names,omitempty"`
	// Constructor names the function to mark as the deserialization constructor.
	Constructor string `yaml:"constructor,omitempty"`
}

// StringOrArray is a list of names that YAML may also spell as one scalar.
type StringOrArray []string

func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode && node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a name or a list of names", node.Line)
	}

	if node.Kind == yaml.SequenceNode {
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*s = names
		return nil
	}

	*s = StringOrArray{}
	if node.Value != "" && node.ShortTag() != "!!null" {
		*s = append(*s, node.Value)
	}

	return nil
}

// MarshalYAML writes a single name as a scalar.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// LoadFile loads and parses a YAML overlay file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&f)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse overlay YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Apply writes the overlay annotations into the descriptors of graph.
// Every problem is collected; nothing is applied when any is found.
func (f *File) Apply(graph *analyze.TypeGraph) error {
	diags := f.Validate(graph)
	if err := diags.Error(); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}

	for i := range f.Types {
		to := &f.Types[i]
		t := ResolveType(to.Type, graph)

		for _, name := range to.Ignore {
			t.Member(name).Tags.Ignore = true
		}

		for name, wire := range to.Names {
			t.Member(name).Tags.WireName = wire
		}

		if to.Constructor != "" {
			t.Constructor(to.Constructor).Marked = true
		}
	}

	return nil
}

// Validate checks every overlay entry against graph without modifying it.
func (f *File) Validate(graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	seen := make(map[descriptor.TypeID]string)

	for i := range f.Types {
		to := &f.Types[i]

		t := ResolveType(to.Type, graph)
		if t == nil {
			res.AddError("type_not_found", fmt.Sprintf("type %q not found", to.Type), to.Type, "")
			continue
		}

		typ := t.ID.String()
		if prev, ok := seen[t.ID]; ok {
			res.AddError("duplicate_type", fmt.Sprintf("configured twice (%q and %q)", prev, to.Type), typ, "")
			continue
		}
		seen[t.ID] = to.Type

		for _, name := range to.Ignore {
			checkMember(res, t, name)
		}

		for _, name := range slices.Sorted(maps.Keys(to.Names)) {
			checkMember(res, t, name)

			if to.Names[name] == "" {
				res.AddError("empty_wire_name", "wire name is empty", typ, name)
			}

			if slices.Contains(to.Ignore, name) {
				res.AddWarning("ignored_member_renamed", "member is ignored, its wire name has no effect", typ, name)
			}
		}

		if to.Constructor != "" {
			checkConstructor(res, t, to.Constructor)
		}
	}

	return res
}

func checkConstructor(res *diagnostic.Diagnostics, t *descriptor.Type, name string) {
	typ := t.ID.String()

	c := t.Constructor(name)
	if c == nil {
		res.AddError("constructor_not_found", fmt.Sprintf("constructor %q not found", name), typ, name)
		return
	}

	if c.Marked {
		res.AddInfo("constructor_already_marked", "constructor is already marked in source", typ, name)
		return
	}

	for _, other := range t.Constructors {
		if other.Marked {
			res.AddWarning("multiple_marked",
				fmt.Sprintf("%s is marked in source as well, resolution will fail", other.Name), typ, name)
		}
	}
}

func checkMember(res *diagnostic.Diagnostics, t *descriptor.Type, name string) {
	if t.Member(name) != nil {
		return
	}

	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		names = append(names, m.Name)
	}

	res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        "member_not_found",
		Message:     fmt.Sprintf("member %q not found", name),
		Type:        t.ID.String(),
		Subject:     name,
		Suggestions: match.Suggest(name, names, 3),
	})
}

// ResolveType resolves a type reference like:
// - "catalog.Order" (short)
// - "wiremeta/catalog.Order" (full)
// - "Order" (name only).
func ResolveType(ref string, graph *analyze.TypeGraph) *descriptor.Type {
	if graph == nil || ref == "" {
		return nil
	}

	lastDot := strings.LastIndex(ref, ".")
	if lastDot < 0 {
		return uniqueType(graph, func(id descriptor.TypeID) bool { return id.Name == ref })
	}

	pkgStr, name := ref[:lastDot], ref[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	if t := graph.GetType(descriptor.TypeID{PkgPath: pkgStr, Name: name}); t != nil {
		return t
	}

	return uniqueType(graph, func(id descriptor.TypeID) bool {
		return id.Name == name && strings.HasSuffix(id.PkgPath, "/"+pkgStr)
	})
}

// uniqueType returns the only type accepted by keep, or nil when there is
// none or more than one.
func uniqueType(graph *analyze.TypeGraph, keep func(descriptor.TypeID) bool) *descriptor.Type {
	var found *descriptor.Type

	for _, id := range graph.IDs() {
		if !keep(id) {
			continue
		}

		if found != nil {
			return nil
		}
		found = graph.GetType(id)
	}

	return found
}
