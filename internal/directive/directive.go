// Package directive parses wiremeta directives from Go comments.
//
// Directives are line comments in the form:
//
//	//wire:constructor
//	//wire:ignore
//	//wire:name <wire name>
//	//wire:property
//
// The constructor directive marks the deserialization constructor of the
// type a New… function returns. The ignore and name directives annotate the
// struct field or accessor method they document. The property directive opts
// a getter without setter in as a read-only property.
//
// A name may be quoted with Go string syntax when it contains spaces.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix starts every directive comment.
const Prefix = "//wire:"

// Kind represents the type of directive.
type Kind string

const (
	KindConstructor Kind = "constructor"
	KindIgnore      Kind = "ignore"
	KindName        Kind = "name"
	KindProperty    Kind = "property"
)

// arity is the number of arguments each kind takes.
var arity = map[Kind]int{
	KindConstructor: 0,
	KindIgnore:      0,
	KindName:        1,
	KindProperty:    0,
}

// Directive represents a parsed wiremeta directive.
type Directive struct {
	Kind Kind           // constructor, ignore, name or property
	Arg  string         // argument of name directives
	Pos  token.Position // source location, zero when parsed from a string
}

// String renders the directive back to comment form.
func (d Directive) String() string {
	if d.Arg == "" {
		return Prefix + string(d.Kind)
	}

	if strings.ContainsAny(d.Arg, " \t\"") {
		return fmt.Sprintf("%s%s %q", Prefix, d.Kind, d.Arg)
	}

	return Prefix + string(d.Kind) + " " + d.Arg
}

type line struct {
	Head string `parser:"@Head"`
	Args []*arg `parser:"@@*"`
}

type arg struct {
	Quoted *string `parser:"  @String"`
	Bare   *string `parser:"| @Word"`
}

func (a *arg) value() string {
	if a.Quoted != nil {
		return *a.Quoted
	}

	return *a.Bare
}

var grammar = participle.MustBuild[line](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Head", Pattern: `//wire:[a-zA-Z]+`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Word", Pattern: `[^\s"]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// IsDirective reports whether a comment line is a wiremeta directive.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, Prefix)
}

// Parse parses a single comment line such as "//wire:name sku".
func Parse(text string) (Directive, error) {
	text = strings.TrimSpace(text)
	if !IsDirective(text) {
		return Directive{}, fmt.Errorf("not a directive: %q", text)
	}

	l, err := grammar.ParseString("", text)
	if err != nil {
		return Directive{}, fmt.Errorf("parse %q: %w", text, err)
	}

	d := Directive{Kind: Kind(strings.TrimPrefix(l.Head, Prefix))}

	want, known := arity[d.Kind]
	if !known {
		return Directive{}, fmt.Errorf("unknown directive %s%s", Prefix, d.Kind)
	}

	if len(l.Args) != want {
		return Directive{}, fmt.Errorf("%s%s takes %d argument(s), got %d", Prefix, d.Kind, want, len(l.Args))
	}

	if want == 1 {
		d.Arg = l.Args[0].value()
		if d.Arg == "" {
			return Directive{}, fmt.Errorf("%s%s: empty argument", Prefix, d.Kind)
		}
	}

	return d, nil
}

// Set is the list of directives attached to one declaration.
type Set []Directive

// Has reports whether the set contains a directive of the given kind.
func (s Set) Has(k Kind) bool {
	_, ok := s.Get(k)
	return ok
}

// Get returns the directive of the given kind.
func (s Set) Get(k Kind) (Directive, bool) {
	for _, d := range s {
		if d.Kind == k {
			return d, true
		}
	}

	return Directive{}, false
}

// FromComments collects the directives of the given comment groups, usually
// a declaration's Doc and trailing Comment. Nil groups are skipped. A kind
// appearing twice is an error.
func FromComments(fset *token.FileSet, groups ...*ast.CommentGroup) (Set, error) {
	var set Set

	for _, cg := range groups {
		if cg == nil {
			continue
		}

		for _, c := range cg.List {
			if !IsDirective(c.Text) {
				continue
			}

			pos := fset.Position(c.Pos())

			d, err := Parse(c.Text)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pos, err)
			}
			d.Pos = pos

			if prev, dup := set.Get(d.Kind); dup {
				return nil, fmt.Errorf("%s: duplicate %s%s directive (first at %s)", pos, Prefix, d.Kind, prev.Pos)
			}

			set = append(set, d)
		}
	}

	return set, nil
}
