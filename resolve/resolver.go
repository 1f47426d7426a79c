package resolve

import (
	"errors"
	"reflect"

	"go.uber.org/zap"

	"wiremeta/descriptor"
	"wiremeta/internal/diagnostic"
	"wiremeta/naming"
)

// Options are the policy inputs of a resolution.
type Options struct {
	// NameMutator derives wire names of members without an explicit one.
	// Nil keeps declared names.
	NameMutator naming.Mutator
	// AllowPrivateAccess lets unexported accessors count as readable/writable.
	AllowPrivateAccess bool
	// Logger receives candidate trials at debug level. Nil disables logging.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}

	return o.Logger
}

// TypeMetadata is the immutable result of resolving a type.
type TypeMetadata struct {
	ID      descriptor.TypeID
	Class   descriptor.Class
	Members []Member

	// Constructor is nil when no public constructor took parameters; the
	// value is then built by parameterless construction plus setters.
	Constructor *descriptor.Constructor
	// Binding feeds Constructor, in parameter order.
	Binding Binding

	// Runtime is the struct type backing the descriptor, if known.
	Runtime reflect.Type
}

// IsReference reports whether the type is handled by reference.
func (m *TypeMetadata) IsReference() bool {
	return m.Class == descriptor.ClassReference
}

// Member returns the member with the given wire name (case-sensitive).
func (m *TypeMetadata) Member(wireName string) (Member, bool) {
	for _, mem := range m.Members {
		if mem.WireName == wireName {
			return mem, true
		}
	}

	return Member{}, false
}

// Setters returns the writable members that the constructor does not feed.
func (m *TypeMetadata) Setters() []Member {
	bound := make(map[string]bool, len(m.Binding))
	for _, b := range m.Binding {
		bound[b.WireName] = true
	}

	var out []Member
	for _, mem := range m.Members {
		if mem.Writable && !bound[mem.WireName] {
			out = append(out, mem)
		}
	}

	return out
}

// Resolve computes the TypeMetadata of t.
//
// Resolution discovers members, selects constructor candidates and tries
// them in order until one binds every parameter. A marked constructor is
// the only candidate and its failure is reported as a typed error; in the
// heuristic search, exhausting the candidates is a NoMatchingConstructor
// error. No partial metadata is ever returned.
//
// Resolve does not retain t; it works on a private copy.
func Resolve(t *descriptor.Type, opts Options) (*TypeMetadata, error) {
	if t == nil {
		return nil, errors.New("resolve: nil type descriptor")
	}

	t = t.Clone()
	log := opts.logger().With(zap.Stringer("type", t.ID))

	members, err := Discover(t, opts.NameMutator, opts.AllowPrivateAccess)
	if err != nil {
		return nil, err
	}

	sel, err := SelectCandidates(t)
	if err != nil {
		return nil, err
	}

	for _, c := range sel.Ignored {
		log.Warn("marker on unexported constructor ignored", zap.String("constructor", c.Name))
	}

	meta := &TypeMetadata{
		ID:      t.ID,
		Class:   t.Class,
		Members: members,
		Runtime: t.Runtime,
	}

	if sel.IsEmpty() {
		log.Debug("no public constructor", zap.Int("members", len(members)))
		return meta, nil
	}

	binder := NewBinder(t.ID, members)

	var (
		diags diagnostic.Diagnostics
		tried []string
	)

	for _, ctor := range sel.Candidates {
		attempt := binder.Bind(ctor)
		if attempt.OK() {
			log.Debug("constructor bound",
				zap.String("constructor", ctor.Name),
				zap.Strings("parameters", attempt.Binding.WireNames()),
				zap.Bool("explicit", sel.Explicit))

			if ctor.Arity() > 0 {
				meta.Constructor = ctor
				meta.Binding = attempt.Binding
			}

			return meta, nil
		}

		binder.Record(&diags, attempt)

		if sel.Explicit {
			e := binder.Err(ctor, attempt.Failures[0])
			e.Diagnostics = diags
			return nil, e
		}

		log.Debug("constructor rejected",
			zap.String("constructor", ctor.Name),
			zap.Int("failures", len(attempt.Failures)))

		tried = append(tried, ctor.Name)
	}

	return nil, &Error{
		Kind:        NoMatchingConstructor,
		Type:        t.ID,
		Candidates:  tried,
		Diagnostics: diags,
	}
}
