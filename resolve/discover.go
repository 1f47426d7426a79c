package resolve

import (
	"strings"

	"wiremeta/descriptor"
	"wiremeta/naming"
)

// InternalPrefix marks compiler- or tool-synthesized fields ("_" in Go).
const InternalPrefix = "_"

// Member is a member that participates in the wire format.
type Member struct {
	WireName string                // name on the wire, unique per type
	Name     string                // declared Go name
	Kind     descriptor.MemberKind // field or property
	Type     descriptor.TypeRef    // declared value type
	Readable bool                  // getter usable under the access policy
	Writable bool                  // setter usable under the access policy

	// Source is the descriptor member, including its runtime accessors.
	Source *descriptor.Member
}

// Discover computes the serializable members of t.
//
// Fields come first, then properties, each in declaration order. Ignored
// members, static or generated fields and members that can be neither read
// nor written under allowPrivate are skipped. A wire name computed twice is
// a DuplicateWireName error; the comparison is case-sensitive.
func Discover(t *descriptor.Type, mutate naming.Mutator, allowPrivate bool) ([]Member, error) {
	if mutate == nil {
		mutate = naming.Original
	}

	var members []Member

	owners := make(map[string]string) // wire name -> declared name

	for _, kind := range []descriptor.MemberKind{descriptor.MemberField, descriptor.MemberProperty} {
		for i := range t.Members {
			dm := &t.Members[i]
			if dm.Kind != kind || !eligible(dm) {
				continue
			}

			wire := dm.Tags.WireName
			if wire == "" {
				wire = mutate(dm.Name)
			}

			m := Member{
				WireName: wire,
				Name:     dm.Name,
				Kind:     dm.Kind,
				Type:     dm.Type,
				Readable: dm.Getter.Allows(allowPrivate),
				Writable: dm.Setter.Allows(allowPrivate),
				Source:   dm,
			}
			if !m.Readable && !m.Writable {
				continue
			}

			if owner, taken := owners[wire]; taken {
				return nil, &Error{
					Kind:   DuplicateWireName,
					Type:   t.ID,
					Member: wire,
					Detail: "declared by " + owner + " and " + dm.Name,
				}
			}

			owners[wire] = dm.Name
			members = append(members, m)
		}
	}

	return members, nil
}

// eligible applies the annotation and field exclusion rules.
func eligible(m *descriptor.Member) bool {
	if m.Tags.Ignore {
		return false
	}

	if m.Kind == descriptor.MemberField {
		if m.Static || m.Generated || strings.HasPrefix(m.Name, InternalPrefix) {
			return false
		}
	}

	return true
}
