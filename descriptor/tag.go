package descriptor

import (
	"errors"
	"reflect"
	"strings"
)

// TagKey is the struct tag key read by providers.
const TagKey = "wire"

// ErrUnknownType is returned by providers asked for a type they do not know.
var ErrUnknownType = errors.New("unknown type")

// FieldTag is the parsed form of a `wire:"..."` struct tag.
type FieldTag struct {
	Annotations
	Generated bool
}

// ParseTag reads the wire tag of a struct field.
//
//	`wire:"-"`            ignored
//	`wire:"sku"`          wire name "sku"
//	`wire:"-,"`           wire name "-"
//	`wire:",generated"`   synthesized field, never serialized
func ParseTag(tag reflect.StructTag) FieldTag {
	var ft FieldTag

	value, ok := tag.Lookup(TagKey)
	if !ok {
		return ft
	}

	if value == "-" {
		ft.Ignore = true
		return ft
	}

	name, opts, _ := strings.Cut(value, ",")
	ft.WireName = name

	for opt := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(opt) == "generated" {
			ft.Generated = true
		}
	}

	return ft
}
