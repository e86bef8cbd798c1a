package types

import (
	"fmt"
	"sort"
)

// BaseTypes is a render plugin's table of language base types, used for
// built-in and anonymous model types.
type BaseTypes struct {
	Any      Descriptor
	Object   Descriptor
	Integer  Descriptor
	Long     Descriptor
	Double   Descriptor
	String   Descriptor
	Boolean  Descriptor
	DateTime Descriptor
	DateOnly Descriptor
	TimeOnly Descriptor
	File     Descriptor
}

// DefaultBaseTypes returns a language-neutral table.
func DefaultBaseTypes() BaseTypes {
	return BaseTypes{
		Any:      Any{BaseName: "any"},
		Object:   Any{BaseName: "object"},
		Integer:  Scalar{Name: "integer", Primitive: "int32"},
		Long:     Scalar{Name: "long", Primitive: "int64"},
		Double:   Scalar{Name: "number", Primitive: "float64"},
		String:   Scalar{Name: "string", Primitive: "string"},
		Boolean:  Scalar{Name: "boolean", Primitive: "bool"},
		DateTime: Scalar{Name: "datetime", Primitive: "string"},
		DateOnly: Scalar{Name: "date", Primitive: "string"},
		TimeOnly: Scalar{Name: "time", Primitive: "string"},
		File:     Any{BaseName: "file"},
	}
}

func (b *BaseTypes) slots() map[string]*Descriptor {
	return map[string]*Descriptor{
		"any":       &b.Any,
		"object":    &b.Object,
		"integer":   &b.Integer,
		"long":      &b.Long,
		"double":    &b.Double,
		"string":    &b.String,
		"boolean":   &b.Boolean,
		"datetime":  &b.DateTime,
		"date-only": &b.DateOnly,
		"time-only": &b.TimeOnly,
		"file":      &b.File,
	}
}

// SlotNames returns the slot names accepted by Set, sorted.
func SlotNames() []string {
	var b BaseTypes
	names := make([]string, 0, 11)
	for name := range b.slots() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set replaces the descriptor in the named slot.
func (b *BaseTypes) Set(slot string, d Descriptor) error {
	p, ok := b.slots()[slot]
	if !ok {
		return fmt.Errorf("unknown base type slot %q", slot)
	}
	*p = d
	return nil
}

// Merge returns b with every non-nil slot of o applied over it.
func (b BaseTypes) Merge(o BaseTypes) BaseTypes {
	out := b
	dst := out.slots()
	for name, src := range o.slots() {
		if *src != nil {
			*dst[name] = *src
		}
	}
	return out
}

// withDefaults fills nil slots from DefaultBaseTypes.
func (b BaseTypes) withDefaults() BaseTypes {
	return DefaultBaseTypes().Merge(b)
}
