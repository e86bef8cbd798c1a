package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "resource", KindResource.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.Equal(t, "date-only", TypeDateOnly.String())
	assert.Equal(t, "typekind(99)", TypeKind(99).String())
}

func TestAnnotationValues(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantOK  bool
		wantB   bool
		wantBOK bool
	}{
		{"string", "pets", "pets", true, false, false},
		{"int", 3, "3", true, false, false},
		{"float", 1.5, "1.5", true, false, false},
		{"bool", true, "true", true, true, true},
		{"nil", nil, "", false, false, false},
		{"map", map[string]any{"a": 1}, "", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Annotation{Name: "x", Value: tt.value}
			s, ok := a.String()
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.wantOK, ok)
			b, ok := a.Bool()
			assert.Equal(t, tt.wantB, b)
			assert.Equal(t, tt.wantBOK, ok)
		})
	}

	var nilAnn *Annotation
	_, ok := nilAnn.String()
	assert.False(t, ok)
}

func TestIsDeprecatedRequiresBooleanTrue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"true", true, true},
		{"false", false, false},
		{"string true", "true", false},
		{"no value", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ty := &Type{Name: "T"}
			ty.annotations = []*Annotation{{Name: AnnotationDeprecated, Value: tt.value}}
			assert.Equal(t, tt.want, IsDeprecated(ty))
		})
	}
}

func TestAncestorsAndWalk(t *testing.T) {
	api := loadPetstore(t)
	byID := api.Resources[0].Resources[0]
	anc := Ancestors(byID.Methods[0], 10)
	assert.Len(t, anc, 3)
	assert.Same(t, byID, anc[0])
	assert.Same(t, api, anc[2])
	assert.Len(t, Ancestors(byID.Methods[0], 1), 1)

	var uris []string
	Walk(api.Resources, func(r *Resource) { uris = append(uris, r.FullURI()) })
	assert.Equal(t, []string{"/pets", "/pets/{id}"}, uris)
}

func TestBuiltin(t *testing.T) {
	s, ok := Builtin("string")
	assert.True(t, ok)
	assert.True(t, s.Builtin())
	assert.False(t, s.Declared())
	assert.Nil(t, s.Parent())
	assert.Equal(t, "type:string", s.ID())
	_, ok = Builtin("Pet")
	assert.False(t, ok)
}
