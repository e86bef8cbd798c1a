package model

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/markkovari/rmf-codegen/cgerrors"
)

type pair struct {
	key   string
	value *yaml.Node
}

// pairs returns the key/value entries of a mapping node in document order.
func pairs(n *yaml.Node) []pair {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, pair{key: n.Content[i].Value, value: deref(n.Content[i+1])})
	}
	return out
}

// sequence returns the items of a sequence node. A scalar is treated as a
// one-element sequence.
func sequence(n *yaml.Node) []*yaml.Node {
	n = deref(n)
	switch {
	case n == nil || isNull(n):
		return nil
	case n.Kind == yaml.SequenceNode:
		out := make([]*yaml.Node, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, deref(c))
		}
		return out
	default:
		return []*yaml.Node{n}
	}
}

func deref(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < maxChainDepth; i++ {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func isAnnotationKey(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "(") && strings.HasSuffix(key, ")")
}

// annotations decodes either a single "(name): value" entry or an
// "annotations" mapping.
func (l *loader) annotations(u *unit, p pair) ([]*Annotation, error) {
	if isAnnotationKey(p.key) {
		a, err := decodeAnnotation(u, p.key[1:len(p.key)-1], p.value)
		if err != nil {
			return nil, err
		}
		return []*Annotation{a}, nil
	}
	var out []*Annotation
	for _, ap := range pairs(p.value) {
		a, err := decodeAnnotation(u, ap.key, ap.value)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeAnnotation(u *unit, name string, n *yaml.Node) (*Annotation, error) {
	a := &Annotation{Name: name}
	if isNull(n) {
		return a, nil
	}
	if err := n.Decode(&a.Value); err != nil {
		return nil, &cgerrors.ModelError{Path: u.source, Message: fmt.Sprintf("line %d: annotation %q", n.Line, name), Cause: err}
	}
	return a, nil
}

func addAnnotations(n Node, anns []*Annotation) {
	switch v := n.(type) {
	case *API:
		v.annotations = append(v.annotations, anns...)
	case *Library:
		v.annotations = append(v.annotations, anns...)
	}
}

// typeFacets lists the keys understood inside a type definition besides annotations.
var typeFacets = map[string]bool{
	"type": true, "properties": true, "items": true, "enum": true, "pattern": true,
	"format": true, "description": true, "discriminator": true, "discriminatorValue": true,
	"required": true, "displayName": true, "example": true, "examples": true, "default": true,
}

// linkType fills t from its definition, which is either a type expression
// or a mapping of facets.
func (l *loader) linkType(u *unit, t *Type, def *yaml.Node) error {
	if isNull(def) {
		t.Base = builtinTypes["string"]
		return nil
	}
	if def.Kind == yaml.ScalarNode {
		return l.applyExpr(u, t, def.Value)
	}
	if def.Kind != yaml.MappingNode {
		return &cgerrors.ModelError{Path: u.source, Message: fmt.Sprintf("line %d: type %s must be an expression or a mapping", def.Line, t.ID())}
	}

	hasType := false
	for _, p := range pairs(def) {
		var err error
		switch {
		case isAnnotationKey(p.key) || p.key == "annotations":
			var anns []*Annotation
			anns, err = l.annotations(u, p)
			t.annotations = append(t.annotations, anns...)
		case p.key == "type":
			hasType = true
			err = l.applyExpr(u, t, p.value.Value)
		case p.key == "properties":
			err = l.linkProperties(u, t, p.value)
		case p.key == "items":
			t.Items, err = l.typeRef(u, p.value, t)
		case p.key == "enum":
			for _, v := range sequence(p.value) {
				t.Enum = append(t.Enum, v.Value)
			}
		case p.key == "pattern":
			t.Pattern = p.value.Value
		case p.key == "format":
			t.Format = p.value.Value
		case p.key == "description":
			t.Description = p.value.Value
		case p.key == "discriminator":
			t.Discriminator = p.value.Value
		case p.key == "discriminatorValue":
			t.DiscriminatorValue = p.value.Value
		case typeFacets[p.key]:
		default:
			l.logger.Warn("ignoring unknown type facet", "type", t.ID(), "facet", p.key)
		}
		if err != nil {
			return err
		}
	}

	if !hasType {
		switch {
		case len(t.Properties) > 0:
			t.Base = builtinTypes["object"]
		case t.Items != nil:
			t.Base = builtinTypes["array"]
		default:
			t.Base = builtinTypes["string"]
		}
	}
	return nil
}

func (l *loader) linkProperties(u *unit, t *Type, n *yaml.Node) error {
	for _, p := range pairs(n) {
		name, required := p.key, true
		if strings.HasSuffix(name, "?") {
			name, required = strings.TrimSuffix(name, "?"), false
		}
		for _, f := range pairs(p.value) {
			if f.key == "required" {
				required = f.value.Value == "true"
			}
		}
		pt, err := l.typeRef(u, p.value, t)
		if err != nil {
			return err
		}
		t.Properties = append(t.Properties, &Property{Name: name, Type: pt, Required: required})
	}
	return nil
}

// typeRef resolves a type reference: an expression names an existing or
// composite type, a mapping defines an inline type owned by owner.
func (l *loader) typeRef(u *unit, n *yaml.Node, owner Node) (*Type, error) {
	if n.Kind == yaml.ScalarNode && !isNull(n) {
		return l.parseExpr(u, n.Value, owner)
	}
	t := &Type{parent: owner}
	l.types = append(l.types, t)
	if err := l.linkType(u, t, n); err != nil {
		return nil, err
	}
	return t, nil
}

// applyExpr sets t's supertype from a type expression. Composite
// expressions make t itself the array or union.
func (l *loader) applyExpr(u *unit, t *Type, expr string) error {
	ref, err := l.parseExpr(u, expr, t)
	if err != nil {
		return err
	}
	if !ref.builtin && ref.Name == "" {
		switch {
		case len(ref.Members) > 0:
			t.Members = ref.Members
			return nil
		case ref.Base == nil && ref.Items != nil:
			t.Items = ref.Items
			return nil
		}
	}
	t.Base = ref
	return nil
}

// parseExpr parses a type expression: a built-in or declared name, an
// alias-qualified name (lib.Name), T[] for arrays and A | B for unions.
// Parentheses group.
func (l *loader) parseExpr(u *unit, expr string, owner Node) (*Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &cgerrors.ReferenceError{From: owner.ID(), Message: "empty type expression"}
	}

	if parts := splitUnion(expr); len(parts) > 1 {
		t := &Type{parent: owner}
		for _, part := range parts {
			m, err := l.parseExpr(u, part, t)
			if err != nil {
				return nil, err
			}
			t.Members = append(t.Members, m)
		}
		l.types = append(l.types, t)
		return t, nil
	}

	if strings.HasSuffix(expr, "[]") {
		t := &Type{parent: owner}
		item, err := l.parseExpr(u, strings.TrimSuffix(expr, "[]"), t)
		if err != nil {
			return nil, err
		}
		t.Items = item
		l.types = append(l.types, t)
		return t, nil
	}

	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return l.parseExpr(u, expr[1:len(expr)-1], owner)
	}

	if t, ok := builtinTypes[expr]; ok {
		return t, nil
	}
	scope, name, err := l.scopeFor(u, expr, owner)
	if err != nil {
		return nil, err
	}
	t, ok := scope.types[name]
	if !ok {
		return nil, &cgerrors.ReferenceError{Ref: expr, From: owner.ID(), Message: "unknown type"}
	}
	return t, nil
}

// splitUnion splits expr on '|' outside parentheses.
func splitUnion(expr string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(expr[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(expr[start:]))
}

// finalizeKind derives t's structural kind from its supertype chain and
// rejects supertype cycles.
func finalizeKind(t *Type) error {
	if t.builtin {
		return nil
	}
	seen := make(map[*Type]bool)
	for c := t; c != nil; c = c.Base {
		if seen[c] || len(seen) >= maxChainDepth {
			return &cgerrors.ReferenceError{Ref: t.Name, From: t.ID(), IsCycle: true, Message: "supertype chain does not terminate"}
		}
		seen[c] = true
		switch {
		case c.builtin:
			t.TypeKind = c.TypeKind
			return nil
		case len(c.Members) > 0:
			t.TypeKind = TypeUnion
			return nil
		case c.Base == nil && c.Items != nil:
			t.TypeKind = TypeArray
			return nil
		}
	}
	t.TypeKind = TypeAny
	return nil
}

// EffectiveItems returns the nearest array item type along the supertype chain.
func (t *Type) EffectiveItems() *Type {
	for _, c := range t.Supertypes(maxChainDepth) {
		if c.Items != nil {
			return c.Items
		}
	}
	return nil
}

// EffectiveMembers returns the nearest union members along the supertype chain.
func (t *Type) EffectiveMembers() []*Type {
	for _, c := range t.Supertypes(maxChainDepth) {
		if len(c.Members) > 0 {
			return c.Members
		}
	}
	return nil
}
