package domain

import "fmt"

// AttributeKind tags how a product attribute is rendered and validated in
// the admin console.
type AttributeKind string

const (
	AttributeText        AttributeKind = "text"
	AttributeOptions     AttributeKind = "options"
	AttributeMultiSelect AttributeKind = "multi_select"
	AttributeDescription AttributeKind = "description"
)

// AttributeKinds lists every kind; handler maps over attribute kinds are
// checked for exhaustiveness against it.
var AttributeKinds = []AttributeKind{
	AttributeText,
	AttributeOptions,
	AttributeMultiSelect,
	AttributeDescription,
}

func ParseAttributeKind(s string) (AttributeKind, error) {
	for _, k := range AttributeKinds {
		if AttributeKind(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown attribute kind: %q", s)
}

type Attribute struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Kind    AttributeKind `json:"kind"`
	Options []string      `json:"options,omitempty"`
}

// AttributeHandlers maps every attribute kind to a handler. Construction
// fails if a kind is missing, so adding a kind forces every call site to
// handle it.
type AttributeHandlers[T any] map[AttributeKind]func(Attribute) (T, error)

func NewAttributeHandlers[T any](handlers map[AttributeKind]func(Attribute) (T, error)) (AttributeHandlers[T], error) {
	for _, k := range AttributeKinds {
		if _, ok := handlers[k]; !ok {
			return nil, fmt.Errorf("no handler for attribute kind %q", k)
		}
	}
	return handlers, nil
}

func (h AttributeHandlers[T]) Handle(attr Attribute) (T, error) {
	var zero T

	fn, ok := h[attr.Kind]
	if !ok {
		return zero, fmt.Errorf("unknown attribute kind: %q", attr.Kind)
	}

	return fn(attr)
}
