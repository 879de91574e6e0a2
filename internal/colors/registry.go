package colors

import "fmt"

// Registry resolves native color ids to their canonical colors.
//
// A Registry is immutable after construction and safe to share between
// passes.
type Registry struct {
	colors [numNativeColorIDs]*Color
}

// NewRegistry creates a registry holding one canonical color per native id:
// primitives for primitive ids and native objects for the rest.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, id := range AllNativeColorIDs() {
		if id.IsPrimitive() {
			r.colors[id] = NewPrimitive(id)
		} else {
			r.colors[id] = NewNativeObject(id)
		}
	}
	return r
}

// Get returns the canonical color for id.
//
// Panics if id is not a declared native color id.
func (r *Registry) Get(id NativeColorID) *Color {
	if !id.Valid() {
		panic(fmt.Sprintf("colors: unknown native color id %d", uint8(id)))
	}
	return r.colors[id]
}

// Lookup resolves a native color by its snake_case name.
func (r *Registry) Lookup(name string) (*Color, bool) {
	id, ok := ParseNativeColorID(name)
	if !ok {
		return nil, false
	}
	return r.colors[id], true
}
