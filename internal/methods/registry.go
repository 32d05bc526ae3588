package methods

import (
	"fmt"
	"sort"
)

// Registry maps method names to factories. Each lookup returns a fresh
// method instance: methods hold scratch buffers and must not be shared
// between drivers.
type Registry struct {
	factories map[string]func() Method
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]func() Method)}
	r.factories["euler"] = func() Method { return NewExplicitEuler() }
	r.factories["merson"] = func() Method { return NewMerson() }
	return r
}

func (r *Registry) Get(name string) (Method, error) {
	fn, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
