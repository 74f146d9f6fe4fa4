package inference

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
)

var ErrBindingNotFound = errors.New("binding not registered")

// Registry resolves bindings by name
type Registry struct {
	bindings sync.Map
}

type registration struct {
	binding dream.Binding
	err     error
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a binding under name
func (r *Registry) Register(name string, binding dream.Binding) error {
	if name == "" {
		return fmt.Errorf("binding name cannot be empty")
	}
	if binding == nil {
		return fmt.Errorf("binding %q is nil", name)
	}
	if _, loaded := r.bindings.LoadOrStore(name, registration{binding: binding}); loaded {
		return fmt.Errorf("binding %q already registered", name)
	}
	return nil
}

// RegisterFailure records that name could not be constructed. Acquiring it
// later returns err.
func (r *Registry) RegisterFailure(name string, err error) {
	r.bindings.Store(name, registration{err: err})
}

// Binding returns the binding registered under name
func (r *Registry) Binding(name string) (dream.Binding, error) {
	val, ok := r.bindings.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBindingNotFound, name)
	}
	reg := val.(registration)
	if reg.err != nil {
		return nil, reg.err
	}
	return reg.binding, nil
}

// Names returns the registered binding names in order
func (r *Registry) Names() []string {
	var names []string
	r.bindings.Range(func(key, _ interface{}) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}
