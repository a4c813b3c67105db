package binder

import (
	"reflect"
	"sync"
)

// Registry maps model types to their validators. It replaces runtime-generic
// container resolution with an explicit table populated at startup and passed
// by reference into the binding layer. Lookups are by the pointer-normalized
// type, so a *Account and an Account share one validator.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Validator
}

// NewRegistry creates an empty validator registry.
func NewRegistry() *Registry {
	return &Registry{byType: map[reflect.Type]Validator{}}
}

// Register associates model's type with v. A model type left unregistered is
// simply not validated; that is how "do not validate" subtrees are expressed.
func (r *Registry) Register(model any, v Validator) {
	r.mu.Lock()
	r.byType[normalize(reflect.TypeOf(model))] = v
	r.mu.Unlock()
}

// Lookup returns the validator registered for model's type.
func (r *Registry) Lookup(model any) (Validator, bool) {
	r.mu.RLock()
	v, ok := r.byType[normalize(reflect.TypeOf(model))]
	r.mu.RUnlock()

	return v, ok
}

// normalize strips pointer layers so registration and lookup agree on a key.
func normalize(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
