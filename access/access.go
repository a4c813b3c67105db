// Package access reads struct fields by name without repeated reflective
// introspection. A field table is built once per concrete type and cached
// process-wide; lookups after that are a map hit plus a field read.
package access

import (
	"reflect"
	"sync"
)

// Getter reads a named field off an object. Implementations must return
// ok=false for unknown field names rather than panicking, and should return
// struct-valued fields by address so callers observe stable identities.
type Getter interface {
	Get(obj any, name string) (val any, ok bool)
}

// Fields is the default Getter. The zero value is ready to use; Shared is the
// process-wide instance.
type Fields struct {
	mu     sync.RWMutex
	tables map[reflect.Type]fieldTable
}

// Shared is the process-wide accessor table cache.
var Shared = &Fields{}

type fieldTable map[string]int

// Get reads field name off obj. Nil pointers along the way yield (nil, true):
// the field exists but its value is absent. Unknown fields yield (nil, false).
func (f *Fields) Get(obj any, name string) (any, bool) {
	v := reflect.ValueOf(obj)

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, true
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, false
	}

	idx, ok := f.table(v.Type())[name]
	if !ok {
		return nil, false
	}

	return export(v.Field(idx)), true
}

// table returns the cached field table for t, building it on first use.
func (f *Fields) table(t reflect.Type) fieldTable {
	f.mu.RLock()
	tbl, ok := f.tables[t]
	f.mu.RUnlock()

	if ok {
		return tbl
	}

	tbl = make(fieldTable, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.IsExported() {
			tbl[sf.Name] = i
		}
	}

	f.mu.Lock()
	if f.tables == nil {
		f.tables = make(map[reflect.Type]fieldTable)
	}
	f.tables[t] = tbl
	f.mu.Unlock()

	return tbl
}

// export converts a field value for the caller. Struct values are returned by
// address when possible so that two reads of the same field observe the same
// object; nil pointers and nil interfaces become nil.
func export(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return v.Interface()
	case reflect.Struct:
		if v.CanAddr() {
			return v.Addr().Interface()
		}
		return v.Interface()
	default:
		return v.Interface()
	}
}

// Index returns the i-th element of a sequence value, by address for struct
// elements. ok is false when seq is not a slice or array, or i is out of
// [0, len).
func Index(seq any, i int) (any, bool) {
	v := reflect.ValueOf(seq)

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}

	if i < 0 || i >= v.Len() {
		return nil, false
	}

	return export(v.Index(i)), true
}

// Len reports the length of a sequence value, or -1 when seq is not one.
func Len(seq any) int {
	v := reflect.ValueOf(seq)

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return -1
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return -1
	}

	return v.Len()
}
