// Package resolve translates validator error paths into the (owner, field)
// references a form UI keys its messages by.
//
// A Resolver is scoped to one root model and one validation pass: field
// values may change between passes, so partial-path lookups are memoized only
// for the resolver's lifetime and the whole resolver is discarded when the
// pass completes. A Resolver is not safe for concurrent use; overlapping
// passes over the same model must each construct their own.
package resolve

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"form-binder/access"
	"form-binder/fieldpath"
)

// ErrIndexOutOfRange reports a bracketed index that does not fit the live
// sequence. It signals drift between the validator's reported path and the
// model graph and must not be swallowed.
var ErrIndexOutOfRange = errors.New("field path index out of range")

// FieldRef identifies the object a validation message attaches to. Owner is
// nil when an intermediate value was absent; callers skip such messages.
// Owners are pointers (the resolver returns struct values by address), so a
// FieldRef is comparable and usable as a map key.
type FieldRef struct {
	Owner any
	Name  string
}

// Absent reports whether the reference has no live target.
func (r FieldRef) Absent() bool { return r.Owner == nil }

type cacheEntry struct {
	val    any
	absent bool
}

// Resolver walks a root model's object graph by parsed field paths,
// memoizing each partial path it traverses.
type Resolver struct {
	root  any
	get   access.Getter
	cache map[string]cacheEntry
}

// New creates a resolver for one validation pass over root. The root should
// be a pointer to the model struct so that nested owners keep their identity.
func New(root any) *Resolver {
	return NewWith(root, access.Shared)
}

// NewWith creates a resolver using a custom field getter.
func NewWith(root any, g access.Getter) *Resolver {
	return &Resolver{
		root:  root,
		get:   g,
		cache: make(map[string]cacheEntry),
	}
}

// Resolve maps a validator-reported path to the object and leaf field a
// message should attach to.
//
// Behavior:
//   - "Field" resolves to (root, "Field") without traversal.
//   - "A.B[2].C" walks A, indexes the third element, and returns that
//     element paired with "C".
//   - An absent intermediate (nil pointer, unknown field) yields an absent
//     FieldRef and no error.
//   - A malformed path fails with *fieldpath.SyntaxError; an index that does
//     not fit the live sequence fails wrapping ErrIndexOutOfRange.
func (r *Resolver) Resolve(path string) (FieldRef, error) {
	if !strings.Contains(path, ".") {
		return FieldRef{Owner: r.root, Name: path}, nil
	}

	segs, err := fieldpath.Parse(path)
	if err != nil {
		return FieldRef{}, err
	}

	// The final segment is the field name the message keys on; everything
	// before it is traversed.
	leaf := fieldpath.Path{segs[len(segs)-1]}.String()

	cur := r.root
	var key strings.Builder

	for _, seg := range segs[:len(segs)-1] {
		if key.Len() > 0 {
			key.WriteByte('.')
		}
		key.WriteString(seg.Name)

		// The key deliberately excludes the index suffix here, so every
		// indexed access into the same collection field shares one read.
		cur = r.step(key.String(), cur, seg.Name)
		if cur == nil {
			return FieldRef{Name: leaf}, nil
		}

		if seg.HasIndex {
			key.WriteByte('[')
			key.WriteString(strconv.Itoa(seg.Index))
			key.WriteByte(']')

			cur, err = r.index(key.String(), cur, seg, path)
			if err != nil {
				return FieldRef{}, err
			}
			if cur == nil {
				return FieldRef{Name: leaf}, nil
			}
		}
	}

	if !canOwn(cur) {
		// The parent segment landed on a slice or scalar value, so there is
		// no object identity to key a message by. That is validator/model
		// drift, and drift reads as absence.
		return FieldRef{Name: leaf}, nil
	}

	return FieldRef{Owner: cur, Name: leaf}, nil
}

// canOwn reports whether v can key a message: stores compare owners by
// identity, which only pointers provide.
func canOwn(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Pointer
}

// step reads field name off cur, consulting the pass cache first. Entries are
// append-only: once a partial path is recorded, later lookups reuse it.
func (r *Resolver) step(key string, cur any, name string) any {
	if e, ok := r.cache[key]; ok {
		if e.absent {
			return nil
		}
		return e.val
	}

	val, ok := r.get.Get(cur, name)
	if !ok || val == nil {
		// Unknown field and nil value both read as absence: the validator
		// and the live model may have drifted, which is not the UI's fault.
		r.cache[key] = cacheEntry{absent: true}
		return nil
	}

	r.cache[key] = cacheEntry{val: val}
	return val
}

// index resolves one bracketed element access, caching the element under the
// indexed key.
func (r *Resolver) index(key string, cur any, seg fieldpath.Segment, path string) (any, error) {
	if e, ok := r.cache[key]; ok {
		if e.absent {
			return nil, nil
		}
		return e.val, nil
	}

	elem, ok := access.Index(cur, seg.Index)
	if !ok {
		n := access.Len(cur)
		return nil, fmt.Errorf("%w: %s[%d] in %q (len %d)", ErrIndexOutOfRange, seg.Name, seg.Index, path, n)
	}

	if elem == nil {
		r.cache[key] = cacheEntry{absent: true}
		return nil, nil
	}

	r.cache[key] = cacheEntry{val: elem}
	return elem, nil
}
