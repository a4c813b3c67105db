// Package binder runs validation passes: it invokes the validator registered
// for a model, resolves every reported error path to an (owner, field)
// reference, and republishes the results into a message store.
//
// Each pass owns a fresh resolver and path cache; nothing is shared between
// passes, so overlapping passes on the same model (rapid consecutive edits)
// cannot corrupt each other's lookups.
package binder

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"form-binder/messages"
	"form-binder/resolve"
)

// Issue is one validator finding: a property path into the model and the
// message to show for it.
type Issue struct {
	Path    string
	Message string
}

// Validator is the capability the binder consumes. Implementations may run
// asynchronous rules (remote uniqueness checks and the like) behind ctx; the
// binder only needs the flattened issue list once Validate returns.
type Validator interface {
	Validate(ctx context.Context, model any, opts Options) ([]Issue, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, model any, opts Options) ([]Issue, error)

func (f ValidatorFunc) Validate(ctx context.Context, model any, opts Options) ([]Issue, error) {
	return f(ctx, model, opts)
}

// PassError wraps a failure inside a validation pass. A failed pass is a
// programming defect (a rule crashed, or the validator reported a path the
// model graph cannot satisfy) and must surface as a visible fault, never as a
// quietly-unchanged form.
type PassError struct {
	Model string
	Field string // set for field-level passes
	Child bool   // failure occurred under a child object
	Pass  uuid.UUID
	Err   error
}

func (e *PassError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "validation of %s", e.Model)
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	if e.Child {
		b.WriteString(" (child object)")
	}
	fmt.Fprintf(&b, " failed: %v [pass %s]", e.Err, e.Pass)

	return b.String()
}

func (e *PassError) Unwrap() error { return e.Err }

// Binder connects a validator registry to a message store. It remembers
// which reference each published path resolved to in the latest pass, so a
// later field-level pass can clear descendant messages whose issues have
// since gone away.
type Binder struct {
	reg       *Registry
	store     messages.Store
	opts      Options
	published map[string]resolve.FieldRef
}

// New creates a Binder. opts applies to every pass; callers wanting per-pass
// options construct per-form binders rather than mutating shared state. The
// store must be exclusively owned by this binder.
func New(reg *Registry, store messages.Store, opts Options) *Binder {
	return &Binder{
		reg:       reg,
		store:     store,
		opts:      opts,
		published: map[string]resolve.FieldRef{},
	}
}

// placed is a resolved issue ready for publishing.
type placed struct {
	path string
	ref  resolve.FieldRef
	msg  string
}

// ValidateModel runs a whole-model pass: invoke the model's validator,
// resolve every issue, then clear the store and publish, signalling once. A
// model type with no registered validator is a no-op. On failure the store
// keeps the previous pass's messages; the error is the caller's fault to
// surface.
func (b *Binder) ValidateModel(ctx context.Context, model any) error {
	v, ok := b.reg.Lookup(model)
	if !ok {
		return nil
	}

	pass := uuid.New()

	issues, err := runValidator(ctx, v, model, b.opts)
	if err != nil {
		return &PassError{Model: modelName(model), Pass: pass, Err: err}
	}

	out, _, err := placeAll(resolve.New(model), issues)
	if err != nil {
		return &PassError{Model: modelName(model), Pass: pass, Err: err}
	}

	b.store.Clear()
	clear(b.published)

	for _, p := range out {
		b.store.Add(p.ref, p.msg)
		b.published[p.path] = p.ref
	}

	b.store.Notify()

	return nil
}

// ValidateField runs a field-level pass: same validator invocation, but only
// issues for field (or paths under it) are republished, and only that field's
// references are cleared.
func (b *Binder) ValidateField(ctx context.Context, model any, field string) error {
	v, ok := b.reg.Lookup(model)
	if !ok {
		return nil
	}

	pass := uuid.New()

	issues, err := runValidator(ctx, v, model, b.opts)
	if err != nil {
		return &PassError{Model: modelName(model), Field: field, Pass: pass, Err: err}
	}

	var kept []Issue
	for _, is := range issues {
		if underField(is.Path, field) {
			kept = append(kept, is)
		}
	}

	r := resolve.New(model)

	fieldRef, err := r.Resolve(field)
	if err != nil {
		return &PassError{Model: modelName(model), Field: field, Pass: pass, Err: err}
	}

	out, bad, err := placeAll(r, kept)
	if err != nil {
		return &PassError{
			Model: modelName(model),
			Field: field,
			Child: strings.Contains(bad, "."),
			Pass:  pass,
			Err:   err,
		}
	}

	// Retract everything the previous pass published under this field,
	// including descendant refs whose issues have since been fixed and so
	// have nothing left to resolve a reference from.
	for path, ref := range b.published {
		if underField(path, field) {
			b.store.ClearField(ref)
			delete(b.published, path)
		}
	}
	if !fieldRef.Absent() {
		b.store.ClearField(fieldRef)
	}

	for _, p := range out {
		b.store.Add(p.ref, p.msg)
		b.published[p.path] = p.ref
	}

	b.store.Notify()

	return nil
}

// placeAll resolves every issue path, dropping the ones whose target is
// absent. The store is not touched here: a malformed path aborts the whole
// batch before anything is published. On error, bad names the offending path.
func placeAll(r *resolve.Resolver, issues []Issue) (out []placed, bad string, err error) {
	out = make([]placed, 0, len(issues))

	for _, is := range issues {
		ref, err := r.Resolve(is.Path)
		if err != nil {
			return nil, is.Path, err
		}

		if ref.Absent() {
			// The model mutated between the validator's scan and now;
			// there is no live field to attach the message to.
			continue
		}

		out = append(out, placed{path: is.Path, ref: ref, msg: is.Message})
	}

	return out, "", nil
}

// runValidator invokes v, converting a rule panic into an error so a crashed
// rule callback cannot take down the UI loop unreported.
func runValidator(ctx context.Context, v Validator, model any, opts Options) (issues []Issue, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("validator panicked: %v", p)
		}
	}()

	return v.Validate(ctx, model, opts)
}

// underField reports whether path is the field itself or descends under it.
func underField(path, field string) bool {
	if path == field {
		return true
	}

	return strings.HasPrefix(path, field+".") || strings.HasPrefix(path, field+"[")
}

func modelName(model any) string {
	return fmt.Sprintf("%T", model)
}
