package resolve_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form-binder/access"
	"form-binder/fieldpath"
	"form-binder/resolve"
)

type entry struct {
	SubField string
}

type child struct {
	SubField string
	Deeper   *child
}

type model struct {
	Email    string
	Child    *child
	SubArray []entry
}

func sample() *model {
	return &model{
		Child:    &child{SubField: "x"},
		SubArray: []entry{{SubField: "a"}, {SubField: "b"}},
	}
}

func TestResolve_NoDot(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	ref, err := r.Resolve("Email")
	require.NoError(t, err)
	assert.Same(t, m, ref.Owner)
	assert.Equal(t, "Email", ref.Name)
	assert.False(t, ref.Absent())
}

func TestResolve_SingleDot(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	ref, err := r.Resolve("Child.SubField")
	require.NoError(t, err)
	assert.Same(t, m.Child, ref.Owner)
	assert.Equal(t, "SubField", ref.Name)
}

func TestResolve_Indexed(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	ref, err := r.Resolve("SubArray[0].SubField")
	require.NoError(t, err)
	assert.Same(t, &m.SubArray[0], ref.Owner)

	ref, err = r.Resolve("SubArray[1].SubField")
	require.NoError(t, err)
	assert.Same(t, &m.SubArray[1], ref.Owner)
}

func TestResolve_IndexOutOfRange(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	_, err := r.Resolve("SubArray[2].SubField")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolve.ErrIndexOutOfRange))
	assert.Contains(t, err.Error(), "SubArray[2]")
}

func TestResolve_Idempotent(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	first, err := r.Resolve("SubArray[1].SubField")
	require.NoError(t, err)

	second, err := r.Resolve("SubArray[1].SubField")
	require.NoError(t, err)

	assert.Same(t, first.Owner, second.Owner)
	assert.Equal(t, first, second)
}

// countingGetter wraps a Getter and tallies underlying reads per field name.
type countingGetter struct {
	inner access.Getter
	reads map[string]int
}

func (c *countingGetter) Get(obj any, name string) (any, bool) {
	c.reads[name]++
	return c.inner.Get(obj, name)
}

func TestResolve_CachesCollectionRead(t *testing.T) {
	m := sample()
	probe := &countingGetter{inner: access.Shared, reads: map[string]int{}}
	r := resolve.NewWith(m, probe)

	_, err := r.Resolve("SubArray[0].SubField")
	require.NoError(t, err)

	_, err = r.Resolve("SubArray[1].SubField")
	require.NoError(t, err)

	assert.Equal(t, 1, probe.reads["SubArray"],
		"one reflective read of the collection serves every index")
}

func TestResolve_AbsentChild(t *testing.T) {
	m := sample()
	m.Child = nil
	r := resolve.New(m)

	ref, err := r.Resolve("Child.SubField")
	require.NoError(t, err)
	assert.True(t, ref.Absent())
	assert.Equal(t, "SubField", ref.Name)
}

func TestResolve_AbsenceShortCircuits(t *testing.T) {
	m := sample()
	m.Child = nil
	probe := &countingGetter{inner: access.Shared, reads: map[string]int{}}
	r := resolve.NewWith(m, probe)

	for i := 0; i < 3; i++ {
		ref, err := r.Resolve("Child.Deeper.SubField")
		require.NoError(t, err)
		assert.True(t, ref.Absent())
	}

	assert.Equal(t, 1, probe.reads["Child"], "absence is cached too")
	assert.Zero(t, probe.reads["Deeper"], "traversal stops at the absent value")
}

func TestResolve_UnknownFieldIsAbsent(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	ref, err := r.Resolve("NoSuchChild.SubField")
	require.NoError(t, err)
	assert.True(t, ref.Absent())
	assert.Equal(t, "SubField", ref.Name)
}

func TestResolve_NonStructParentIsAbsent(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	// Syntactically valid, but the parent segment is a slice, not an
	// object: there is no identity to attach a message to.
	ref, err := r.Resolve("SubArray.Len")
	require.NoError(t, err)
	assert.True(t, ref.Absent())
	assert.Equal(t, "Len", ref.Name)

	// Same for a scalar parent.
	ref, err = r.Resolve("Email.Length")
	require.NoError(t, err)
	assert.True(t, ref.Absent())
}

func TestResolve_MalformedPath(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	_, err := r.Resolve("SubArray[x].SubField")
	require.Error(t, err)

	var serr *fieldpath.SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestResolve_SharedLeafNamesStayDistinct(t *testing.T) {
	m := sample()
	r := resolve.New(m)

	a, err := r.Resolve("Child.SubField")
	require.NoError(t, err)

	b, err := r.Resolve("SubArray[0].SubField")
	require.NoError(t, err)

	c, err := r.Resolve("SubArray[1].SubField")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}

func ExampleResolver_Resolve() {
	m := &model{
		Child:    &child{},
		SubArray: []entry{{}, {}},
	}
	r := resolve.New(m)

	ref, _ := r.Resolve("Email")
	fmt.Println(ref.Owner == m, ref.Name)

	ref, _ = r.Resolve("SubArray[1].SubField")
	fmt.Println(ref.Owner == &m.SubArray[1], ref.Name)

	m.Child = nil
	r = resolve.New(m)
	ref, _ = r.Resolve("Child.SubField")
	fmt.Println(ref.Absent(), ref.Name)

	// Output:
	// true Email
	// true SubField
	// true SubField
}
