package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form-binder/messages"
	"form-binder/resolve"
)

type widget struct{ Label string }

func TestMemory_AddAndClear(t *testing.T) {
	w1, w2 := &widget{}, &widget{}
	ra := resolve.FieldRef{Owner: w1, Name: "Label"}
	rb := resolve.FieldRef{Owner: w2, Name: "Label"}

	m := messages.NewMemory()
	m.Add(ra, "required")
	m.Add(ra, "too short")
	m.Add(rb, "required")

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"required", "too short"}, m.Messages(ra))
	assert.Equal(t, []string{"required"}, m.Messages(rb))

	m.ClearField(ra)
	assert.Empty(t, m.Messages(ra))
	assert.Equal(t, []string{"required"}, m.Messages(rb))

	m.Clear()
	assert.Zero(t, m.Len())
}

func TestMemory_SameRefSameBucket(t *testing.T) {
	w := &widget{}
	m := messages.NewMemory()

	m.Add(resolve.FieldRef{Owner: w, Name: "Label"}, "a")
	m.Add(resolve.FieldRef{Owner: w, Name: "Label"}, "b")

	require.Equal(t, 1, m.Len(), "equal refs share one message bucket")
	assert.Equal(t, []string{"a", "b"}, m.Messages(resolve.FieldRef{Owner: w, Name: "Label"}))
}

func TestMemory_Notify(t *testing.T) {
	m := messages.NewMemory()

	var fired int
	m.OnChanged = func() { fired++ }

	m.Add(resolve.FieldRef{Owner: &widget{}, Name: "Label"}, "x")
	assert.Zero(t, fired, "mutations alone do not signal")

	m.Notify()
	m.Notify()
	assert.Equal(t, 2, fired)
}
