package registry

import (
	"testing"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLookupRoundTrip(t *testing.T) {
	r := New()
	r.Register("Dummy", func(name string, args map[string]interface{}, bc BuildContext) (dataflow.Node, error) {
		return dataflow.NewSink(name, "Dummy", 0, nil), nil
	}, nil)

	ctor, ok := r.Lookup("Dummy")
	require.True(t, ok)
	require.NotNil(t, ctor)
	assert.True(t, r.Has("Dummy"))
}

func TestLookupUnregisteredReturnsFalse(t *testing.T) {
	r := New()
	_, ok := r.Lookup("Nope")
	assert.False(t, ok)
	assert.False(t, r.Has("Nope"))
}

func TestLastRegistrationWins(t *testing.T) {
	r := New()
	first := func(name string, args map[string]interface{}, bc BuildContext) (dataflow.Node, error) {
		return nil, assert.AnError
	}
	second := func(name string, args map[string]interface{}, bc BuildContext) (dataflow.Node, error) {
		return nil, nil
	}
	r.Register("X", first, nil)
	r.Register("X", second, nil)

	ctor, ok := r.Lookup("X")
	require.True(t, ok)
	_, err := ctor("n", nil, BuildContext{})
	require.NoError(t, err)
}

func TestCanRunFalseHidesType(t *testing.T) {
	r := New()
	r.Register("Unavailable", func(name string, args map[string]interface{}, bc BuildContext) (dataflow.Node, error) {
		return nil, nil
	}, func() bool { return false })

	assert.False(t, r.Has("Unavailable"))
	assert.NotContains(t, r.TypeNames(), "Unavailable")
}

func TestTypeNamesOnlyListsRunnable(t *testing.T) {
	r := New()
	r.Register("A", func(name string, args map[string]interface{}, bc BuildContext) (dataflow.Node, error) {
		return nil, nil
	}, func() bool { return true })
	r.Register("B", func(name string, args map[string]interface{}, bc BuildContext) (dataflow.Node, error) {
		return nil, nil
	}, func() bool { return false })

	names := r.TypeNames()
	assert.Contains(t, names, "A")
	assert.NotContains(t, names, "B")
}
