package shutdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_ReverseOrder(t *testing.T) {
	m := NewManager()
	var order []string
	for _, name := range []string{"store", "hub", "http"} {
		name := name
		m.OnShutdown(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "hub", "store"}, order)
}

func TestShutdown_CollectsErrorsAndRunsRest(t *testing.T) {
	m := NewManager()
	ran := false
	m.OnShutdown("store", func(context.Context) error { ran = true; return nil })
	m.OnShutdown("http", func(context.Context) error { return errors.New("boom") })

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http: boom")
	assert.True(t, ran)
}

func TestShutdown_Once(t *testing.T) {
	m := NewManager()
	calls := 0
	m.OnShutdown("x", func(context.Context) error { calls++; return nil })

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestShutdown_ExpiredContextSkipsHooks(t *testing.T) {
	m := NewManager()
	called := false
	m.OnShutdown("slow", func(context.Context) error { called = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Shutdown(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestShutdown_Empty(t *testing.T) {
	assert.NoError(t, NewManager().Shutdown(context.Background()))
}
