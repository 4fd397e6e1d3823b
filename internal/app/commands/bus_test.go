package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

type pingHandler struct{}

func (pingHandler) Handle(_ context.Context, cmd pingCommand) (string, error) {
	return "pong:" + cmd.Value, nil
}

func TestDispatchRoutesByKey(t *testing.T) {
	bus := NewInMemoryBus()
	Register[pingCommand, string](bus, pingHandler{})

	out, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong:a", out)
}

func TestDispatchUnknownKey(t *testing.T) {
	_, err := NewInMemoryBus().Dispatch(context.Background(), otherCommand{})
	assert.True(t, errors.Is(err, ErrHandlerNotFound))
}

func TestDispatchResultTypeMismatch(t *testing.T) {
	bus := NewInMemoryBus()
	Register[pingCommand, string](bus, pingHandler{})
	_, err := Dispatch[pingCommand, int](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, ErrResultType)
}

func TestDispatchNilBus(t *testing.T) {
	_, err := Dispatch[pingCommand, string](context.Background(), nil, pingCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}
