package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct{ N int }

func (countQuery) Key() string { return "test.count" }

type countHandler struct{}

func (countHandler) Handle(_ context.Context, q countQuery) (int, error) {
	if q.N < 0 {
		return 0, errors.New("negative")
	}
	return q.N * 2, nil
}

func TestAsk(t *testing.T) {
	bus := NewInMemoryBus()
	Register[countQuery, int](bus, countHandler{})

	out, err := Ask[countQuery, int](context.Background(), bus, countQuery{N: 4})
	require.NoError(t, err)
	assert.Equal(t, 8, out)

	_, err = Ask[countQuery, int](context.Background(), bus, countQuery{N: -1})
	assert.EqualError(t, err, "negative")
}

func TestAskUnregistered(t *testing.T) {
	_, err := Ask[countQuery, int](context.Background(), NewInMemoryBus(), countQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}
