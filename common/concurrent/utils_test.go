package concurrent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitFor(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsFirstResult", func(t *testing.T) {
		t.Parallel()

		calls := 0
		res, err := WaitFor(context.Background(), time.Second, time.Millisecond,
			func(context.Context) (*int, error) {
				calls++
				if calls < 3 {
					return nil, nil
				}
				return &calls, nil
			})
		require.NoError(t, err)
		assert.Equal(t, 3, *res)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		calls := 0
		_, err := WaitFor(context.Background(), time.Second, time.Millisecond,
			func(context.Context) (*int, error) {
				calls++
				return nil, boom
			})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("Timeout", func(t *testing.T) {
		t.Parallel()

		_, err := WaitFor(context.Background(), 20*time.Millisecond, 5*time.Millisecond,
			func(context.Context) (*int, error) {
				return nil, nil
			})
		require.ErrorIs(t, err, ErrWaitTimeout)
	})
}
