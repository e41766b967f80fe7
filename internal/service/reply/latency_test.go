package reply

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniformValidatesBounds(t *testing.T) {
	_, err := NewUniform(3*time.Second, time.Second, nil)
	assert.Error(t, err)

	_, err = NewUniform(-time.Second, time.Second, nil)
	assert.Error(t, err)

	u, err := NewUniform(time.Second, 3*time.Second, NewLockedRand(1))
	require.NoError(t, err)
	assert.Equal(t, time.Second, u.Min)
}

func TestUniformStaysInRange(t *testing.T) {
	u, err := NewUniform(time.Second, 3*time.Second, NewLockedRand(99))
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		d := u.Next()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 3*time.Second)
	}
}

func TestUniformDegenerate(t *testing.T) {
	u := Uniform{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond, Rand: fixedInt63(3)}
	assert.Equal(t, 5*time.Millisecond, u.Next())

	u = Uniform{Min: 0, Max: 10, Rand: fixedInt63(4)}
	assert.Equal(t, time.Duration(4), u.Next())
}

func TestDelayedWaitsThenDelegates(t *testing.T) {
	src := Delayed(NewKeyword(nil, WithRand(fixedChooser(0))), Uniform{Min: 20 * time.Millisecond, Max: 20 * time.Millisecond})

	start := time.Now()
	got, err := src.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, "Hello! How can I help you today?", got)
}

func TestDelayedHonoursCancellation(t *testing.T) {
	src := Delayed(NewKeyword(nil), Uniform{Min: time.Hour, Max: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := src.Reply(ctx, "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDelayedNilLatency(t *testing.T) {
	src := Delayed(NewKeyword(nil), nil)
	_, err := src.Reply(context.Background(), "hello")
	assert.NoError(t, err)
}
