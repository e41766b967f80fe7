package reply

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/chatbot-widget/backend/internal/analysis/keyword"
)

type fixedChooser int

func (f fixedChooser) Intn(n int) int { return int(f) % n }

type fixedInt63 int64

func (f fixedInt63) Int63n(n int64) int64 { return int64(f) % n }

func TestKeywordReplyIsDeterministicWithInjectedRand(t *testing.T) {
	src := NewKeyword(nil, WithRand(fixedChooser(1)))

	got, err := src.Reply(context.Background(), "Hello there")
	require.NoError(t, err)
	assert.Equal(t, "Hi there! What can I do for you?", got)
}

func TestKeywordReplySeededRandRepeats(t *testing.T) {
	a := NewKeyword(nil, WithRand(NewLockedRand(42)))
	b := NewKeyword(nil, WithRand(NewLockedRand(42)))

	for i := 0; i < 10; i++ {
		ra, _ := a.Reply(context.Background(), "xyz random text")
		rb, _ := b.Reply(context.Background(), "xyz random text")
		assert.Equal(t, ra, rb)
		assert.Contains(t, keyword.FallbackResponses, ra)
	}
}

func TestKeywordReplyUsesClock(t *testing.T) {
	now := time.Date(2026, time.October, 19, 9, 5, 0, 0, time.Local)
	src := NewKeyword(nil, WithClock(func() time.Time { return now }))

	got, err := src.Reply(context.Background(), "what time is it")
	require.NoError(t, err)
	assert.Equal(t, keyword.TimeReply(now), got)
}

func TestKeywordReplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKeyword(nil).Reply(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFuncAdapter(t *testing.T) {
	boom := errors.New("boom")
	src := Func(func(context.Context, string) (string, error) { return "", boom })

	_, err := src.Reply(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
