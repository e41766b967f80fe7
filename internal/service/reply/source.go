package reply

import (
	"context"
	"errors"
	"time"

	"github.com/zhouzirui/chatbot-widget/backend/internal/analysis/keyword"
)

// Source produces the bot's reply to a user message. Implementations may
// block; the caller decides whether to wait.
type Source interface {
	Reply(ctx context.Context, text string) (string, error)
}

// Func adapts an ordinary function to Source.
type Func func(ctx context.Context, text string) (string, error)

// Reply calls f.
func (f Func) Reply(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Keyword answers from a keyword rule table.
type Keyword struct {
	matcher *keyword.Matcher
	rng     keyword.Chooser
	now     func() time.Time
}

// KeywordOption customises a Keyword source.
type KeywordOption func(*Keyword)

// WithRand replaces the random source used to pick canned replies.
func WithRand(rng keyword.Chooser) KeywordOption {
	return func(k *Keyword) { k.rng = rng }
}

// WithClock replaces the wall clock used for time and date replies.
func WithClock(now func() time.Time) KeywordOption {
	return func(k *Keyword) { k.now = now }
}

// NewKeyword builds a keyword source over matcher. A nil matcher uses the
// built-in rule table.
func NewKeyword(matcher *keyword.Matcher, opts ...KeywordOption) *Keyword {
	if matcher == nil {
		matcher = keyword.Default()
	}
	k := &Keyword{
		matcher: matcher,
		rng:     NewLockedRand(time.Now().UnixNano()),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Reply matches text against the rule table.
func (k *Keyword) Reply(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return k.matcher.Respond(text, k.now(), k.rng), nil
}

// ErrEmptyReply is returned by sources that produced no displayable text.
var ErrEmptyReply = errors.New("reply source returned empty text")
