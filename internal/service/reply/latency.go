package reply

import (
	"context"
	"fmt"
	"time"
)

// Latency decides how long to wait before computing a reply.
type Latency interface {
	Next() time.Duration
}

// None never waits.
type None struct{}

// Next returns zero.
func (None) Next() time.Duration { return 0 }

// Int63Source is the subset of *rand.Rand used for latency sampling.
type Int63Source interface {
	Int63n(n int64) int64
}

// Uniform samples a latency uniformly from [Min, Max].
type Uniform struct {
	Min  time.Duration
	Max  time.Duration
	Rand Int63Source
}

// NewUniform validates the bounds and returns a Uniform policy.
func NewUniform(min, max time.Duration, rng Int63Source) (Uniform, error) {
	if min < 0 || max < 0 {
		return Uniform{}, fmt.Errorf("negative latency bounds %s..%s", min, max)
	}
	if min > max {
		return Uniform{}, fmt.Errorf("latency min %s exceeds max %s", min, max)
	}
	return Uniform{Min: min, Max: max, Rand: rng}, nil
}

// Next samples a duration.
func (u Uniform) Next() time.Duration {
	span := int64(u.Max - u.Min)
	if span <= 0 || u.Rand == nil {
		return u.Min
	}
	return u.Min + time.Duration(u.Rand.Int63n(span+1))
}

type delayed struct {
	source  Source
	latency Latency
}

// Delayed waits latency.Next() before delegating to source. The wait ends
// early with ctx.Err() if ctx is cancelled.
func Delayed(source Source, latency Latency) Source {
	if latency == nil {
		latency = None{}
	}
	return &delayed{source: source, latency: latency}
}

func (d *delayed) Reply(ctx context.Context, text string) (string, error) {
	if wait := d.latency.Next(); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return d.source.Reply(ctx, text)
}
