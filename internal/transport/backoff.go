package transport

import (
	"math/rand/v2"
	"time"
)

// Backoff produces randomized retry delays in [Base, Base+JitterSpan].
// The jitter keeps many clients retrying a struggling server from
// synchronizing into retry storms. math/rand/v2 is auto-seeded per process,
// which is adequate for timing jitter.
type Backoff struct {
	Base       time.Duration
	JitterSpan time.Duration
}

// DefaultBackoff provides sensible defaults.
var DefaultBackoff = Backoff{
	Base:       200 * time.Millisecond,
	JitterSpan: 200 * time.Millisecond,
}

// Delay returns the next delay, uniformly distributed over
// [Base, Base+JitterSpan].
func (b Backoff) Delay() time.Duration {
	if b.JitterSpan <= 0 {
		return b.Base
	}
	return b.Base + rand.N(b.JitterSpan+1)
}
