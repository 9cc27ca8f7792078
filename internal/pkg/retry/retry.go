package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/TemirB/patterns/internal/config"
)

// Do calls fn until it succeeds, the attempts run out or ctx is done. The
// delay doubles after every failure, jittered and capped by policy.Max.
func Do(ctx context.Context, policy config.Retry, fn func() error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	d := policy.Base
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		delay := d
		if policy.JitterFactor > 0 {
			delay = time.Duration(float64(delay) * (1 + policy.JitterFactor*(2*r.Float64()-1)))
		}
		if policy.Max > 0 && delay > policy.Max {
			delay = policy.Max
		}

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}

		d *= 2
		if policy.Max > 0 && d > policy.Max {
			d = policy.Max
		}
	}
	return err
}
