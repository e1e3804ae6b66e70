package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller(t *testing.T) {
	t.Run("polls until context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		var calls atomic.Int32

		p := NewPoller("test", 5*time.Millisecond, func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})

		done := make(chan struct{})
		go func() {
			p.Start(ctx)
			close(done)
		}()

		assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
		cancel()
		assert.Eventually(t, func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, time.Second, time.Millisecond)
	})
	t.Run("errors do not stop the poller", func(t *testing.T) {
		var calls atomic.Int32
		p := NewPoller("failing", 5*time.Millisecond, func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("boom")
		})

		go p.Start(t.Context())
		assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
		p.Stop()
	})
}
