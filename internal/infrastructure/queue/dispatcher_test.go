package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDispatcher_SameKeyRunsInOrder(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	d.Start(context.Background())

	var mu sync.Mutex
	got := map[string][]int{}
	for i := 0; i < 50; i++ {
		for _, key := range []string{"u1", "u2", "u3"} {
			i, key := i, key
			d.Enqueue(key, func(context.Context) error {
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
				return nil
			})
		}
	}
	d.Close()
	d.Wait()

	for _, key := range []string{"u1", "u2", "u3"} {
		seq := got[key]
		assert.Len(t, seq, 50, key)
		for i := range seq {
			assert.Equal(t, i, seq[i], key)
		}
	}
}

func TestDispatcher_FailedJobDoesNotStopWorker(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())

	ran := 0
	d.Enqueue("u1", func(context.Context) error { return errors.New("boom") })
	d.Enqueue("u1", func(context.Context) error { ran++; return nil })
	d.Close()
	d.Wait()

	assert.Equal(t, 1, ran)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())

	assert.Len(t, d.workers, defaultWorkers)
	assert.Equal(t, d.shardIndex("user-42"), d.shardIndex("user-42"))
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(2, zerolog.Nop())
	d.Start(context.Background())

	d.Close()
	d.Close()
	d.Wait()
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(2, zerolog.Nop())
	d.Start(ctx)

	cancel()
	d.Wait()
}

func TestDispatcher_EnqueueAfterCloseIsDropped(t *testing.T) {
	d := NewDispatcher(2, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Wait()

	ran := false
	assert.NotPanics(t, func() {
		d.Enqueue("u1", func(context.Context) error {
			ran = true
			return nil
		})
	})
	assert.False(t, ran)
}

func TestDispatcher_CloseReleasesBlockedEnqueue(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	// No workers: fill the only shard so the next Enqueue blocks.
	for i := 0; i < channelBuffer; i++ {
		d.Enqueue("u1", func(context.Context) error { return nil })
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Enqueue("u1", func(context.Context) error { return nil })
	}()

	d.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue still blocked after Close")
	}
}
