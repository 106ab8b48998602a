package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	jobTimeout     = 15 * time.Second
)

// Job is a best-effort remote write.
type Job func(ctx context.Context) error

type keyedJob struct {
	key string
	run Job
}

// Dispatcher routes remote writes to a fixed set of workers using consistent
// hashing on the job key, so writes for the same user apply in the order
// they were issued.
type Dispatcher struct {
	workers []chan keyedJob
	log     zerolog.Logger
	wg      sync.WaitGroup

	// mu guards closed; Enqueue holds it shared while sending so Close
	// never closes a channel under an in-flight send.
	mu        sync.RWMutex
	closed    bool
	quit      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan keyedJob, numWorkers),
		log:     log,
		quit:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan keyedJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting jobs; workers drain what is queued and return.
// Jobs enqueued after Close, or still waiting for buffer space, are dropped.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.quit)
		d.mu.Lock()
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
		d.mu.Unlock()
	})
}

// Enqueue sends a job to the worker responsible for key.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(key string, job func(ctx context.Context) error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped(key)
		return
	}

	idx := d.shardIndex(key)
	select {
	case d.workers[idx] <- keyedJob{key: key, run: job}:
		metrics.RemoteWriteQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	case <-d.quit:
		d.dropped(key)
	}
}

func (d *Dispatcher) dropped(key string) {
	d.log.Warn().Str("key", key).Msg("dispatcher closed, remote write dropped")
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan keyedJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.RemoteWriteQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.run(ctx, id, job)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, id int, job keyedJob) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	if err := job.run(ctx); err != nil {
		d.log.Error().Err(err).
			Str("key", job.key).
			Int("worker_id", id).
			Msg("remote write failed")
	}
}
