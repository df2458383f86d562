// Package queue implements the asynchronous audit pipeline: directory
// services enqueue audit events, a fixed set of workers drains them into
// the audit store.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/api/metrics"
	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the username, guaranteeing per-user audit ordering. It
// implements ports.AuditRecorder.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup
	stop    sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop closes their
// channels, so events enqueued during server drain are still persisted.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes the worker channels and waits until the buffered events are
// drained or ctx expires. Record must not be called after Stop.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.stop.Do(func() {
		for _, ch := range d.workers {
			close(ch)
		}
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.log.Warn().Msg("audit drain interrupted, buffered events lost")
	}
}

// Record enqueues an audit event for the worker responsible for its
// username. When the worker channel is full the event is dropped with a
// warning; the request path never blocks on the audit trail.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("username", event.Username).
			Str("action", string(event.Action)).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	gauge := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for event := range ch {
		gauge.Set(float64(len(ch)))
		// Detached context: the request that produced the event is long gone.
		if err := d.service.Process(context.Background(), event); err != nil {
			d.log.Error().Err(err).
				Str("username", event.Username).
				Int("worker_id", id).
				Msg("audit event processing failed")
		}
	}
}
