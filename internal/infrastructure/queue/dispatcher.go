package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/api/metrics"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

var _ ports.AuditRecorder = (*Dispatcher)(nil)

// Dispatcher hands audit events to a fixed set of workers that write them to a
// sink. Events are sharded by subject so one user's trail stays in order.
type Dispatcher struct {
	workers []chan ports.AuditEvent
	sink    ports.AuditSink
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to queueSize events. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, queueSize int, sink ports.AuditSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEvent, queueSize)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// flushes what is already queued and exits.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues an event without blocking. A full worker channel drops the
// event.
func (d *Dispatcher) Record(event ports.AuditEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	idx := d.shardIndex(event.SubjectID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("action", string(event.Action)).
			Int64("subject_id", event.SubjectID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a subject deterministically to a worker index.
func (d *Dispatcher) shardIndex(subjectID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(subjectID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case event := <-ch:
					d.write(id, event)
				default:
					metrics.AuditQueueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(id, event)
		}
	}
}

// write uses its own deadline so queued events still land during shutdown.
func (d *Dispatcher) write(id int, event ports.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.sink.Write(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("action", string(event.Action)).
			Int64("subject_id", event.SubjectID).
			Int("worker_id", id).
			Msg("audit write failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("written").Inc()
}
