package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicflow/clinic-api/internal/api/metrics"
	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher persists audit events off the request path. Events are
// sharded by subject id so that the trail of a single account stays ordered.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has drained
// their channel.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record enqueues event without blocking. When the target worker is
// saturated, or the dispatcher is closed, the event is dropped.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(event, "closed")
		return
	}

	idx := d.shardIndex(event.SubjectID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, "queue_full")
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a subject id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(subjectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) drop(event domain.AuditEvent, reason string) {
	metrics.AuditEventsDroppedTotal.WithLabelValues(reason).Inc()
	d.log.Warn().
		Str("action", string(event.Action)).
		Str("subject_id", event.SubjectID).
		Str("reason", reason).
		Msg("audit event dropped")
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := d.repo.InsertEvent(ctx, &event)
		cancel()
		if err != nil {
			metrics.AuditEventsDroppedTotal.WithLabelValues("write_failed").Inc()
			d.log.Error().Err(err).
				Str("action", string(event.Action)).
				Str("subject_id", event.SubjectID).
				Int("worker_id", id).
				Msg("audit event write failed")
		}
	}
}
