package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/socialblog/blogging-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes view events to a fixed set of workers using consistent
// hashing on the post id, so increments for the same post are applied in
// order by a single worker.
type Dispatcher struct {
	workers []chan ports.ViewEvent
	service ports.ViewService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ViewService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ViewEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ViewEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a view event to the worker responsible for its post.
// Never blocks: when the worker's buffer is full the event is dropped,
// a lost view being preferable to a stalled read path.
func (d *Dispatcher) Enqueue(event ports.ViewEvent) {
	select {
	case d.workers[d.shardIndex(event.PostID)] <- event:
	default:
		d.log.Warn().Str("post_id", event.PostID).Msg("view queue full, event dropped")
	}
}

// shardIndex maps a post id deterministically to a worker index.
func (d *Dispatcher) shardIndex(postID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(postID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ViewEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("post_id", event.PostID).
					Int("worker_id", id).
					Msg("view event processing failed")
			}
		}
	}
}
