package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/terangafund/citizen-projects/internal/api/metrics"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes deliveries to a fixed set of workers using consistent
// hashing on the recipient id, so one user's emails leave in the order their
// notifications were created.
type Dispatcher struct {
	workers []chan ports.Delivery
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Delivery, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Delivery, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a delivery to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity; a full worker drops
// the delivery with a log line rather than stalling the caller.
func (d *Dispatcher) Enqueue(delivery ports.Delivery) {
	i := d.shardIndex(delivery.UserID)
	select {
	case d.workers[i] <- delivery:
		metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
	default:
		metrics.DeliveriesTotal.WithLabelValues("error").Inc()
		d.log.Warn().
			Str("user_id", delivery.UserID).
			Int("worker_id", i).
			Msg("delivery queue full, dropping")
	}
}

// shardIndex maps a recipient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Delivery) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-ch:
			if !ok {
				return
			}
			metrics.DeliveryQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.mailer.Deliver(ctx, delivery.Address, delivery.Subject, delivery.Body); err != nil {
				metrics.DeliveriesTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("user_id", delivery.UserID).
					Int("worker_id", id).
					Msg("email delivery failed")
				continue
			}
			metrics.DeliveriesTotal.WithLabelValues("ok").Inc()
		}
	}
}
