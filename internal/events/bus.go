package events

import (
	"context"
	"sync"
	"time"

	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/atomic"
)

const deliveryTimeout = 10 * time.Second

type Subscriber interface {
	Name() string
	Handle(ctx context.Context, event ledger.Event) error
}

type Stats struct {
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
}

// Bus fans committed events out to subscribers on a worker pool. Delivery is best effort
// and unordered, the store's event log stays the source of truth
type Bus struct {
	pool        *ants.Pool
	subscribers []Subscriber

	delivered atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64

	wg  sync.WaitGroup
	log interfaces.ILogger
}

func NewBus(poolSize int, log interfaces.ILogger, subscribers ...Subscriber) (*Bus, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Bus{
		pool:        pool,
		subscribers: subscribers,
		log:         log,
	}, nil
}

func (b *Bus) Publish(ctx context.Context, event ledger.Event) {
	for _, sub := range b.subscribers {
		sub := sub
		b.wg.Add(1)
		err := b.pool.Submit(func() {
			defer b.wg.Done()
			b.deliver(ctx, sub, event)
		})
		if err != nil {
			b.wg.Done()
			b.dropped.Inc()
			b.log.Warnf("event %s %s dropped for %s: %s", event.Name, event.ID, sub.Name(), err)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, sub Subscriber, event ledger.Event) {
	// the request that produced the event may be finished already
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	if err := sub.Handle(ctx, event); err != nil {
		b.failed.Inc()
		b.log.Warnf("event %s %s not delivered to %s: %s", event.Name, event.ID, sub.Name(), err)
		return
	}
	b.delivered.Inc()
}

func (b *Bus) Stats() Stats {
	return Stats{
		Delivered: b.delivered.Load(),
		Failed:    b.failed.Load(),
		Dropped:   b.dropped.Load(),
	}
}

// Close waits for pending deliveries and releases the pool, later events are dropped
func (b *Bus) Close() {
	b.wg.Wait()
	b.pool.Release()
}
