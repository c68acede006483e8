package playback

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nerrad567/vixio-core/internal/timeline"
)

// dispatchLane hands fired events to the Dispatcher on a single goroutine.
// Each tick's due events travel as one batch, so dispatch order matches
// timeline order within and across ticks. Enqueueing never blocks.
type dispatchLane struct {
	dispatcher Dispatcher
	logger     Logger

	queue   chan []timeline.Event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
	handled atomic.Uint64
}

func newDispatchLane(d Dispatcher, size int, logger Logger) *dispatchLane {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &dispatchLane{
		dispatcher: d,
		logger:     logger,
		queue:      make(chan []timeline.Event, size),
		ctx:        ctx,
		cancel:     cancel,
	}
	l.wg.Add(1)
	go l.loop()
	return l
}

// enqueue queues one tick's batch. When the queue is full or the lane is
// closed the whole batch is dropped, counted and logged.
func (l *dispatchLane) enqueue(batch []timeline.Event) bool {
	if len(batch) == 0 {
		return true
	}
	if !l.closed.Load() {
		select {
		case l.queue <- batch:
			return true
		default:
		}
	}
	l.drop(batch)
	return false
}

func (l *dispatchLane) drop(batch []timeline.Event) {
	l.dropped.Add(uint64(len(batch)))
	ids := make([]string, len(batch))
	for i, ev := range batch {
		ids[i] = ev.Payload.ID
	}
	l.logger.Error("dispatch queue full, dropping events", "count", len(batch), "ids", ids, "t", batch[0].T)
}

func (l *dispatchLane) loop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.ctx.Done():
			return
		case batch := <-l.queue:
			for _, ev := range batch {
				if l.ctx.Err() != nil {
					return
				}
				l.run(ev)
			}
		}
	}
}

func (l *dispatchLane) run(ev timeline.Event) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("dispatch panic", "id", ev.Payload.ID, "error", fmt.Errorf("%v", r))
		}
		l.handled.Add(1)
	}()
	l.dispatcher.Dispatch(l.ctx, ev)
}

// close stops the lane. Batches still queued are discarded.
func (l *dispatchLane) close() {
	l.once.Do(func() {
		l.closed.Store(true)
		l.cancel()
		l.wg.Wait()
		for {
			select {
			case batch := <-l.queue:
				l.dropped.Add(uint64(len(batch)))
			default:
				return
			}
		}
	})
}
