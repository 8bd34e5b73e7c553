package ssb

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/mmmmm/internal/database"
)

// DriverOptions tunes a Driver.
type DriverOptions struct {
	// Replay is how many stored messages are delivered at start.
	Replay int
	// Buffer sizes the outbox and incoming channels.
	Buffer int
}

// Driver publishes outgoing content and delivers stored messages on a worker
// goroutine. Results come back on Incoming so the caller can hand them to
// its own event loop.
type Driver struct {
	store    *Store
	self     FeedID
	opts     DriverOptions
	log      *zap.Logger
	outbox   chan Content
	incoming chan Msg
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func NewDriver(store *Store, self FeedID, opts DriverOptions, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	if opts.Replay < 0 {
		opts.Replay = 0
	}
	return &Driver{
		store:    store,
		self:     self,
		opts:     opts,
		log:      log.With(zap.String("feed", string(self))),
		outbox:   make(chan Content, opts.Buffer),
		incoming: make(chan Msg, opts.Buffer),
		done:     make(chan struct{}),
	}
}

// Start launches the worker. It stops when ctx is cancelled or Close is called.
func (d *Driver) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_ = d.run(ctx)
	}()
}

// Run is Start on the calling goroutine. It returns ctx.Err() when ctx is
// cancelled and nil after Close.
func (d *Driver) Run(ctx context.Context) error {
	d.wg.Add(1)
	defer d.wg.Done()
	return d.run(ctx)
}

// Incoming delivers replayed and newly published messages.
func (d *Driver) Incoming() <-chan Msg {
	return d.incoming
}

// Done is closed once the driver is closed.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Publish queues c for the local feed. It drops c once the driver is closed.
func (d *Driver) Publish(c Content) {
	select {
	case d.outbox <- c:
	case <-d.done:
		d.log.Warn("publish after close", zap.String("type", c.Type))
	}
}

// Close stops the worker and waits for it.
func (d *Driver) Close() {
	d.once.Do(func() { close(d.done) })
	d.wg.Wait()
}

func (d *Driver) run(ctx context.Context) error {
	if d.opts.Replay > 0 {
		msgs, err := d.store.Recent(ctx, d.opts.Replay)
		if err != nil {
			d.log.Error("replay failed", zap.Error(err))
		}
		for _, m := range msgs {
			if !d.deliver(ctx, m) {
				return ctx.Err()
			}
		}
		d.log.Debug("replayed", zap.Int("count", len(msgs)))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return nil
		case c := <-d.outbox:
			m, err := d.store.Append(ctx, d.self, c, database.Now())
			if err != nil {
				d.log.Error("publish failed", zap.String("type", c.Type), zap.Error(err))
				continue
			}
			d.log.Info("published", zap.String("key", string(m.Key)), zap.Int64("sequence", m.Sequence))
			if !d.deliver(ctx, m) {
				return ctx.Err()
			}
		}
	}
}

func (d *Driver) deliver(ctx context.Context, m Msg) bool {
	select {
	case d.incoming <- m:
		return true
	case <-ctx.Done():
		return false
	case <-d.done:
		return false
	}
}
