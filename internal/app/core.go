package app

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-companion/internal/location"
	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/update"
	"github.com/i474232898/weather-companion/internal/weather"
)

const defaultTaskTimeout = 30 * time.Second

// PreferencesStore is where applied preferences are written.
type PreferencesStore interface {
	Save(p weather.Preferences) error
}

// Config wires the collaborators of a Core.
type Config struct {
	Fetcher  weather.Fetcher
	Searcher location.Searcher
	Store    PreferencesStore
	Sink     Sink
	Spawner  Spawner
	Logger   *zap.SugaredLogger

	// DefaultLocation is looked up at startup when there are no preferences.
	DefaultLocation string
	DefaultUnits    units.Units

	// TaskTimeout bounds each background fetch or search.
	TaskTimeout time.Duration
}

// Core is the consumer loop. It is the only writer of the shared state;
// background tasks report back exclusively through the update channel.
type Core struct {
	shared   *Shared
	fetcher  weather.Fetcher
	searcher location.Searcher
	store    PreferencesStore
	sink     Sink
	spawner  Spawner
	logger   *zap.SugaredLogger

	tx    update.WeakSender
	owner *update.Sender
	rx    *update.Receiver

	view     atomic.Pointer[View]
	prefs    *weather.Preferences
	fallback string
	timeout  time.Duration
}

// New builds a Core starting from prefs, which may be nil, and the Handle
// that feeds it. The Handle holds the only counted sender: closing it once
// in-flight tasks have finished stops Run.
func New(cfg Config, prefs *weather.Preferences) (*Core, *Handle) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Spawner == nil {
		cfg.Spawner = NewGoSpawner(cfg.Logger)
	}
	if cfg.Sink == nil {
		cfg.Sink = SinkFunc(func(View) {})
	}
	if !cfg.DefaultUnits.Valid() {
		cfg.DefaultUnits = units.Metric
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = defaultTaskTimeout
	}

	tx, rx := update.New()
	c := &Core{
		shared:   newShared(newState(prefs, cfg.DefaultUnits), cfg.Logger),
		fetcher:  cfg.Fetcher,
		searcher: cfg.Searcher,
		store:    cfg.Store,
		sink:     cfg.Sink,
		spawner:  cfg.Spawner,
		logger:   cfg.Logger,
		tx:       tx.Downgrade(),
		owner:    tx,
		rx:       rx,
		prefs:    prefs,
		fallback: cfg.DefaultLocation,
		timeout:  cfg.TaskTimeout,
	}

	h := &Handle{tx: tx, view: c.View}
	return c, h
}

// Start publishes the initial view and queues the startup work: a refresh of
// the saved location, or a lookup of the default location.
func (c *Core) Start() {
	var v View
	if c.shared.WithLockedState("start", func(s *State) {
		if c.prefs == nil && c.fallback != "" {
			s.Status = "Locating " + c.fallback + "..."
		}
		v = s.view()
	}) {
		c.publish(v)
	}

	switch {
	case c.prefs != nil:
		c.send("start", update.RefreshRequested{})
	case c.fallback != "":
		c.send("start", update.LocationSearchRequested{Query: c.fallback})
	default:
		c.send("start", update.LocationConfirmed{})
	}
}

// Run applies events in the order they were sent until the channel is
// closed and drained, or until Abandon is called.
func (c *Core) Run() {
	c.logger.Infow("consumer loop started")
	for {
		ev, ok := c.rx.Receive()
		if !ok {
			c.logger.Infow("update channel closed, consumer loop stopped")
			return
		}
		c.apply(ev)
	}
}

// View returns the most recently published view.
func (c *Core) View() View {
	if v := c.view.Load(); v != nil {
		return *v
	}
	return View{}
}

// Abandon stops Run without draining. It returns the number of events that
// were still queued and are discarded; in-flight tasks fail their sends.
func (c *Core) Abandon() int {
	pending := c.rx.Len()
	c.rx.Close()
	return pending
}

func (c *Core) apply(ev update.Event) {
	h := &stateHandler{core: c}

	var v View
	applied := c.shared.WithLockedState(ev.Kind(), func(s *State) {
		h.state = s
		ev.Dispatch(h)
		s.LastEvent = ev.Kind()
		v = s.view()
	})
	if !applied {
		return
	}

	c.logger.Debugw("applied update", "event", ev.Kind())
	for _, next := range h.after {
		next()
	}
	c.publish(v)
}

func (c *Core) publish(v View) {
	c.view.Store(&v)
	c.sink.Render(v)
}

// spawn runs task in the background with its own counted sender. Nothing is
// spawned once the Handle has been closed, even while earlier tasks still
// hold the channel open.
func (c *Core) spawn(name string, task func(tx *update.Sender)) {
	if c.owner.Closed() {
		c.logger.Debugw("handle closed, not spawning", "task", name)
		return
	}
	tx, ok := c.tx.Upgrade()
	if !ok {
		c.logger.Debugw("update channel closed, not spawning", "task", name)
		return
	}
	c.spawner.Spawn(name, func() {
		defer tx.Close()
		task(tx)
	})
}

// send enqueues events from the loop itself, behind anything already queued.
// Follow-ups are dropped once the Handle has been closed.
func (c *Core) send(op string, events ...update.Event) {
	if c.owner.Closed() {
		c.logger.Debugw("handle closed, dropping events", "op", op)
		return
	}
	tx, ok := c.tx.Upgrade()
	if !ok {
		c.logger.Debugw("update channel closed, dropping events", "op", op)
		return
	}
	defer tx.Close()
	c.sendAll(tx, events...)
}

func (c *Core) sendAll(tx *update.Sender, events ...update.Event) {
	for _, ev := range events {
		if err := tx.Send(ev); err != nil {
			c.logger.Warnw("could not enqueue update", "event", ev.Kind(), "error", err)
			return
		}
	}
}
