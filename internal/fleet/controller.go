package fleet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/models"
)

// SourceStatus is the lifecycle state of one polled source.
type SourceStatus string

const (
	SourceUninitialized SourceStatus = "uninitialized"
	SourceSuccess       SourceStatus = "success"
	SourceError         SourceStatus = "error"
	SourceDisabled      SourceStatus = "disabled"
)

// SourceState is the latest observed state of one source. Vehicles are
// replaced wholesale on every successful poll, never merged. On a
// failed poll the previous vehicles are kept and flagged Stale so the
// display layer can keep showing them while the error is visible.
type SourceState struct {
	Vehicles    []models.Vehicle `json:"vehicles"`
	Status      SourceStatus     `json:"status"`
	Stale       bool             `json:"stale"`
	LastUpdated time.Time        `json:"lastUpdated"`
	LastError   string           `json:"lastError,omitempty"`
}

// Controller polls one source on a fixed interval and owns its state.
// Each source gets its own Controller so one upstream's outage cannot
// touch another source's state.
type Controller struct {
	source   Source
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	onUpdate func()

	mu sync.Mutex
	// generation is bumped on every enable and disable; results from a
	// previous generation are discarded so nothing mutates state after
	// teardown.
	generation uint64
	// lastSeq/nextSeq order polls within a generation so a slow
	// response cannot overwrite the state a later, faster poll already
	// produced.
	lastSeq uint64
	nextSeq uint64
	state   SourceState
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewController(source Source, interval, timeout time.Duration, logger *slog.Logger) *Controller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		source:   source,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "poller"), slog.String("source", source.Name())),
		state:    SourceState{Status: SourceUninitialized, LastUpdated: time.Now()},
	}
}

// SetUpdateHook registers a callback invoked after every state
// transition. Set it before Enable; it must not call back into the
// Controller's mutating methods.
func (c *Controller) SetUpdateHook(fn func()) {
	c.onUpdate = fn
}

func (c *Controller) SourceName() string {
	return c.source.Name()
}

// Enable starts polling: one immediate poll, then one every interval
// tick. Enabling an already enabled controller is a no-op.
func (c *Controller) Enable() {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.lastSeq = 0
	c.nextSeq = 0
	c.state = SourceState{Status: SourceUninitialized, LastUpdated: time.Now()}
	gen := c.generation

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	c.notify()
	c.wg.Add(1)
	go c.run(ctx, gen)
}

// Disable stops polling, discards any in-flight response and clears
// the vehicle set. Disabling an already disabled controller is a no-op.
func (c *Controller) Disable() {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.cancel = nil
	c.generation++
	c.state = SourceState{Status: SourceDisabled, LastUpdated: time.Now()}
	c.mu.Unlock()

	cancel()
	logging.LogOperation(c.logger, "source_disabled")
	c.notify()
}

// Enabled reports whether the polling loop is running.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Shutdown stops the polling loop and waits for it to exit. The last
// observed state is left in place for final reads.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.generation++
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// State returns a copy of the current source state.
func (c *Controller) State() SourceState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state
	state.Vehicles = append([]models.Vehicle(nil), c.state.Vehicles...)
	return state
}

func (c *Controller) run(ctx context.Context, gen uint64) {
	defer c.wg.Done()

	c.poll(ctx, gen)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.poll(ctx, gen)
		}
	}
}

func (c *Controller) poll(ctx context.Context, gen uint64) {
	c.mu.Lock()
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	fetchCtx = logging.WithLogger(fetchCtx, c.logger)

	start := time.Now()
	vehicles, err := c.source.FetchVehicles(fetchCtx)

	// Torn down while the request was in flight; the result must not
	// be observed.
	if ctx.Err() != nil {
		return
	}

	c.apply(gen, seq, vehicles, err, time.Since(start))
}

func (c *Controller) apply(gen, seq uint64, vehicles []models.Vehicle, err error, elapsed time.Duration) {
	c.mu.Lock()
	if gen != c.generation || seq <= c.lastSeq {
		c.mu.Unlock()
		return
	}
	c.lastSeq = seq

	if err != nil {
		c.state.Status = SourceError
		c.state.LastError = err.Error()
		c.state.Stale = len(c.state.Vehicles) > 0
		c.state.LastUpdated = time.Now()
		c.mu.Unlock()

		logging.LogError(c.logger, "poll failed", err)
		c.notify()
		return
	}

	c.state = SourceState{
		Vehicles:    vehicles,
		Status:      SourceSuccess,
		LastUpdated: time.Now(),
	}
	c.mu.Unlock()

	logging.LogOperation(c.logger, "vehicles_updated",
		slog.Int("vehicle_count", len(vehicles)),
		slog.Duration("duration", elapsed))
	c.notify()
}

func (c *Controller) notify() {
	if c.onUpdate != nil {
		c.onUpdate()
	}
}
