// Package engine provides the authoritative simulation tick loop. This file
// implements TickLoop, which drives World.Update at a fixed cadence and
// layers the phases a plain system sweep doesn't cover: spawn-point
// bookkeeping and tick-overrun instrumentation.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// TickLoop drives the world at a fixed rate. Per-entity phases (movement
// integration, AI, combat, regeneration, death handling) are ordinary
// registered Systems and run in World.Update's registration order; TickLoop
// adds the phases that sit outside that sweep — spawn-point respawn
// checks — and tracks overruns when a tick's wall-clock time exceeds its
// budget.
type TickLoop struct {
	world        *World
	spawnManager *SpawnPointManager
	deltaTracker *DeltaTracker
	tickRate     int
	logger       *logrus.Entry

	startTime time.Time

	tickOverruns prometheus.Counter
	tickDuration prometheus.Histogram

	// TicksRun counts completed ticks, for tests and diagnostics.
	TicksRun uint64

	// changesMu guards lastChanges, which Tick writes from the tick-loop
	// goroutine and Changes reads from whatever goroutine broadcasts state
	// (the network layer runs on its own ticker, not this one).
	changesMu   sync.RWMutex
	lastChanges EntityChanges
}

// Changes returns the entity changes produced by the most recently
// completed Tick, safe to call concurrently with Run.
func (t *TickLoop) Changes() EntityChanges {
	t.changesMu.RLock()
	defer t.changesMu.RUnlock()
	return t.lastChanges
}

// NewTickLoop creates a tick loop at the given rate (Hz). If reg is
// non-nil, Prometheus metrics are registered against it; pass nil to skip
// registration (e.g. in tests, or to avoid duplicate-registration panics
// when constructing more than one loop against the default registry).
func NewTickLoop(world *World, spawnManager *SpawnPointManager, tickRate int, reg prometheus.Registerer) *TickLoop {
	return NewTickLoopWithLogger(world, spawnManager, tickRate, reg, nil)
}

// NewTickLoopWithLogger creates a tick loop that logs overruns through the
// given logger.
func NewTickLoopWithLogger(world *World, spawnManager *SpawnPointManager, tickRate int, reg prometheus.Registerer, logger *logrus.Logger) *TickLoop {
	var entry *logrus.Entry
	if logger != nil {
		entry = logger.WithFields(logrus.Fields{"system": "tick_loop"})
	}

	overruns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ashfall_tick_overruns_total",
		Help: "Number of simulation ticks whose wall-clock time exceeded the tick budget.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ashfall_tick_duration_seconds",
		Help:    "Wall-clock duration of each simulation tick.",
		Buckets: prometheus.DefBuckets,
	})
	if reg != nil {
		reg.MustRegister(overruns, duration)
	}

	return &TickLoop{
		world:        world,
		spawnManager: spawnManager,
		deltaTracker: NewDeltaTracker(),
		tickRate:     tickRate,
		logger:       entry,
		tickOverruns: overruns,
		tickDuration: duration,
	}
}

// MarkEntitySpawned records entityID as spawned this tick, so it appears in
// Changes().Spawned once Tick next runs.
func (t *TickLoop) MarkEntitySpawned(entityID uint64) {
	t.deltaTracker.MarkSpawned(entityID)
}

// MarkEntityDespawned records entityID as despawned this tick, so it
// appears in Changes().Despawned once Tick next runs.
func (t *TickLoop) MarkEntityDespawned(entityID uint64) {
	t.deltaTracker.MarkDespawned(entityID)
}

// Tick runs one simulation step. nowMS is the tick's timestamp in
// milliseconds since the loop started (used for cooldowns and spawn
// bookkeeping); deltaTime is the elapsed simulated time in seconds.
func (t *TickLoop) Tick(nowMS int64, deltaTime float64) {
	start := time.Now()

	t.world.SetNowMS(nowMS)
	t.world.Update(deltaTime)
	if t.spawnManager != nil {
		t.spawnManager.Update(nowMS)
	}
	changes := t.deltaTracker.Update(t.world)
	t.changesMu.Lock()
	t.lastChanges = changes
	t.changesMu.Unlock()

	elapsed := time.Since(start)
	t.tickDuration.Observe(elapsed.Seconds())

	budget := time.Second / time.Duration(t.tickRate)
	if elapsed > budget {
		t.tickOverruns.Inc()
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{
				"elapsed_ms": elapsed.Milliseconds(),
				"budget_ms":  budget.Milliseconds(),
			}).Warn("tick overran its budget")
		}
	}

	t.TicksRun++
}

// Run drives the tick loop until ctx is cancelled. There is no catch-up
// compensation: if a tick overruns its budget, the next tick fires on the
// following ticker boundary rather than firing back-to-back.
func (t *TickLoop) Run(ctx context.Context) {
	t.startTime = time.Now()
	ticker := time.NewTicker(time.Second / time.Duration(t.tickRate))
	defer ticker.Stop()

	last := t.startTime
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deltaTime := now.Sub(last).Seconds()
			last = now
			t.Tick(now.Sub(t.startTime).Milliseconds(), deltaTime)
		}
	}
}
