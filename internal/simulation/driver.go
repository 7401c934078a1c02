// Package simulation emulates background multi-user activity so the
// dashboard feels live without real users.
//
// A Driver runs two independent periodic tickers: one synthesizes new
// device registrations, the other collects a random still-registered
// device. Both stop when the owning context is cancelled or Stop is
// called; no tick fires after teardown.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ecorecicle/ecorecicle-core/internal/device"
	"github.com/ecorecicle/ecorecicle-core/internal/feed"
)

// Default tick periods. The two timers are deliberately co-prime-ish so
// registrations and collections interleave rather than firing together.
const (
	DefaultRegisterInterval = 30 * time.Second
	DefaultCollectInterval  = 45 * time.Second

	// maxSyntheticSuffix bounds the random number appended to generated
	// device names ("Smartphone #457").
	maxSyntheticSuffix = 1000
)

// ErrAlreadyRunning is returned when Start is called on a running driver.
var ErrAlreadyRunning = errors.New("simulation: driver already running")

// Logger defines the logging interface used by the Driver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds the driver's tick periods. Zero values fall back to the
// defaults.
type Config struct {
	RegisterInterval time.Duration `yaml:"register_interval"`
	CollectInterval  time.Duration `yaml:"collect_interval"`
}

// Driver synthesizes device registrations and collections on two
// independent timers. It mutates the store and appends feed events the
// same way a real user-driven caller would.
type Driver struct {
	store  *device.Store
	feed   *feed.Feed
	cfg    Config
	logger Logger
	rng    *rand.Rand
	rngMu  sync.Mutex

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a simulation driver.
// The store receives synthesized mutations; the feed receives the
// matching notifications.
func New(store *device.Store, f *feed.Feed, cfg Config) *Driver {
	if cfg.RegisterInterval <= 0 {
		cfg.RegisterInterval = DefaultRegisterInterval
	}
	if cfg.CollectInterval <= 0 {
		cfg.CollectInterval = DefaultCollectInterval
	}

	return &Driver{
		store:  store,
		feed:   f,
		cfg:    cfg,
		logger: noopLogger{},
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetLogger sets the logger for the driver.
func (d *Driver) SetLogger(logger Logger) {
	d.logger = logger
}

// SetRand overrides the random source; used by tests for determinism.
func (d *Driver) SetRand(rng *rand.Rand) {
	if rng != nil {
		d.rng = rng
	}
}

// Start launches both tickers. They run until the context is cancelled
// or Stop is called. Returns ErrAlreadyRunning on a second Start
// without an intervening Stop.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running = true

	d.wg.Add(2)
	go d.runLoop(ctx, d.cfg.RegisterInterval, d.registerTick)
	go d.runLoop(ctx, d.cfg.CollectInterval, d.collectTick)

	d.logger.Info("simulation driver started",
		"register_interval", d.cfg.RegisterInterval,
		"collect_interval", d.cfg.CollectInterval,
	)
	return nil
}

// Stop cancels both tickers and waits for in-flight ticks to finish.
// It is safe to call multiple times; only the first call does work.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	cancel := d.cancel
	d.mu.Unlock()

	cancel()
	d.wg.Wait()
	d.logger.Info("simulation driver stopped")
}

// runLoop drives one ticker until the context is cancelled.
// Each tick runs to completion; ticks are short and not interruptible.
func (d *Driver) runLoop(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	defer d.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// registerTick synthesizes one device registration.
func (d *Driver) registerTick(ctx context.Context) {
	deviceType := d.randomType()
	name := d.syntheticName(deviceType)

	rec, err := d.store.Register(ctx, name, deviceType)
	if err != nil {
		d.logger.Error("simulated registration failed", "name", name, "error", err)
		return
	}

	d.feed.Append(feed.RegistrationMessage(rec.Name), feed.CategoryRegister)
	d.logger.Debug("simulated registration", "id", rec.ID, "name", rec.Name)
}

// collectTick collects one randomly chosen still-registered device.
// An empty candidate set is a silent no-op, not an error.
func (d *Driver) collectTick(ctx context.Context) {
	candidates, err := d.store.ListRegistered(ctx)
	if err != nil {
		d.logger.Error("listing collection candidates failed", "error", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	// Pick uniformly from the live set just listed, so the id is always
	// present when Collect runs.
	pick := candidates[d.intN(len(candidates))]

	rec, err := d.store.Collect(ctx, pick.ID)
	if err != nil {
		d.logger.Error("simulated collection failed", "id", pick.ID, "error", err)
		return
	}

	d.feed.Append(feed.CollectionMessage(rec.Name), feed.CategoryCollect)
	d.logger.Debug("simulated collection", "id", rec.ID, "name", rec.Name)
}

// randomType picks a uniformly random device type.
func (d *Driver) randomType() device.DeviceType {
	types := device.AllDeviceTypes()
	return types[d.intN(len(types))]
}

// syntheticName generates a display name like "Smartphone #457".
func (d *Driver) syntheticName(t device.DeviceType) string {
	return fmt.Sprintf("%s #%d", t.Label(), d.intN(maxSyntheticSuffix))
}

// intN returns a random int in [0, n) from the driver's source.
// Both tickers share the source, so access is serialised.
func (d *Driver) intN(n int) int {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return d.rng.IntN(n)
}
