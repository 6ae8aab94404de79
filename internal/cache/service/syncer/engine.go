// Package syncer replicates the origin chain into storage one height at a time.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the run state of the engine.
type State int

const (
	StateStopped State = iota
	StateRunning
)

type command int

const (
	commandStart command = iota
	commandStop
)

func (c command) String() string {
	if c == commandStart {
		return "start"
	}
	return "stop"
}

var errSynced = errors.New("cache is synced with origin")

// EngineConfig tunes the engine loop.
type EngineConfig struct {
	// UpdateInterval is the delay after a synced cycle, a failed cycle and every batch.
	UpdateInterval time.Duration
	// BatchSize is the number of heights written between cooldowns.
	BatchSize uint64
	// AutoStart starts the engine as soon as Run is called.
	AutoStart bool
}

// Engine advances the stored height toward the origin tip. Cycles run only inside the
// goroutine executing Run; Start and Stop are delivered to it as commands.
type Engine struct {
	logger         *zap.Logger
	metrics        EngineMetrics
	repo           Repository
	source         Source
	fetcher        BlockFetcher
	writer         BlockWriter
	updateInterval time.Duration
	batchSize      uint64

	commands chan command
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once

	state   State
	updates uint64
}

func NewEngine(
	repo Repository,
	source Source,
	metrics EngineMetrics,
	logger *zap.Logger,
	cfg EngineConfig,
) (*Engine, error) {
	if repo == nil {
		return nil, errors.New("engine repository is required")
	}
	if source == nil {
		return nil, errors.New("engine source is required")
	}
	if metrics == nil {
		return nil, errors.New("engine metrics is required")
	}
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = defaultUpdateInterval
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}

	e := &Engine{
		logger:         logger,
		metrics:        metrics,
		repo:           repo,
		source:         source,
		fetcher:        &blockFetcher{source: source, logger: logger.Named("fetcher")},
		writer:         &blockWriter{repo: repo},
		updateInterval: cfg.UpdateInterval,
		batchSize:      cfg.BatchSize,
		commands:       make(chan command, commandBufferSize),
		events:         make(chan Event, eventBufferSize),
		done:           make(chan struct{}),
		state:          StateStopped,
	}
	if cfg.AutoStart {
		e.state = StateRunning
	}
	return e, nil
}

// Events returns the lifecycle signal stream. Signals are dropped when nobody reads them.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Start asks the engine to run. It is a no-op when already running.
func (e *Engine) Start() {
	e.send(commandStart)
}

// Stop asks the engine to halt at the next cycle boundary.
func (e *Engine) Stop() {
	e.send(commandStop)
}

// send never blocks: commands are dropped once Run has returned or the queue is full.
func (e *Engine) send(cmd command) {
	select {
	case <-e.done:
		e.logger.Warn("engine is not running, command dropped", zap.Stringer("command", cmd))
		return
	default:
	}

	select {
	case e.commands <- cmd:
	default:
		e.logger.Warn("engine command queue full, command dropped", zap.Stringer("command", cmd))
	}
}

// Run drives the engine until ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	defer e.doneOnce.Do(func() { close(e.done) })

	e.emit(Event{Kind: EventReady, Message: "blockchain cache ready"})
	e.logger.Info("engine ready", zap.Bool("running", e.state == StateRunning))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.state == StateStopped {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd := <-e.commands:
				e.apply(cmd)
			}
			continue
		}

		delay := e.cycle(ctx)
		if err := e.wait(ctx, delay); err != nil {
			return err
		}
	}
}

// cycle performs one synchronization step and returns the delay before the next one.
func (e *Engine) cycle(ctx context.Context) time.Duration {
	started := time.Now()
	height, err := e.step(ctx)

	switch {
	case errors.Is(err, errSynced):
		e.metrics.ObserveCycle(outcomeSynced, started)
		e.logger.Debug("cache synced", zap.Uint64("cursor", height))
		e.emit(Event{Kind: EventSynced, Height: height, Message: "blockchain cache synced"})
		return e.updateInterval
	case err != nil:
		if ctx.Err() != nil {
			return 0
		}
		e.metrics.ObserveCycle(outcomeFailed, started)
		e.logger.Warn("cycle failed, retrying", zap.Uint64("height", height), zap.Error(err), zap.Duration("sleep", e.updateInterval))
		e.emit(Event{Kind: EventError, Height: height, Err: err, Message: err.Error()})
		return e.updateInterval
	}

	e.updates++
	e.metrics.ObserveCycle(outcomeWritten, started)
	e.emit(Event{Kind: EventInfo, Height: height, Message: fmt.Sprintf("blockchain cache collected block %d", height)})

	if e.updates%e.batchSize == 0 {
		e.logger.Info("batch written, cooling down", zap.Uint64("height", height), zap.Uint64("updates", e.updates))
		return e.updateInterval
	}
	return 0
}

// step writes the height at the cursor and returns it.
func (e *Engine) step(ctx context.Context) (uint64, error) {
	maxHeight, ok, err := e.repo.MaxHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("read cursor: %w", err)
	}
	var cursor uint64
	if ok {
		cursor = maxHeight + 1
	}

	tip, err := e.source.Height(ctx)
	if err != nil {
		return cursor, fmt.Errorf("read origin tip: %w", err)
	}
	e.metrics.ObserveTip(tip)

	if cursor >= tip {
		return cursor, errSynced
	}

	fetched, err := e.fetcher.Fetch(ctx, cursor)
	if err != nil {
		return cursor, err
	}
	if err := e.writer.Write(ctx, fetched); err != nil {
		return cursor, err
	}

	e.metrics.ObserveStored(cursor)
	e.metrics.ObservePlaceholders(fetched.Placeholders)
	if fetched.Placeholders > 0 {
		e.logger.Warn("block stored with placeholder transactions",
			zap.Uint64("height", cursor),
			zap.Int("placeholders", fetched.Placeholders),
		)
	}
	return cursor, nil
}

// wait sleeps d while applying commands. It returns early when a command changes the state.
func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		for {
			select {
			case cmd := <-e.commands:
				e.apply(cmd)
			default:
				return ctx.Err()
			}
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case cmd := <-e.commands:
			if e.apply(cmd) {
				return nil
			}
		}
	}
}

// apply executes cmd and reports whether the state changed.
func (e *Engine) apply(cmd command) bool {
	next := e.state
	switch cmd {
	case commandStart:
		next = StateRunning
	case commandStop:
		next = StateStopped
	}
	if next == e.state {
		return false
	}

	e.state = next
	if next == StateRunning {
		e.logger.Info("engine started")
	} else {
		e.logger.Info("engine stopped", zap.Uint64("updates", e.updates))
	}
	return true
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.logger.Debug("event dropped", zap.Stringer("kind", ev.Kind))
	}
}
