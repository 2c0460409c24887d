package engine

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ivlev/framewall/internal/compositor"
	"github.com/ivlev/framewall/internal/config"
	"github.com/ivlev/framewall/internal/layer"
	"github.com/ivlev/framewall/internal/logging"
	"github.com/ivlev/framewall/internal/source"
)

const (
	DefaultFrameInterval = 33 * time.Millisecond
	DefaultMinDelay      = 20 * time.Millisecond
)

type State int

const (
	StateHidden State = iota
	StateVisibleUnloaded
	StateVisibleLoaded
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateVisibleUnloaded:
		return "visible-unloaded"
	case StateVisibleLoaded:
		return "visible-loaded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Options struct {
	Source        source.Source
	Naming        source.Naming
	Policy        compositor.Policy
	Background    color.Color
	FrameInterval time.Duration
	MinDelay      time.Duration
	Workers       int
	Logger        hclog.Logger
	Now           func() time.Time
}

// OptionsFromConfig builds engine options, including the Source, from cfg.
func OptionsFromConfig(cfg *config.Config, log hclog.Logger) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	src, err := source.Open(cfg)
	if err != nil {
		return Options{}, err
	}
	naming, err := source.NewNaming(cfg.Naming)
	if err != nil {
		return Options{}, err
	}
	policy, err := compositor.NewPolicy(cfg.Fit)
	if err != nil {
		return Options{}, err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Source:        src,
		Naming:        naming,
		Policy:        policy,
		Background:    bg,
		FrameInterval: time.Duration(1000/cfg.FPS) * time.Millisecond,
		MinDelay:      time.Duration(cfg.MinDelayMs) * time.Millisecond,
		Workers:       cfg.Workers,
		Logger:        log,
	}, nil
}

// Stats are running counters of the playback loop.
type Stats struct {
	LastFrameStart  time.Time
	Frames          int64
	SurfaceFailures int64
	LastRender      time.Duration
	TotalRender     time.Duration
	LastDelay       time.Duration
}

func (s Stats) AverageRender() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.TotalRender / time.Duration(s.Frames)
}

// Engine is one wallpaper instance. Every lifecycle handler and every
// scheduled frame runs under one mutex, so composites never overlap and
// the host can deliver events from any goroutine.
type Engine struct {
	mu sync.Mutex

	opts    Options
	log     hclog.Logger
	surface Surface
	sched   Scheduler
	comp    *compositor.Compositor
	ctx     context.Context
	cancel  context.CancelFunc

	set       *layer.Set
	loaded    bool
	visible   bool
	destroyed bool
	rejected  []source.Rejection

	// gen identifies the pending callback; bumping it orphans callbacks
	// that already fired but have not acquired the lock yet.
	gen   uint64
	stats Stats
}

var _ LifecycleHandler = (*Engine)(nil)

func New(opts Options, surface Surface, sched Scheduler) (*Engine, error) {
	if opts.Source == nil {
		return nil, errors.New("engine: source is required")
	}
	if surface == nil {
		return nil, errors.New("engine: surface is required")
	}
	if sched == nil {
		sched = NewTimerScheduler()
	}
	if opts.Naming == nil {
		opts.Naming = source.SingleNaming{}
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.MinDelay <= 0 {
		opts.MinDelay = DefaultMinDelay
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := logging.OrNull(opts.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		opts:    opts,
		log:     log,
		surface: surface,
		sched:   sched,
		comp:    compositor.New(opts.Policy, opts.Background, log.Named("compositor")),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// NextDelay is how long to wait before the next frame: the remainder of
// the frame interval after rendering, but never less than floor.
func NextDelay(render, interval, floor time.Duration) time.Duration {
	delay := interval - render
	if delay < floor {
		delay = floor
	}
	return delay
}

// Load scans the source and builds the layer set once. After the first
// success it returns true without touching the source again; a failure
// leaves the engine unloaded so the next activation scans again. A
// destroyed engine never loads.
func (e *Engine) Load() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load()
}

func (e *Engine) load() bool {
	if e.destroyed {
		return false
	}
	if e.loaded {
		return true
	}

	set, res, err := layer.Scan(e.ctx, e.opts.Source, e.opts.Naming, e.opts.Workers, e.log.Named("scan"))
	if err != nil {
		if res != nil {
			e.log.Warn("load frames", "error", err, "rejected", len(res.Rejected))
		} else {
			e.log.Error("scan store", "error", err)
		}
		return false
	}

	for _, l := range set.Layers {
		e.log.Debug("layer loaded", "layer", l.Key, "frames", len(l.Frames))
	}
	e.log.Info("frames loaded", "layers", len(set.Layers), "frames", set.FrameCount(),
		"width", set.Size.X, "height", set.Size.Y, "rejected", len(res.Rejected))

	e.set = set
	e.rejected = res.Rejected
	e.loaded = true
	return true
}

func (e *Engine) setupInitialFrame() {
	e.load()
	e.comp.Invalidate()
}

func (e *Engine) OnVisibilityChanged(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return
	}
	e.visible = visible
	if visible {
		e.setupInitialFrame()
		e.draw()
	} else {
		e.cancelPending()
	}
}

func (e *Engine) OnSurfaceChanged(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return
	}
	e.comp.SetViewport(width, height)
	if !e.visible {
		e.comp.Invalidate()
		return
	}
	e.setupInitialFrame()
	e.draw()
}

func (e *Engine) OnSurfaceDestroyed() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.visible = false
	e.cancelPending()
}

func (e *Engine) OnOffsetsChanged(xOffset float64, xPixelOffset int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Trace("offsets changed", "x_offset", xOffset, "x_pixel_offset", xPixelOffset)
	if e.destroyed {
		return
	}
	e.comp.SetOffset(xOffset)
	e.comp.Invalidate()
	if e.visible {
		e.draw()
	}
}

// OnCommand accepts tap and other wallpaper commands without acting on them.
func (e *Engine) OnCommand(action string, x, y, z int) {
	e.log.Trace("command ignored", "action", action, "x", x, "y", y, "z", z)
}

func (e *Engine) OnDestroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return
	}
	e.destroyed = true
	e.visible = false
	e.cancelPending()
	e.cancel()
	e.comp.Release()
	if err := e.opts.Source.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
}

func (e *Engine) cancelPending() {
	e.gen++
	e.sched.Cancel()
}

func (e *Engine) scheduleNext(delay time.Duration) {
	e.gen++
	gen := e.gen
	e.stats.LastDelay = delay
	e.sched.Schedule(delay, func() { e.tick(gen) })
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen || !e.visible || e.destroyed {
		return
	}
	e.draw()
}

// draw composites one frame. Must be called with e.mu held.
func (e *Engine) draw() {
	start := e.opts.Now()
	e.stats.LastFrameStart = start

	dst, err := e.surface.Lock()
	if err != nil {
		e.stats.SurfaceFailures++
		e.log.Error("could not lock surface", "error", err)
		return
	}

	if e.visible && e.loaded {
		e.comp.Composite(dst, e.set)
	} else {
		e.comp.Composite(dst, nil)
	}

	if err := e.surface.UnlockAndPost(dst); err != nil {
		e.log.Error("unlock and post", "error", err)
	}

	render := e.opts.Now().Sub(start)
	e.stats.Frames++
	e.stats.LastRender = render
	e.stats.TotalRender += render

	e.cancelPending()
	if e.visible {
		e.scheduleNext(NextDelay(render, e.opts.FrameInterval, e.opts.MinDelay))
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case !e.visible:
		return StateHidden
	case e.loaded:
		return StateVisibleLoaded
	default:
		return StateVisibleUnloaded
	}
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Layers returns the loaded layer set, or nil before the first
// successful load. The set must only be inspected, not mutated.
func (e *Engine) Layers() *layer.Set {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Rejected lists the candidates skipped by the successful scan.
func (e *Engine) Rejected() []source.Rejection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]source.Rejection(nil), e.rejected...)
}
