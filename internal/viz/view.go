package viz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/filter"
	"github.com/matsen/kbm/internal/layout"
	"github.com/matsen/kbm/internal/node"
)

// DefaultLayoutTimeout bounds how long a render waits for the layout to settle.
const DefaultLayoutTimeout = 3 * time.Second

// Render errors.
var (
	// ErrLayoutUnavailable means the layout did not settle in time. The
	// returned scene holds the positions reached so far.
	ErrLayoutUnavailable = errors.New("visualization unavailable: layout did not settle")
	// ErrViewClosed means the view was closed before the render finished.
	ErrViewClosed = errors.New("view closed")
	// ErrRenderSuperseded means a newer render replaced this one.
	ErrRenderSuperseded = errors.New("render superseded")
)

// View runs the render cycle: filter, copy, build, settle. Each render
// discards the previous simulation. A View is safe for concurrent use.
type View struct {
	Logger        *zap.Logger
	LayoutTimeout time.Duration
	Seed          int64

	mu         sync.Mutex
	sim        *layout.Simulation
	generation uint64
	closed     bool
	loading    atomic.Bool
}

// NewView creates a view. A nil logger disables logging.
func NewView(logger *zap.Logger, timeout time.Duration) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultLayoutTimeout
	}
	return &View{Logger: logger, LayoutTimeout: timeout, Seed: 1}
}

// Loading reports whether a render is in progress.
func (v *View) Loading() bool {
	return v.loading.Load()
}

// Close stops any in-flight simulation. Renders that finish afterwards are
// discarded.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.sim != nil {
		v.sim.Stop()
		v.sim = nil
	}
	v.loading.Store(false)
}

// Render filters nodes and links by spec, lays out the survivors and returns
// the scene with its simulation. When spec has no density, opts.Density
// applies. Inputs are copied and never mutated.
//
// A scene that fails to build is logged and replaced by an empty scene. If
// the layout does not settle within LayoutTimeout, the partial scene is
// returned along with ErrLayoutUnavailable.
func (v *View) Render(ctx context.Context, nodes []node.Node, links []edge.Link, spec filter.Spec, opts Options) (*Scene, *layout.Simulation, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	if spec.Density == nil {
		spec = spec.WithDensity(opts.Density)
	}
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}

	gen, err := v.begin()
	if err != nil {
		return nil, nil, err
	}
	defer v.finish(gen)

	keptNodes, keptLinks := filter.Apply(nodes, links, spec)
	if len(keptNodes) == 0 {
		return EmptyScene(opts), nil, nil
	}
	keptNodes = node.CloneAll(keptNodes)
	keptLinks = append([]edge.Link(nil), keptLinks...)

	scene, sim, err := v.build(keptNodes, keptLinks, opts)
	if err != nil {
		v.Logger.Error("building graph scene", zap.Error(err), zap.Int("nodes", len(keptNodes)))
		return EmptyScene(opts), nil, nil
	}
	if !v.adopt(gen, sim) {
		sim.Stop()
		return nil, nil, v.discardErr()
	}

	runCtx, cancel := context.WithTimeout(ctx, v.LayoutTimeout)
	defer cancel()
	start := time.Now()
	runErr := sim.Run(runCtx)
	scene.Sync()
	scene.Settled = sim.Settled()

	if !v.current(gen) {
		return nil, nil, v.discardErr()
	}

	switch {
	case errors.Is(runErr, context.DeadlineExceeded) && ctx.Err() == nil:
		sim.Stop()
		v.Logger.Warn("graph layout did not settle",
			zap.Duration("timeout", v.LayoutTimeout),
			zap.Int("ticks", sim.Ticks()),
			zap.Int("nodes", len(scene.Nodes)))
		return scene, sim, ErrLayoutUnavailable
	case runErr != nil:
		sim.Stop()
		return scene, sim, runErr
	}

	v.Logger.Debug("graph rendered",
		zap.String("layout", string(opts.Layout)),
		zap.Int("nodes", len(scene.Nodes)),
		zap.Int("links", len(scene.Links)),
		zap.Int("ticks", sim.Ticks()),
		zap.Duration("elapsed", time.Since(start)))
	return scene, sim, nil
}

// buildScene constructs a scene; tests replace it to exercise the guard.
var buildScene = BuildScene

// build runs scene construction behind a recover guard.
func (v *View) build(nodes []node.Node, links []edge.Link, opts Options) (scene *Scene, sim *layout.Simulation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic building scene: %v", r)
		}
	}()
	return buildScene(nodes, links, opts, v.Seed)
}

func (v *View) begin() (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrViewClosed
	}
	if v.sim != nil {
		v.sim.Stop()
		v.sim = nil
	}
	v.generation++
	v.loading.Store(true)
	return v.generation, nil
}

func (v *View) adopt(gen uint64, sim *layout.Simulation) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.generation {
		return false
	}
	v.sim = sim
	return true
}

func (v *View) current(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.closed && gen == v.generation
}

func (v *View) finish(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen == v.generation {
		v.loading.Store(false)
	}
}

func (v *View) discardErr() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	return ErrRenderSuperseded
}
