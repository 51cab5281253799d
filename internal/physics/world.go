package physics

import (
	"context"
	"log"
	"runtime"
	"sync"

	"tracesweep/internal/components"
	"tracesweep/internal/engine"

	"golang.org/x/sync/errgroup"
)

// PhysicsWorld answers line traces and shape sweeps against the colliders of
// the objects added to it. It implements engine.WorldAccess.
//
// Async traces are queued by AsyncTrace and run by DispatchAsyncTraces, which
// the host calls once per frame. The queries run on a worker pool over a
// snapshot of the colliders; completion callbacks are invoked afterwards, in
// issue order, on the goroutine that called DispatchAsyncTraces.
type PhysicsWorld struct {
	Objects []*engine.GameObject
	Workers int // async worker limit, defaults to GOMAXPROCS

	mu         sync.Mutex
	pending    []pendingTrace
	nextHandle engine.TraceHandle

	stats           Stats
	lastLoggedCount int
}

type pendingTrace struct {
	handle engine.TraceHandle
	query  engine.TraceQuery
	filter channelFilter
	done   engine.TraceDelegate
}

// Stats counts work done by the world since it was created
type Stats struct {
	SyncTraces  int
	AsyncTraces int
	Batches     int
	Rejected    int
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Objects: make([]*engine.GameObject, 0),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// AddObject registers g if it carries at least one collider
func (p *PhysicsWorld) AddObject(g *engine.GameObject) {
	if g == nil || len(engine.GetComponents[components.Collider](g)) == 0 {
		return
	}
	for _, obj := range p.Objects {
		if obj == g {
			return
		}
	}
	p.Objects = append(p.Objects, g)
}

func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	for i, obj := range p.Objects {
		if obj == g {
			p.Objects = append(p.Objects[:i], p.Objects[i+1:]...)
			return
		}
	}
}

// AddScene registers every collidable object of the scene, children included
func (p *PhysicsWorld) AddScene(s *engine.Scene) {
	for _, g := range s.GameObjects {
		p.AddObject(g)
		for _, child := range g.Descendants() {
			p.AddObject(child)
		}
	}
}

func (p *PhysicsWorld) GetCollidableObjects() []*engine.GameObject {
	out := make([]*engine.GameObject, len(p.Objects))
	copy(out, p.Objects)
	return out
}

// Trace runs a query immediately against the current collider positions
func (p *PhysicsWorld) Trace(q engine.TraceQuery) ([]engine.HitResult, bool) {
	filter, ok := newChannelFilter(q.Channel)
	if !ok {
		p.stats.Rejected++
		log.Printf("Physics: rejected trace on %s", q.Channel)
		return nil, false
	}
	p.stats.SyncTraces++
	return runQuery(q, filter, buildProxies(p.Objects)), true
}

// AsyncTrace queues a query for the next DispatchAsyncTraces. Returns the
// zero handle if the channel spec cannot be resolved.
func (p *PhysicsWorld) AsyncTrace(q engine.TraceQuery, done engine.TraceDelegate) engine.TraceHandle {
	filter, ok := newChannelFilter(q.Channel)
	if !ok {
		p.stats.Rejected++
		log.Printf("Physics: rejected async trace on %s", q.Channel)
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextHandle++
	p.pending = append(p.pending, pendingTrace{
		handle: p.nextHandle,
		query:  q,
		filter: filter,
		done:   done,
	})
	return p.nextHandle
}

// PendingTraces returns the number of queued async traces
func (p *PhysicsWorld) PendingTraces() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// DispatchAsyncTraces runs every queued trace and delivers the results.
// Traces queued by the callbacks wait for the next call. If ctx is cancelled
// the remaining traces are delivered with no hits and the error is returned.
func (p *PhysicsWorld) DispatchAsyncTraces(ctx context.Context) error {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if n := len(p.Objects); n != p.lastLoggedCount {
		p.lastLoggedCount = n
		log.Printf("Physics: %d collidable objects", n)
	}

	proxies := buildProxies(p.Objects)
	results := make([][]engine.HitResult, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}
	for i := range batch {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runQuery(batch[i].query, batch[i].filter, proxies)
			return nil
		})
	}
	err := g.Wait()

	p.stats.Batches++
	p.stats.AsyncTraces += len(batch)

	for i, t := range batch {
		if t.done == nil {
			continue
		}
		t.done(engine.TraceDatum{Handle: t.handle, Query: t.query, Hits: results[i]})
	}
	return err
}

func (p *PhysicsWorld) Stats() Stats {
	return p.stats
}
