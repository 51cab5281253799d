package tracing

import (
	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type fakeTrace struct {
	handle engine.TraceHandle
	query  engine.TraceQuery
	done   engine.TraceDelegate
}

// fakeWorld answers every query with whatever respond returns and records
// the queries it saw. Async traces wait until complete is called.
type fakeWorld struct {
	respond func(q engine.TraceQuery) []engine.HitResult
	reject  bool

	queries []engine.TraceQuery
	pending []fakeTrace
	next    engine.TraceHandle
}

func (w *fakeWorld) GetCollidableObjects() []*engine.GameObject {
	return nil
}

func (w *fakeWorld) Trace(q engine.TraceQuery) ([]engine.HitResult, bool) {
	w.queries = append(w.queries, q)
	if w.reject {
		return nil, false
	}
	return w.hits(q), true
}

func (w *fakeWorld) AsyncTrace(q engine.TraceQuery, done engine.TraceDelegate) engine.TraceHandle {
	w.queries = append(w.queries, q)
	if w.reject {
		return 0
	}
	w.next++
	w.pending = append(w.pending, fakeTrace{handle: w.next, query: q, done: done})
	return w.next
}

func (w *fakeWorld) hits(q engine.TraceQuery) []engine.HitResult {
	if w.respond == nil {
		return nil
	}
	return w.respond(q)
}

// complete delivers the i-th pending trace
func (w *fakeWorld) complete(i int) {
	t := w.pending[i]
	w.pending = append(w.pending[:i], w.pending[i+1:]...)
	t.done(engine.TraceDatum{Handle: t.handle, Query: t.query, Hits: w.hits(t.query)})
}

func (w *fakeWorld) completeAll() {
	for len(w.pending) > 0 {
		w.complete(0)
	}
}

// completeReversed delivers pending traces newest first
func (w *fakeWorld) completeReversed() {
	for len(w.pending) > 0 {
		w.complete(len(w.pending) - 1)
	}
}

func (w *fakeWorld) forwardQueries() []engine.TraceQuery {
	var result []engine.TraceQuery
	for _, q := range w.queries {
		if !isReverse(q) {
			result = append(result, q)
		}
	}
	return result
}

func (w *fakeWorld) reverseQueries() []engine.TraceQuery {
	var result []engine.TraceQuery
	for _, q := range w.queries {
		if isReverse(q) {
			result = append(result, q)
		}
	}
	return result
}

// Tests use TraceChannel configs, so reverse queries are the AllObjects ones
func isReverse(q engine.TraceQuery) bool {
	return q.Channel.Kind == engine.ChannelKindAllObjects
}

// targetCollider stands in for a collider on a hit object
type targetCollider struct {
	engine.BaseComponent
	engine.OverlapEvents
}

// overlapRecorder counts the OverlapHandler callbacks on a hit object
type overlapRecorder struct {
	engine.BaseComponent
	begins []engine.BeginOverlapEvent
	ends   []engine.EndOverlapEvent
}

func (r *overlapRecorder) OnBeginOverlap(e engine.BeginOverlapEvent) {
	r.begins = append(r.begins, e)
}

func (r *overlapRecorder) OnEndOverlap(e engine.EndOverlapEvent) {
	r.ends = append(r.ends, e)
}

// socketStub exposes fixed sockets in world space
type socketStub struct {
	engine.BaseComponent
	sockets map[string]rl.Vector3
}

func (s *socketStub) SocketLocation(name string) (rl.Vector3, bool) {
	pos, ok := s.sockets[name]
	return pos, ok
}

type testRig struct {
	scene   *engine.Scene
	world   *fakeWorld
	manager *Manager
	owner   *engine.GameObject
	tracer  *TraceCollision
	begins  []engine.BeginOverlapEvent
	ends    []engine.EndOverlapEvent
}

func syncConfig() Config {
	c := DefaultConfig()
	c.Execution = ExecutionSync
	c.Channel = engine.TraceChannel(engine.ChannelVisibility)
	c.TracesPerSecond = 0
	return c
}

func asyncConfig() Config {
	c := syncConfig()
	c.Execution = ExecutionAsync
	return c
}

// newRig builds a started scene with a manager and a tracer owner
func newRig(config Config) *testRig {
	r := &testRig{
		scene: engine.NewScene("Test"),
		world: &fakeWorld{},
	}
	r.scene.World = r.world

	managerObj := engine.NewGameObject("TraceManager")
	r.manager = NewManager()
	managerObj.AddComponent(r.manager)
	r.scene.AddGameObject(managerObj)

	r.owner = engine.NewGameObject("Sword")
	r.tracer = NewTraceCollision(config)
	r.owner.AddComponent(r.tracer)
	r.scene.AddGameObject(r.owner)

	r.tracer.OnBeginOverlap.AddListener(func(e engine.BeginOverlapEvent) {
		r.begins = append(r.begins, e)
	})
	r.tracer.OnEndOverlap.AddListener(func(e engine.EndOverlapEvent) {
		r.ends = append(r.ends, e)
	})

	r.scene.Start()
	return r
}

// addTarget adds a follow target to the scene at pos and tracks it
func (r *testRig) addTarget(name string, pos rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	r.scene.AddGameObject(g)
	r.tracer.AddFollowTarget(g)
	return g
}

// addEnemy adds something to be hit, returning it and its collider
func (r *testRig) addEnemy(name string) (*engine.GameObject, *targetCollider) {
	g := engine.NewGameObject(name)
	c := &targetCollider{}
	g.AddComponent(c)
	r.scene.AddGameObject(g)
	return g, c
}

func blockingHit(g *engine.GameObject, c engine.Component, distance float32) engine.HitResult {
	return engine.HitResult{
		GameObject:  g,
		Component:   c,
		Distance:    distance,
		BlockingHit: true,
		FaceIndex:   -1,
	}
}
