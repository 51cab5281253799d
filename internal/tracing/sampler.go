package tracing

import (
	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DoCollisionTest runs one sampling pass. It returns false when no pass was
// started: an async pass is still in flight, or there is no world to query
// (no owner, no scene, or a scene without a WorldAccess).
//
// Sync passes reconcile before returning. Async passes leave their handles
// on the tracked entries and reconcile when the last one completes.
func (t *TraceCollision) DoCollisionTest() bool {
	if t.inFlight {
		return false
	}
	owner := t.GetGameObject()
	if t.destroyed || owner == nil || owner.Scene == nil || owner.Scene.World == nil {
		return false
	}
	world := owner.Scene.World

	t.forwardHits = t.forwardHits[:0]
	t.reverseHits = t.reverseHits[:0]
	t.passes++

	params := t.config.Params
	params.IgnoredObjects = append([]*engine.GameObject(nil), params.IgnoredObjects...)
	params.AddIgnoredObject(owner)

	async := t.config.Execution == ExecutionAsync
	if async {
		t.inFlight = true
	}

	switch t.config.Style {
	case StyleLine:
		for _, p := range t.points {
			current, ok := p.resolve(owner)
			if !ok {
				continue
			}
			p.Current = current
			forward := newQuery(t.config.TraceType, t.config.Channel, p.Previous, current, engine.CollisionShape{}, rl.QuaternionIdentity(), params)
			reverse := newQuery(engine.TraceMulti, t.config.reverseChannel(), current, p.Previous, engine.CollisionShape{}, rl.QuaternionIdentity(), params)
			t.issue(world, &p.handles, forward, reverse, async)
			p.Previous = current
		}
	case StyleSweep:
		for _, s := range t.shapes {
			current, rotation := s.resolve(owner)
			forward := newQuery(t.config.TraceType, t.config.Channel, s.Previous, current, s.Shape, rotation, params)
			reverse := newQuery(engine.TraceMulti, t.config.reverseChannel(), current, s.Previous, s.Shape, s.PreviousRotation, params)
			t.issue(world, &s.handles, forward, reverse, async)
			s.Previous = current
			s.PreviousRotation = rotation
		}
	}

	if !async {
		t.reconcile()
		return true
	}
	// Nothing issued, or every query rejected
	if !t.anyOutstanding() {
		t.inFlight = false
		t.reconcile()
	}
	return true
}

func newQuery(traceType engine.TraceType, channel engine.ChannelSpec, start, end rl.Vector3, shape engine.CollisionShape, rotation rl.Quaternion, params engine.QueryParams) engine.TraceQuery {
	return engine.TraceQuery{
		Type:     traceType,
		Start:    start,
		End:      end,
		Rotation: rotation,
		Shape:    shape,
		Channel:  channel,
		Params:   params,
	}
}

// issue runs or queues the forward query and, when end overlaps are wanted,
// the reverse one.
func (t *TraceCollision) issue(world engine.WorldAccess, handles *traceHandles, forward, reverse engine.TraceQuery, async bool) {
	withReverse := t.config.GenerateEndOverlap

	if async {
		handles.Forward = world.AsyncTrace(forward, t.onAsyncTraceComplete)
		if withReverse {
			handles.Reverse = world.AsyncTrace(reverse, t.onAsyncTraceComplete)
		}
		return
	}

	if hits, ok := world.Trace(forward); ok {
		t.forwardHits = append(t.forwardHits, uniqueBlocking(hits)...)
	}
	if withReverse {
		if hits, ok := world.Trace(reverse); ok {
			t.reverseHits = append(t.reverseHits, uniqueBlocking(hits)...)
		}
	}
}

// onAsyncTraceComplete merges one async result into the pass. The completion
// that leaves no handle outstanding on any entry reconciles the pass.
func (t *TraceCollision) onAsyncTraceComplete(data engine.TraceDatum) {
	if t.destroyed || !t.inFlight || !data.Handle.IsValid() {
		return
	}

	matched := false
	for _, h := range t.allHandles() {
		switch data.Handle {
		case h.Forward:
			h.Forward = 0
			t.forwardHits = append(t.forwardHits, uniqueBlocking(data.Hits)...)
			matched = true
		case h.Reverse:
			h.Reverse = 0
			t.reverseHits = append(t.reverseHits, uniqueBlocking(data.Hits)...)
			matched = true
		}
		if matched {
			break
		}
	}
	if !matched {
		return
	}

	if t.anyOutstanding() {
		return
	}
	t.inFlight = false
	t.reconcile()
}

func (t *TraceCollision) allHandles() []*traceHandles {
	result := make([]*traceHandles, 0, len(t.points)+len(t.shapes))
	for _, p := range t.points {
		result = append(result, &p.handles)
	}
	for _, s := range t.shapes {
		result = append(result, &s.handles)
	}
	return result
}

func (t *TraceCollision) anyOutstanding() bool {
	for _, p := range t.points {
		if p.handles.outstanding() {
			return true
		}
	}
	for _, s := range t.shapes {
		if s.handles.outstanding() {
			return true
		}
	}
	return false
}

// reconcile applies the pass's hits to the overlap set and broadcasts the
// resulting transitions.
func (t *TraceCollision) reconcile() {
	for _, h := range t.overlaps.applyForward(t.forwardHits) {
		t.broadcastBegin(h)
	}
	if !t.config.GenerateEndOverlap {
		t.overlaps.clear()
		return
	}
	for _, h := range t.overlaps.applyReverse(t.reverseHits) {
		t.broadcastEnd(h)
	}
	// Despawned targets cannot be traced out of; end them without mirroring
	for _, h := range t.overlaps.removeDeparted() {
		t.OnEndOverlap.Invoke(t.endEvent(h))
	}
}

func (t *TraceCollision) broadcastBegin(hit engine.HitResult) {
	t.OnBeginOverlap.Invoke(engine.BeginOverlapEvent{
		Self:           t,
		Other:          hit.GameObject,
		OtherComponent: hit.Component,
		OtherItem:      hit.Item,
		FromSweep:      true,
		Hit:            hit,
	})

	events := targetEvents(hit)
	if events == nil {
		return
	}
	mirrored := engine.BeginOverlapEvent{
		Self:           hit.Component,
		Other:          t.GetGameObject(),
		OtherComponent: t,
		OtherItem:      -1,
		FromSweep:      true,
		Hit:            hit,
	}
	events.OnBeginOverlap.Invoke(mirrored)
	if hit.GameObject != nil {
		for _, h := range engine.GetComponents[engine.OverlapHandler](hit.GameObject) {
			h.OnBeginOverlap(mirrored)
		}
	}
}

func (t *TraceCollision) endEvent(hit engine.HitResult) engine.EndOverlapEvent {
	return engine.EndOverlapEvent{
		Self:           t,
		Other:          hit.GameObject,
		OtherComponent: hit.Component,
		OtherItem:      hit.Item,
	}
}

func (t *TraceCollision) broadcastEnd(hit engine.HitResult) {
	t.OnEndOverlap.Invoke(t.endEvent(hit))

	events := targetEvents(hit)
	if events == nil {
		return
	}
	mirrored := engine.EndOverlapEvent{
		Self:           hit.Component,
		Other:          t.GetGameObject(),
		OtherComponent: t,
		OtherItem:      -1,
	}
	events.OnEndOverlap.Invoke(mirrored)
	if hit.GameObject != nil {
		for _, h := range engine.GetComponents[engine.OverlapHandler](hit.GameObject) {
			h.OnEndOverlap(mirrored)
		}
	}
}

// targetEvents returns the hit component's overlap events if it opted in
func targetEvents(hit engine.HitResult) *engine.OverlapEvents {
	n, ok := hit.Component.(engine.OverlapNotifier)
	if !ok {
		return nil
	}
	events := n.Overlaps()
	if events == nil || !events.GenerateOverlapEvents {
		return nil
	}
	return events
}
