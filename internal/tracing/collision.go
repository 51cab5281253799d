package tracing

import (
	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TraceCollision detects overlaps of a fast moving object by tracing between
// the positions its tracked points and shapes had at consecutive passes.
//
// Forward traces (previous to current) begin overlaps; reverse traces
// (current to previous) end them. Each overlap is counted once per tracked
// entry holding it, so a begin and an end are broadcast exactly once per
// state change no matter how many entries touch the same thing.
type TraceCollision struct {
	engine.BaseComponent
	OnBeginOverlap engine.EventWithArg[engine.BeginOverlapEvent]
	OnEndOverlap   engine.EventWithArg[engine.EndOverlapEvent]

	config   Config
	enabled  bool
	interval float32
	points   []*TrackedPoint
	shapes   []*TrackedShape

	forwardHits []engine.HitResult
	reverseHits []engine.HitResult
	overlaps    overlapSet

	inFlight  bool
	passes    int
	manager   *Manager
	destroyed bool
}

func NewTraceCollision(config Config) *TraceCollision {
	t := &TraceCollision{config: config}
	t.SetTracesPerSecond(config.TracesPerSecond)
	return t
}

// Start tracks every descendant of the owner plus the configured points and
// shapes, then registers with the scene's Manager.
func (t *TraceCollision) Start() {
	owner := t.GetGameObject()
	if owner == nil {
		return
	}

	for _, child := range owner.Descendants() {
		t.AddFollowTarget(child)
	}
	for _, p := range t.config.Points {
		if p.Target.IsValid() {
			t.addPoint(p.Target, p.Socket)
		} else if p.Socket != "" {
			t.AddSocket(p.Socket)
		}
	}
	for _, s := range t.config.Shapes {
		t.AddShape(s.Shape, s.Offset)
	}
	t.SetTracesPerSecond(t.config.TracesPerSecond)

	if owner.Scene != nil {
		if m := engine.FindComponent[*Manager](owner.Scene); m != nil {
			m.Register(t)
		}
	}

	t.SetEnabled(t.config.StartEnabled)
}

// OnDestroy unregisters from the manager. Late async completions are dropped
// and no end events are broadcast for what was still overlapping.
func (t *TraceCollision) OnDestroy() {
	if t.manager != nil {
		t.manager.Unregister(t)
	}
	t.destroyed = true
	t.enabled = false
	t.inFlight = false
	t.overlaps.clear()
}

// AddFollowTarget starts tracking g's position. Adding the same object twice
// does nothing.
func (t *TraceCollision) AddFollowTarget(g *engine.GameObject) bool {
	if g == nil {
		return false
	}
	return t.addPoint(engine.RefTo(g), "")
}

func (t *TraceCollision) AddFollowTargets(gs []*engine.GameObject) {
	for _, g := range gs {
		t.AddFollowTarget(g)
	}
}

// AddSocket tracks a named socket on one of the owner's components
func (t *TraceCollision) AddSocket(name string) bool {
	if name == "" {
		return false
	}
	for _, p := range t.points {
		if !p.Target.IsValid() && p.Socket == name {
			return false
		}
	}
	return t.addPoint(engine.GameObjectRef{}, name)
}

func (t *TraceCollision) addPoint(target engine.GameObjectRef, socket string) bool {
	if target.IsValid() {
		for _, p := range t.points {
			if p.Target.UID == target.UID {
				return false
			}
		}
	}
	p := &TrackedPoint{Target: target, Socket: socket}
	if pos, ok := p.resolve(t.GetGameObject()); ok {
		p.Current = pos
		p.Previous = pos
	}
	t.points = append(t.points, p)
	return true
}

// AddShape tracks a primitive placed at offset from the owner
func (t *TraceCollision) AddShape(shape engine.CollisionShape, offset engine.Offset) *TrackedShape {
	s := &TrackedShape{
		Shape:            shape,
		Offset:           offset,
		PreviousRotation: rl.QuaternionIdentity(),
	}
	if owner := t.GetGameObject(); owner != nil {
		s.Previous, s.PreviousRotation = s.resolve(owner)
	}
	t.shapes = append(t.shapes, s)
	return s
}

func (t *TraceCollision) Points() []*TrackedPoint {
	return t.points
}

func (t *TraceCollision) Shapes() []*TrackedShape {
	return t.shapes
}

// SetEnabled turns sampling on or off. Turning it on restarts the rate
// accumulator and moves every entry's previous position to where it is now,
// so the first pass does not sweep across the distance moved while disabled.
func (t *TraceCollision) SetEnabled(enabled bool) {
	was := t.enabled
	t.enabled = enabled && !t.destroyed
	if !t.enabled || was {
		return
	}
	if t.manager != nil {
		t.manager.resetElapsed(t)
	}
	t.rebaseline()
}

func (t *TraceCollision) IsEnabled() bool {
	return t.enabled
}

func (t *TraceCollision) rebaseline() {
	owner := t.GetGameObject()
	if owner == nil {
		return
	}
	for _, p := range t.points {
		if pos, ok := p.resolve(owner); ok {
			p.Current = pos
			p.Previous = pos
		}
	}
	for _, s := range t.shapes {
		s.Previous, s.PreviousRotation = s.resolve(owner)
	}
}

// SetTracesPerSecond sets the sampling rate. Negative rates are clamped to
// zero, which samples on every manager update.
func (t *TraceCollision) SetTracesPerSecond(rate float32) {
	if rate < 0 {
		rate = 0
	}
	t.config.TracesPerSecond = rate
	if rate > 0 {
		t.interval = 1 / rate
	} else {
		t.interval = 0
	}
}

// Interval is the time between passes in seconds
func (t *TraceCollision) Interval() float32 {
	return t.interval
}

func (t *TraceCollision) Config() Config {
	return t.config
}

// SetConfig replaces the configuration. It is refused while an async pass
// is in flight.
func (t *TraceCollision) SetConfig(c Config) bool {
	if t.inFlight {
		return false
	}
	t.config = c
	t.SetTracesPerSecond(c.TracesPerSecond)
	return true
}

// InFlight reports whether an async pass is waiting for results
func (t *TraceCollision) InFlight() bool {
	return t.inFlight
}

// Passes returns the number of passes started
func (t *TraceCollision) Passes() int {
	return t.passes
}

// OverlapCount returns how many tracked entries currently hold the overlap
func (t *TraceCollision) OverlapCount(k engine.HitKey) int {
	return t.overlaps.count(k)
}

// Overlapping returns the current overlaps in the order they began
func (t *TraceCollision) Overlapping() []engine.HitResult {
	result := make([]engine.HitResult, 0, t.overlaps.len())
	for _, e := range t.overlaps.entries {
		result = append(result, e.hit)
	}
	return result
}

// externalTick is called by the Manager when the interval has elapsed
func (t *TraceCollision) externalTick() {
	if !t.enabled || t.inFlight {
		return
	}
	t.DoCollisionTest()
}
