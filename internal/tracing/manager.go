package tracing

import (
	"log"

	"tracesweep/internal/engine"
)

type managedTracer struct {
	tracer  *TraceCollision
	elapsed float32
}

// Manager drives the sampling rate of every TraceCollision in a scene. Put
// one on a GameObject in the scene; tracers find it when they start.
type Manager struct {
	engine.BaseComponent
	tracers []*managedTracer
}

func NewManager() *Manager {
	return &Manager{}
}

// Register adds t to the update list. Registering twice does nothing.
func (m *Manager) Register(t *TraceCollision) {
	if t == nil || m.find(t) >= 0 {
		return
	}
	m.tracers = append(m.tracers, &managedTracer{tracer: t})
	t.manager = m
	log.Printf("Trace: registered %s (%d tracers)", tracerName(t), len(m.tracers))
}

func (m *Manager) Unregister(t *TraceCollision) {
	i := m.find(t)
	if i < 0 {
		return
	}
	m.tracers = append(m.tracers[:i], m.tracers[i+1:]...)
	if t.manager == m {
		t.manager = nil
	}
	log.Printf("Trace: unregistered %s (%d tracers)", tracerName(t), len(m.tracers))
}

// OnDestroy detaches every registered tracer; they stop being ticked
func (m *Manager) OnDestroy() {
	for _, e := range m.tracers {
		if e.tracer.manager == m {
			e.tracer.manager = nil
		}
	}
	m.tracers = nil
}

func (m *Manager) Count() int {
	return len(m.tracers)
}

// Tracers returns the registered tracers in registration order
func (m *Manager) Tracers() []*TraceCollision {
	result := make([]*TraceCollision, len(m.tracers))
	for i, e := range m.tracers {
		result[i] = e.tracer
	}
	return result
}

// Elapsed returns the time accumulated towards t's next pass
func (m *Manager) Elapsed(t *TraceCollision) float32 {
	if i := m.find(t); i >= 0 {
		return m.tracers[i].elapsed
	}
	return 0
}

func (m *Manager) Update(deltaTime float32) {
	m.advance(deltaTime)
}

// advance accumulates time for every enabled tracer and triggers a pass on
// each one whose interval has elapsed. A tracer with a pass still in flight
// skips the trigger.
func (m *Manager) advance(deltaTime float32) {
	// Passes can unregister tracers through overlap listeners
	snapshot := append([]*managedTracer(nil), m.tracers...)
	for _, e := range snapshot {
		t := e.tracer
		if !t.IsEnabled() {
			continue
		}
		e.elapsed += deltaTime
		if e.elapsed >= t.Interval() {
			e.elapsed = 0
			t.externalTick()
		}
	}
}

func (m *Manager) resetElapsed(t *TraceCollision) {
	if i := m.find(t); i >= 0 {
		m.tracers[i].elapsed = 0
	}
}

func (m *Manager) find(t *TraceCollision) int {
	for i, e := range m.tracers {
		if e.tracer == t {
			return i
		}
	}
	return -1
}

func tracerName(t *TraceCollision) string {
	if g := t.GetGameObject(); g != nil {
		return g.Name
	}
	return "<detached>"
}
