package tracing

import (
	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// traceHandles are the outstanding async queries of one tracked entry
type traceHandles struct {
	Forward engine.TraceHandle
	Reverse engine.TraceHandle
}

func (h traceHandles) outstanding() bool {
	return h.Forward.IsValid() || h.Reverse.IsValid()
}

// TrackedPoint follows a GameObject, or a socket on the owner, with line traces
type TrackedPoint struct {
	Target   engine.GameObjectRef
	Socket   string
	Current  rl.Vector3
	Previous rl.Vector3
	handles  traceHandles
}

// resolve finds the point's world position. The follow target is tried
// first, then the socket on any of the owner's socket providers.
func (p *TrackedPoint) resolve(owner *engine.GameObject) (rl.Vector3, bool) {
	if owner == nil {
		return rl.Vector3{}, false
	}
	if target := p.Target.Get(owner.Scene); target != nil {
		return target.WorldPosition(), true
	}
	if p.Socket == "" {
		return rl.Vector3{}, false
	}
	for _, sp := range engine.GetComponents[engine.SocketProvider](owner) {
		if pos, ok := sp.SocketLocation(p.Socket); ok {
			return pos, true
		}
	}
	return rl.Vector3{}, false
}

// TrackedShape is a primitive carried by the owner and swept between passes
type TrackedShape struct {
	Shape            engine.CollisionShape
	Offset           engine.Offset
	Previous         rl.Vector3
	PreviousRotation rl.Quaternion
	handles          traceHandles
}

// resolve composes the owner's world transform with the shape offset
func (s *TrackedShape) resolve(owner *engine.GameObject) (rl.Vector3, rl.Quaternion) {
	rotation := rl.QuaternionMultiply(owner.WorldQuaternion(), offsetRotation(s.Offset))
	return owner.TransformPoint(s.Offset.Position), rotation
}

func offsetRotation(o engine.Offset) rl.Quaternion {
	if o.Rotation == (rl.Quaternion{}) {
		return rl.QuaternionIdentity()
	}
	return o.Rotation
}
