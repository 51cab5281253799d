package components

import (
	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollisionSettings decide what a collider reports itself as and how it
// answers each trace channel.
type CollisionSettings struct {
	Enabled      bool
	ObjectType   engine.CollisionChannel
	Responses    engine.ResponseContainer
	PhysMaterial string
}

// DefaultCollisionSettings is a WorldStatic collider that blocks everything
func DefaultCollisionSettings() CollisionSettings {
	return CollisionSettings{
		Enabled:    true,
		ObjectType: engine.ChannelWorldStatic,
		Responses:  engine.NewResponseContainer(engine.ResponseBlock),
	}
}

// Collider is implemented by every collider component so the physics world
// can treat them uniformly.
type Collider interface {
	engine.Component
	engine.OverlapNotifier
	Collision() *CollisionSettings
}

// ColliderBase is embedded by collider components
type ColliderBase struct {
	engine.BaseComponent
	engine.OverlapEvents
	Settings CollisionSettings
}

func (c *ColliderBase) Collision() *CollisionSettings {
	return &c.Settings
}

// worldOffset rotates and scales a local offset into world space around g
func worldOffset(g *engine.GameObject, offset rl.Vector3) rl.Vector3 {
	return g.TransformPoint(offset)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// maxScale is the largest absolute world scale component, used by round shapes
func maxScale(g *engine.GameObject) float32 {
	s := g.WorldScale()
	m := absf(s.X)
	if y := absf(s.Y); y > m {
		m = y
	}
	if z := absf(s.Z); z > m {
		m = z
	}
	return m
}
