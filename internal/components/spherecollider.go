package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

type SphereCollider struct {
	ColliderBase
	Radius float32
	Offset rl.Vector3
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{
		ColliderBase: ColliderBase{Settings: DefaultCollisionSettings()},
		Radius:       radius,
		Offset:       rl.Vector3{},
	}
}

// GetCenter returns the world-space center of this collider
func (s *SphereCollider) GetCenter() rl.Vector3 {
	return worldOffset(s.GetGameObject(), s.Offset)
}

// GetWorldRadius scales the radius by the largest world scale axis
func (s *SphereCollider) GetWorldRadius() float32 {
	return s.Radius * maxScale(s.GetGameObject())
}
