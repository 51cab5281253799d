package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

type BoxCollider struct {
	ColliderBase
	Size   rl.Vector3
	Offset rl.Vector3
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		ColliderBase: ColliderBase{Settings: DefaultCollisionSettings()},
		Size:         size,
		Offset:       rl.Vector3{},
	}
}

// GetCenter returns the world-space center of this collider
func (b *BoxCollider) GetCenter() rl.Vector3 {
	return worldOffset(b.GetGameObject(), b.Offset)
}

// GetWorldSize returns the full size scaled by the object's world scale,
// always positive.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	scale := b.GetGameObject().WorldScale()
	return rl.Vector3{
		X: absf(b.Size.X * scale.X),
		Y: absf(b.Size.Y * scale.Y),
		Z: absf(b.Size.Z * scale.Z),
	}
}

// GetRotation returns the world rotation of the box
func (b *BoxCollider) GetRotation() rl.Quaternion {
	return b.GetGameObject().WorldQuaternion()
}
