package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// CapsuleCollider is a capsule standing along the object's local Y axis.
// HalfHeight is measured from the center to the center of each cap.
type CapsuleCollider struct {
	ColliderBase
	Radius     float32
	HalfHeight float32
	Offset     rl.Vector3
}

func NewCapsuleCollider(radius, halfHeight float32) *CapsuleCollider {
	return &CapsuleCollider{
		ColliderBase: ColliderBase{Settings: DefaultCollisionSettings()},
		Radius:       radius,
		HalfHeight:   halfHeight,
	}
}

// GetCenter returns the world-space center of this collider
func (c *CapsuleCollider) GetCenter() rl.Vector3 {
	return worldOffset(c.GetGameObject(), c.Offset)
}

// GetSegment returns the world-space centers of the two caps
func (c *CapsuleCollider) GetSegment() (a, b rl.Vector3) {
	center := c.GetCenter()
	up := rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, c.GetGameObject().WorldQuaternion())
	half := rl.Vector3Scale(up, c.HalfHeight*absf(c.GetGameObject().WorldScale().Y))
	return rl.Vector3Subtract(center, half), rl.Vector3Add(center, half)
}

func (c *CapsuleCollider) GetWorldRadius() float32 {
	return c.Radius * maxScale(c.GetGameObject())
}
