package components

import (
	"math"

	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Animator moves its object around StartPosition on a horizontal orbit and
// swings it back and forth around the Y axis.
type Animator struct {
	engine.BaseComponent
	StartPosition  rl.Vector3
	MovementRadius float32
	MovementSpeed  float32
	Bob            float32 // vertical amplitude
	SwingArc       float32 // degrees either side of BaseYaw
	SwingSpeed     float32
	BaseYaw        float32
	Phase          float32
	time           float32
}

func NewAnimator(startPos rl.Vector3, moveRadius, moveSpeed, phase float32) *Animator {
	return &Animator{
		StartPosition:  startPos,
		MovementRadius: moveRadius,
		MovementSpeed:  moveSpeed,
		Phase:          phase,
	}
}

// NewSwingAnimator keeps the object in place and only swings it
func NewSwingAnimator(startPos rl.Vector3, baseYaw, arc, speed float32) *Animator {
	return &Animator{
		StartPosition: startPos,
		BaseYaw:       baseYaw,
		SwingArc:      arc,
		SwingSpeed:    speed,
	}
}

func (a *Animator) Start() {
	if g := a.GetGameObject(); g != nil {
		g.Transform.Position = a.StartPosition
	}
}

func (a *Animator) Update(deltaTime float32) {
	g := a.GetGameObject()
	if g == nil {
		return
	}

	a.time += deltaTime

	t := a.time*a.MovementSpeed + a.Phase
	offset := rl.Vector3{
		X: float32(math.Cos(float64(t))) * a.MovementRadius,
		Y: float32(math.Sin(float64(t*2))) * a.Bob,
		Z: float32(math.Sin(float64(t))) * a.MovementRadius,
	}
	g.Transform.Position = rl.Vector3Add(a.StartPosition, offset)

	if a.SwingArc != 0 {
		s := float32(math.Sin(float64(a.time*a.SwingSpeed + a.Phase)))
		g.Transform.Rotation.Y = a.BaseYaw + s*a.SwingArc
	}
}

// Elapsed returns the animation time
func (a *Animator) Elapsed() float32 {
	return a.time
}
