package world

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"tracesweep/internal/components"
	"tracesweep/internal/engine"
	"tracesweep/internal/physics"
	"tracesweep/internal/tracing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ProfileWeapon is what the demo sword traces with: it hits anything that
// moves and ignores static geometry and trace-only channels.
const ProfileWeapon = "Weapon"

const (
	TagTarget = "Target"
	TagWeapon = "Weapon"
)

const (
	BladeLength  float32 = 3
	TargetRing   float32 = 2.2
	HammerReach  float32 = 2.5
	swordHeight  float32 = 1
	hammerHeight float32 = 0.4
)

type DemoOptions struct {
	Targets            int
	Execution          tracing.Execution
	TracesPerSecond    float32
	GenerateEndOverlap bool
	Seed               int64
}

func DefaultDemoOptions() DemoOptions {
	return DemoOptions{
		Targets:            12,
		Execution:          tracing.ExecutionAsync,
		TracesPerSecond:    30,
		GenerateEndOverlap: true,
		Seed:               1,
	}
}

// Demo is a sword and a hammer swinging through a ring of moving targets
type Demo struct {
	World       *World
	Sword       *engine.GameObject
	SwordTrace  *tracing.TraceCollision
	Hammer      *engine.GameObject
	HammerTrace *tracing.TraceCollision
	Ramp        *engine.GameObject
	Targets     []*engine.GameObject

	Begins int
	Ends   int
}

// HitCounter sits on demo targets and counts the overlap events mirrored to it
type HitCounter struct {
	engine.BaseComponent
	Hits        int
	Overlapping int
}

func (h *HitCounter) OnBeginOverlap(e engine.BeginOverlapEvent) {
	h.Hits++
	h.Overlapping++
}

func (h *HitCounter) OnEndOverlap(e engine.EndOverlapEvent) {
	if h.Overlapping > 0 {
		h.Overlapping--
	}
}

func registerWeaponProfile() {
	if _, ok := physics.GetProfile(ProfileWeapon); ok {
		return
	}
	responses := engine.NewResponseContainer(engine.ResponseIgnore)
	responses.Set(engine.ChannelWorldDynamic, engine.ResponseBlock)
	responses.Set(engine.ChannelPhysicsBody, engine.ResponseBlock)
	responses.Set(engine.ChannelPawn, engine.ResponseBlock)
	physics.RegisterProfile(physics.CollisionProfile{
		Name:       ProfileWeapon,
		ObjectType: engine.ChannelWorldDynamic,
		Responses:  responses,
	})
}

// BuildDemo creates and starts a demo world
func BuildDemo(opts DemoOptions) (*Demo, error) {
	if opts.Targets < 0 {
		return nil, fmt.Errorf("build demo: negative target count %d", opts.Targets)
	}
	if opts.TracesPerSecond < 0 {
		return nil, fmt.Errorf("build demo: negative trace rate %.2f", opts.TracesPerSecond)
	}
	registerWeaponProfile()

	d := &Demo{World: New()}
	rng := rand.New(rand.NewSource(opts.Seed))

	for i := 0; i < opts.Targets; i++ {
		target := newTarget(i, opts.Targets, rng)
		if err := d.World.Spawn(target); err != nil {
			return nil, fmt.Errorf("build demo: %w", err)
		}
		d.Targets = append(d.Targets, target)
	}

	d.Ramp = engine.NewGameObject("Ramp")
	ramp := components.NewMeshCollider()
	d.Ramp.AddComponent(ramp)
	ramp.BuildFromTriangles(rampTriangles())
	if !ramp.IsBuilt() {
		return nil, fmt.Errorf("build demo: ramp mesh has no triangles")
	}
	if err := d.World.Spawn(d.Ramp); err != nil {
		return nil, fmt.Errorf("build demo: %w", err)
	}

	d.Sword, d.SwordTrace = newSword(opts)
	if err := d.World.Spawn(d.Sword); err != nil {
		return nil, fmt.Errorf("build demo: %w", err)
	}
	d.Hammer, d.HammerTrace = newHammer(opts)
	if err := d.World.Spawn(d.Hammer); err != nil {
		return nil, fmt.Errorf("build demo: %w", err)
	}

	for _, t := range []*tracing.TraceCollision{d.SwordTrace, d.HammerTrace} {
		t.OnBeginOverlap.AddListener(func(engine.BeginOverlapEvent) { d.Begins++ })
		t.OnEndOverlap.AddListener(func(engine.EndOverlapEvent) { d.Ends++ })
	}

	d.World.Start()
	return d, nil
}

// newTarget places target i of n on the ring. Targets cycle through box,
// sphere and capsule colliders and drift on small orbits.
func newTarget(i, n int, rng *rand.Rand) *engine.GameObject {
	angle := float32(i) * (2 * math.Pi / float32(n))
	pos := rl.Vector3{
		X: float32(math.Cos(float64(angle))) * TargetRing,
		Y: swordHeight,
		Z: float32(math.Sin(float64(angle))) * TargetRing,
	}

	var collider components.Collider
	var name string
	switch i % 3 {
	case 0:
		box := components.NewBoxCollider(rl.Vector3{X: 0.5, Y: 1.2, Z: 0.5})
		box.Settings.ObjectType = engine.ChannelWorldDynamic
		collider, name = box, "Box"
	case 1:
		sphere := components.NewSphereCollider(0.3)
		sphere.Settings.ObjectType = engine.ChannelPhysicsBody
		sphere.Settings.PhysMaterial = "Rubber"
		collider, name = sphere, "Ball"
	default:
		capsule := components.NewCapsuleCollider(0.25, 0.5)
		capsule.Settings.ObjectType = engine.ChannelPawn
		collider, name = capsule, "Dummy"
	}
	collider.Overlaps().GenerateOverlapEvents = true

	g := engine.NewGameObject(fmt.Sprintf("%s_%d", name, i))
	g.Tags = []string{TagTarget}
	g.Transform.Position = pos
	g.AddComponent(collider)
	g.AddComponent(&HitCounter{})

	animator := components.NewAnimator(pos, 0.2+rng.Float32()*0.3, 0.3+rng.Float32()*0.5, rng.Float32()*2*math.Pi)
	animator.Bob = 0.2
	g.AddComponent(animator)
	return g
}

// rampTriangles is a sloped quad under the hammer's swing
func rampTriangles() []components.Triangle {
	a := rl.Vector3{X: -4, Y: 0, Z: -4}
	b := rl.Vector3{X: 4, Y: 0, Z: -4}
	c := rl.Vector3{X: 4, Y: 0.6, Z: 4}
	d := rl.Vector3{X: -4, Y: 0.6, Z: 4}
	return []components.Triangle{
		components.NewTriangle(a, d, c),
		components.NewTriangle(a, c, b),
	}
}

// newSword builds a blade along the local X axis with three tip children and
// a socket at its point, traced with lines.
func newSword(opts DemoOptions) (*engine.GameObject, *tracing.TraceCollision) {
	sword := engine.NewGameObject("Sword")
	sword.Tags = []string{TagWeapon}
	start := rl.Vector3{Y: swordHeight}
	sword.Transform.Position = start

	blade := components.NewBoxCollider(rl.Vector3{X: BladeLength, Y: 0.1, Z: 0.3})
	blade.Offset = rl.Vector3{X: BladeLength / 2}
	blade.Settings.ObjectType = engine.ChannelWorldDynamic
	sword.AddComponent(blade)

	sockets := components.NewSkeletalMesh()
	sockets.SetSocket("guard", rl.Vector3{X: 0.3})
	sockets.SetSocket("tip", rl.Vector3{X: BladeLength + 0.2})
	sword.AddComponent(sockets)

	sword.AddComponent(components.NewSwingAnimator(start, 0, 120, 3))

	for i := 1; i <= 3; i++ {
		tip := engine.NewGameObject(fmt.Sprintf("SwordTip_%d", i))
		tip.Transform.Position = rl.Vector3{X: BladeLength * float32(i) / 3}
		sword.AddChild(tip)
	}

	config := tracing.DefaultConfig()
	config.Execution = opts.Execution
	config.TracesPerSecond = opts.TracesPerSecond
	config.GenerateEndOverlap = opts.GenerateEndOverlap
	config.Channel = engine.Profile(ProfileWeapon)
	config.Points = []tracing.PointSpec{{Socket: "guard"}, {Socket: "tip"}}
	config.Params.ReturnPhysicalMaterial = true

	trace := tracing.NewTraceCollision(config)
	sword.AddComponent(trace)
	return sword, trace
}

// newHammer sweeps a sphere head around the ring, against static geometry
// and physics bodies.
func newHammer(opts DemoOptions) (*engine.GameObject, *tracing.TraceCollision) {
	hammer := engine.NewGameObject("Hammer")
	hammer.Tags = []string{TagWeapon}
	start := rl.Vector3{Y: hammerHeight}
	hammer.Transform.Position = start
	hammer.AddComponent(components.NewSwingAnimator(start, 180, 90, 2))

	config := tracing.DefaultConfig()
	config.Execution = opts.Execution
	config.Style = tracing.StyleSweep
	config.TraceType = engine.TraceMulti
	config.TracesPerSecond = opts.TracesPerSecond
	config.GenerateEndOverlap = opts.GenerateEndOverlap
	config.Channel = engine.ObjectChannels(engine.ChannelWorldStatic, engine.ChannelPhysicsBody)
	config.Params.TraceComplex = true
	config.Params.ReturnFaceIndex = true
	config.Shapes = []tracing.ShapeSpec{{
		Shape:  engine.MakeSphere(0.4),
		Offset: engine.Offset{Position: rl.Vector3{X: HammerReach}, Rotation: rl.QuaternionIdentity()},
	}}

	trace := tracing.NewTraceCollision(config)
	hammer.AddComponent(trace)
	return hammer, trace
}

// Step advances the demo by one frame
func (d *Demo) Step(ctx context.Context, deltaTime float32) error {
	return d.World.Update(ctx, deltaTime)
}

// Hits returns the total mirrored begin count over the targets still in the world
func (d *Demo) Hits() int {
	total := 0
	for _, g := range d.World.Scene.FindByTag(TagTarget) {
		if h := engine.GetComponent[*HitCounter](g); h != nil {
			total += h.Hits
		}
	}
	return total
}

// Overlapping returns every target some weapon currently overlaps
func (d *Demo) Overlapping() []*engine.GameObject {
	var result []*engine.GameObject
	for _, g := range d.World.Scene.FindByTag(TagTarget) {
		if h := engine.GetComponent[*HitCounter](g); h != nil && h.Overlapping > 0 {
			result = append(result, g)
		}
	}
	return result
}
