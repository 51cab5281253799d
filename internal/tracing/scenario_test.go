package tracing

import (
	"context"
	"testing"

	"tracesweep/internal/components"
	"tracesweep/internal/engine"
	"tracesweep/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// physicsRig is a scene with a real PhysicsWorld, a solid box spanning
// z=50..150 and a blade whose tip is tracked.
type physicsRig struct {
	scene  *engine.Scene
	world  *physics.PhysicsWorld
	box    *engine.GameObject
	blade  *engine.GameObject
	tracer *TraceCollision
	begins []engine.BeginOverlapEvent
	ends   []engine.EndOverlapEvent
}

func newPhysicsRig(config Config, tips ...rl.Vector3) *physicsRig {
	r := &physicsRig{
		scene: engine.NewScene("Scenario"),
		world: physics.NewPhysicsWorld(),
	}
	r.scene.World = r.world

	r.box = engine.NewGameObject("Box")
	r.box.Transform.Position = rl.Vector3{Z: 100}
	r.box.AddComponent(components.NewBoxCollider(rl.Vector3{X: 20, Y: 20, Z: 100}))
	r.scene.AddGameObject(r.box)

	managerObj := engine.NewGameObject("TraceManager")
	managerObj.AddComponent(NewManager())
	r.scene.AddGameObject(managerObj)

	r.blade = engine.NewGameObject("Blade")
	r.blade.AddComponent(components.NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))
	r.tracer = NewTraceCollision(config)
	r.blade.AddComponent(r.tracer)
	r.scene.AddGameObject(r.blade)

	for _, pos := range tips {
		tip := engine.NewGameObject("Tip")
		tip.Transform.Position = pos
		r.blade.AddChild(tip)
		r.scene.AddGameObject(tip)
	}

	r.tracer.OnBeginOverlap.AddListener(func(e engine.BeginOverlapEvent) {
		r.begins = append(r.begins, e)
	})
	r.tracer.OnEndOverlap.AddListener(func(e engine.EndOverlapEvent) {
		r.ends = append(r.ends, e)
	})

	r.world.AddScene(r.scene)
	r.scene.Start()
	return r
}

// pass moves the blade to z and runs one pass to completion
func (r *physicsRig) pass(t *testing.T, z float32) {
	t.Helper()
	r.blade.Transform.Position.Z = z
	if !r.tracer.DoCollisionTest() {
		t.Fatal("Pass did nothing")
	}
	if err := r.world.DispatchAsyncTraces(context.Background()); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if r.tracer.InFlight() {
		t.Fatal("Pass still in flight after dispatch")
	}
}

func scenarioConfigs() map[string]Config {
	sync := DefaultConfig()
	sync.Execution = ExecutionSync
	sync.TracesPerSecond = 0
	async := DefaultConfig()
	async.TracesPerSecond = 0
	return map[string]Config{"Sync": sync, "Async": async}
}

func TestEnterAndLeaveSolidBox(t *testing.T) {
	for name, config := range scenarioConfigs() {
		t.Run(name, func(t *testing.T) {
			r := newPhysicsRig(config, rl.Vector3{})

			r.pass(t, 100)
			if len(r.begins) != 1 {
				t.Fatalf("Expected 1 begin entering the box, got %d", len(r.begins))
			}
			hit := r.begins[0].Hit
			if r.begins[0].Other != r.box {
				t.Errorf("Expected the box, got %v", r.begins[0].Other)
			}
			if !near(hit.Distance, 50) || !near(hit.Point.Z, 50) {
				t.Errorf("Expected hit at z=50, got distance %f point %v", hit.Distance, hit.Point)
			}
			if len(r.ends) != 0 {
				t.Errorf("Starting inside must not end the overlap, got %d ends", len(r.ends))
			}

			// Moving around inside keeps the overlap without new events
			r.pass(t, 120)
			if len(r.begins) != 1 || len(r.ends) != 0 {
				t.Errorf("Expected no events inside, got %d begins and %d ends", len(r.begins), len(r.ends))
			}

			r.pass(t, 200)
			if len(r.ends) != 1 {
				t.Fatalf("Expected 1 end leaving the box, got %d", len(r.ends))
			}
			if r.ends[0].Other != r.box {
				t.Error("End should name the box")
			}
			if len(r.tracer.Overlapping()) != 0 {
				t.Error("Expected no overlaps after leaving")
			}
		})
	}
}

func TestFastBladePassesThroughInOnePass(t *testing.T) {
	for name, config := range scenarioConfigs() {
		t.Run(name, func(t *testing.T) {
			r := newPhysicsRig(config, rl.Vector3{})

			r.pass(t, 400)

			if len(r.begins) != 1 || len(r.ends) != 1 {
				t.Fatalf("Expected a begin and an end, got %d and %d", len(r.begins), len(r.ends))
			}
			if len(r.tracer.Overlapping()) != 0 {
				t.Error("Expected nothing left overlapping")
			}
		})
	}
}

func TestSeveralTipsCountOneOverlap(t *testing.T) {
	config := DefaultConfig()
	config.Execution = ExecutionSync
	r := newPhysicsRig(config, rl.Vector3{X: -1}, rl.Vector3{}, rl.Vector3{X: 1})

	r.pass(t, 100)

	box := engine.GetComponent[*components.BoxCollider](r.box)
	key := engine.HitKey{GameObject: r.box, Component: box}
	if len(r.begins) != 1 {
		t.Errorf("Expected 1 begin, got %d", len(r.begins))
	}
	if r.tracer.OverlapCount(key) != 3 {
		t.Errorf("Expected count 3, got %d", r.tracer.OverlapCount(key))
	}

	r.pass(t, 200)
	if len(r.ends) != 1 {
		t.Errorf("Expected 1 end, got %d", len(r.ends))
	}
	if r.tracer.OverlapCount(key) != 0 {
		t.Errorf("Expected count 0, got %d", r.tracer.OverlapCount(key))
	}
}

func TestBladeIgnoresItsOwnCollider(t *testing.T) {
	config := DefaultConfig()
	config.Execution = ExecutionSync
	r := newPhysicsRig(config, rl.Vector3{Z: 5})

	// The tip sweeps through the box the blade carries
	r.pass(t, 10)

	if len(r.begins) != 0 {
		t.Errorf("Expected no begins from the owner, got %d", len(r.begins))
	}
}

func TestManagerDrivesAsyncPasses(t *testing.T) {
	config := DefaultConfig()
	config.TracesPerSecond = 0
	r := newPhysicsRig(config, rl.Vector3{})
	manager := engine.FindComponent[*Manager](r.scene)

	r.blade.Transform.Position.Z = 100
	r.scene.Update(0.016)
	if !r.tracer.InFlight() {
		t.Fatal("Expected the manager to start an async pass")
	}
	if r.world.PendingTraces() != 2 {
		t.Errorf("Expected 2 pending traces, got %d", r.world.PendingTraces())
	}

	r.scene.Update(0.016)
	if r.world.PendingTraces() != 2 {
		t.Errorf("Second update should not issue while in flight, got %d pending", r.world.PendingTraces())
	}

	if err := r.world.DispatchAsyncTraces(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(r.begins) != 1 {
		t.Errorf("Expected 1 begin after dispatch, got %d", len(r.begins))
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 registered tracer, got %d", manager.Count())
	}
}

func TestPassWhileInFlightKeepsTheFirst(t *testing.T) {
	r := newPhysicsRig(scenarioConfigs()["Async"], rl.Vector3{})

	r.blade.Transform.Position.Z = 100
	if !r.tracer.DoCollisionTest() {
		t.Fatal("Pass did nothing")
	}
	// Already inside the box here, so this pass alone would see nothing
	r.blade.Transform.Position.Z = 120
	if r.tracer.DoCollisionTest() {
		t.Error("Second pass should be refused while the first is in flight")
	}
	if r.world.PendingTraces() != 2 {
		t.Errorf("Expected 2 pending traces, got %d", r.world.PendingTraces())
	}

	if err := r.world.DispatchAsyncTraces(context.Background()); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(r.begins) != 1 {
		t.Fatalf("Expected 1 begin entering the box, got %d", len(r.begins))
	}

	r.pass(t, 200)
	if len(r.ends) != 1 {
		t.Errorf("Expected 1 end leaving the box, got %d", len(r.ends))
	}
}

func TestCancelledDispatchCompletesPass(t *testing.T) {
	config := DefaultConfig()
	r := newPhysicsRig(config, rl.Vector3{})

	r.blade.Transform.Position.Z = 100
	r.tracer.DoCollisionTest()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.world.DispatchAsyncTraces(ctx); err == nil {
		t.Error("Expected an error from a cancelled dispatch")
	}
	if r.tracer.InFlight() {
		t.Error("Cancelled pass should still complete")
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 0.001 && d > -0.001
}
