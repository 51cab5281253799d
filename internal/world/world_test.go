package world

import (
	"context"
	"errors"
	"testing"

	"tracesweep/internal/components"
	"tracesweep/internal/engine"
	"tracesweep/internal/tracing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func newWall(z float32) *engine.GameObject {
	wall := engine.NewGameObject("Wall")
	wall.Transform.Position = rl.Vector3{Z: z}
	wall.AddComponent(components.NewBoxCollider(rl.Vector3{X: 4, Y: 4, Z: 1}))
	return wall
}

func newBlade(execution tracing.Execution) (*engine.GameObject, *tracing.TraceCollision) {
	blade := engine.NewGameObject("Blade")
	tip := engine.NewGameObject("Tip")
	blade.AddChild(tip)

	config := tracing.DefaultConfig()
	config.Execution = execution
	config.TracesPerSecond = 0
	trace := tracing.NewTraceCollision(config)
	blade.AddComponent(trace)
	return blade, trace
}

func TestNewWiresSceneToPhysics(t *testing.T) {
	w := New()

	if w.Scene.World != w.Physics {
		t.Error("Scene should trace against the physics world")
	}
	if engine.FindComponent[*tracing.Manager](w.Scene) != w.Manager {
		t.Error("Expected the manager in the scene")
	}
}

func TestSpawnRegistersCollidersAndChildren(t *testing.T) {
	w := New()
	wall := newWall(10)
	blade, _ := newBlade(tracing.ExecutionSync)

	if err := w.Spawn(wall); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if err := w.Spawn(blade); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	if len(w.Physics.GetCollidableObjects()) != 1 {
		t.Errorf("Expected 1 collidable object, got %d", len(w.Physics.GetCollidableObjects()))
	}
	if len(w.Colliders()) != 1 {
		t.Errorf("Expected 1 collider, got %d", len(w.Colliders()))
	}
	tip := blade.Children[0]
	if w.Scene.FindByUID(tip.UID) != tip {
		t.Error("Expected the child in the scene")
	}

	if err := w.Spawn(wall); err == nil {
		t.Error("Expected an error spawning twice")
	}
	if err := w.Spawn(nil); err == nil {
		t.Error("Expected an error spawning nil")
	}
}

func TestSpawnAfterStartStartsObjects(t *testing.T) {
	w := New()
	w.Start()

	blade, trace := newBlade(tracing.ExecutionSync)
	if err := w.Spawn(blade); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	if w.Manager.Count() != 1 {
		t.Errorf("Expected the tracer registered, got %d", w.Manager.Count())
	}
	if len(trace.Points()) != 1 {
		t.Errorf("Expected the child tracked, got %d points", len(trace.Points()))
	}
}

func TestDespawnRemovesEverything(t *testing.T) {
	w := New()
	wall := newWall(10)
	blade, _ := newBlade(tracing.ExecutionSync)
	w.Spawn(wall)
	w.Spawn(blade)
	w.Start()

	w.Despawn(wall)
	w.Despawn(blade)

	if len(w.Physics.GetCollidableObjects()) != 0 {
		t.Error("Expected no collidable objects")
	}
	if w.Manager.Count() != 0 {
		t.Error("Expected the tracer unregistered")
	}
	if len(w.Scene.GameObjects) != 1 {
		t.Errorf("Expected only the manager object left, got %d", len(w.Scene.GameObjects))
	}
}

func TestDespawnChildDetachesFromParent(t *testing.T) {
	w := New()
	blade, _ := newBlade(tracing.ExecutionSync)
	w.Spawn(blade)
	tip := blade.Children[0]

	w.Despawn(tip)

	if len(blade.Children) != 0 {
		t.Errorf("Expected no children, got %d", len(blade.Children))
	}
	if tip.Parent != nil {
		t.Error("Expected the tip detached")
	}
	if w.Scene.FindByUID(blade.UID) != blade {
		t.Error("Parent should stay in the scene")
	}
}

func TestDemoHitsSkipDespawnedTargets(t *testing.T) {
	opts := DefaultDemoOptions()
	opts.Execution = tracing.ExecutionSync
	d, err := BuildDemo(opts)
	if err != nil {
		t.Fatalf("BuildDemo failed: %v", err)
	}
	engine.GetComponent[*HitCounter](d.Targets[0]).Hits = 7

	if d.Hits() != 7 {
		t.Errorf("Expected 7 hits, got %d", d.Hits())
	}
	d.World.Despawn(d.Targets[0])
	if d.Hits() != 0 {
		t.Errorf("Expected the despawned target left out, got %d", d.Hits())
	}
}

func TestUpdateDeliversAsyncTraces(t *testing.T) {
	w := New()
	w.Spawn(newWall(10))
	blade, trace := newBlade(tracing.ExecutionAsync)
	w.Spawn(blade)
	w.Start()

	var begins []engine.BeginOverlapEvent
	trace.OnBeginOverlap.AddListener(func(e engine.BeginOverlapEvent) {
		begins = append(begins, e)
	})

	blade.Transform.Position.Z = 20
	if err := w.Update(context.Background(), 0.016); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if w.Physics.PendingTraces() != 0 {
		t.Errorf("Expected no pending traces, got %d", w.Physics.PendingTraces())
	}
	if trace.InFlight() {
		t.Error("Pass should be complete at the end of the frame")
	}
	if len(begins) != 1 {
		t.Fatalf("Expected 1 begin, got %d", len(begins))
	}
	if begins[0].Other.Name != "Wall" {
		t.Errorf("Expected the wall, got %s", begins[0].Other.Name)
	}
	if w.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", w.Frames())
	}
}

func TestUpdateReportsCancellation(t *testing.T) {
	w := New()
	w.Spawn(newWall(10))
	blade, trace := newBlade(tracing.ExecutionAsync)
	w.Spawn(blade)
	w.Start()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Update(ctx, 0.016)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if trace.InFlight() {
		t.Error("Cancelled pass should still complete")
	}
}

func TestBuildDemoRejectsBadOptions(t *testing.T) {
	opts := DefaultDemoOptions()
	opts.Targets = -1
	if _, err := BuildDemo(opts); err == nil {
		t.Error("Expected an error for a negative target count")
	}

	opts = DefaultDemoOptions()
	opts.TracesPerSecond = -1
	if _, err := BuildDemo(opts); err == nil {
		t.Error("Expected an error for a negative trace rate")
	}
}

func TestBuildDemo(t *testing.T) {
	d, err := BuildDemo(DefaultDemoOptions())
	if err != nil {
		t.Fatalf("BuildDemo failed: %v", err)
	}

	if len(d.Targets) != 12 {
		t.Errorf("Expected 12 targets, got %d", len(d.Targets))
	}
	if len(d.World.Tracers()) != 2 {
		t.Errorf("Expected 2 tracers, got %d", len(d.World.Tracers()))
	}
	// three tips plus the guard and tip sockets
	if len(d.SwordTrace.Points()) != 5 {
		t.Errorf("Expected 5 sword points, got %d", len(d.SwordTrace.Points()))
	}
	if len(d.HammerTrace.Shapes()) != 1 {
		t.Errorf("Expected 1 hammer shape, got %d", len(d.HammerTrace.Shapes()))
	}
	// every target, the ramp and the sword blade
	if len(d.World.Physics.GetCollidableObjects()) != 14 {
		t.Errorf("Expected 14 collidable objects, got %d", len(d.World.Physics.GetCollidableObjects()))
	}

	// Building twice reuses the registered profile
	if _, err := BuildDemo(DefaultDemoOptions()); err != nil {
		t.Errorf("Second BuildDemo failed: %v", err)
	}
}

func TestDemoRun(t *testing.T) {
	for _, execution := range []tracing.Execution{tracing.ExecutionSync, tracing.ExecutionAsync} {
		t.Run(execution.String(), func(t *testing.T) {
			opts := DefaultDemoOptions()
			opts.Execution = execution
			d, err := BuildDemo(opts)
			if err != nil {
				t.Fatalf("BuildDemo failed: %v", err)
			}

			for i := 0; i < 600; i++ {
				if err := d.Step(context.Background(), 1.0/60); err != nil {
					t.Fatalf("Step %d failed: %v", i, err)
				}
			}

			if d.Begins == 0 {
				t.Error("Expected the weapons to hit something")
			}
			if d.Hits() == 0 {
				t.Error("Expected targets to hear about hits")
			}

			overlapping := len(d.SwordTrace.Overlapping()) + len(d.HammerTrace.Overlapping())
			if d.Begins-d.Ends != overlapping {
				t.Errorf("Expected begins minus ends (%d) to equal current overlaps (%d)", d.Begins-d.Ends, overlapping)
			}
		})
	}
}

func TestDemoWithoutEndOverlaps(t *testing.T) {
	opts := DefaultDemoOptions()
	opts.GenerateEndOverlap = false
	opts.Execution = tracing.ExecutionSync
	d, err := BuildDemo(opts)
	if err != nil {
		t.Fatalf("BuildDemo failed: %v", err)
	}

	for i := 0; i < 300; i++ {
		d.Step(context.Background(), 1.0/60)
	}

	if d.Ends != 0 {
		t.Errorf("Expected no ends, got %d", d.Ends)
	}
	if len(d.SwordTrace.Overlapping()) != 0 {
		t.Error("Expected the overlap set cleared between passes")
	}
}
