// Interactive view of the demo world: a sword and a hammer traced through a
// ring of moving targets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"tracesweep/internal/components"
	"tracesweep/internal/engine"
	"tracesweep/internal/tracing"
	"tracesweep/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type settings struct {
	async   bool
	endOver bool
	rate    float32
	paused  bool
	dirty   bool
}

func main() {
	defaults := world.DefaultDemoOptions()
	targets := flag.Int("targets", defaults.Targets, "number of targets on the ring")
	seed := flag.Int64("seed", defaults.Seed, "random seed for target motion")
	flag.Parse()

	opts := defaults
	opts.Targets = *targets
	opts.Seed = *seed
	demo, err := world.BuildDemo(opts)
	if err != nil {
		log.Fatalf("sweepdemo: %v", err)
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "Trace sweep overlaps")
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)

	camera := rl.Camera3D{
		Position:   rl.Vector3{X: 6, Y: 6, Z: 6},
		Target:     rl.Vector3{Y: 0.5},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	s := settings{
		async:   opts.Execution == tracing.ExecutionAsync,
		endOver: opts.GenerateEndOverlap,
		rate:    opts.TracesPerSecond,
	}
	ctx := context.Background()

	for !rl.WindowShouldClose() {
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			rl.UpdateCamera(&camera, rl.CameraOrbital)
		}
		if rl.IsKeyPressed(rl.KeySpace) {
			s.paused = !s.paused
		}

		if s.dirty {
			s.dirty = !applySettings(demo, s)
		}
		if !s.paused {
			if err := demo.Step(ctx, rl.GetFrameTime()); err != nil {
				log.Printf("sweepdemo: %v", err)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

		rl.BeginMode3D(camera)
		rl.DrawGrid(20, 1)
		drawScene(demo)
		rl.EndMode3D()

		drawPanel(demo, &s)
		rl.EndDrawing()
	}
}

// applySettings pushes the panel settings into every tracer. It reports
// false if a tracer had a pass in flight and must be retried.
func applySettings(demo *world.Demo, s settings) bool {
	applied := true
	for _, t := range demo.World.Tracers() {
		config := t.Config()
		config.Execution = tracing.ExecutionSync
		if s.async {
			config.Execution = tracing.ExecutionAsync
		}
		config.GenerateEndOverlap = s.endOver
		config.TracesPerSecond = s.rate
		if !t.SetConfig(config) {
			applied = false
		}
	}
	return applied
}

func drawPanel(demo *world.Demo, s *settings) {
	gui.Panel(rl.Rectangle{X: 10, Y: 10, Width: 280, Height: 250}, "Trace collision")

	async := gui.CheckBox(rl.Rectangle{X: 20, Y: 45, Width: 16, Height: 16}, "Async traces", s.async)
	endOver := gui.CheckBox(rl.Rectangle{X: 20, Y: 70, Width: 16, Height: 16}, "End overlaps", s.endOver)
	rate := gui.Slider(rl.Rectangle{X: 90, Y: 95, Width: 140, Height: 16}, "Rate", fmt.Sprintf("%.0f/s", s.rate), s.rate, 0, 120)
	if async != s.async || endOver != s.endOver || rate != s.rate {
		s.async, s.endOver, s.rate = async, endOver, rate
		s.dirty = true
	}
	label := "Pause"
	if s.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 20, Y: 120, Width: 120, Height: 24}, label) {
		s.paused = !s.paused
	}

	stats := demo.World.Physics.Stats()
	lines := []string{
		fmt.Sprintf("Begins %d  Ends %d  Hits %d", demo.Begins, demo.Ends, demo.Hits()),
		fmt.Sprintf("Traces %d sync / %d async", stats.SyncTraces, stats.AsyncTraces),
		fmt.Sprintf("Sword overlaps %d", len(demo.SwordTrace.Overlapping())),
		fmt.Sprintf("Hammer overlaps %d", len(demo.HammerTrace.Overlapping())),
	}
	for i, line := range lines {
		rl.DrawText(line, 20, int32(155+i*22), 16, rl.RayWhite)
	}
	rl.DrawText("Right mouse to orbit, Space to pause", 10, int32(rl.GetScreenHeight()-30), 18, rl.Gray)
}

func drawScene(demo *world.Demo) {
	for _, g := range demo.Targets {
		color := rl.SkyBlue
		if h := engine.GetComponent[*world.HitCounter](g); h != nil && h.Overlapping > 0 {
			color = rl.Red
		}
		drawColliders(g, color)
	}

	if ramp := engine.GetComponent[*components.MeshCollider](demo.Ramp); ramp != nil {
		for _, tri := range ramp.Triangles {
			rl.DrawTriangle3D(tri.V0, tri.V1, tri.V2, rl.NewColor(60, 60, 80, 255))
		}
	}

	drawTracer(demo.SwordTrace, rl.Gold)
	drawTracer(demo.HammerTrace, rl.Orange)
}

func drawColliders(g *engine.GameObject, color rl.Color) {
	for _, c := range engine.GetComponents[components.Collider](g) {
		switch col := c.(type) {
		case *components.BoxCollider:
			rl.DrawCubeWiresV(col.GetCenter(), col.GetWorldSize(), color)
		case *components.SphereCollider:
			rl.DrawSphereWires(col.GetCenter(), col.GetWorldRadius(), 8, 8, color)
		case *components.CapsuleCollider:
			a, b := col.GetSegment()
			rl.DrawCapsuleWires(a, b, col.GetWorldRadius(), 8, 4, color)
		}
	}
}

// drawTracer marks where every point and shape was last sampled
func drawTracer(t *tracing.TraceCollision, color rl.Color) {
	origin := t.GetGameObject().WorldPosition()
	for _, p := range t.Points() {
		rl.DrawLine3D(origin, p.Current, color)
		rl.DrawSphere(p.Current, 0.04, color)
	}
	for _, s := range t.Shapes() {
		if s.Shape.Type == engine.ShapeSphere {
			rl.DrawSphereWires(s.Previous, s.Shape.Radius, 6, 6, color)
		}
	}
}
