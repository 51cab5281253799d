package world

import (
	"context"
	"fmt"
	"log"

	"tracesweep/internal/components"
	"tracesweep/internal/engine"
	"tracesweep/internal/physics"
	"tracesweep/internal/tracing"
)

// World owns the scene, the physics world answering its traces and the
// trace manager driving every TraceCollision in it.
type World struct {
	Scene   *engine.Scene
	Physics *physics.PhysicsWorld
	Manager *tracing.Manager

	frames  int
	started bool
}

func New() *World {
	w := &World{
		Scene:   engine.NewScene("Main"),
		Physics: physics.NewPhysicsWorld(),
		Manager: tracing.NewManager(),
	}
	w.Scene.World = w.Physics

	managerObj := engine.NewGameObject("TraceManager")
	managerObj.AddComponent(w.Manager)
	w.Scene.AddGameObject(managerObj)
	return w
}

// Spawn adds g and its descendants to the scene and registers whatever
// carries a collider with the physics world. Objects spawned after Start are
// started immediately.
func (w *World) Spawn(g *engine.GameObject) error {
	if g == nil {
		return fmt.Errorf("spawn: nil game object")
	}
	if g.Scene != nil {
		return fmt.Errorf("spawn %s: already in scene %s", g.Name, g.Scene.Name)
	}

	all := append([]*engine.GameObject{g}, g.Descendants()...)
	for _, obj := range all {
		w.Scene.AddGameObject(obj)
		w.Physics.AddObject(obj)
	}
	if w.started {
		for _, obj := range all {
			obj.Start()
		}
	}
	return nil
}

// Despawn removes g and its descendants from the scene and the physics world,
// detaching g from its parent.
func (w *World) Despawn(g *engine.GameObject) {
	if g == nil || g.Scene != w.Scene {
		return
	}
	if g.Parent != nil {
		g.Parent.RemoveChild(g)
	}
	for _, obj := range g.Descendants() {
		w.Physics.RemoveObject(obj)
	}
	w.Physics.RemoveObject(g)
	w.Scene.RemoveGameObject(g)
}

func (w *World) Start() {
	if w.started {
		return
	}
	w.started = true
	w.Scene.Start()
	log.Printf("World: started with %d objects, %d collidable, %d tracers",
		len(w.Scene.GameObjects), len(w.Physics.GetCollidableObjects()), w.Manager.Count())
}

// Update advances the scene (which ticks the trace manager) and then delivers
// the async traces queued during the frame.
func (w *World) Update(ctx context.Context, deltaTime float32) error {
	w.frames++
	w.Scene.Update(deltaTime)
	if err := w.Physics.DispatchAsyncTraces(ctx); err != nil {
		return fmt.Errorf("frame %d: dispatch traces: %w", w.frames, err)
	}
	return nil
}

// Frames returns the number of updates so far
func (w *World) Frames() int {
	return w.frames
}

// Tracers returns every TraceCollision the manager drives
func (w *World) Tracers() []*tracing.TraceCollision {
	return w.Manager.Tracers()
}

// Colliders returns every collider component in the physics world
func (w *World) Colliders() []components.Collider {
	var result []components.Collider
	for _, g := range w.Physics.GetCollidableObjects() {
		result = append(result, engine.GetComponents[components.Collider](g)...)
	}
	return result
}
