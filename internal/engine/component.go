package engine

import rl "github.com/gen2brain/raylib-go/raylib"

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// Destroyable is implemented by components that need to release state when
// their GameObject is removed from the scene.
type Destroyable interface {
	OnDestroy()
}

// SocketProvider is implemented by components that expose named attachment
// points (bones, sockets) in world space.
type SocketProvider interface {
	SocketLocation(name string) (rl.Vector3, bool)
}

// OverlapHandler is implemented by components that want to receive overlap callbacks.
// Scripts can implement these methods to react to trace overlaps on their object.
type OverlapHandler interface {
	OnBeginOverlap(e BeginOverlapEvent)
	OnEndOverlap(e EndOverlapEvent)
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
