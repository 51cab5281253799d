package engine

type Scene struct {
	Name        string
	GameObjects []*GameObject
	World       WorldAccess
	uidMap      map[uint64]*GameObject
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		uidMap:      make(map[uint64]*GameObject),
	}
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
}

// RemoveGameObject removes g and all of its descendants from the scene.
// Components implementing Destroyable are notified first.
func (s *Scene) RemoveGameObject(g *GameObject) {
	for _, child := range g.Descendants() {
		s.removeOne(child)
	}
	s.removeOne(g)
}

func (s *Scene) removeOne(g *GameObject) {
	for i, obj := range s.GameObjects {
		if obj == g {
			g.destroy()
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			delete(s.uidMap, g.UID)
			g.Scene = nil
			return
		}
	}
}

// FindByUID is an O(1) lookup, nil if the object is not (or no longer) in the scene
func (s *Scene) FindByUID(uid uint64) *GameObject {
	if s.uidMap == nil {
		return nil
	}
	return s.uidMap[uid]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

// FindComponent returns the first component of type T on any object in the scene
func FindComponent[T Component](s *Scene) T {
	var zero T
	for _, g := range s.GameObjects {
		for _, c := range g.components {
			if typed, ok := c.(T); ok {
				return typed
			}
		}
	}
	return zero
}

func (s *Scene) Start() {
	// Index loop: Start may add objects to the scene
	for i := 0; i < len(s.GameObjects); i++ {
		s.GameObjects[i].Start()
	}
}

func (s *Scene) Update(deltaTime float32) {
	for i := 0; i < len(s.GameObjects); i++ {
		s.GameObjects[i].Update(deltaTime)
	}
}
