package components

import (
	"sort"

	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SkeletalMesh exposes named sockets on its object. Socket positions are in
// the object's local space and follow its transform.
type SkeletalMesh struct {
	engine.BaseComponent
	sockets map[string]rl.Vector3
}

func NewSkeletalMesh() *SkeletalMesh {
	return &SkeletalMesh{sockets: make(map[string]rl.Vector3)}
}

// SetSocket adds or moves a socket
func (s *SkeletalMesh) SetSocket(name string, local rl.Vector3) {
	if s.sockets == nil {
		s.sockets = make(map[string]rl.Vector3)
	}
	s.sockets[name] = local
}

func (s *SkeletalMesh) RemoveSocket(name string) {
	delete(s.sockets, name)
}

func (s *SkeletalMesh) HasSocket(name string) bool {
	_, ok := s.sockets[name]
	return ok
}

// SocketNames returns all socket names in sorted order
func (s *SkeletalMesh) SocketNames() []string {
	names := make([]string, 0, len(s.sockets))
	for name := range s.sockets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SocketLocation returns the socket's world position
func (s *SkeletalMesh) SocketLocation(name string) (rl.Vector3, bool) {
	local, ok := s.sockets[name]
	if !ok {
		return rl.Vector3{}, false
	}
	g := s.GetGameObject()
	if g == nil {
		return local, true
	}
	return worldOffset(g, local), true
}
