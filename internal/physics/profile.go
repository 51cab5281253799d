package physics

import (
	"fmt"
	"sort"
	"sync"

	"tracesweep/internal/engine"
)

// CollisionProfile is a named preset of object type and channel responses.
// A profile trace hits a collider when both sides agree: the weaker of the
// profile's response to the collider's type and the collider's response to
// the profile's type decides.
type CollisionProfile struct {
	Name       string
	ObjectType engine.CollisionChannel
	Responses  engine.ResponseContainer
}

// ResponseTo returns how a collider answers a trace run with this profile
func (p CollisionProfile) ResponseTo(objectType engine.CollisionChannel, responses engine.ResponseContainer) engine.CollisionResponse {
	return engine.MinResponse(p.Responses.Get(objectType), responses.Get(p.ObjectType))
}

const (
	ProfileBlockAll    = "BlockAll"
	ProfileOverlapAll  = "OverlapAll"
	ProfileNoCollision = "NoCollision"
	ProfilePawn        = "Pawn"
)

var (
	profileMu       sync.RWMutex
	profileRegistry = map[string]CollisionProfile{}
)

func init() {
	RegisterProfile(CollisionProfile{
		Name:       ProfileBlockAll,
		ObjectType: engine.ChannelWorldStatic,
		Responses:  engine.NewResponseContainer(engine.ResponseBlock),
	})
	RegisterProfile(CollisionProfile{
		Name:       ProfileOverlapAll,
		ObjectType: engine.ChannelWorldDynamic,
		Responses:  engine.NewResponseContainer(engine.ResponseOverlap),
	})
	RegisterProfile(CollisionProfile{
		Name:       ProfileNoCollision,
		ObjectType: engine.ChannelWorldStatic,
		Responses:  engine.NewResponseContainer(engine.ResponseIgnore),
	})

	pawn := engine.NewResponseContainer(engine.ResponseBlock)
	pawn.Set(engine.ChannelVisibility, engine.ResponseIgnore)
	RegisterProfile(CollisionProfile{
		Name:       ProfilePawn,
		ObjectType: engine.ChannelPawn,
		Responses:  pawn,
	})
}

// RegisterProfile adds a named profile. Registering the same name twice panics.
func RegisterProfile(p CollisionProfile) {
	profileMu.Lock()
	defer profileMu.Unlock()
	if _, exists := profileRegistry[p.Name]; exists {
		panic(fmt.Sprintf("collision profile %q already registered", p.Name))
	}
	profileRegistry[p.Name] = p
}

// GetProfile looks up a profile by name
func GetProfile(name string) (CollisionProfile, bool) {
	profileMu.RLock()
	defer profileMu.RUnlock()
	p, ok := profileRegistry[name]
	return p, ok
}

// GetRegisteredProfiles returns all registered profile names (sorted for stable order)
func GetRegisteredProfiles() []string {
	profileMu.RLock()
	defer profileMu.RUnlock()
	names := make([]string, 0, len(profileRegistry))
	for name := range profileRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
