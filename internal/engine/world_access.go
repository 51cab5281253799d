package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// TraceType chooses between the closest blocking hit and every hit along a trace
type TraceType uint8

const (
	TraceSingle TraceType = iota
	TraceMulti
)

func (t TraceType) String() string {
	if t == TraceMulti {
		return "Multi"
	}
	return "Single"
}

// QueryParams are per-trace filter flags
type QueryParams struct {
	TraceComplex           bool
	ReturnFaceIndex        bool
	ReturnPhysicalMaterial bool
	IgnoreBlocks           bool
	IgnoreTouches          bool
	SkipNarrowPhase        bool
	IgnoredObjects         []*GameObject
}

func (p *QueryParams) AddIgnoredObject(g *GameObject) {
	if g == nil {
		return
	}
	for _, o := range p.IgnoredObjects {
		if o == g {
			return
		}
	}
	p.IgnoredObjects = append(p.IgnoredObjects, g)
}

// IsIgnored reports whether g was excluded from the trace
func (p QueryParams) IsIgnored(g *GameObject) bool {
	for _, o := range p.IgnoredObjects {
		if o == g {
			return true
		}
	}
	return false
}

// TraceQuery describes one line trace or shape sweep from Start to End
type TraceQuery struct {
	Type     TraceType
	Start    rl.Vector3
	End      rl.Vector3
	Rotation rl.Quaternion
	Shape    CollisionShape
	Channel  ChannelSpec
	Params   QueryParams
}

// HitResult holds information about a trace hit.
// Defined here to avoid circular imports with physics package.
type HitResult struct {
	GameObject       *GameObject
	Component        Component
	Item             int
	Distance         float32
	Point            rl.Vector3
	Normal           rl.Vector3
	BlockingHit      bool
	StartPenetrating bool
	FaceIndex        int
	PhysMaterial     string
}

// HitKey identifies what was hit, independent of where
type HitKey struct {
	GameObject *GameObject
	Component  Component
	Item       int
}

func (h HitResult) Key() HitKey {
	return HitKey{GameObject: h.GameObject, Component: h.Component, Item: h.Item}
}

// TraceHandle identifies an async trace. The zero handle is invalid.
type TraceHandle uint64

func (h TraceHandle) IsValid() bool {
	return h != 0
}

// TraceDatum is what an async trace delivers on completion
type TraceDatum struct {
	Handle TraceHandle
	Query  TraceQuery
	Hits   []HitResult
}

// TraceDelegate receives async trace results on the thread that dispatches them
type TraceDelegate func(data TraceDatum)

// WorldAccess provides components with access to world-level operations
// without creating circular import dependencies.
type WorldAccess interface {
	GetCollidableObjects() []*GameObject
	// Trace runs a query immediately. ok is false when the query could not
	// be run at all (unknown profile, empty channel spec).
	Trace(q TraceQuery) (hits []HitResult, ok bool)
	// AsyncTrace queues a query; done is invoked later from the world's
	// dispatch step. Returns the zero handle if the query was rejected.
	AsyncTrace(q TraceQuery, done TraceDelegate) TraceHandle
}
