package engine

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollisionChannel is both the object type a collider reports and the
// channel a trace queries on. Channels below ChannelVisibility are object
// types; the rest only exist for traces.
type CollisionChannel uint8

const (
	ChannelWorldStatic CollisionChannel = iota
	ChannelWorldDynamic
	ChannelPawn
	ChannelPhysicsBody
	ChannelVehicle
	ChannelDestructible
	ChannelVisibility
	ChannelCamera
	ChannelCount
)

var channelNames = [ChannelCount]string{
	"WorldStatic", "WorldDynamic", "Pawn", "PhysicsBody",
	"Vehicle", "Destructible", "Visibility", "Camera",
}

func (c CollisionChannel) String() string {
	if c < ChannelCount {
		return channelNames[c]
	}
	return fmt.Sprintf("Channel(%d)", uint8(c))
}

// IsObjectType reports whether colliders can be of this type
func (c CollisionChannel) IsObjectType() bool {
	return c < ChannelVisibility
}

// ObjectTypeChannels returns every object type channel
func ObjectTypeChannels() []CollisionChannel {
	result := make([]CollisionChannel, 0, ChannelVisibility)
	for c := CollisionChannel(0); c < ChannelVisibility; c++ {
		result = append(result, c)
	}
	return result
}

// CollisionResponse is ordered: the weaker of two responses wins.
type CollisionResponse uint8

const (
	ResponseIgnore CollisionResponse = iota
	ResponseOverlap
	ResponseBlock
)

func (r CollisionResponse) String() string {
	switch r {
	case ResponseIgnore:
		return "Ignore"
	case ResponseOverlap:
		return "Overlap"
	default:
		return "Block"
	}
}

// MinResponse returns the weaker of two responses
func MinResponse(a, b CollisionResponse) CollisionResponse {
	if a < b {
		return a
	}
	return b
}

// ResponseContainer holds a response for every channel
type ResponseContainer [ChannelCount]CollisionResponse

// NewResponseContainer returns a container with every channel set to r
func NewResponseContainer(r CollisionResponse) ResponseContainer {
	var rc ResponseContainer
	rc.SetAll(r)
	return rc
}

func (rc *ResponseContainer) SetAll(r CollisionResponse) {
	for i := range rc {
		rc[i] = r
	}
}

func (rc *ResponseContainer) Set(c CollisionChannel, r CollisionResponse) {
	if c < ChannelCount {
		rc[c] = r
	}
}

func (rc ResponseContainer) Get(c CollisionChannel) CollisionResponse {
	if c < ChannelCount {
		return rc[c]
	}
	return ResponseIgnore
}

type ChannelKind uint8

const (
	ChannelKindTrace ChannelKind = iota
	ChannelKindObjects
	ChannelKindProfile
	// ChannelKindAllObjects is an object query against every object type
	ChannelKindAllObjects
)

// ChannelSpec selects what a trace can hit: a trace channel, a set of
// object types, or a named collision profile.
type ChannelSpec struct {
	Kind    ChannelKind
	Channel CollisionChannel
	Objects []CollisionChannel
	Profile string
}

func TraceChannel(c CollisionChannel) ChannelSpec {
	return ChannelSpec{Kind: ChannelKindTrace, Channel: c}
}

func ObjectChannels(channels ...CollisionChannel) ChannelSpec {
	return ChannelSpec{Kind: ChannelKindObjects, Objects: channels}
}

func Profile(name string) ChannelSpec {
	return ChannelSpec{Kind: ChannelKindProfile, Profile: name}
}

func AllObjects() ChannelSpec {
	return ChannelSpec{Kind: ChannelKindAllObjects}
}

// IsObjectQuery reports whether hits are decided by object type rather than response
func (s ChannelSpec) IsObjectQuery() bool {
	return s.Kind == ChannelKindObjects || s.Kind == ChannelKindAllObjects
}

// ObjectMask returns the object types an object query accepts as a bit set
func (s ChannelSpec) ObjectMask() uint32 {
	switch s.Kind {
	case ChannelKindAllObjects:
		var mask uint32
		for _, c := range ObjectTypeChannels() {
			mask |= 1 << c
		}
		return mask
	case ChannelKindObjects:
		var mask uint32
		for _, c := range s.Objects {
			if c.IsObjectType() {
				mask |= 1 << c
			}
		}
		return mask
	}
	return 0
}

func (s ChannelSpec) String() string {
	switch s.Kind {
	case ChannelKindTrace:
		return "TraceChannel(" + s.Channel.String() + ")"
	case ChannelKindObjects:
		names := make([]string, len(s.Objects))
		for i, c := range s.Objects {
			names[i] = c.String()
		}
		return "ObjectChannels(" + strings.Join(names, ",") + ")"
	case ChannelKindProfile:
		return "Profile(" + s.Profile + ")"
	case ChannelKindAllObjects:
		return "AllObjects"
	}
	return fmt.Sprintf("ChannelSpec(%d)", s.Kind)
}

type ShapeType uint8

const (
	ShapeLine ShapeType = iota
	ShapeBox
	ShapeCapsule
	ShapeSphere
)

func (t ShapeType) String() string {
	switch t {
	case ShapeLine:
		return "Line"
	case ShapeBox:
		return "Box"
	case ShapeCapsule:
		return "Capsule"
	case ShapeSphere:
		return "Sphere"
	}
	return fmt.Sprintf("ShapeType(%d)", uint8(t))
}

// CollisionShape is the primitive swept by a shape trace. The zero value is a line.
// Capsules are aligned with their local Y axis.
type CollisionShape struct {
	Type       ShapeType
	HalfExtent rl.Vector3
	Radius     float32
	HalfHeight float32
}

func MakeBox(halfExtent rl.Vector3) CollisionShape {
	return CollisionShape{Type: ShapeBox, HalfExtent: halfExtent}
}

func MakeCapsule(radius, halfHeight float32) CollisionShape {
	return CollisionShape{Type: ShapeCapsule, Radius: radius, HalfHeight: halfHeight}
}

func MakeSphere(radius float32) CollisionShape {
	return CollisionShape{Type: ShapeSphere, Radius: radius}
}

func (s CollisionShape) IsLine() bool {
	return s.Type == ShapeLine
}

// BoundingRadius is the radius of a sphere around the shape's center that contains it
func (s CollisionShape) BoundingRadius() float32 {
	switch s.Type {
	case ShapeBox:
		return rl.Vector3Length(s.HalfExtent)
	case ShapeCapsule:
		return s.HalfHeight + s.Radius
	case ShapeSphere:
		return s.Radius
	}
	return 0
}

// Offset places a tracked shape relative to its owner
type Offset struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

// IdentityOffset has no translation and no rotation
func IdentityOffset() Offset {
	return Offset{Rotation: rl.QuaternionIdentity()}
}
