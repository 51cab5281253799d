package tracing

import (
	"fmt"

	"tracesweep/internal/engine"
)

// Execution decides whether queries complete within the pass or later
type Execution uint8

const (
	ExecutionSync Execution = iota
	ExecutionAsync
)

func (e Execution) String() string {
	if e == ExecutionAsync {
		return "Async"
	}
	return "Sync"
}

// Style picks what a pass traces: tracked points with lines, or tracked
// shapes with sweeps.
type Style uint8

const (
	StyleLine Style = iota
	StyleSweep
)

func (s Style) String() string {
	if s == StyleSweep {
		return "Sweep"
	}
	return "Line"
}

// PointSpec declares a tracked point. Target wins over Socket when both resolve.
type PointSpec struct {
	Target engine.GameObjectRef
	Socket string
}

// ShapeSpec declares a tracked shape relative to the owner
type ShapeSpec struct {
	Shape  engine.CollisionShape
	Offset engine.Offset
}

// Config controls how a TraceCollision samples. It cannot change while an
// async pass is in flight.
type Config struct {
	Execution          Execution
	Style              Style
	TraceType          engine.TraceType
	Channel            engine.ChannelSpec
	Params             engine.QueryParams // IgnoredObjects is filled per pass
	TracesPerSecond    float32
	StartEnabled       bool
	GenerateEndOverlap bool
	Points             []PointSpec
	Shapes             []ShapeSpec
}

// DefaultConfig samples 30 times a second, asynchronously, with single line
// traces against the BlockAll profile.
func DefaultConfig() Config {
	return Config{
		Execution:          ExecutionAsync,
		Style:              StyleLine,
		TraceType:          engine.TraceSingle,
		Channel:            engine.Profile("BlockAll"),
		TracesPerSecond:    30,
		StartEnabled:       true,
		GenerateEndOverlap: true,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("%s %s %s on %s at %.0f/s", c.Execution, c.Style, c.TraceType, c.Channel, c.TracesPerSecond)
}

// reverseChannel is the channel for trailing edge queries. Channel and
// profile traces are widened to every object type so the exit check is not
// narrowed by the forward filter.
func (c Config) reverseChannel() engine.ChannelSpec {
	switch c.Channel.Kind {
	case engine.ChannelKindTrace, engine.ChannelKindProfile:
		return engine.AllObjects()
	}
	return c.Channel
}
