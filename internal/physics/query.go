package physics

import (
	"math"
	"sort"

	"tracesweep/internal/components"
	"tracesweep/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type proxyKind uint8

const (
	proxyBox proxyKind = iota
	proxySphere
	proxyCapsule
	proxyMesh
)

// colliderProxy is a world-space copy of one collider, taken on the main
// goroutine so queries can run on workers without touching the scene.
type colliderProxy struct {
	object    *engine.GameObject
	component engine.Component
	item      int
	settings  components.CollisionSettings
	kind      proxyKind

	box        OBB // boxes, and mesh bounds
	center     rl.Vector3
	radius     float32
	segA, segB rl.Vector3
	mesh       *components.MeshCollider

	bounds AABB
}

// buildProxies snapshots every collider on the given objects. A collider's
// item is its index among the colliders of its object.
func buildProxies(objects []*engine.GameObject) []colliderProxy {
	proxies := make([]colliderProxy, 0, len(objects))
	for _, g := range objects {
		if g == nil || !g.Active {
			continue
		}
		item := 0
		for _, c := range g.Components() {
			col, ok := c.(components.Collider)
			if !ok {
				continue
			}
			p := colliderProxy{
				object:    g,
				component: c,
				item:      item,
				settings:  *col.Collision(),
			}
			item++

			switch v := c.(type) {
			case *components.BoxCollider:
				p.kind = proxyBox
				p.box = NewOBB(v.GetCenter(), v.GetWorldSize(), v.GetRotation())
				p.bounds = p.box.Bounds()
			case *components.SphereCollider:
				p.kind = proxySphere
				p.center = v.GetCenter()
				p.radius = v.GetWorldRadius()
				p.bounds = NewAABBFromSegment(p.center, p.center, p.radius)
			case *components.CapsuleCollider:
				p.kind = proxyCapsule
				p.segA, p.segB = v.GetSegment()
				p.radius = v.GetWorldRadius()
				p.bounds = NewAABBFromSegment(p.segA, p.segB, p.radius)
			case *components.MeshCollider:
				if !v.IsBuilt() {
					continue
				}
				b := v.GetBounds()
				bounds := AABB{Min: b.Min, Max: b.Max}
				p.kind = proxyMesh
				p.mesh = v
				p.box = NewAABBasOBB(bounds.Center(), bounds.Size())
				p.bounds = bounds
			default:
				continue
			}
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// channelFilter decides how a collider answers one query
type channelFilter struct {
	spec    engine.ChannelSpec
	profile CollisionProfile
	mask    uint32
}

// newChannelFilter resolves the channel spec up front. It fails for unknown
// profiles, out of range channels and object queries with no object types.
func newChannelFilter(spec engine.ChannelSpec) (channelFilter, bool) {
	f := channelFilter{spec: spec}
	switch spec.Kind {
	case engine.ChannelKindTrace:
		if spec.Channel >= engine.ChannelCount {
			return f, false
		}
	case engine.ChannelKindProfile:
		p, ok := GetProfile(spec.Profile)
		if !ok {
			return f, false
		}
		f.profile = p
	case engine.ChannelKindObjects, engine.ChannelKindAllObjects:
		f.mask = spec.ObjectMask()
		if f.mask == 0 {
			return f, false
		}
	default:
		return f, false
	}
	return f, true
}

func (f channelFilter) response(s components.CollisionSettings) engine.CollisionResponse {
	switch f.spec.Kind {
	case engine.ChannelKindTrace:
		return s.Responses.Get(f.spec.Channel)
	case engine.ChannelKindProfile:
		return f.profile.ResponseTo(s.ObjectType, s.Responses)
	default:
		// Object queries hit by type and report every hit as blocking
		if f.mask&(1<<s.ObjectType) != 0 {
			return engine.ResponseBlock
		}
		return engine.ResponseIgnore
	}
}

// runQuery evaluates q against a proxy snapshot. Hits come back sorted by distance.
func runQuery(q engine.TraceQuery, filter channelFilter, proxies []colliderProxy) []engine.HitResult {
	delta := rl.Vector3Subtract(q.End, q.Start)
	length := rl.Vector3Length(delta)
	var dir rl.Vector3
	if length > 0 {
		dir = rl.Vector3Scale(delta, 1/length)
	}

	rotation := normalizedRotation(q.Rotation)
	sweepBounds := NewAABBFromSegment(q.Start, q.End, q.Shape.BoundingRadius())

	var hits []engine.HitResult
	for i := range proxies {
		p := &proxies[i]
		if !p.settings.Enabled || q.Params.IsIgnored(p.object) {
			continue
		}

		response := filter.response(p.settings)
		if response == engine.ResponseIgnore {
			continue
		}
		blocking := response == engine.ResponseBlock
		if (blocking && q.Params.IgnoreBlocks) || (!blocking && q.Params.IgnoreTouches) {
			continue
		}
		if !p.bounds.Intersects(sweepBounds) {
			continue
		}

		h, ok := p.intersect(q, rotation, dir, length)
		if !ok {
			continue
		}

		hit := engine.HitResult{
			GameObject:       p.object,
			Component:        p.component,
			Item:             p.item,
			Distance:         h.Distance,
			Point:            rl.Vector3Add(q.Start, rl.Vector3Scale(dir, h.Distance)),
			Normal:           h.Normal,
			BlockingHit:      blocking,
			StartPenetrating: h.Inside,
			FaceIndex:        -1,
		}
		if q.Params.ReturnFaceIndex {
			hit.FaceIndex = h.FaceIndex
		}
		if q.Params.ReturnPhysicalMaterial {
			hit.PhysMaterial = p.settings.PhysMaterial
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return selectHits(q.Type, filter.spec.IsObjectQuery(), hits)
}

// selectHits applies single/multi semantics to distance sorted hits.
// Channel multi traces stop at the first block; object queries never do.
func selectHits(traceType engine.TraceType, objectQuery bool, hits []engine.HitResult) []engine.HitResult {
	if traceType == engine.TraceSingle {
		for _, h := range hits {
			if h.BlockingHit {
				return []engine.HitResult{h}
			}
		}
		return nil
	}

	if objectQuery {
		return hits
	}
	for i, h := range hits {
		if h.BlockingHit {
			return hits[:i+1]
		}
	}
	return hits
}

func (p *colliderProxy) intersect(q engine.TraceQuery, rotation rl.Quaternion, dir rl.Vector3, length float32) (rayHit, bool) {
	var h rayHit
	var ok bool
	switch p.kind {
	case proxyBox:
		h, ok = raycastOBB(q.Start, dir, length, p.box.Inflate(shapeExtentOnAxes(q.Shape, rotation, p.box.Axes)))
	case proxySphere:
		h, ok = raycastSphere(q.Start, dir, p.center, p.radius+q.Shape.BoundingRadius(), length)
	case proxyCapsule:
		return raycastCapsule(q.Start, dir, p.segA, p.segB, p.radius+q.Shape.BoundingRadius(), length)
	case proxyMesh:
		if q.Params.TraceComplex && !q.Params.SkipNarrowPhase {
			return p.intersectMesh(q, dir, length)
		}
		h, ok = raycastOBB(q.Start, dir, length, p.box.Inflate(shapeExtentOnAxes(q.Shape, rotation, p.box.Axes)))
	}
	if !ok || q.Params.SkipNarrowPhase {
		return h, ok
	}
	return p.refineSweep(q, rotation, dir, length, h)
}

// shapeOBB places a box query shape at pos
func shapeOBB(shape engine.CollisionShape, pos rl.Vector3, rotation rl.Quaternion) OBB {
	return OBB{Center: pos, HalfSize: shape.HalfExtent, Axes: rotatedAxes(rotation)}
}

// exactOverlap tests the query shape placed at pos against the proxy. exact
// is false for pairs the swept tests above already answer exactly, or that
// have no exact test.
func (p *colliderProxy) exactOverlap(shape engine.CollisionShape, pos rl.Vector3, rotation rl.Quaternion) (overlap, exact bool) {
	switch p.kind {
	case proxyBox, proxyMesh:
		switch shape.Type {
		case engine.ShapeSphere:
			return p.box.IntersectsSphere(pos, shape.Radius), true
		case engine.ShapeBox:
			return p.box.IntersectsOBB(shapeOBB(shape, pos, rotation)), true
		}
	case proxySphere:
		if shape.Type == engine.ShapeBox {
			return shapeOBB(shape, pos, rotation).IntersectsSphere(p.center, p.radius), true
		}
	}
	return false, false
}

// refineSweep checks a conservative hit with the exact overlap test. A hit
// the shape does not actually reach (an inflated corner) is moved along the
// sweep to the first sampled contact, or dropped.
func (p *colliderProxy) refineSweep(q engine.TraceQuery, rotation rl.Quaternion, dir rl.Vector3, length float32, h rayHit) (rayHit, bool) {
	overlapsAt := func(d float32) bool {
		overlap, _ := p.exactOverlap(q.Shape, rl.Vector3Add(q.Start, rl.Vector3Scale(dir, d)), rotation)
		return overlap
	}
	overlap, exact := p.exactOverlap(q.Shape, rl.Vector3Add(q.Start, rl.Vector3Scale(dir, h.Distance)), rotation)
	if !exact || overlap {
		return h, true
	}

	step := q.Shape.BoundingRadius() / 4
	if step <= 0 || length <= h.Distance {
		return rayHit{}, false
	}
	steps := int(math.Ceil(float64((length - h.Distance) / step)))
	prev := h.Distance
	for i := 1; i <= steps; i++ {
		d := min(h.Distance+float32(i)*step, length)
		if !overlapsAt(d) {
			prev = d
			continue
		}
		lo, hi := prev, d
		for j := 0; j < 12; j++ {
			mid := (lo + hi) / 2
			if overlapsAt(mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
		pos := rl.Vector3Add(q.Start, rl.Vector3Scale(dir, hi))
		return rayHit{Distance: hi, Normal: p.contactNormal(q.Shape, pos, rotation, dir), FaceIndex: h.FaceIndex}, true
	}
	return rayHit{}, false
}

// contactNormal points from the proxy towards the query shape at pos
func (p *colliderProxy) contactNormal(shape engine.CollisionShape, pos rl.Vector3, rotation rl.Quaternion, dir rl.Vector3) rl.Vector3 {
	var n rl.Vector3
	if p.kind == proxySphere {
		n = rl.Vector3Subtract(ClosestPointOnOBB(shapeOBB(shape, pos, rotation), p.center), p.center)
	} else {
		n = rl.Vector3Subtract(pos, ClosestPointOnOBB(p.box, pos))
	}
	if rl.Vector3DotProduct(n, n) < 1e-12 {
		return rl.Vector3Negate(dir)
	}
	return rl.Vector3Normalize(n)
}

// intersectMesh tests the trace's center line against the triangles. Shapes
// only add a start overlap test using their bounding sphere.
func (p *colliderProxy) intersectMesh(q engine.TraceQuery, dir rl.Vector3, length float32) (rayHit, bool) {
	if r := q.Shape.BoundingRadius(); r > 0 {
		if idx, ok := p.mesh.SphereOverlap(q.Start, r); ok {
			return rayHit{Normal: rl.Vector3Negate(dir), Inside: true, FaceIndex: idx}, true
		}
	}
	if length <= 0 {
		return rayHit{}, false
	}

	t, idx, normal, ok := p.mesh.Raycast(q.Start, dir, length)
	if !ok {
		return rayHit{}, false
	}
	// Triangles are double sided, face the normal back at the trace
	if rl.Vector3DotProduct(normal, dir) > 0 {
		normal = rl.Vector3Negate(normal)
	}
	return rayHit{Distance: t, Normal: normal, FaceIndex: idx}, true
}

// shapeExtentOnAxes is how far the swept shape reaches along each axis.
// Growing a box by this turns a shape sweep into a ray test; corners are
// treated as square so the result errs towards hitting.
func shapeExtentOnAxes(shape engine.CollisionShape, rotation rl.Quaternion, axes [3]rl.Vector3) rl.Vector3 {
	var ext [3]float32
	switch shape.Type {
	case engine.ShapeSphere:
		ext = [3]float32{shape.Radius, shape.Radius, shape.Radius}
	case engine.ShapeBox:
		shapeBox := OBB{HalfSize: shape.HalfExtent, Axes: rotatedAxes(rotation)}
		for i := range ext {
			ext[i] = shapeBox.projectedRadius(axes[i])
		}
	case engine.ShapeCapsule:
		up := rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, rotation)
		for i := range ext {
			ext[i] = shape.Radius + shape.HalfHeight*absf(rl.Vector3DotProduct(up, axes[i]))
		}
	}
	return rl.Vector3{X: ext[0], Y: ext[1], Z: ext[2]}
}

func normalizedRotation(q rl.Quaternion) rl.Quaternion {
	if q == (rl.Quaternion{}) {
		return rl.QuaternionIdentity()
	}
	return rl.QuaternionNormalize(q)
}
