package components

import (
	"math"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Triangle represents a single triangle with precomputed normal
type Triangle struct {
	V0, V1, V2 rl.Vector3
	Normal     rl.Vector3
}

// NewTriangle builds a triangle and its normal from counter-clockwise vertices
func NewTriangle(v0, v1, v2 rl.Vector3) Triangle {
	normal := rl.Vector3Normalize(rl.Vector3CrossProduct(rl.Vector3Subtract(v1, v0), rl.Vector3Subtract(v2, v0)))
	return Triangle{V0: v0, V1: v1, V2: v2, Normal: normal}
}

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min, Max rl.Vector3
}

// BVHNode is a node in the bounding volume hierarchy
type BVHNode struct {
	Bounds    AABB
	Left      *BVHNode
	Right     *BVHNode
	Triangles []int // indices into the triangle array (only for leaf nodes)
}

// MeshCollider provides collision detection against mesh triangles.
// This is for STATIC geometry only - moving the object won't update the collider.
// Traces only see the triangles when they ask for complex collision; simple
// traces hit the mesh bounds.
type MeshCollider struct {
	ColliderBase
	Triangles []Triangle
	Root      *BVHNode
	built     bool
}

// NewMeshCollider creates a mesh collider (must call a Build method after)
func NewMeshCollider() *MeshCollider {
	return &MeshCollider{
		ColliderBase: ColliderBase{Settings: DefaultCollisionSettings()},
	}
}

// BuildFromModel extracts triangles from a raylib Model and builds the BVH
func (m *MeshCollider) BuildFromModel(model rl.Model) {
	var local []Triangle
	meshes := unsafe.Slice(model.Meshes, model.MeshCount)

	for _, mesh := range meshes {
		vertices := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
		vertex := func(i int32) rl.Vector3 {
			return rl.Vector3{X: vertices[i*3+0], Y: vertices[i*3+1], Z: vertices[i*3+2]}
		}

		if mesh.Indices != nil {
			// Indexed mesh
			indices := unsafe.Slice(mesh.Indices, mesh.TriangleCount*3)
			for i := int32(0); i < mesh.TriangleCount; i++ {
				local = append(local, NewTriangle(
					vertex(int32(indices[i*3+0])),
					vertex(int32(indices[i*3+1])),
					vertex(int32(indices[i*3+2])),
				))
			}
		} else {
			// Non-indexed mesh (every 3 vertices = 1 triangle)
			for i := int32(0); i+2 < mesh.VertexCount; i += 3 {
				local = append(local, NewTriangle(vertex(i), vertex(i+1), vertex(i+2)))
			}
		}
	}

	m.BuildFromTriangles(local)
}

// BuildFromTriangles takes triangles in the object's local space, moves them
// to world space and builds the BVH.
func (m *MeshCollider) BuildFromTriangles(local []Triangle) {
	g := m.GetGameObject()
	if g == nil {
		return
	}

	m.Triangles = make([]Triangle, 0, len(local))
	for _, tri := range local {
		m.Triangles = append(m.Triangles, NewTriangle(
			worldOffset(g, tri.V0),
			worldOffset(g, tri.V1),
			worldOffset(g, tri.V2),
		))
	}

	m.Root = nil
	m.buildBVH()
	m.built = m.Root != nil
}

// buildBVH constructs a bounding volume hierarchy for fast queries
func (m *MeshCollider) buildBVH() {
	if len(m.Triangles) == 0 {
		return
	}

	// Create indices for all triangles
	indices := make([]int, len(m.Triangles))
	for i := range indices {
		indices[i] = i
	}

	m.Root = m.buildBVHNode(indices, 0)
}

func (m *MeshCollider) buildBVHNode(indices []int, depth int) *BVHNode {
	node := &BVHNode{}

	// Compute bounds for all triangles in this node
	node.Bounds = m.computeBounds(indices)

	// If few triangles or max depth, make leaf
	if len(indices) <= 4 || depth > 20 {
		node.Triangles = indices
		return node
	}

	// Find longest axis
	size := rl.Vector3Subtract(node.Bounds.Max, node.Bounds.Min)
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > getAxisValue(size, axis) {
		axis = 2
	}

	// Sort by centroid on longest axis
	mid := m.partitionTriangles(indices, axis)

	if mid == 0 || mid == len(indices) {
		// Couldn't split, make leaf
		node.Triangles = indices
		return node
	}

	node.Left = m.buildBVHNode(indices[:mid], depth+1)
	node.Right = m.buildBVHNode(indices[mid:], depth+1)

	return node
}

func (m *MeshCollider) computeBounds(indices []int) AABB {
	bounds := AABB{
		Min: rl.Vector3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32},
		Max: rl.Vector3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32},
	}

	for _, idx := range indices {
		tri := &m.Triangles[idx]
		bounds.Min = vector3Min(bounds.Min, tri.V0)
		bounds.Min = vector3Min(bounds.Min, tri.V1)
		bounds.Min = vector3Min(bounds.Min, tri.V2)
		bounds.Max = vector3Max(bounds.Max, tri.V0)
		bounds.Max = vector3Max(bounds.Max, tri.V1)
		bounds.Max = vector3Max(bounds.Max, tri.V2)
	}

	return bounds
}

func (m *MeshCollider) partitionTriangles(indices []int, axis int) int {
	// Find median centroid
	center := float32(0)
	for _, idx := range indices {
		tri := &m.Triangles[idx]
		centroid := rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(tri.V0, tri.V1), tri.V2), 1.0/3.0)
		center += getAxisValue(centroid, axis)
	}
	center /= float32(len(indices))

	// Partition around median
	left := 0
	right := len(indices) - 1
	for left <= right {
		tri := &m.Triangles[indices[left]]
		centroid := rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(tri.V0, tri.V1), tri.V2), 1.0/3.0)
		if getAxisValue(centroid, axis) < center {
			left++
		} else {
			indices[left], indices[right] = indices[right], indices[left]
			right--
		}
	}
	return left
}

func getAxisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func vector3Min(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: float32(math.Min(float64(a.X), float64(b.X))),
		Y: float32(math.Min(float64(a.Y), float64(b.Y))),
		Z: float32(math.Min(float64(a.Z), float64(b.Z))),
	}
}

func vector3Max(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: float32(math.Max(float64(a.X), float64(b.X))),
		Y: float32(math.Max(float64(a.Y), float64(b.Y))),
		Z: float32(math.Max(float64(a.Z), float64(b.Z))),
	}
}

// SphereOverlap returns the first triangle within radius of center
func (m *MeshCollider) SphereOverlap(center rl.Vector3, radius float32) (int, bool) {
	if !m.built || m.Root == nil {
		return -1, false
	}

	// Expand sphere to AABB for BVH query
	sphereAABB := AABB{
		Min: rl.Vector3{X: center.X - radius, Y: center.Y - radius, Z: center.Z - radius},
		Max: rl.Vector3{X: center.X + radius, Y: center.Y + radius, Z: center.Z + radius},
	}

	for _, idx := range m.queryBVH(m.Root, sphereAABB) {
		if sphereTriangleIntersect(center, radius, &m.Triangles[idx]) {
			return idx, true
		}
	}
	return -1, false
}

func (m *MeshCollider) queryBVH(node *BVHNode, query AABB) []int {
	var result []int
	m.collectBVH(node, query, &result)
	return result
}

// collectBVH copies leaf indices; leaves share the backing index array
func (m *MeshCollider) collectBVH(node *BVHNode, query AABB, result *[]int) {
	if node == nil {
		return
	}

	// Check if query intersects this node's bounds
	if !aabbIntersects(node.Bounds, query) {
		return
	}

	// If leaf, return triangles
	if node.Triangles != nil {
		*result = append(*result, node.Triangles...)
		return
	}

	m.collectBVH(node.Left, query, result)
	m.collectBVH(node.Right, query, result)
}

func aabbIntersects(a, b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// sphereTriangleIntersect tests sphere vs triangle
func sphereTriangleIntersect(center rl.Vector3, radius float32, tri *Triangle) bool {
	// Find closest point on triangle to sphere center
	closest := closestPointOnTriangle(center, tri.V0, tri.V1, tri.V2)

	diff := rl.Vector3Subtract(center, closest)
	return rl.Vector3DotProduct(diff, diff) < radius*radius
}

// closestPointOnTriangle finds the closest point on a triangle to point p
func closestPointOnTriangle(p, a, b, c rl.Vector3) rl.Vector3 {
	// Check if P in vertex region outside A
	ab := rl.Vector3Subtract(b, a)
	ac := rl.Vector3Subtract(c, a)
	ap := rl.Vector3Subtract(p, a)

	d1 := rl.Vector3DotProduct(ab, ap)
	d2 := rl.Vector3DotProduct(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a // barycentric coordinates (1,0,0)
	}

	// Check if P in vertex region outside B
	bp := rl.Vector3Subtract(p, b)
	d3 := rl.Vector3DotProduct(ab, bp)
	d4 := rl.Vector3DotProduct(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b // barycentric coordinates (0,1,0)
	}

	// Check if P in edge region of AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return rl.Vector3Add(a, rl.Vector3Scale(ab, v)) // barycentric coordinates (1-v,v,0)
	}

	// Check if P in vertex region outside C
	cp := rl.Vector3Subtract(p, c)
	d5 := rl.Vector3DotProduct(ab, cp)
	d6 := rl.Vector3DotProduct(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c // barycentric coordinates (0,0,1)
	}

	// Check if P in edge region of AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return rl.Vector3Add(a, rl.Vector3Scale(ac, w)) // barycentric coordinates (1-w,0,w)
	}

	// Check if P in edge region of BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return rl.Vector3Add(b, rl.Vector3Scale(rl.Vector3Subtract(c, b), w)) // barycentric coordinates (0,1-w,w)
	}

	// P inside face region
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return rl.Vector3Add(a, rl.Vector3Add(rl.Vector3Scale(ab, v), rl.Vector3Scale(ac, w)))
}

// Raycast finds the closest triangle hit along a normalized direction.
// Returns the distance, the triangle index and its normal.
func (m *MeshCollider) Raycast(origin, direction rl.Vector3, maxDistance float32) (float32, int, rl.Vector3, bool) {
	if !m.built || m.Root == nil {
		return 0, -1, rl.Vector3{}, false
	}

	end := rl.Vector3Add(origin, rl.Vector3Scale(direction, maxDistance))
	query := AABB{Min: vector3Min(origin, end), Max: vector3Max(origin, end)}

	best := maxDistance
	bestIdx := -1
	for _, idx := range m.queryBVH(m.Root, query) {
		tri := &m.Triangles[idx]
		if t, ok := rayTriangleIntersect(origin, direction, tri); ok && t <= best {
			best = t
			bestIdx = idx
		}
	}
	if bestIdx < 0 {
		return 0, -1, rl.Vector3{}, false
	}
	return best, bestIdx, m.Triangles[bestIdx].Normal, true
}

// rayTriangleIntersect is Moller-Trumbore, double sided
func rayTriangleIntersect(origin, direction rl.Vector3, tri *Triangle) (float32, bool) {
	const epsilon = 1e-6
	edge1 := rl.Vector3Subtract(tri.V1, tri.V0)
	edge2 := rl.Vector3Subtract(tri.V2, tri.V0)
	h := rl.Vector3CrossProduct(direction, edge2)
	a := rl.Vector3DotProduct(edge1, h)
	if a > -epsilon && a < epsilon {
		return 0, false
	}
	f := 1 / a
	s := rl.Vector3Subtract(origin, tri.V0)
	u := f * rl.Vector3DotProduct(s, h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := rl.Vector3CrossProduct(s, edge1)
	v := f * rl.Vector3DotProduct(direction, q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := f * rl.Vector3DotProduct(edge2, q)
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IsBuilt returns true if the BVH has been built
func (m *MeshCollider) IsBuilt() bool {
	return m.built
}

// TriangleCount returns the number of triangles in the collider
func (m *MeshCollider) TriangleCount() int {
	return len(m.Triangles)
}

// GetBounds returns the AABB of the entire mesh collider
func (m *MeshCollider) GetBounds() AABB {
	if m.Root == nil {
		return AABB{}
	}
	return m.Root.Bounds
}
