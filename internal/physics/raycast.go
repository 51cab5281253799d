package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// rayHit is a single ray/primitive intersection. Inside means the ray
// started in the primitive; Distance is then zero.
type rayHit struct {
	Distance  float32
	Normal    rl.Vector3
	Inside    bool
	FaceIndex int
}

// raycastOBB intersects a normalized ray with an oriented box using slabs in
// the box's local frame.
func raycastOBB(origin, direction rl.Vector3, maxDistance float32, o OBB) (rayHit, bool) {
	rel := rl.Vector3Subtract(origin, o.Center)
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}

	var localOrigin, localDir [3]float32
	inside := true
	for i := 0; i < 3; i++ {
		localOrigin[i] = rl.Vector3DotProduct(rel, o.Axes[i])
		localDir[i] = rl.Vector3DotProduct(direction, o.Axes[i])
		if localOrigin[i] < -half[i] || localOrigin[i] > half[i] {
			inside = false
		}
	}
	if inside {
		return rayHit{Normal: rl.Vector3Negate(direction), Inside: true, FaceIndex: -1}, true
	}
	if maxDistance <= 0 {
		return rayHit{}, false
	}

	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)
	axis := -1
	var sign float32

	for i := 0; i < 3; i++ {
		if absf(localDir[i]) < 1e-8 {
			// Parallel to this slab
			if localOrigin[i] < -half[i] || localOrigin[i] > half[i] {
				return rayHit{}, false
			}
			continue
		}
		t1 := (-half[i] - localOrigin[i]) / localDir[i]
		t2 := (half[i] - localOrigin[i]) / localDir[i]
		n := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = 1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = n
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return rayHit{}, false
		}
	}

	if axis < 0 || tmin < 0 || tmin > maxDistance {
		return rayHit{}, false
	}

	return rayHit{
		Distance:  tmin,
		Normal:    rl.Vector3Scale(o.Axes[axis], sign),
		FaceIndex: -1,
	}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (rayHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius
	if c <= 0 {
		return rayHit{Normal: rl.Vector3Negate(direction), Inside: true, FaceIndex: -1}, true
	}
	if maxDistance <= 0 {
		return rayHit{}, false
	}

	b := rl.Vector3DotProduct(oc, direction)
	discriminant := b*b - c
	if discriminant < 0 {
		return rayHit{}, false
	}

	t := -b - float32(math.Sqrt(float64(discriminant)))
	if t < 0 || t > maxDistance {
		return rayHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))
	return rayHit{Distance: t, Normal: normal, FaceIndex: -1}, true
}

// raycastCapsule intersects a ray with the capsule around segment a-b
func raycastCapsule(origin, direction, a, b rl.Vector3, radius, maxDistance float32) (rayHit, bool) {
	closest := closestPointOnSegment(origin, a, b)
	if rl.Vector3DistanceSqr(origin, closest) <= radius*radius {
		return rayHit{Normal: rl.Vector3Negate(direction), Inside: true, FaceIndex: -1}, true
	}
	if maxDistance <= 0 {
		return rayHit{}, false
	}

	best := maxDistance
	found := false

	// Cylinder body
	d := rl.Vector3Subtract(b, a)
	m := rl.Vector3Subtract(origin, a)
	dd := rl.Vector3DotProduct(d, d)
	nd := rl.Vector3DotProduct(direction, d)
	md := rl.Vector3DotProduct(m, d)
	mn := rl.Vector3DotProduct(m, direction)
	k := rl.Vector3DotProduct(m, m) - radius*radius

	qa := dd - nd*nd
	qb := dd*mn - nd*md
	qc := dd*k - md*md
	if absf(qa) > 1e-8 {
		disc := qb*qb - qa*qc
		if disc >= 0 {
			t := (-qb - float32(math.Sqrt(float64(disc)))) / qa
			s := md + t*nd
			if t >= 0 && t <= best && s >= 0 && s <= dd {
				best = t
				found = true
			}
		}
	}

	// End caps
	for _, end := range [2]rl.Vector3{a, b} {
		if h, ok := raycastSphere(origin, direction, end, radius, best); ok && !h.Inside && h.Distance <= best {
			best = h.Distance
			found = true
		}
	}

	if !found {
		return rayHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, best))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, closestPointOnSegment(point, a, b)))
	return rayHit{Distance: best, Normal: normal, FaceIndex: -1}, true
}

func closestPointOnSegment(p, a, b rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	denom := rl.Vector3DotProduct(ab, ab)
	if denom < 1e-12 {
		return a
	}
	t := clampf(rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab)/denom, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}
