package utils

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var powerOfTwoTests = []struct {
	in  int
	out bool
}{
	{0, false},
	{1, true},
	{2, true},
	{3, false},
	{512, true},
	{640, false},
	{1024, true},
	{-4, false},
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, tt := range powerOfTwoTests {
		if got := IsPowerOfTwo(tt.in); got != tt.out {
			t.Errorf("IsPowerOfTwo(%d) => %v, want %v", tt.in, got, tt.out)
		}
	}
}

func TestEulerMatrixOrder(t *testing.T) {
	angles := mgl32.Vec3{30, -45, 60}
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(30))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(-45))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(60))

	assert.True(t, EulerMatrix(angles).ApproxEqualThreshold(rz.Mul4(ry).Mul4(rx), 1e-5))
	assert.True(t, EulerMatrixOrder(angles, EulerZYX).ApproxEqualThreshold(rx.Mul4(ry).Mul4(rz), 1e-5))
	assert.True(t, EulerMatrixOrder(angles, EulerYXZ).ApproxEqualThreshold(rz.Mul4(rx).Mul4(ry), 1e-5))
	// spheric order is read as xyz
	assert.True(t, EulerMatrixOrder(angles, 6).ApproxEqualThreshold(EulerMatrix(angles), 1e-5))
}

func TestDecompose(t *testing.T) {
	tr := mgl32.Vec3{1, 2, 3}
	rot := mgl32.Vec3{0, 90, 0}
	sc := mgl32.Vec3{2, 3, 4}

	s, q, p := Decompose(ComposeTRS(tr, rot, sc))
	assert.True(t, s.ApproxEqualThreshold(sc, 1e-5), "scale %v", s)
	assert.True(t, p.ApproxEqualThreshold(tr, 1e-5), "translation %v", p)
	assert.InDelta(t, 1, q.Len(), 1e-5)
	assert.True(t, q.Mat4().ApproxEqualThreshold(EulerMatrix(rot), 1e-5))
}

func TestQuatToEulerRoundTrip(t *testing.T) {
	angles := mgl32.Vec3{10, 20, 30}
	q := mgl32.Mat4ToQuat(EulerMatrix(angles))
	e := RadiansToDegreeV3(QuatToEuler(q))
	assert.True(t, e.ApproxEqualThreshold(angles, 1e-3), "angles %v", e)
}
