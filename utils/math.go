package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// result in radians
func QuatToEuler(q mgl32.Quat) (e mgl32.Vec3) {
	sinr_cosp := float64(2 * (q.W*q.X() + q.Y()*q.Z()))
	cosr_cosp := float64(1 - 2*(q.X()*q.X()+q.Y()*q.Y()))

	e[0] = float32(math.Atan2(sinr_cosp, cosr_cosp))

	sinp := float64(2 * (q.W*q.Y() - q.Z()*q.X()))
	if math.Abs(sinp) >= 1 {
		e[1] = math.Pi / 2
		if sinp < 0 {
			e[1] *= -1
		}
	} else {
		e[1] = float32(math.Asin(sinp))
	}

	siny_cosp := float64(2 * (q.W*q.Z() + q.X()*q.Y()))
	cosy_cosp := float64(1 - 2*(q.Y()*q.Y()+q.Z()*q.Z()))
	e[2] = float32(math.Atan2(siny_cosp, cosy_cosp))

	return e
}

func DegreeToRadiansV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(math.Pi / 180.0)
}

func RadiansToDegreeV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(180.0 / math.Pi)
}

// EulerOrder lists axes in the order their rotations are applied
type EulerOrder int

const (
	EulerXYZ EulerOrder = iota
	EulerXZY
	EulerYZX
	EulerYXZ
	EulerZXY
	EulerZYX
)

var eulerAxes = [...][3]int{
	EulerXYZ: {0, 1, 2},
	EulerXZY: {0, 2, 1},
	EulerYZX: {1, 2, 0},
	EulerYXZ: {1, 0, 2},
	EulerZXY: {2, 0, 1},
	EulerZYX: {2, 1, 0},
}

func axisRotation(axis int, angle float32) mgl32.Mat4 {
	switch axis {
	case 0:
		return mgl32.HomogRotate3DX(angle)
	case 1:
		return mgl32.HomogRotate3DY(angle)
	}
	return mgl32.HomogRotate3DZ(angle)
}

// EulerMatrixOrder builds rotation from angles in degrees applying axes in
// order; unknown orders fall back to xyz
func EulerMatrixOrder(v mgl32.Vec3, order EulerOrder) mgl32.Mat4 {
	axes := eulerAxes[EulerXYZ]
	if order >= 0 && int(order) < len(eulerAxes) {
		axes = eulerAxes[order]
	}
	r := DegreeToRadiansV3(v)
	m := mgl32.Ident4()
	for _, a := range axes {
		m = axisRotation(a, r[a]).Mul4(m)
	}
	return m
}

// EulerMatrix builds Rz*Ry*Rx from angles in degrees
func EulerMatrix(v mgl32.Vec3) mgl32.Mat4 {
	return EulerMatrixOrder(v, EulerXYZ)
}

// ComposeTRS builds T*R*S, rotation given as euler angles in degrees
func ComposeTRS(t, r, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(EulerMatrix(r)).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// Decompose splits affine matrix into scale, normalized rotation and translation
func Decompose(m mgl32.Mat4) (scale mgl32.Vec3, rot mgl32.Quat, trans mgl32.Vec3) {
	trans = m.Col(3).Vec3()

	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	for i := range cols {
		scale[i] = cols[i].Len()
	}
	if cols[0].Cross(cols[1]).Dot(cols[2]) < 0 {
		scale[0] = -scale[0]
	}

	var r mgl32.Mat4
	for i := range cols {
		c := cols[i]
		if scale[i] != 0 {
			c = c.Mul(1 / scale[i])
		}
		r.SetCol(i, c.Vec4(0))
	}
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

	rot = mgl32.Mat4ToQuat(r).Normalize()
	return scale, rot, trans
}

func FloatArray32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}
