package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

func quatFrom(q mgl64.Quat) Quat { return Quat{q.V[0], q.V[1], q.V[2], q.W} }

func (q Quat) mgl() mgl64.Quat { return mgl64.Quat{W: q[3], V: mgl64.Vec3{q[0], q[1], q[2]}} }

// QuatIdentity is the no-rotation quaternion.
func QuatIdentity() Quat { return quatFrom(mgl64.QuatIdent()) }

// QuatFromAxisAngle builds a rotation of angle radians about a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	return quatFrom(mgl64.QuatRotate(angle, mgl64.Vec3(axis)))
}

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
func EulerToQuat(rx, ry, rz float64) Quat {
	return quatFrom(mgl64.AnglesToQuat(rx, ry, rz, mgl64.XYZ))
}

// Mul returns a × b (apply b first, then a).
func (a Quat) Mul(b Quat) Quat { return quatFrom(a.mgl().Mul(b.mgl())) }

func (q Quat) Normalize() Quat {
	if q.mgl().Len() < 1e-12 {
		return QuatIdentity()
	}
	return quatFrom(q.mgl().Normalize())
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return QuatToMat3(q).MulVec3(v)
}

// QuatToMat3 converts a quaternion to a row-major 3×3 rotation matrix.
func QuatToMat3(q Quat) Mat3 {
	m := q.mgl().Mat4()
	return Mat3{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
	}
}

// Mat3ToQuat extracts a quaternion from a pure rotation matrix.
func Mat3ToQuat(m Mat3) Quat {
	return quatFrom(mgl64.Mat4ToQuat(m.mgl().Mat4()))
}

// ApproxEqual compares component-wise within eps.
func (a Quat) ApproxEqual(b Quat, eps float64) bool {
	for i := 0; i < 4; i++ {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
