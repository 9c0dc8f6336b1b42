package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// mgl64 is column-major, so conversions go through a transpose.
type Mat3 [9]float64

func (m Mat3) mgl() mgl64.Mat3 { return mgl64.Mat3(m).Transpose() }

func Mat3Identity() Mat3 { return Mat3(mgl64.Ident3()) }

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 { return Vec3(m.mgl().Mul3x1(mgl64.Vec3(v))) }

func (m Mat3) Det() float64 { return mgl64.Mat3(m).Det() }

// Mat4 is a 4×4 affine matrix stored row-major.
type Mat4 [16]float64

func (m Mat4) mgl() mgl64.Mat4 { return mgl64.Mat4(m).Transpose() }

func mat4From(m mgl64.Mat4) Mat4 { return Mat4(m.Transpose()) }

func Mat4Identity() Mat4 { return Mat4(mgl64.Ident4()) }

// Compose builds T × R × S.
func Compose(pos Vec3, rot Quat, scale Vec3) Mat4 {
	t := mgl64.Translate3D(pos[0], pos[1], pos[2])
	s := mgl64.Scale3D(scale[0], scale[1], scale[2])
	return mat4From(t.Mul4(rot.mgl().Mat4()).Mul4(s))
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 { return mat4From(a.mgl().Mul4(b.mgl())) }

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3(m.mgl().Mul4x1(mgl64.Vec3(v).Vec4(1)).Vec3())
}

// Decompose splits an affine matrix into translation, rotation and scale.
// A negative determinant is folded into the x scale.
func (m Mat4) Decompose() (pos Vec3, rot Quat, scale Vec3) {
	g := m.mgl()
	pos = Vec3(g.Col(3).Vec3())
	sx := g.Col(0).Vec3().Len()
	sy := g.Col(1).Vec3().Len()
	sz := g.Col(2).Vec3().Len()
	if g.Mat3().Det() < 0 {
		sx = -sx
	}
	scale = Vec3{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return pos, QuatIdentity(), scale
	}
	r := mgl64.Mat3FromCols(
		g.Col(0).Vec3().Mul(1/sx),
		g.Col(1).Vec3().Mul(1/sy),
		g.Col(2).Vec3().Mul(1/sz),
	)
	return pos, quatFrom(mgl64.Mat4ToQuat(r.Mat4())), scale
}
