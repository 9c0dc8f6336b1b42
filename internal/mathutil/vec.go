package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2-component vector on the drawing plane.
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 { return Vec2(mgl64.Vec2(a).Add(mgl64.Vec2(b))) }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2(mgl64.Vec2(a).Sub(mgl64.Vec2(b))) }

func (v Vec2) Scale(s float64) Vec2 { return Vec2(mgl64.Vec2(v).Mul(s)) }

func (a Vec2) Dot(b Vec2) float64 { return mgl64.Vec2(a).Dot(mgl64.Vec2(b)) }

// Cross returns the z component of the 3D cross product.
func (a Vec2) Cross(b Vec2) float64 { return a[0]*b[1] - a[1]*b[0] }

func (v Vec2) Len() float64 { return mgl64.Vec2(v).Len() }

func (v Vec2) Normalize() Vec2 {
	if v.Len() < 1e-12 {
		return Vec2{}
	}
	return Vec2(mgl64.Vec2(v).Normalize())
}

func (v Vec2) IsFinite() bool { return finite(v[0]) && finite(v[1]) }

// Vec3 is a 3-component vector (value type, stack-allocated). It shares
// its layout with mgl64.Vec3.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 { return Vec3(mgl64.Vec3(a).Add(mgl64.Vec3(b))) }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3(mgl64.Vec3(a).Sub(mgl64.Vec3(b))) }

func (v Vec3) Scale(s float64) Vec3 { return Vec3(mgl64.Vec3(v).Mul(s)) }

// Mul multiplies component-wise.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func (a Vec3) Dot(b Vec3) float64 { return mgl64.Vec3(a).Dot(mgl64.Vec3(b)) }

func (a Vec3) Cross(b Vec3) Vec3 { return Vec3(mgl64.Vec3(a).Cross(mgl64.Vec3(b))) }

func (v Vec3) Len() float64 { return mgl64.Vec3(v).Len() }

func (v Vec3) Normalize() Vec3 {
	if v.Len() < 1e-12 {
		return Vec3{}
	}
	return Vec3(mgl64.Vec3(v).Normalize())
}

// Lerp interpolates between a and b.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 { return a.Add(b.Sub(a).Scale(t)) }

func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

func (v Vec3) IsFinite() bool { return finite(v[0]) && finite(v[1]) && finite(v[2]) }

// ApproxEqual compares component-wise within an absolute eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 { return mgl64.DegToRad(d) }
