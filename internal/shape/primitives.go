package shape

import (
	"math"

	"geoscene/internal/mathutil"
)

// Sphere builds an indexed UV sphere centered at the origin.
func Sphere(radius float64, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	g := &Geometry{}
	grid := make([][]uint32, heightSegments+1)
	var index uint32
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		uOffset := 0.0
		switch iy {
		case 0:
			uOffset = 0.5 / float64(widthSegments)
		case heightSegments:
			uOffset = -0.5 / float64(widthSegments)
		}
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			theta := v * math.Pi
			p := mathutil.Vec3{
				-radius * math.Cos(phi) * math.Sin(theta),
				radius * math.Cos(theta),
				radius * math.Sin(phi) * math.Sin(theta),
			}
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, p.Normalize())
			g.UVs = append(g.UVs, mathutil.Vec2{u + uOffset, 1 - v})
			row[ix] = index
			index++
		}
		grid[iy] = row
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	g.addGroup(0, len(g.Indices), 0)
	return g
}

// Cone builds an indexed cone with its apex at +height/2 and a closed
// base at -height/2.
func Cone(radius, height float64, radialSegments, heightSegments int) *Geometry {
	return Cylinder(0, radius, height, radialSegments, heightSegments, false)
}

// Cylinder builds an indexed cylinder along Y. Torso faces use material
// group 0, the top cap 1 and the bottom cap 2. A zero radius skips its cap.
func Cylinder(radiusTop, radiusBottom, height float64, radialSegments, heightSegments int, openEnded bool) *Geometry {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if heightSegments < 1 {
		heightSegments = 1
	}
	g := &Geometry{}
	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	rows := make([][]uint32, heightSegments+1)
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		r := v*(radiusBottom-radiusTop) + radiusTop
		row := make([]uint32, radialSegments+1)
		for x := 0; x <= radialSegments; x++ {
			u := float64(x) / float64(radialSegments)
			sin, cos := math.Sincos(u * 2 * math.Pi)
			row[x] = uint32(len(g.Positions))
			g.Positions = append(g.Positions, mathutil.Vec3{r * sin, -v*height + half, r * cos})
			g.Normals = append(g.Normals, mathutil.Vec3{sin, slope, cos}.Normalize())
			g.UVs = append(g.UVs, mathutil.Vec2{u, 1 - v})
		}
		rows[y] = row
	}
	for x := 0; x < radialSegments; x++ {
		for y := 0; y < heightSegments; y++ {
			a, b := rows[y][x], rows[y+1][x]
			c, d := rows[y+1][x+1], rows[y][x+1]
			if radiusTop > 0 || y != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if radiusBottom > 0 || y != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	g.addGroup(0, len(g.Indices), 0)

	if !openEnded {
		if radiusTop > 0 {
			cylinderCap(g, true, radiusTop, half, radialSegments, 1)
		}
		if radiusBottom > 0 {
			cylinderCap(g, false, radiusBottom, half, radialSegments, 2)
		}
	}
	return g
}

func cylinderCap(g *Geometry, top bool, radius, half float64, segments, mat int) {
	start := len(g.Indices)
	sign := -1.0
	if top {
		sign = 1
	}
	centerStart := uint32(len(g.Positions))
	for x := 1; x <= segments; x++ {
		g.Positions = append(g.Positions, mathutil.Vec3{0, half * sign, 0})
		g.Normals = append(g.Normals, mathutil.Vec3{0, sign, 0})
		g.UVs = append(g.UVs, mathutil.Vec2{0.5, 0.5})
	}
	centerEnd := uint32(len(g.Positions))
	for x := 0; x <= segments; x++ {
		u := float64(x) / float64(segments)
		sin, cos := math.Sincos(u * 2 * math.Pi)
		g.Positions = append(g.Positions, mathutil.Vec3{radius * sin, half * sign, radius * cos})
		g.Normals = append(g.Normals, mathutil.Vec3{0, sign, 0})
		g.UVs = append(g.UVs, mathutil.Vec2{cos*0.5 + 0.5, sin*0.5*sign + 0.5})
	}
	for x := uint32(0); x < uint32(segments); x++ {
		c := centerStart + x
		i := centerEnd + x
		if top {
			g.Indices = append(g.Indices, i, i+1, c)
		} else {
			g.Indices = append(g.Indices, i+1, i, c)
		}
	}
	g.addGroup(start, len(g.Indices)-start, mat)
}
