// Package camera projects swarm coordinates onto a 2D viewport and maps
// viewport positions back onto the z=0 plane where the pointer lives.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	fovy     = 45.0
	near     = 0.1
	far      = 100.0
	distance = 40.0
)

// Point is a projected particle position.
type Point struct {
	X, Y  float32 // viewport coordinates, origin at the top left
	Depth float32 // window depth in [0, 1], smaller is nearer
	Scale float32 // horizontal viewport units per world unit at this depth
}

// Camera looks at the origin from the positive z axis.
type Camera struct {
	width, height int
	pixelAspect   float32
	yaw           float32
	focal         float32

	projection mgl32.Mat4
	modelview  mgl32.Mat4
	mvp        mgl32.Mat4
}

// New creates a camera for a width x height viewport. pixelAspect is the
// height/width ratio of a single viewport unit: 1 for pixels, about 2 for
// terminal cells.
func New(width, height int, pixelAspect float32) *Camera {
	if pixelAspect <= 0 {
		pixelAspect = 1
	}
	c := &Camera{pixelAspect: pixelAspect}
	c.Resize(width, height)
	return c
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
	c.update()
}

// Size returns the viewport dimensions.
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}

// SetYaw rotates the swarm around the vertical axis by the given angle in radians.
func (c *Camera) SetYaw(yaw float32) {
	c.yaw = yaw
	c.update()
}

func (c *Camera) update() {
	aspect := float32(c.width) / (float32(c.height) * c.pixelAspect)
	c.projection = mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far)

	view := mgl32.LookAtV(
		mgl32.Vec3{0, 0, distance},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
	c.modelview = view.Mul4(mgl32.HomogRotate3DY(c.yaw))
	c.mvp = c.projection.Mul4(c.modelview)
	c.focal = float32(c.height) / 2 / float32(math.Tan(float64(mgl32.DegToRad(fovy))/2))
}

// Project maps a world position onto the viewport. It reports false when
// the point falls outside the viewport or the depth range.
func (c *Camera) Project(x, y, z float32) (Point, bool) {
	clip := c.mvp.Mul4x1(mgl32.Vec4{x, y, z, 1})
	w := clip.W()
	if w <= near {
		return Point{}, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	p := Point{
		X:     (ndc.X() + 1) / 2 * float32(c.width),
		Y:     (1 - ndc.Y()) / 2 * float32(c.height),
		Depth: (ndc.Z() + 1) / 2,
		Scale: c.focal * c.pixelAspect / w,
	}
	if p.Depth < 0 || p.Depth > 1 {
		return p, false
	}
	if p.X < 0 || p.Y < 0 || p.X >= float32(c.width) || p.Y >= float32(c.height) {
		return p, false
	}
	return p, true
}

// Unproject casts a ray through the viewport position and returns where it
// crosses the z=0 world plane.
func (c *Camera) Unproject(sx, sy float32) (x, y float32, ok bool) {
	winY := float32(c.height) - sy
	nearPt, err := mgl32.UnProject(mgl32.Vec3{sx, winY, 0}, c.modelview, c.projection, 0, 0, c.width, c.height)
	if err != nil {
		return 0, 0, false
	}
	farPt, err := mgl32.UnProject(mgl32.Vec3{sx, winY, 1}, c.modelview, c.projection, 0, 0, c.width, c.height)
	if err != nil {
		return 0, 0, false
	}
	dz := farPt.Z() - nearPt.Z()
	if dz == 0 {
		return 0, 0, false
	}
	t := -nearPt.Z() / dz
	hit := nearPt.Add(farPt.Sub(nearPt).Mul(t))
	return hit.X(), hit.Y(), true
}
