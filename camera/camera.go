// Package camera maps a film-plane sample to a world-space ray (spec
// §4.13 "Camera"). The screen window is expressed in camera space,
// centered on the optical axis; resolution maps raster pixels onto it.
package camera

import (
	"github.com/guerarda/rt1w-sub000/sampler"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Camera is the closed set of camera variants: Perspective and
// Orthographic.
type Camera interface {
	GenerateRay(cs sampler.CameraSample) vmath.Ray
	Position() vmath.V3
	Resolution() (width, height int)
}

// Screen is the camera-space screen window, e.g. {-1, 1, -1, 1} for a
// square aspect ratio.
type Screen struct {
	Left, Right, Bottom, Top float32
}

func rasterToScreen(pFilm vmath.V2, width, height int, screen Screen) (x, y float32) {
	u := pFilm.X / float32(width)
	v := pFilm.Y / float32(height)
	x = screen.Left + u*(screen.Right-screen.Left)
	// Raster y grows downward; screen y grows upward.
	y = screen.Top + v*(screen.Bottom-screen.Top)
	return x, y
}

// Perspective is a pinhole/thin-lens camera with a vertical field of
// view, an optional aperture for depth of field, and near/far clip
// planes (spec §4.13).
type Perspective struct {
	CameraToWorld vmath.Transform
	Screen        Screen
	Width, Height int
	Aperture      float32
	FocusDistance float32
	ZNear, ZFar   float32

	tanHalfFov float32
}

// NewPerspective builds a perspective camera looking from eye toward
// lookAt, with up as the approximate up vector. fov is the vertical
// field of view in degrees; aperture is the lens radius (0 disables
// depth of field); focusDistance is the distance to the plane of
// perfect focus.
func NewPerspective(eye, lookAt, up vmath.V3, width, height int, screen Screen, fov, aperture, focusDistance, zNear, zFar float32) *Perspective {
	return &Perspective{
		CameraToWorld: vmath.LookAt(eye, lookAt, up),
		Screen:        screen,
		Width:         width,
		Height:        height,
		Aperture:      aperture,
		FocusDistance: focusDistance,
		ZNear:         zNear,
		ZFar:          zFar,
		tanHalfFov:    vmath.Tan(fov * vmath.Pi / 180 / 2),
	}
}

func (c *Perspective) Position() vmath.V3 { return c.CameraToWorld.ApplyPoint(vmath.V3{}) }

func (c *Perspective) Resolution() (int, int) { return c.Width, c.Height }

// GenerateRay implements spec §4.13: pFilm maps into the camera-space
// screen window, the primary direction is traced from the origin
// toward that point on the z=1 plane (scaled by the fov), the ray is
// extended to its intersection with the focal plane, and the origin is
// then jittered on the lens disk before re-aiming at the focus point.
func (c *Perspective) GenerateRay(cs sampler.CameraSample) vmath.Ray {
	sx, sy := rasterToScreen(cs.PFilm, c.Width, c.Height, c.Screen)

	dirCamera := vmath.V3{X: sx * c.tanHalfFov, Y: sy * c.tanHalfFov, Z: 1}.Unit()
	origin := vmath.V3{}

	if c.Aperture > 0 {
		focusT := c.FocusDistance / dirCamera.Z
		pFocus := origin.Add(dirCamera.Scale(focusT))

		lens := vmath.ConcentricSampleDisk(cs.PLens).Scale(c.Aperture)
		origin = vmath.V3{X: lens.X, Y: lens.Y, Z: 0}
		dirCamera = pFocus.Sub(origin).Unit()
	}

	o := c.CameraToWorld.ApplyPoint(origin)
	d := c.CameraToWorld.ApplyVector(dirCamera).Unit()
	return vmath.NewRay(o, d)
}

// Orthographic is a camera whose rays share a common direction; only
// the ray origin varies across the film (spec §4.13).
type Orthographic struct {
	CameraToWorld vmath.Transform
	Screen        Screen
	Width, Height int
	Aperture      float32
	FocusDistance float32
}

// NewOrthographic builds an orthographic camera looking from eye
// toward lookAt.
func NewOrthographic(eye, lookAt, up vmath.V3, width, height int, screen Screen, aperture, focusDistance float32) *Orthographic {
	return &Orthographic{
		CameraToWorld: vmath.LookAt(eye, lookAt, up),
		Screen:        screen,
		Width:         width,
		Height:        height,
		Aperture:      aperture,
		FocusDistance: focusDistance,
	}
}

func (c *Orthographic) Position() vmath.V3 { return c.CameraToWorld.ApplyPoint(vmath.V3{}) }

func (c *Orthographic) Resolution() (int, int) { return c.Width, c.Height }

func (c *Orthographic) GenerateRay(cs sampler.CameraSample) vmath.Ray {
	sx, sy := rasterToScreen(cs.PFilm, c.Width, c.Height, c.Screen)

	dirCamera := vmath.V3{X: 0, Y: 0, Z: 1}
	origin := vmath.V3{X: sx, Y: sy, Z: 0}

	if c.Aperture > 0 {
		pFocus := origin.Add(dirCamera.Scale(c.FocusDistance))
		lens := vmath.ConcentricSampleDisk(cs.PLens).Scale(c.Aperture)
		origin = vmath.V3{X: sx + lens.X, Y: sy + lens.Y, Z: 0}
		dirCamera = pFocus.Sub(origin).Unit()
	}

	o := c.CameraToWorld.ApplyPoint(origin)
	d := c.CameraToWorld.ApplyVector(dirCamera).Unit()
	return vmath.NewRay(o, d)
}
