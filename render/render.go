// Package render implements the renderer's tiled scheduling (spec
// §4.14): a rendering Context divides the framebuffer into fixed-size
// tiles, dispatches one job per tile onto a workq.Queue, and assembles
// the per-tile radiance/normal/albedo writes into three output
// buffers. It also owns the Image/Denoise post-pipeline (spec §4.14
// "Post-pipeline") and the PNG encoder named in spec §6.
package render

import (
	"log"
	"sync/atomic"

	"github.com/guerarda/rt1w-sub000/camera"
	"github.com/guerarda/rt1w-sub000/integrator"
	"github.com/guerarda/rt1w-sub000/rng"
	"github.com/guerarda/rt1w-sub000/sampler"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
	"github.com/guerarda/rt1w-sub000/workq"
)

// TileSize is the maximum edge length of one tile in pixels (spec §3
// "Tile/Render context").
const TileSize = 32

// Tile is an axis-aligned rectangle of the framebuffer: pixels in
// [X0,X1) x [Y0,Y1).
type Tile struct {
	X0, Y0, X1, Y1 int
}

// Buffer is a flat, row-major W*H array of Spectrum samples, one of
// the three outputs the context assembles (image, normals, albedo).
type Buffer struct {
	W, H int
	Data []spectrum.Spectrum
}

func newBuffer(w, h int) Buffer {
	return Buffer{W: w, H: h, Data: make([]spectrum.Spectrum, w*h)}
}

func (b Buffer) at(x, y int) int { return y*b.W + x }

// the three scheduling states of Context.scheduled (spec §3: "an atomic
// scheduled ∈ {0, −1, 1} implementing a compare-and-set one-shot
// initializer").
const (
	notScheduled int32 = 0
	scheduling   int32 = -1
	scheduled    int32 = 1
)

// Context holds everything needed to render one frame: the scene, the
// camera, the integrator, and the three output buffers it lazily
// allocates on first Schedule.
type Context struct {
	Scene      integrator.Scene
	Camera     camera.Camera
	Integrator integrator.Integrator
	Queue      *workq.Queue
	Seed       uint64
	Quiet      bool

	state int32 // notScheduled / scheduling / scheduled, CAS-guarded.

	Image   Buffer
	Normals Buffer
	Albedo  Buffer

	done      *workq.Event
	total     int32
	completed int32
}

// NewContext builds a rendering context over scene/camera/integrator,
// dispatching tile jobs onto q.
func NewContext(scene integrator.Scene, cam camera.Camera, integ integrator.Integrator, q *workq.Queue, seed uint64) *Context {
	return &Context{Scene: scene, Camera: cam, Integrator: integ, Queue: q, Seed: seed}
}

// Schedule is the one-shot entry point of spec §4.14: the first caller
// to win the CAS from notScheduled to scheduling allocates the output
// buffers, divides the frame into tiles, and enqueues one job per tile.
// Later callers observe state==scheduled and return the same Event.
func (c *Context) Schedule(spp int) *workq.Event {
	if !atomic.CompareAndSwapInt32(&c.state, notScheduled, scheduling) {
		for atomic.LoadInt32(&c.state) != scheduled {
			// spin briefly until the winner finishes initializing; this
			// window is microseconds (buffer alloc + tile enumeration).
		}
		return c.done
	}

	w, h := c.Camera.Resolution()
	c.Image = newBuffer(w, h)
	c.Normals = newBuffer(w, h)
	c.Albedo = newBuffer(w, h)

	tiles := tilesOf(w, h)
	c.total = int32(len(tiles))
	c.done = workq.NewEvent(len(tiles))

	for i, t := range tiles {
		tile := t
		rnd := rng.New(c.Seed + uint64(i)*0x9e3779b97f4a7c15 + 1)
		smp := sampler.New(sppGrid(spp), sppGrid(spp), true, rnd)
		c.Queue.Enqueue(func() {
			c.renderTile(tile, smp, rnd, spp)
			c.onTileDone()
		})
	}

	atomic.StoreInt32(&c.state, scheduled)
	return c.done
}

// sppGrid returns the stratification grid dimension nx=ny such that
// nx*ny >= spp, rounding up to the nearest perfect square so every
// pixel gets a full nx x ny stratified grid (spec §4.12).
func sppGrid(spp int) int {
	n := 1
	for n*n < spp {
		n++
	}
	return n
}

func tilesOf(w, h int) []Tile {
	var tiles []Tile
	for y := 0; y < h; y += TileSize {
		for x := 0; x < w; x += TileSize {
			x1, y1 := x+TileSize, y+TileSize
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}
			tiles = append(tiles, Tile{X0: x, Y0: y, X1: x1, Y1: y1})
		}
	}
	return tiles
}

func (c *Context) onTileDone() {
	c.done.Signal()
	if c.Quiet {
		return
	}
	done := atomic.AddInt32(&c.completed, 1)
	log.Printf("render: tile %d/%d complete", done, c.total)
}

// renderTile implements spec §4.14 RenderTile: for each pixel, drive
// spp camera samples through the integrator, average, gamma-correct,
// and write the three output buffers.
func (c *Context) renderTile(t Tile, smp *sampler.Sampler, rnd *rng.RNG, spp int) {
	for y := t.Y0; y < t.Y1; y++ {
		for x := t.X0; x < t.X1; x++ {
			color, normal, albedo := c.renderPixel(x, y, smp, rnd, spp)
			idx := c.Image.at(x, y)
			c.Image.Data[idx] = color.Sqrt().Clamp(0, 1)
			c.Normals.Data[idx] = normal
			c.Albedo.Data[idx] = albedo.Clamp(0, 1)
		}
	}
}

func (c *Context) renderPixel(x, y int, smp *sampler.Sampler, rnd *rng.RNG, spp int) (color, normal, albedo spectrum.Spectrum) {
	smp.StartPixel()
	p := vmath.V2{X: float32(x), Y: float32(y)}
	n := 0
	for smp.StartNextSample() {
		cs := smp.GetCameraSample(p)
		r := c.Camera.GenerateRay(cs)
		var hitN vmath.V3
		var hitA spectrum.Spectrum
		l := c.Integrator.Li(r, c.Scene, smp, rnd, &hitN, &hitA)
		if l.HasNaN() {
			l = spectrum.Black()
		}
		color = color.Add(l)
		normal = normal.Add(spectrum.RGB(hitN.X, hitN.Y, hitN.Z))
		albedo = albedo.Add(hitA)
		n++
	}
	if n == 0 {
		return color, normal, albedo
	}
	inv := 1 / float32(n)
	return color.Scale(inv), normal.Scale(inv), albedo.Scale(inv)
}
