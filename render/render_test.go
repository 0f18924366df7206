package render

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/camera"
	"github.com/guerarda/rt1w-sub000/integrator"
	"github.com/guerarda/rt1w-sub000/light"
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
	"github.com/guerarda/rt1w-sub000/workq"
)

type aggScene struct {
	agg *primitive.Aggregate
}

func (s *aggScene) Intersect(r vmath.Ray) (shape.Interaction, bool) { return s.agg.Intersect(r) }
func (s *aggScene) QIntersect(r vmath.Ray) bool                     { return s.agg.QIntersect(r) }
func (s *aggScene) Lights() []light.Light                           { return nil }

func TestTilesOfCoversWholeFrame(t *testing.T) {
	tiles := tilesOf(65, 40)
	covered := make([][]bool, 40)
	for y := range covered {
		covered[y] = make([]bool, 65)
	}
	for _, tl := range tiles {
		if tl.X1-tl.X0 > TileSize || tl.Y1-tl.Y0 > TileSize {
			t.Fatalf("tile %v exceeds TileSize", tl)
		}
		for y := tl.Y0; y < tl.Y1; y++ {
			for x := tl.X0; x < tl.X1; x++ {
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by more than one tile", x, y)
				}
				covered[y][x] = true
			}
		}
	}
	for y := range covered {
		for x := range covered[y] {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
			}
		}
	}
}

func TestSppGridRoundsUpToSquare(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 4: 2, 5: 3, 9: 3, 10: 4}
	for spp, want := range cases {
		if got := sppGrid(spp); got != want {
			t.Fatalf("sppGrid(%d) = %d, want %d", spp, got, want)
		}
	}
}

func TestScheduleFillsEveryPixelAndSignalsOnce(t *testing.T) {
	q := workq.NewQueue(2)
	defer q.Close()

	cam := camera.NewPerspective(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1}, vmath.V3{X: 0, Y: 1, Z: 0},
		8, 6, camera.Screen{Left: -1, Right: 1, Bottom: -1, Top: 1}, 60, 0, 1, 0.01, 1000)
	integ := integrator.NewWhitted(1, spectrum.RGB(0.25, 0.5, 0.75))
	ctx := NewContext(&aggScene{agg: primitive.NewAggregate(nil)}, cam, integ, q, 7)
	ctx.Quiet = true

	done := ctx.Schedule(1)
	done.Wait()

	if len(ctx.Image.Data) != 8*6 {
		t.Fatalf("expected 48 pixels, got %d", len(ctx.Image.Data))
	}
	for i, px := range ctx.Image.Data {
		if px.IsBlack() {
			t.Fatalf("pixel %d unexpectedly black for a constant-background miss", i)
		}
	}

	again := ctx.Schedule(1)
	if again != done {
		t.Fatalf("second Schedule call should return the same event")
	}
}

func TestScheduleHonorsEmptyAggregate(t *testing.T) {
	q := workq.NewQueue(2)
	defer q.Close()

	cam := camera.NewPerspective(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1}, vmath.V3{X: 0, Y: 1, Z: 0},
		4, 4, camera.Screen{Left: -1, Right: 1, Bottom: -1, Top: 1}, 90, 0, 1, 0.01, 1000)
	integ := integrator.NewWhitted(1, spectrum.Black())
	ctx := NewContext(&aggScene{agg: primitive.NewAggregate(nil)}, cam, integ, q, 1)
	ctx.Quiet = true
	ctx.Schedule(1).Wait()

	for _, px := range ctx.Image.Data {
		if !px.IsBlack() {
			t.Fatalf("expected every pixel black for an empty aggregate and black background, got %v", px)
		}
	}
}

func TestBufferToImageQuantizesChannels(t *testing.T) {
	b := newBuffer(2, 1)
	b.Data[0] = spectrum.RGB(1, 0, 0)
	b.Data[1] = spectrum.RGB(0, 0.5, 1)
	img := b.ToImage()

	r, g, bl, a := img.At(0, 0).RGBA()
	if a>>8 != 255 {
		t.Fatalf("expected opaque alpha")
	}
	if r>>8 != 255 || g>>8 != 0 || bl>>8 != 0 {
		t.Fatalf("unexpected pixel 0: %d %d %d", r>>8, g>>8, bl>>8)
	}
}
