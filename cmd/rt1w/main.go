// rt1w renders a JSON scene description to a PNG image (spec §6): it
// loads the scene, schedules a tiled parallel render over a workq.Queue,
// and writes the resulting image (and, when requested, the auxiliary
// albedo/normal buffers) to disk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guerarda/rt1w-sub000/integrator"
	"github.com/guerarda/rt1w-sub000/render"
	"github.com/guerarda/rt1w-sub000/scene"
	"github.com/guerarda/rt1w-sub000/workq"
)

const usage = `usage: rt1w [options] <scene.json>

options:
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rt1w", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	var (
		quality  = fs.Int("quality", 0, "stratification grid dimension N override: spp = N*N (0 = use scene/profile default)")
		denoise  = fs.Bool("denoise", false, "run the box-filter denoise stage before writing the image")
		albedo   = fs.Bool("albedo", false, "also write <output>-albedo.png")
		normals  = fs.Bool("normals", false, "also write <output>-normals.png")
		whitted  = fs.Bool("whitted", false, "use the Whitted integrator instead of the default path integrator")
		defaults = fs.String("defaults", "", "yaml render profile, overriding built-in defaults")
		output   = fs.String("out", "", "output file base name, without extension (default: derived from the scene file name)")
		workers  = fs.Int("j", 0, "worker count (0 = runtime.NumCPU())")
		seed     = fs.Int64("seed", 1, "RNG seed")
		quiet    = fs.Bool("quiet", false, "suppress per-tile progress logging")
		verbose  = fs.Bool("verbose", false, "log scene/render parameters before rendering")
	)

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	scenePath := fs.Arg(0)

	log.SetFlags(0)
	log.SetPrefix("rt1w: ")

	profile := scene.DefaultProfile()
	if *defaults != "" {
		d, err := scene.LoadDefaults(*defaults)
		if err != nil {
			log.Println(err)
			return 1
		}
		profile = d
	}

	sc, err := scene.LoadWithDefaults(scenePath, profile)
	if err != nil {
		log.Println(err)
		return 1
	}

	spp := sc.Opts.SamplesPerPixel
	if n := *quality; n > 0 {
		spp = n * n
	}

	var integ integrator.Integrator
	if *whitted {
		integ = &integrator.Whitted{MaxDepth: sc.Opts.MaxDepth, BackgroundFn: sc.BackgroundAt}
	} else {
		integ = &integrator.Path{MaxDepth: sc.Opts.MaxDepth, BackgroundFn: sc.BackgroundAt}
	}

	out := *output
	if out == "" {
		out = sc.Opts.Output
	}
	if out == "" {
		base := filepath.Base(scenePath)
		out = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if *verbose {
		log.Printf("scene %s: %dx%d, spp=%d, maxDepth=%d, accelerator=%s",
			scenePath, sc.Opts.Width, sc.Opts.Height, spp, sc.Opts.MaxDepth, sc.Opts.Accelerator)
	}

	q := workq.NewQueue(*workers)

	ctx := render.NewContext(sc, sc.Cam, integ, q, uint64(*seed))
	ctx.Quiet = *quiet

	started := time.Now()
	done := ctx.Schedule(spp)
	done.Wait()
	if *verbose {
		log.Printf("rendered in %s", time.Since(started))
	}

	if *denoise {
		denoised := ctx.DenoiseStage(render.BoxDenoiser{})
		denoised.Wait()
	}

	if err := render.WritePNG(ctx.Image, out+".png"); err != nil {
		log.Println(err)
		return 1
	}
	if *albedo {
		if err := render.WritePNG(ctx.Albedo, out+"-albedo.png"); err != nil {
			log.Println(err)
			return 1
		}
	}
	if *normals {
		if err := render.WritePNG(ctx.Normals, out+"-normals.png"); err != nil {
			log.Println(err)
			return 1
		}
	}

	return 0
}
