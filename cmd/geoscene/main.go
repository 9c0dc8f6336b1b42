package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paulmach/orb"

	"geoscene/internal/config"
	"geoscene/internal/geom"
	"geoscene/internal/logging"
	"geoscene/internal/mapbuild"
	"geoscene/internal/projection"
	"geoscene/internal/raster"
	"geoscene/internal/scene"
	"geoscene/internal/tui"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML config file")
	geoPath := flag.String("geojson", "", "GeoJSON map to load")
	output := flag.String("out", "", "Snapshot output path (default: geoscene.webp)")
	width := flag.Int("width", 0, "Snapshot width in pixels")
	height := flag.Int("height", 0, "Snapshot height in pixels")
	simplify := flag.Float64("simplify", 0, "Douglas-Peucker tolerance in degrees, 0 keeps rings as is")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	logFile := flag.String("log-file", "", "Log file used while the viewer owns the terminal")
	headless := flag.Bool("snapshot", false, "Render one WebP frame and exit instead of opening the viewer")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		GeoJSON:  *geoPath,
		Output:   *output,
		Width:    *width,
		Height:   *height,
		Simplify: *simplify,
		LogLevel: *logLevel,
		LogFile:  *logFile,
	})
	if cfg.Map.GeoJSON == "" && flag.NArg() > 0 {
		cfg.Map.GeoJSON = flag.Arg(0)
	}

	build, err := buildOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	proj := projection.NewMercator(orb.Point(cfg.Projection.Center), cfg.Projection.Scale, cfg.Projection.Translate)
	ropts := renderOptions(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}

	if *headless {
		log := logging.New(logCfg)
		build.Logger = log
		if err := snapshot(logging.ContextWithLogger(ctx, log), cfg, proj, build, ropts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// The viewer owns stdout and stderr, so logs go to a file.
	log, closer, err := logging.NewFile(logCfg, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	build.Logger = log

	err = tui.Run(logging.ContextWithLogger(ctx, log), tui.Options{
		Path:      cfg.Map.GeoJSON,
		Projector: proj,
		Build:     build,
		Render:    ropts,
		Snapshot:  cfg.Render.Output,
		FPS:       cfg.Render.FPS,
		Logger:    log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildOptions(cfg config.Config) (mapbuild.Options, error) {
	palette, err := mapbuild.ParsePalette(cfg.Map.Palette)
	if err != nil {
		return mapbuild.Options{}, fmt.Errorf("palette: %w", err)
	}
	outline, err := scene.ParseCSSColor(cfg.Map.OutlineColor)
	if err != nil {
		return mapbuild.Options{}, fmt.Errorf("outline color: %w", err)
	}
	oc := outline.Color
	return mapbuild.Options{
		Routes:             cfg.RouteList(),
		Labels:             cfg.PlaceList(),
		Palette:            palette,
		Simplify:           cfg.Map.Simplify,
		OutlineThreshold:   cfg.Map.OutlineThreshold,
		OutlineColor:       &oc,
		PerOutlineMaterial: cfg.Map.PerOutlineMaterial,
	}, nil
}

func renderOptions(cfg config.Config) raster.Options {
	o := raster.DefaultOptions()
	o.Width = cfg.Render.Width
	o.Height = cfg.Render.Height
	o.BloomStrength = cfg.Render.BloomStrength
	o.BloomRadius = cfg.Render.BloomRadius
	return o
}

// snapshot builds the scene once and writes a single preview frame.
func snapshot(ctx context.Context, cfg config.Config, proj projection.Projector, build mapbuild.Options, ropts raster.Options) error {
	log := logging.FromContext(ctx)
	var coll geom.Collection
	if cfg.Map.GeoJSON != "" {
		var err error
		coll, err = geom.LoadGeo(cfg.Map.GeoJSON)
		if err != nil {
			return err
		}
	}

	sc := scene.New()
	mi := mapbuild.New(sc, proj, build)
	defer mi.Stop()
	rep := mi.Initialize(ctx, coll)
	if err := ctx.Err(); err != nil {
		return err
	}

	img := raster.Render(sc, ropts)
	if err := raster.SaveWebP(cfg.Render.Output, img); err != nil {
		return err
	}
	log.Info(ctx, "snapshot written",
		logging.String("path", cfg.Render.Output),
		logging.Int("regions", rep.Regions),
		logging.Int("skipped_rings", rep.SkippedRings))
	fmt.Printf("%s: %d regions, %d meshes, %d outlines, %d skipped rings\n",
		cfg.Render.Output, rep.Regions, rep.Meshes, rep.Outlines, rep.SkippedRings)
	return nil
}
