package config

import (
	"fmt"
	"os"

	"geoscene/internal/geom"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// Config holds the map source, projection, overlays, render and log settings.
type Config struct {
	Map        MapConfig        `yaml:"map"`
	Projection ProjectionConfig `yaml:"projection"`
	Routes     []RouteConfig    `yaml:"routes"`
	Labels     []LabelConfig    `yaml:"labels"`
	Render     RenderConfig     `yaml:"render"`
	Log        LogConfig        `yaml:"log"`
}

type MapConfig struct {
	GeoJSON          string   `yaml:"geojson"`
	Palette          []string `yaml:"palette"`
	Simplify         float64  `yaml:"simplify"`
	OutlineThreshold float64  `yaml:"outline_threshold"`
	OutlineColor     string   `yaml:"outline_color"`

	// PerOutlineMaterial gives every outline its own material instead of
	// the shared one.
	PerOutlineMaterial bool `yaml:"per_outline_material"`
}

type ProjectionConfig struct {
	Center    [2]float64 `yaml:"center"`
	Scale     float64    `yaml:"scale"`
	Translate [2]float64 `yaml:"translate"`
}

type RouteConfig struct {
	From  [2]float64 `yaml:"from"`
	To    [2]float64 `yaml:"to"`
	Color string     `yaml:"color"`
}

type LabelConfig struct {
	Name       string     `yaml:"name"`
	Pos        [2]float64 `yaml:"pos"`
	Color      string     `yaml:"color"`
	Background string     `yaml:"background"`
}

type RenderConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	BloomStrength float64 `yaml:"bloom_strength"`
	BloomRadius   int     `yaml:"bloom_radius"`
	Output        string  `yaml:"output"`
	FPS           int     `yaml:"fps"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Load reads a YAML config file. Fields not set in the file keep their
// zero values until Resolve.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	GeoJSON  string
	Output   string
	Width    int
	Height   int
	Simplify float64
	LogLevel string
	LogFile  string
}

// Resolve applies flags and fills every empty field with its default.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.GeoJSON != "" {
		c.Map.GeoJSON = flags.GeoJSON
	}
	if flags.Output != "" {
		c.Render.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Render.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Render.Height = flags.Height
	}
	if flags.Simplify > 0 {
		c.Map.Simplify = flags.Simplify
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		c.Log.File = flags.LogFile
	}

	if len(c.Map.Palette) == 0 {
		c.Map.Palette = []string{"#FF5733", "#33FF57", "#3357FF", "#FF33A1", "#A1FF33"}
	}
	if c.Map.OutlineThreshold <= 0 {
		c.Map.OutlineThreshold = 30
	}
	if c.Map.OutlineColor == "" {
		c.Map.OutlineColor = "#0fb1fb"
	}
	if c.Projection.Scale <= 0 {
		c.Projection.Scale = 80
	}
	if c.Projection.Center == ([2]float64{}) {
		c.Projection.Center = [2]float64{104.0, 37.5}
	}
	if c.Render.Width <= 0 {
		c.Render.Width = 960
	}
	if c.Render.Height <= 0 {
		c.Render.Height = 720
	}
	if c.Render.BloomStrength <= 0 {
		c.Render.BloomStrength = 1.5
	}
	if c.Render.BloomRadius <= 0 {
		c.Render.BloomRadius = 8
	}
	if c.Render.Output == "" {
		c.Render.Output = "geoscene.webp"
	}
	if c.Render.FPS <= 0 {
		c.Render.FPS = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.File == "" {
		c.Log.File = "geoscene.log"
	}
}

// RouteList converts the configured routes. Nil when none are configured
// so callers fall back to their defaults.
func (c *Config) RouteList() []geom.Route {
	if len(c.Routes) == 0 {
		return nil
	}
	out := make([]geom.Route, 0, len(c.Routes))
	for _, r := range c.Routes {
		out = append(out, geom.Route{From: orb.Point(r.From), To: orb.Point(r.To), Color: r.Color})
	}
	return out
}

// PlaceList converts the configured labels. Nil when none are configured.
func (c *Config) PlaceList() []geom.Place {
	if len(c.Labels) == 0 {
		return nil
	}
	out := make([]geom.Place, 0, len(c.Labels))
	for _, l := range c.Labels {
		out = append(out, geom.Place{Name: l.Name, Pos: orb.Point(l.Pos), Color: l.Color, Background: l.Background})
	}
	return out
}
