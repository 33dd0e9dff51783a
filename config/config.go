package config

import (
	"flag"
	"io/ioutil"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Vec3 [3]float32

func (v Vec3) Vec() mgl32.Vec3 { return mgl32.Vec3(v) }

type Animation struct {
	// per tick increments, radians
	TorusRate Vec3    `yaml:"torus_rate"`
	MoonRate  float32 `yaml:"moon_rate"`
	LightRate float32 `yaml:"light_rate"`
	Pivot     Vec3    `yaml:"pivot"`
	Axis      Vec3    `yaml:"axis"`
	// applied once per scroll event
	ScrollRate Vec3 `yaml:"scroll_rate"`
}

type Assets struct {
	Model      string `yaml:"model"`
	Background string `yaml:"background"`
	MoonMap    string `yaml:"moon_map"`
	MoonNormal string `yaml:"moon_normal"`
}

type Config struct {
	Addr      string `yaml:"addr"`
	WebPath   string `yaml:"web"`
	Stars     int    `yaml:"stars"`
	Seed      int64  `yaml:"seed"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Headless  bool   `yaml:"headless"`
	Frames    int    `yaml:"frames"`     // headless only, 0 - forever
	FrameRate int    `yaml:"frame_rate"` // headless only

	Assets    Assets    `yaml:"assets"`
	Animation Animation `yaml:"animation"`
}

func Default() *Config {
	return &Config{
		Addr:      ":8000",
		WebPath:   "web",
		Stars:     200,
		Seed:      0,
		Width:     1280,
		Height:    720,
		FrameRate: 60,
		Assets: Assets{
			Model:      "web/data/assets/models/my_computer/scene.gltf",
			Background: "/assets/space.jpeg",
			MoonMap:    "/assets/moon.jpeg",
			MoonNormal: "/assets/normal.jpeg",
		},
		Animation: Animation{
			TorusRate:  Vec3{0.01, 0.005, 0.01},
			MoonRate:   0.005,
			LightRate:  0.01,
			Pivot:      Vec3{0, 0, 0},
			Axis:       Vec3{1, 1, 0},
			ScrollRate: Vec3{0.05, 0.075, 0.05},
		},
	}
}

// Load reads yaml file over defaults; empty path gives defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config %q", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config %q", path)
	}
	return cfg, nil
}

// RegisterFlags binds command line overrides, call before flag.Parse
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.Addr, "i", cfg.Addr, "Address of server")
	fs.StringVar(&cfg.WebPath, "web", cfg.WebPath, "Path to web directory")
	fs.StringVar(&cfg.Assets.Model, "model", cfg.Assets.Model, "Path to gltf model")
	fs.IntVar(&cfg.Stars, "stars", cfg.Stars, "Stars count")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Starfield random seed")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Run loop without web viewer")
	fs.IntVar(&cfg.Frames, "frames", cfg.Frames, "Headless frames to run, 0 - forever")
	fs.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "Headless refresh rate")
}

func (cfg *Config) Validate() error {
	if cfg.Stars < 0 {
		return errors.Errorf("stars count %d is negative", cfg.Stars)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.Errorf("invalid viewport %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Headless && cfg.FrameRate <= 0 {
		return errors.Errorf("invalid frame rate %d", cfg.FrameRate)
	}
	if cfg.Frames < 0 {
		return errors.Errorf("frames count %d is negative", cfg.Frames)
	}
	if cfg.Animation.Axis.Vec().Len() == 0 {
		return errors.New("rotation axis is zero")
	}
	return nil
}

// Axis is normalized here once, pivot rotation expects it so
func (a *Animation) NormalizedAxis() mgl32.Vec3 {
	return a.Axis.Vec().Normalize()
}
