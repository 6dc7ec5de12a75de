// Package config handles terrain generator configuration loading and
// management.
package config

import (
	"fmt"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/scene"
	"github.com/Faultbox/facetland/internal/session"
	"github.com/Faultbox/facetland/internal/terrain"
)

// Config holds all generator settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Bands      []BandConfig     `yaml:"bands"`
	Session    SessionConfig    `yaml:"session"`
	Output     OutputConfig     `yaml:"output"`
	Renderer   RendererConfig   `yaml:"renderer"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig holds the terrain pipeline parameters.
type GenerationConfig struct {
	Log2Size           int     `yaml:"log2_size"`
	GridSpacing        float32 `yaml:"grid_spacing"`
	HeightRange        float32 `yaml:"height_range"`
	WaterLevel         float32 `yaml:"water_level"`
	Roughness          float32 `yaml:"roughness"`
	BlurSigma          float32 `yaml:"blur_sigma"`
	PropCount          int     `yaml:"prop_count"`
	FacetAmplitude     int     `yaml:"facet_amplitude"`
	PropFacetAmplitude int     `yaml:"prop_facet_amplitude"`
}

// BandConfig is one color band. The last band must have weight 0 and
// supplies the water color; its alpha is the water transparency.
type BandConfig struct {
	Weight float32 `yaml:"weight"`
	Color  string  `yaml:"color"` // #RRGGBB or #RRGGBBAA
}

// SessionConfig holds session persistence settings.
type SessionConfig struct {
	Path  string   `yaml:"path"`  // .txt selects the text format
	Seed  uint32   `yaml:"seed"`  // 0 for a fresh seed
	Fresh bool     `yaml:"fresh"` // ignore the stored session
	Flags []string `yaml:"flags"` // display flags for a fresh session
}

// OutputConfig holds export paths. Empty paths disable the export.
type OutputConfig struct {
	MeshPath    string `yaml:"mesh_path"`
	TextureDir  string `yaml:"texture_dir"`
	CatalogPath string `yaml:"catalog_path"`
}

// RendererConfig selects the device backend.
type RendererConfig struct {
	Backend string `yaml:"backend"` // host, gl or auto
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	gen := scene.DefaultOptions()
	file := logger.DefaultFileConfig("")

	cfg := &Config{
		Generation: GenerationConfig{
			Log2Size:           gen.Log2Size,
			GridSpacing:        gen.GridSpacing,
			HeightRange:        gen.HeightRange,
			WaterLevel:         gen.WaterLevel,
			Roughness:          gen.Roughness,
			BlurSigma:          gen.BlurSigma,
			PropCount:          gen.PropCount,
			FacetAmplitude:     gen.FacetAmplitude,
			PropFacetAmplitude: gen.PropFacetAmplitude,
		},
		Session: SessionConfig{
			Path:  "terrain.txt",
			Flags: []string{"buffers", "fill", "normals", "texture", "colors", "props"},
		},
		Output: OutputConfig{
			CatalogPath: "",
		},
		Renderer: RendererConfig{
			Backend: "auto",
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAgeDays: file.MaxAgeDays,
			Compress:   file.Compress,
			Console:    true,
		},
	}
	for _, b := range gen.Bands {
		cfg.Bands = append(cfg.Bands, BandConfig{Weight: b.Weight, Color: b.Color.String()})
	}
	return cfg
}

// BandTable parses and validates the configured color bands.
func (c *Config) BandTable() (terrain.BandTable, error) {
	table := make(terrain.BandTable, 0, len(c.Bands))
	for i, b := range c.Bands {
		col, err := terrain.ParseColor(b.Color)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}
		table = append(table, terrain.Band{Weight: b.Weight, Color: col})
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// SceneOptions converts the generation section into pipeline options.
func (c *Config) SceneOptions() (scene.Options, error) {
	bands, err := c.BandTable()
	if err != nil {
		return scene.Options{}, err
	}
	g := c.Generation
	return scene.Options{
		Log2Size:           g.Log2Size,
		GridSpacing:        g.GridSpacing,
		HeightRange:        g.HeightRange,
		WaterLevel:         g.WaterLevel,
		Bands:              bands,
		Roughness:          g.Roughness,
		BlurSigma:          g.BlurSigma,
		PropCount:          g.PropCount,
		FacetAmplitude:     g.FacetAmplitude,
		PropFacetAmplitude: g.PropFacetAmplitude,
	}, nil
}

// DisplayFlags parses the configured display flag names.
func (c *Config) DisplayFlags() (session.DisplayFlags, error) {
	var flags session.DisplayFlags
	for _, name := range c.Session.Flags {
		f, ok := session.ParseFlag(name)
		if !ok {
			return 0, fmt.Errorf("unknown display flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}

// LogFileConfig returns the rotation settings for the log file.
func (c *Config) LogFileConfig() logger.FileConfig {
	fc := logger.DefaultFileConfig(c.Logging.LogFile)
	fc.MaxSizeMB = c.Logging.MaxSizeMB
	fc.MaxBackups = c.Logging.MaxBackups
	fc.MaxAgeDays = c.Logging.MaxAgeDays
	fc.Compress = c.Logging.Compress
	return fc
}
