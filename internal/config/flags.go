package config

import "flag"

// Flags are the command-line overrides shared by the generator commands.
type Flags struct {
	config   *string
	debug    *bool
	seed     *uint
	size     *int
	props    *int
	session  *string
	fresh    *bool
	export   *string
	textures *string
	catalog  *string
	backend  *string
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:   fs.String("config", "", "Path to config file"),
		debug:    fs.Bool("debug", false, "Enable debug logging"),
		seed:     fs.Uint("seed", 0, "Terrain seed (0 keeps the session seed or picks a fresh one)"),
		size:     fs.Int("size", 0, "Map size as a power of two exponent"),
		props:    fs.Int("props", -1, "Number of props (0 disables them)"),
		session:  fs.String("session", "", "Session file (.txt for text format)"),
		fresh:    fs.Bool("fresh", false, "Ignore the stored session"),
		export:   fs.String("export", "", "Write the meshes to this file"),
		textures: fs.String("textures", "", "Write the facet textures as TGA into this directory"),
		catalog:  fs.String("catalog", "", "Record the run in this SQLite catalog"),
		backend:  fs.String("backend", "", "Renderer backend: host, gl or auto"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.seed != 0 {
		cfg.Session.Seed = uint32(*f.seed)
	}
	if *f.size > 0 {
		cfg.Generation.Log2Size = *f.size
	}
	if *f.props >= 0 {
		cfg.Generation.PropCount = *f.props
	}
	if *f.session != "" {
		cfg.Session.Path = *f.session
	}
	if *f.fresh {
		cfg.Session.Fresh = true
	}
	if *f.export != "" {
		cfg.Output.MeshPath = *f.export
	}
	if *f.textures != "" {
		cfg.Output.TextureDir = *f.textures
	}
	if *f.catalog != "" {
		cfg.Output.CatalogPath = *f.catalog
	}
	if *f.backend != "" {
		cfg.Renderer.Backend = *f.backend
	}
}
