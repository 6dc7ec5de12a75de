package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/catalog"
	"github.com/Faultbox/facetland/internal/config"
	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/meshio"
	"github.com/Faultbox/facetland/internal/renderer"
	"github.com/Faultbox/facetland/internal/scene"
	"github.com/Faultbox/facetland/internal/session"
	"github.com/Faultbox/facetland/internal/texture"
)

func cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.LogFileConfig(), cfg.Logging.Console); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	opts, err := cfg.SceneOptions()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	displayFlags, err := cfg.DisplayFlags()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// An empty session file asks for a fresh session to be written there.
	path := cfg.Session.Path
	requested := session.RequestsSerialization(path)
	p := session.Load(path, !cfg.Session.Fresh && !requested, displayFlags, cfg.Session.Seed)
	if cfg.Session.Seed != 0 {
		p.Seed = cfg.Session.Seed
	}

	dev, err := renderer.Open(cfg.Renderer.Backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	mgr := scene.NewManager(dev, opts)
	defer mgr.Close()

	s, err := mgr.Regenerate(&p, path)
	if errors.Is(err, scene.ErrSaveFailed) {
		logger.Warn("continuing without a saved session", zap.Error(err))
	} else if err != nil {
		return err
	}

	if cfg.Output.MeshPath != "" {
		if err := exportMeshes(cfg.Output.MeshPath, s); err != nil {
			return err
		}
	}
	if cfg.Output.TextureDir != "" {
		if err := exportTextures(cfg.Output.TextureDir, s); err != nil {
			return err
		}
	}
	if cfg.Output.CatalogPath != "" {
		if err := recordRun(cfg.Output.CatalogPath, s, opts.Log2Size, p, path); err != nil {
			logger.Warn("run not recorded", zap.Error(err))
		}
	}

	fmt.Printf("seed:       %d\n", s.Seed)
	fmt.Printf("size:       %d×%d cells\n", s.Terrain.Size, s.Terrain.Size)
	fmt.Printf("vertices:   %d\n", s.VertexCount())
	fmt.Printf("triangles:  %d\n", s.TriangleCount())
	fmt.Printf("props:      %d\n", s.PropCount())
	fmt.Printf("flags:      %s\n", p.Flags)
	fmt.Printf("device:     %s\n", dev.Name())
	return nil
}

func exportMeshes(path string, s *scene.Scene) error {
	layers := make([]meshio.Layer, 0, len(s.Layers))
	for _, l := range s.Layers {
		layers = append(layers, meshio.Layer{Name: l.Name, Arrays: *l.Mesh.Data()})
	}
	if err := meshio.WriteFile(path, layers...); err != nil {
		return err
	}
	logger.Info("meshes exported", zap.String("path", path), zap.Int("layers", len(layers)))
	return nil
}

func exportTextures(dir string, s *scene.Scene) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, l := range s.Layers {
		if l.Texture == nil {
			continue
		}
		path := filepath.Join(dir, l.Name+".tga")
		if err := texture.WriteTGA(path, l.Texture.RGBA, true); err != nil {
			return err
		}
		logger.Info("texture exported", zap.String("path", path))
	}
	return nil
}

func recordRun(dbPath string, s *scene.Scene, log2Size int, p session.Parameters, sessionPath string) error {
	c, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	defer c.Close()

	r, err := c.Record(context.Background(), catalog.Run{
		Seed:        s.Seed,
		Log2Size:    log2Size,
		Flags:       uint32(p.Flags),
		Vertices:    s.VertexCount(),
		Triangles:   s.TriangleCount(),
		Props:       s.PropCount(),
		SessionPath: sessionPath,
	})
	if err != nil {
		return err
	}
	logger.Info("run recorded", zap.String("id", r.ID))
	return nil
}
