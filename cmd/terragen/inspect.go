package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/Faultbox/facetland/internal/catalog"
	"github.com/Faultbox/facetland/internal/config"
	"github.com/Faultbox/facetland/internal/meshio"
	"github.com/Faultbox/facetland/internal/terrain"
	"github.com/Faultbox/facetland/internal/texture"
)

func cmdInspect(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: terragen inspect <file.flms|file.tga|file.bmp>")
	}

	switch strings.ToLower(filepath.Ext(args[0])) {
	case ".tga", ".bmp":
		return inspectTexture(args[0])
	}

	layers, err := meshio.ReadFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", args[0])
	fmt.Printf("Layers: %d\n\n", len(layers))
	for _, l := range layers {
		b := terrain.BoundsOf(l.Positions)
		fmt.Printf("%s\n", l.Name)
		fmt.Printf("  vertices:  %d\n", l.VertexCount())
		fmt.Printf("  triangles: %d\n", l.TriangleCount())
		fmt.Printf("  bounds:    (%.1f, %.1f, %.1f) - (%.1f, %.1f, %.1f)\n",
			b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	}
	return nil
}

func inspectTexture(path string) error {
	img, err := texture.ReadFile(path)
	if err != nil {
		return err
	}

	var lo, hi uint8 = 255, 0
	channel := 0 // grey facets carry the noise in red, translucent ones in alpha
	if img.Translucent {
		channel = 3
	}
	for i := channel; i < len(img.RGBA.Pix); i += 4 {
		lo = min(lo, img.RGBA.Pix[i])
		hi = max(hi, img.RGBA.Pix[i])
	}

	b := img.RGBA.Bounds()
	fmt.Printf("File: %s\n", path)
	fmt.Printf("  size:        %dx%d\n", b.Dx(), b.Dy())
	fmt.Printf("  translucent: %v\n", img.Translucent)
	fmt.Printf("  noise range: %d - %d\n", lo, hi)
	return nil
}

func cmdTexture(args []string) error {
	fs := flag.NewFlagSet("texture", flag.ExitOnError)
	amplitude := fs.Int("amplitude", 64, "Noise amplitude; negative for alpha noise")
	seed := fs.Uint64("seed", 1, "Random seed")
	out := fs.String("out", "facet.tga", "Output file (.tga or .bmp)")
	rle := fs.Bool("rle", true, "RLE compress the output")
	fs.Parse(args)

	img, err := texture.Facet(rand.New(rand.NewPCG(*seed, *seed)), *amplitude)
	if err != nil {
		return err
	}
	if err := texture.WriteFile(*out, img.RGBA, *rle); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d, translucent=%v)\n", *out, img.Size(), img.Size(), img.Translucent)
	return nil
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("catalog", "", "Catalog database (defaults to the configured one)")
	seed := fs.Uint("seed", 0, "Only runs with this seed")
	limit := fs.Int("limit", 20, "Maximum number of runs")
	fs.Parse(args)

	if *dbPath == "" {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		*dbPath = cfg.Output.CatalogPath
	}
	if *dbPath == "" {
		return fmt.Errorf("no catalog: pass -catalog or set output.catalog_path")
	}

	c, err := catalog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := context.Background()
	var runs []catalog.Run
	if *seed != 0 {
		runs, err = c.BySeed(ctx, uint32(*seed))
	} else {
		runs, err = c.Recent(ctx, *limit)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSEED\tSIZE\tVERTICES\tTRIANGLES\tPROPS\tSESSION\tID")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Seed, 1<<r.Log2Size,
			r.Vertices, r.Triangles, r.Props, r.SessionPath, r.ID)
	}
	return w.Flush()
}
