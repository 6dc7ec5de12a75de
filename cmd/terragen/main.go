// terragen generates tileable fractal terrain and its props, and inspects
// the files it writes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "generate", "gen":
		err = cmdGenerate(args)
	case "inspect":
		err = cmdInspect(args)
	case "texture", "tex":
		err = cmdTexture(args)
	case "history":
		err = cmdHistory(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terragen - procedural terrain generator

Usage:
  terragen <command> [options]

Commands:
  generate [flags]                   Generate a terrain scene
  inspect <file>                     Show an exported mesh (.flms) or texture (.tga, .bmp)
  texture [-amplitude N] [-seed S]   Write one facet texture as TGA
  history [-catalog db] [-seed S]    List recorded generation runs

Examples:
  terragen generate -seed 1234 -size 8 -export island.flms
  terragen generate -session island.txt -fresh -catalog runs.db
  terragen inspect island.flms
  terragen inspect alpha.tga
  terragen texture -amplitude -64 -out alpha.tga
  terragen history -catalog runs.db -limit 5`)
}
