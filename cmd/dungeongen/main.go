package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/chunkio"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/config"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/stream"
)

func main() {
	configFile := flag.String("config", "data/dungeon.yaml", "Path to dungeon config YAML file")
	catalogFile := flag.String("catalog", "", "Path to room template catalog (overrides config)")
	seed := flag.String("seed", "", "Chunk seed (overrides config)")
	snapshotFile := flag.String("out", "", "Write a YAML snapshot of the chunk to this file")
	compress := flag.Bool("zstd", false, "Compress the snapshot with zstd")
	crossDir := flag.String("cross", "", "Walk through a door toward up, right, down or left and show the stitched pair")
	outputFile := flag.String("map", "", "Write the ASCII map to this file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	if *catalogFile != "" {
		cfg.Catalog.Path = *catalogFile
	}
	if *seed != "" {
		cfg.Generation.Seed = *seed
	}

	catalog, err := cfg.Catalog.LoadCatalog(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}
	gen := cfg.Generation.ToDungeon(catalog)

	chunk, err := dungeon.Generate(gen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating chunk: %v\n", err)
		os.Exit(1)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Chunk %q (%dx%d, %d rooms)\n", chunk.Seed, chunk.Width, chunk.Height, len(chunk.Rooms)))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")
	renderChunk(&output, chunk)
	renderRooms(&output, chunk)
	renderNearSeeds(&output, chunk)

	if *crossDir != "" {
		d, ok := dungeon.ParseDirection(*crossDir)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown direction %q\n", *crossDir)
			os.Exit(1)
		}
		if err := renderCrossing(&output, gen, cfg.Stream.ToStream(), d); err != nil {
			fmt.Fprintf(os.Stderr, "Error crossing %s: %v\n", d, err)
			os.Exit(1)
		}
	}

	if *showLegend {
		output.WriteString(getLegend())
	}

	if *snapshotFile != "" {
		if err := chunkio.WriteFile(*snapshotFile, chunk, *compress); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", *snapshotFile)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

// cellChar returns the map character for one cell of a chunk.
func cellChar(tile, prop, monster int) byte {
	switch {
	case tile == dungeon.Door:
		return 'D'
	case dungeon.IsHole(tile):
		return ' '
	case prop == dungeon.PropTorch:
		return 't'
	case dungeon.IsWall(tile):
		return '#'
	case monster != 0:
		return 'm'
	case prop != 0:
		return '*'
	default:
		return '.'
	}
}

func renderChunk(output *strings.Builder, chunk *dungeon.Chunk) {
	for y := 0; y < chunk.Height; y++ {
		for x := 0; x < chunk.Width; x++ {
			output.WriteByte(cellChar(chunk.Tiles.At(x, y), chunk.Props.At(x, y), chunk.Monsters.At(x, y)))
		}
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

func renderRooms(output *strings.Builder, chunk *dungeon.Chunk) {
	output.WriteString("Rooms:\n")
	for _, r := range chunk.Rooms {
		b := r.Bounds()
		line := fmt.Sprintf("  %2d %-9s %-16s at (%d,%d) %dx%d", r.ID, r.Type(), r.Template.ID, b.X, b.Y, b.Width, b.Height)
		if r.Edge != dungeon.NoDirection {
			line += " edge=" + r.Edge.String()
		}
		output.WriteString(line + "\n")
	}

	if unreachable := chunk.Unreachable(); len(unreachable) > 0 {
		output.WriteString(fmt.Sprintf("\nUnreachable rooms (%d):\n", len(unreachable)))
		for _, r := range unreachable {
			output.WriteString(fmt.Sprintf("  %2d %s\n", r.ID, r.Template.ID))
		}
	}
	output.WriteString("\n")
}

func renderNearSeeds(output *strings.Builder, chunk *dungeon.Chunk) {
	output.WriteString("Neighbour seeds:\n")
	for _, d := range dungeon.AllDirections() {
		output.WriteString(fmt.Sprintf("  %-5s %s\n", d, chunk.NearSeed(d)))
	}
	output.WriteString("\n")
}

// renderCrossing starts a stream on gen's seed, walks the agent onto the first
// door facing d and draws both chunks in world space.
func renderCrossing(output *strings.Builder, gen dungeon.Config, sc stream.Config, d dungeon.Direction) error {
	ctrl := stream.NewController(gen, sc, nil, nil)
	if err := ctrl.Start(gen.Seed); err != nil {
		return err
	}
	first, _ := ctrl.Current()

	var door *dungeon.Point
	for _, p := range first.Doors() {
		if dungeon.NearestEdge(p.X, p.Y, first.Width, first.Height) == d {
			door = &p
			break
		}
	}
	if door == nil {
		output.WriteString(fmt.Sprintf("No door toward %s in %q\n\n", d, first.Seed))
		return nil
	}

	result, err := ctrl.Tick(sc.CellCenter(*door))
	if err != nil {
		return err
	}
	if result.Trigger == stream.TriggerNone {
		output.WriteString(fmt.Sprintf("Door %s did not trigger a crossing\n\n", door))
		return nil
	}

	output.WriteString(fmt.Sprintf("Crossing %s from door %s into %q at %s\n", d, door, result.Seed, result.Origin))
	if result.Warning != nil {
		output.WriteString(fmt.Sprintf("Warning: %v\n", result.Warning))
	} else {
		output.WriteString(fmt.Sprintf("Stitched %s -> %s, %d cells\n", result.From, result.To, len(result.Path)))
	}
	output.WriteString(strings.Repeat("-", 40) + "\n")

	prev, prevOrigin := ctrl.Previous()
	cur, curOrigin := ctrl.Current()
	renderWorld(output, []*dungeon.Chunk{prev, cur}, []dungeon.Point{prevOrigin, curOrigin})
	return nil
}

// renderWorld draws chunks placed at their world origins on one canvas.
func renderWorld(output *strings.Builder, chunks []*dungeon.Chunk, origins []dungeon.Point) {
	minX, minY, maxX, maxY := 0, 0, 0, 0
	for i, c := range chunks {
		o := origins[i]
		if i == 0 || o.X < minX {
			minX = o.X
		}
		if i == 0 || o.Y < minY {
			minY = o.Y
		}
		if i == 0 || o.X+c.Width > maxX {
			maxX = o.X + c.Width
		}
		if i == 0 || o.Y+c.Height > maxY {
			maxY = o.Y + c.Height
		}
	}

	canvas := make([][]byte, maxY-minY)
	for y := range canvas {
		canvas[y] = []byte(strings.Repeat(" ", maxX-minX))
	}
	for i, c := range chunks {
		o := origins[i]
		for y := 0; y < c.Height; y++ {
			for x := 0; x < c.Width; x++ {
				canvas[o.Y+y-minY][o.X+x-minX] = cellChar(c.Tiles.At(x, y), c.Props.At(x, y), c.Monsters.At(x, y))
			}
		}
	}
	for _, row := range canvas {
		output.Write(row)
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

func getLegend() string {
	return `Legend:
  #   Wall
  .   Floor
  D   Door
  t   Wall with torch
  m   Monster spawn
  *   Prop
      Hole
`
}
