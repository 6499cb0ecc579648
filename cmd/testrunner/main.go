package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/webaverse-studios/raid-party-app-sub002/test"
)

func main() {
	serverAddr := flag.String("addr", "ws://localhost:4444/ws", "Dungeon server WebSocket URL")
	cellSize := flag.Float64("cell-size", 1, "Server stream.cell_size")
	verbose := flag.Bool("v", false, "Verbose output - show each position sent and message awaited")
	flag.Parse()

	if *cellSize <= 0 {
		fmt.Fprintf(os.Stderr, "-cell-size must be positive, got %v\n", *cellSize)
		os.Exit(2)
	}
	test.Verbose = *verbose
	test.CellSize = *cellSize

	fmt.Printf("Streaming scenarios against %s (cell size %g)\n", *serverAddr, *cellSize)
	fmt.Println("The scenarios walk a fresh stream, so start dungeond before running them.")
	fmt.Println()

	results := test.RunAllTests(*serverAddr)
	test.PrintResults(results)

	os.Exit(failures(results))
}

// failures returns 1 when any scenario failed and 0 otherwise.
func failures(results []test.TestResult) int {
	for _, result := range results {
		if !result.Passed {
			return 1
		}
	}
	return 0
}
