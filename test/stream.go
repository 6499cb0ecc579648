package test

import (
	"fmt"
	"time"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/render"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/testclient"
)

// =============================================================================
// Group 1: Connection & Snapshot
// =============================================================================

// TestBasicConnection tests that a new client receives the live chunks
func TestBasicConnection(serverAddr string) TestResult {
	const testName = "Basic Connection"

	name := uniqueName("Agent")
	logAction(testName, fmt.Sprintf("Connecting as '%s'...", name))
	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Failed to connect: %v", err)}
	}
	defer client.Close()

	logAction(testName, "Waiting for the chunk snapshot...")
	_, anchored := client.WaitForMessage(isType(render.TypeAnchor), 2*time.Second)
	_, tiled := client.WaitForMessage(isType(render.TypeTile), 2*time.Second)
	logResult(testName, anchored && tiled, fmt.Sprintf("anchor=%v tile=%v", anchored, tiled))

	if !anchored || !tiled {
		return TestResult{Name: testName, Passed: false, Message: "No chunk snapshot received from server"}
	}

	current, ok := newestChunk(client)
	if !ok {
		return TestResult{Name: testName, Passed: false, Message: "Snapshot did not describe an anchored chunk"}
	}
	return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf("Received chunk %d with %d tiles and %d doors", current.ID, len(current.Tiles), len(current.Doors()))}
}

// TestLateJoinSnapshot tests that two clients see the same chunks
func TestLateJoinSnapshot(serverAddr string) TestResult {
	const testName = "Late Join Snapshot"

	first, err := testclient.NewTestClient(uniqueName("Agent"), serverAddr)
	if err != nil {
		return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Failed to connect first client: %v", err)}
	}
	defer first.Close()
	first.WaitForMessage(isType(render.TypeTile), 2*time.Second)

	logAction(testName, "Connecting a second client...")
	second, err := testclient.NewTestClient(uniqueName("Agent"), serverAddr)
	if err != nil {
		return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Failed to connect second client: %v", err)}
	}
	defer second.Close()
	second.WaitForMessage(isType(render.TypeTile), 2*time.Second)
	time.Sleep(200 * time.Millisecond)

	a, b := first.ChunkIDs(), second.ChunkIDs()
	logResult(testName, fmt.Sprint(a) == fmt.Sprint(b), fmt.Sprintf("first=%v second=%v", a, b))
	if fmt.Sprint(a) != fmt.Sprint(b) {
		return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Chunk sets differ: %v vs %v", a, b)}
	}
	for _, id := range a {
		va, _ := first.Chunk(id)
		vb, _ := second.Chunk(id)
		if va == nil || vb == nil || len(va.Tiles) != len(vb.Tiles) || va.Origin != vb.Origin {
			return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Chunk %d differs between clients", id)}
		}
	}

	return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf("Both clients see chunks %v", a)}
}

// =============================================================================
// Group 2: Streaming
// =============================================================================

// TestPositionAwayFromDoors tests that a position far from any door does not
// generate a chunk
func TestPositionAwayFromDoors(serverAddr string) TestResult {
	const testName = "Position Away From Doors"

	client, err := testclient.NewTestClient(uniqueName("Agent"), serverAddr)
	if err != nil {
		return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Connection failed: %v", err)}
	}
	defer client.Close()
	client.WaitForMessage(isType(render.TypeTile), 2*time.Second)
	client.ClearMessages()

	logAction(testName, "Reporting a position far outside the world")
	if err := client.SendPosition(-1000*CellSize, 0, -1000*CellSize); err != nil {
		return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Failed to send position: %v", err)}
	}

	_, generated := client.WaitForMessage(isType(render.TypeAnchor), 500*time.Millisecond)
	logResult(testName, !generated, fmt.Sprintf("new chunk anchored: %v", generated))
	if generated {
		return TestResult{Name: testName, Passed: false, Message: "A chunk was generated without reaching a door"}
	}

	return TestResult{Name: testName, Passed: true, Message: "No chunk generated"}
}

// TestDoorCrossing tests that standing on a door streams in a new chunk
func TestDoorCrossing(serverAddr string) TestResult {
	const testName = "Door Crossing"

	client, err := testclient.NewTestClient(uniqueName("Agent"), serverAddr)
	if err != nil {
		return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Connection failed: %v", err)}
	}
	defer client.Close()
	client.WaitForMessage(isType(render.TypeTile), 2*time.Second)
	time.Sleep(100 * time.Millisecond)

	current, ok := newestChunk(client)
	if !ok {
		return TestResult{Name: testName, Passed: false, Message: "No anchored chunk to walk in"}
	}
	doors := current.Doors()
	if len(doors) == 0 {
		return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf("Chunk %d has no doors, nothing to cross", current.ID)}
	}

	// Some doors are already consumed or lead back into the previous chunk,
	// so walk to each in turn until one streams something in.
	for _, door := range doors {
		client.ClearMessages()
		logAction(testName, fmt.Sprintf("Walking onto door %s of chunk %d", door, current.ID))
		if err := client.SendPosition((float64(door.X)+0.5)*CellSize, 0, (float64(door.Y)+0.5)*CellSize); err != nil {
			return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Failed to send position: %v", err)}
		}

		msg, crossed := client.WaitForMessage(func(m render.Message) bool {
			return m.Type == render.TypeAnchor && m.Chunk > current.ID
		}, time.Second)
		if !crossed {
			continue
		}
		logResult(testName, true, fmt.Sprintf("chunk %d anchored at (%d,%d)", msg.Chunk, msg.Origin.X, msg.Origin.Y))

		if !client.WaitForType(render.TypeTile, msg.Chunk, time.Second) {
			return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("Chunk %d was anchored but never drawn", msg.Chunk)}
		}
		next, _ := client.Chunk(msg.Chunk)
		if next == nil || next.Origin == current.Origin {
			return TestResult{Name: testName, Passed: false, Message: "New chunk overlaps the current one"}
		}
		return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf("Crossed from chunk %d into chunk %d", current.ID, msg.Chunk)}
	}

	return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf("None of the %d doors of chunk %d streamed a new chunk", len(doors), current.ID)}
}

func isType(typ string) func(render.Message) bool {
	return func(m render.Message) bool { return m.Type == typ }
}

// newestChunk returns the anchored chunk with the highest id, which is the
// server's current chunk.
func newestChunk(client *testclient.TestClient) (*testclient.ChunkView, bool) {
	ids := client.ChunkIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if view, ok := client.Chunk(ids[i]); ok && view.Anchored {
			return view, true
		}
	}
	return nil, false
}
