package chunkio

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
)

func testChunk(t *testing.T) *dungeon.Chunk {
	t.Helper()
	var templates []*dungeon.RoomTemplate
	for _, typ := range dungeon.AllRoomTypes {
		grid := func(v int) [][]int {
			return [][]int{{v, v, v}, {v, v, v}, {v, v, v}}
		}
		templates = append(templates, &dungeon.RoomTemplate{
			ID:       string(typ),
			Type:     typ,
			Width:    3,
			Height:   3,
			Tiles:    grid(dungeon.Floor),
			Props:    grid(0),
			Monsters: grid(2),
		})
	}
	catalog, err := dungeon.NewCatalog(templates)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	c, err := dungeon.Generate(dungeon.DefaultConfig("snapshot", catalog))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return c
}

func TestWriteRead(t *testing.T) {
	c := testChunk(t)
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		if err := Write(&buf, c, compress); err != nil {
			t.Fatalf("Write(compress=%v): %v", compress, err)
		}
		if got := bytes.HasPrefix(buf.Bytes(), zstdMagic); got != compress {
			t.Errorf("compress=%v: zstd framing = %v", compress, got)
		}

		s, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read(compress=%v): %v", compress, err)
		}
		if s.Seed != c.Seed || s.Width != c.Width || s.Height != c.Height {
			t.Errorf("header = %q %dx%d", s.Seed, s.Width, s.Height)
		}
		if s.NearSeeds["right"] != c.NearSeed(dungeon.Right) {
			t.Errorf("near_seeds.right = %q, want %q", s.NearSeeds["right"], c.NearSeed(dungeon.Right))
		}
		if len(s.Rooms) != len(c.Rooms) {
			t.Errorf("%d rooms, want %d", len(s.Rooms), len(c.Rooms))
		}
		for _, kind := range dungeon.AllLayers() {
			l, err := s.Layer(kind)
			if err != nil {
				t.Fatalf("Layer(%s): %v", kind, err)
			}
			if !l.Equal(c.Layer(kind)) {
				t.Errorf("compress=%v: %s layer differs", compress, kind)
			}
		}
	}
}

func TestWriteReadFile(t *testing.T) {
	c := testChunk(t)
	path := filepath.Join(t.TempDir(), "out", "chunk.yaml.zst")
	if err := WriteFile(path, c, true); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if s.Seed != "snapshot" {
		t.Errorf("Seed = %q", s.Seed)
	}
}

func TestReadBadSnapshot(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "seed: [unclosed"},
		{"no size", "seed: x\n"},
		{"short layer", "seed: x\nwidth: 2\nheight: 2\ntiles: ['0 0']\nprops: ['0 0', '0 0']\nmonsters: ['0 0', '0 0']\n"},
		{"narrow row", "seed: x\nwidth: 2\nheight: 1\ntiles: ['0']\nprops: ['0 0']\nmonsters: ['0 0']\n"},
		{"bad id", "seed: x\nwidth: 1\nheight: 1\ntiles: ['a']\nprops: ['0']\nmonsters: ['0']\n"},
		{"broken zstd", string(zstdMagic) + "garbage"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Read(bytes.NewBufferString(tc.data)); !errors.Is(err, ErrBadSnapshot) {
				t.Errorf("Read error = %v, want ErrBadSnapshot", err)
			}
		})
	}
}
