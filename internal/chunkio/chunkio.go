// Package chunkio dumps generated chunks to a human-readable YAML snapshot,
// optionally zstd-compressed, for inspection and diffing.
package chunkio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
)

// ErrBadSnapshot is returned for snapshots that cannot be decoded.
var ErrBadSnapshot = errors.New("chunkio: bad snapshot")

// zstdMagic opens every zstd frame.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Snapshot is the on-disk form of a chunk.
type Snapshot struct {
	Seed      string            `yaml:"seed"`
	Width     int               `yaml:"width"`
	Height    int               `yaml:"height"`
	NearSeeds map[string]string `yaml:"near_seeds"`
	Rooms     []Room            `yaml:"rooms"`
	Tiles     []string          `yaml:"tiles"`
	Props     []string          `yaml:"props"`
	Monsters  []string          `yaml:"monsters"`
}

// Room is a placed room in a snapshot.
type Room struct {
	ID       int    `yaml:"id"`
	Template string `yaml:"template"`
	Type     string `yaml:"type"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Edge     string `yaml:"edge,omitempty"`
}

// FromChunk captures c.
func FromChunk(c *dungeon.Chunk) *Snapshot {
	s := &Snapshot{
		Seed:      c.Seed,
		Width:     c.Width,
		Height:    c.Height,
		NearSeeds: make(map[string]string, len(c.NearSeeds)),
		Tiles:     encodeLayer(c.Tiles),
		Props:     encodeLayer(c.Props),
		Monsters:  encodeLayer(c.Monsters),
	}
	for _, d := range dungeon.AllDirections() {
		s.NearSeeds[d.String()] = c.NearSeed(d)
	}
	for _, r := range c.Rooms {
		b := r.Bounds()
		room := Room{
			ID:       r.ID,
			Template: r.Template.ID,
			Type:     string(r.Type()),
			X:        b.X,
			Y:        b.Y,
			Width:    b.Width,
			Height:   b.Height,
		}
		if r.Edge != dungeon.NoDirection {
			room.Edge = r.Edge.String()
		}
		s.Rooms = append(s.Rooms, room)
	}
	return s
}

func encodeLayer(l *dungeon.Layer) []string {
	rows := make([]string, 0, l.Height)
	for _, row := range l.Rows() {
		fields := make([]string, len(row))
		for i, id := range row {
			fields[i] = strconv.Itoa(id)
		}
		rows = append(rows, strings.Join(fields, " "))
	}
	return rows
}

func decodeLayer(name string, rows []string, width, height int) (*dungeon.Layer, error) {
	if len(rows) != height {
		return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrBadSnapshot, name, len(rows), height)
	}
	l := dungeon.NewLayer(width, height, 0)
	for y, row := range rows {
		fields := strings.Fields(row)
		if len(fields) != width {
			return nil, fmt.Errorf("%w: %s row %d has %d cells, want %d", ErrBadSnapshot, name, y, len(fields), width)
		}
		for x, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: %v", ErrBadSnapshot, name, y, err)
			}
			l.Set(x, y, id)
		}
	}
	return l, nil
}

// Layer decodes one of the snapshot's layers.
func (s *Snapshot) Layer(kind dungeon.LayerKind) (*dungeon.Layer, error) {
	switch kind {
	case dungeon.LayerProps:
		return decodeLayer(kind.String(), s.Props, s.Width, s.Height)
	case dungeon.LayerMonsters:
		return decodeLayer(kind.String(), s.Monsters, s.Width, s.Height)
	default:
		return decodeLayer(kind.String(), s.Tiles, s.Width, s.Height)
	}
}

// Write encodes c as YAML to w, zstd-framed when compress is set.
func Write(w io.Writer, c *dungeon.Chunk, compress bool) error {
	data, err := yaml.Marshal(FromChunk(c))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if !compress {
		_, err := w.Write(data)
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Read decodes a snapshot, detecting zstd compression from the frame magic.
func Read(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
		}
		defer dec.Close()
		src = dec
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}

	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadSnapshot, s.Width, s.Height)
	}
	for _, kind := range dungeon.AllLayers() {
		if _, err := s.Layer(kind); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WriteFile writes a snapshot of c to path, creating parent directories.
func WriteFile(path string, c *dungeon.Chunk, compress bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Write(f, c, compress); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads the snapshot at path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
