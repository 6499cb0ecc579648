package dungeon

import (
	"errors"
	"testing"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/rng"
	"github.com/zyedidia/generic/mapset"
)

func TestPlaceRooms(t *testing.T) {
	cfg := exampleConfig(t)
	r := rng.New(exampleSeed)
	tree := Partition(r, cfg.Inset(), cfg.Iterations, cfg)

	rooms, err := PlaceRooms(r, tree, cfg.Catalog)
	if err != nil {
		t.Fatalf("PlaceRooms: %v", err)
	}

	leaves := tree.Leaves()
	if len(rooms) != len(leaves) {
		t.Errorf("placed %d rooms in %d leaves, want every leaf filled", len(rooms), len(leaves))
	}

	counts := make(map[RoomType]int)
	for i, room := range rooms {
		counts[room.Type()]++
		if room.ID != i {
			t.Errorf("rooms[%d].ID = %d", i, room.ID)
		}
		b := room.Bounds()
		if b.X < room.Container.X || b.Y < room.Container.Y ||
			b.Right() > room.Container.Right() || b.Bottom() > room.Container.Bottom() {
			t.Errorf("room %s spills out of container %s", b, room.Container)
		}
	}
	for _, typ := range []RoomType{RoomBoss, RoomEntrance, RoomHeal, RoomTreasure} {
		if counts[typ] != 1 {
			t.Errorf("%d %s rooms, want 1", counts[typ], typ)
		}
	}
	if want := len(leaves) - 4; counts[RoomMonsters] != want {
		t.Errorf("%d monster rooms, want %d", counts[RoomMonsters], want)
	}

	// The first four placements follow the priority order.
	for i, typ := range []RoomType{RoomBoss, RoomEntrance, RoomHeal, RoomTreasure} {
		if rooms[i].Type() != typ {
			t.Errorf("rooms[%d] is %s, want %s", i, rooms[i].Type(), typ)
		}
	}

	for _, id := range leaves {
		if tree.Node(id).Room == nil {
			t.Errorf("leaf %d has no room", id)
		}
	}
}

func TestPlaceRoomsMissingType(t *testing.T) {
	catalog, err := NewCatalog([]*RoomTemplate{
		newTemplate("entrance", RoomEntrance, 4, 4),
		newTemplate("heal", RoomHeal, 3, 3),
		newTemplate("treasure", RoomTreasure, 3, 3),
		newTemplate("monsters", RoomMonsters, 3, 3),
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	cfg := DefaultConfig(exampleSeed, catalog)
	r := rng.New(exampleSeed)
	tree := Partition(r, cfg.Inset(), cfg.Iterations, cfg)
	if _, err := PlaceRooms(r, tree, catalog); !errors.Is(err, ErrMissingTemplateType) {
		t.Errorf("PlaceRooms error = %v, want ErrMissingTemplateType", err)
	}
}

func TestPlaceRoomsSkipsOversized(t *testing.T) {
	catalog, err := NewCatalog([]*RoomTemplate{
		newTemplate("entrance", RoomEntrance, 4, 4),
		newTemplate("heal", RoomHeal, 3, 3),
		newTemplate("treasure", RoomTreasure, 3, 3),
		newTemplate("boss", RoomBoss, 50, 50),
		newTemplate("monsters", RoomMonsters, 3, 3),
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	cfg := DefaultConfig(exampleSeed, catalog)
	r := rng.New(exampleSeed)
	tree := Partition(r, cfg.Inset(), cfg.Iterations, cfg)
	rooms, err := PlaceRooms(r, tree, catalog)
	if err != nil {
		t.Fatalf("PlaceRooms: %v", err)
	}
	for _, room := range rooms {
		if room.Type() == RoomBoss {
			t.Fatalf("oversized boss template was placed in %s", room.Container)
		}
	}
	// Containers refused by the boss stay open for later types.
	if len(rooms) != len(tree.Leaves()) {
		t.Errorf("placed %d rooms in %d leaves", len(rooms), len(tree.Leaves()))
	}
}

func TestChooseTemplate(t *testing.T) {
	big := newTemplate("big", RoomMonsters, 6, 4)
	tall := newTemplate("tall", RoomMonsters, 6, 5)
	small := newTemplate("small", RoomMonsters, 3, 3)
	templates := []*RoomTemplate{small, big, tall}

	tests := []struct {
		name      string
		container Rect
		used      []string
		want      *RoomTemplate
	}{
		{"largest by width then height", Rect{Width: 10, Height: 10}, nil, tall},
		{"height limits", Rect{Width: 10, Height: 4}, nil, big},
		{"prefers unused", Rect{Width: 10, Height: 10}, []string{"tall"}, big},
		{"falls back to reuse", Rect{Width: 3, Height: 3}, []string{"small"}, small},
		{"nothing fits", Rect{Width: 2, Height: 9}, nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			used := mapset.New[string]()
			for _, id := range tc.used {
				used.Put(id)
			}
			if got := chooseTemplate(templates, tc.container, used); got != tc.want {
				t.Errorf("chooseTemplate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCenterIn(t *testing.T) {
	tests := []struct {
		container Rect
		w, h      int
		want      Point
	}{
		{Rect{X: 2, Y: 2, Width: 8, Height: 8}, 4, 4, Point{4, 4}},
		{Rect{X: 2, Y: 2, Width: 5, Height: 7}, 3, 4, Point{3, 3}},
		{Rect{X: 0, Y: 0, Width: 4, Height: 4}, 4, 4, Point{0, 0}},
	}
	for _, tc := range tests {
		tpl := newTemplate("t", RoomHeal, tc.w, tc.h)
		if got := centerIn(tc.container, tpl); got != tc.want {
			t.Errorf("centerIn(%s, %dx%d) = %v, want %v", tc.container, tc.w, tc.h, got, tc.want)
		}
	}
}
