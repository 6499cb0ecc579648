package dungeon

import "testing"

const exampleSeed = "5ML3875MwgFzyejjoFV9i"

func grid(w, h, v int) [][]int {
	rows := make([][]int, h)
	for y := range rows {
		rows[y] = make([]int, w)
		for x := range rows[y] {
			rows[y][x] = v
		}
	}
	return rows
}

func newTemplate(id string, typ RoomType, w, h int) *RoomTemplate {
	monsters := grid(w, h, 0)
	if typ == RoomMonsters || typ == RoomBoss {
		monsters[h/2][w/2] = 3
	}
	props := grid(w, h, PropNone)
	if typ == RoomTreasure {
		props[h/2][w/2] = 4
	}
	return &RoomTemplate{
		ID:       id,
		Type:     typ,
		Width:    w,
		Height:   h,
		Tiles:    grid(w, h, Floor),
		Props:    props,
		Monsters: monsters,
	}
}

// testCatalog holds one template of each single-use type and two monster rooms.
func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]*RoomTemplate{
		newTemplate("entrance", RoomEntrance, 4, 4),
		newTemplate("heal", RoomHeal, 3, 3),
		newTemplate("treasure", RoomTreasure, 3, 3),
		newTemplate("boss", RoomBoss, 4, 4),
		newTemplate("monsters-large", RoomMonsters, 4, 4),
		newTemplate("monsters-small", RoomMonsters, 3, 3),
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func exampleConfig(t *testing.T) Config {
	t.Helper()
	return DefaultConfig(exampleSeed, testCatalog(t))
}

// parseLayer reads rows where '#' is Wall, '.' Floor, ' ' Hole and 'D' Door.
func parseLayer(rows ...string) *Layer {
	l := NewLayer(len(rows[0]), len(rows), Floor)
	for y, row := range rows {
		for x, c := range row {
			switch c {
			case '#':
				l.Set(x, y, Wall)
			case ' ':
				l.Set(x, y, Hole)
			case 'D':
				l.Set(x, y, Door)
			}
		}
	}
	return l
}
