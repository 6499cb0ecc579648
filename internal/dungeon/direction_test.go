package dungeon

import "testing"

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		d, want Direction
	}{
		{Up, Down},
		{Down, Up},
		{Left, Right},
		{Right, Left},
		{NoDirection, NoDirection},
	}
	for _, tc := range tests {
		if got := tc.d.Opposite(); got != tc.want {
			t.Errorf("%s.Opposite() = %s, want %s", tc.d, got, tc.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range AllDirections() {
		got, ok := ParseDirection(d.String())
		if !ok || got != d {
			t.Errorf("ParseDirection(%q) = %s, %v", d.String(), got, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection accepted an unknown name")
	}
}

func TestNearestEdge(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want Direction
	}{
		{"left wall", 0, 10, Left},
		{"right wall", 39, 10, Right},
		{"top wall", 20, 0, Up},
		{"bottom wall", 20, 19, Down},
		{"near right", 35, 9, Right},
		{"corner prefers left", 0, 0, Left},
		{"top right prefers right", 39, 0, Right},
		{"up beats down", 20, 9, Up},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NearestEdge(tc.x, tc.y, 40, 20); got != tc.want {
				t.Errorf("NearestEdge(%d, %d) = %s, want %s", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestEdgeDirectionPriority(t *testing.T) {
	if got := edgeDirection(2, 2, 2, 2, EdgeThreshold); got != Left {
		t.Errorf("edgeDirection tie = %s, want left", got)
	}
	if got := edgeDirection(9, 9, 3, 1, EdgeThreshold); got != Up {
		t.Errorf("edgeDirection = %s, want up", got)
	}
	if got := edgeDirection(5, 5, 5, 5, EdgeThreshold); got != NoDirection {
		t.Errorf("edgeDirection at threshold = %s, want none", got)
	}
}

func TestLayerFillAndStamp(t *testing.T) {
	l := NewLayer(4, 3, Wall)
	l.Fill(Rect{X: -1, Y: 1, Width: 3, Height: 5}, Floor)
	l.Stamp(3, 0, [][]int{{7, 7}, {8, 8}})

	want := [][]int{
		{1, 1, 1, 7},
		{0, 0, 1, 8},
		{0, 0, 1, 1},
	}
	for y, row := range l.Rows() {
		for x, id := range row {
			if id != want[y][x] {
				t.Errorf("cell (%d,%d) = %d, want %d", x, y, id, want[y][x])
			}
		}
	}

	c := l.Clone()
	c.Set(0, 0, 5)
	if l.At(0, 0) == 5 || l.Equal(c) {
		t.Error("Clone shares cells with its source")
	}
}
