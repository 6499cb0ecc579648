package dungeon

// Layer is a width x height grid of small integer ids, stored row-major.
type Layer struct {
	Width, Height int
	Cells         []int
}

// NewLayer returns a layer with every cell set to fill.
func NewLayer(width, height, fill int) *Layer {
	l := &Layer{Width: width, Height: height, Cells: make([]int, width*height)}
	if fill != 0 {
		for i := range l.Cells {
			l.Cells[i] = fill
		}
	}
	return l
}

// InBounds reports whether (x, y) lies inside the layer.
func (l *Layer) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// At returns the id at (x, y). Callers must stay in bounds.
func (l *Layer) At(x, y int) int {
	return l.Cells[y*l.Width+x]
}

// Set writes id at (x, y). Out of bounds writes are dropped.
func (l *Layer) Set(x, y, id int) {
	if l.InBounds(x, y) {
		l.Cells[y*l.Width+x] = id
	}
}

// Clone returns a deep copy.
func (l *Layer) Clone() *Layer {
	c := &Layer{Width: l.Width, Height: l.Height, Cells: make([]int, len(l.Cells))}
	copy(c.Cells, l.Cells)
	return c
}

// Fill writes id over every cell of r that lies inside the layer.
func (l *Layer) Fill(r Rect, id int) {
	for y := max(r.Y, 0); y < min(r.Bottom(), l.Height); y++ {
		for x := max(r.X, 0); x < min(r.Right(), l.Width); x++ {
			l.Cells[y*l.Width+x] = id
		}
	}
}

// Stamp copies grid (rows of ids) onto the layer with its top-left at (x, y).
func (l *Layer) Stamp(x, y int, grid [][]int) {
	for dy, row := range grid {
		for dx, id := range row {
			l.Set(x+dx, y+dy, id)
		}
	}
}

// Rows returns the layer as a slice of rows.
func (l *Layer) Rows() [][]int {
	rows := make([][]int, l.Height)
	for y := range rows {
		rows[y] = append([]int(nil), l.Cells[y*l.Width:(y+1)*l.Width]...)
	}
	return rows
}

// Equal reports whether two layers hold identical ids.
func (l *Layer) Equal(o *Layer) bool {
	if l.Width != o.Width || l.Height != o.Height || len(l.Cells) != len(o.Cells) {
		return false
	}
	for i, id := range l.Cells {
		if o.Cells[i] != id {
			return false
		}
	}
	return true
}

// Find returns every cell holding id, in row-major order.
func (l *Layer) Find(id int) []Point {
	var out []Point
	for i, v := range l.Cells {
		if v == id {
			out = append(out, Point{X: i % l.Width, Y: i / l.Width})
		}
	}
	return out
}
