package dungeon

// Direction is one of the four cardinal directions. The numeric order is the
// order neighbour seeds are stored in.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// NoDirection marks a room that does not sit on the edge of its chunk.
const NoDirection Direction = -1

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return d
	}
}

// Delta returns the unit step for d in grid coordinates (y grows downwards).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// ParseDirection converts a name back to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range AllDirections() {
		if d.String() == s {
			return d, true
		}
	}
	return NoDirection, false
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{Up, Right, Down, Left}
}

// EdgeThreshold is the distance under which a room counts as touching an edge.
const EdgeThreshold = 5

// edgeDirection returns the first side whose distance is strictly below
// threshold, checking left, right, up and then down.
func edgeDirection(left, right, up, down, threshold int) Direction {
	switch {
	case left < threshold:
		return Left
	case right < threshold:
		return Right
	case up < threshold:
		return Up
	case down < threshold:
		return Down
	}
	return NoDirection
}

// NearestEdge returns the edge of a width x height grid closest to (x, y).
// Ties resolve in the same left, right, up, down order used for edge rooms.
func NearestEdge(x, y, width, height int) Direction {
	left, right := x, width-1-x
	up, down := y, height-1-y
	closest := min(left, right, up, down)
	return edgeDirection(left, right, up, down, closest+1)
}
