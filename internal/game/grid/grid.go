// Package grid holds coordinate helpers shared by the board games.
package grid

// Point addresses a cell by zero-based row and column.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Point) In(rows, cols int) bool {
	return that.Row >= 0 && that.Row < rows && that.Col >= 0 && that.Col < cols
}

// Index flattens the point for row-major slices.
func (that Point) Index(cols int) int {
	return that.Row*cols + that.Col
}

func FromIndex(index, cols int) Point {
	return Point{Row: index / cols, Col: index % cols}
}

var (
	orthogonal = []Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = []Point{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// Neighbors returns in-bound neighbours, orthogonal first.
func Neighbors(p Point, rows, cols int, withDiagonals bool) []Point {
	steps := orthogonal
	if withDiagonals {
		steps = append(append([]Point{}, orthogonal...), diagonal...)
	}

	out := make([]Point, 0, len(steps))
	for _, step := range steps {
		next := Point{Row: p.Row + step.Row, Col: p.Col + step.Col}
		if next.In(rows, cols) {
			out = append(out, next)
		}
	}

	return out
}

// Windows lists every straight run of length cells: horizontal, vertical
// and both diagonals.
func Windows(rows, cols, length int) [][]Point {
	directions := []Point{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

	var windows [][]Point
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			for _, dir := range directions {
				end := Point{Row: row + dir.Row*(length-1), Col: col + dir.Col*(length-1)}
				if !end.In(rows, cols) {
					continue
				}

				window := make([]Point, length)
				for i := range window {
					window[i] = Point{Row: row + dir.Row*i, Col: col + dir.Col*i}
				}

				windows = append(windows, window)
			}
		}
	}

	return windows
}

// Adjacent reports whether two cells touch, diagonals included.
func Adjacent(a, b Point) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	if dr == 0 && dc == 0 {
		return false
	}

	return dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}
