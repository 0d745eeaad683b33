package lumen

import (
	"math"
	"sort"

	"github.com/akmonengine/lumen/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey - coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - indices of the entities overlapping a cell
type Cell struct {
	entityIndices []int
}

// CullGrid is a uniform hashed grid over entity world bounds. It narrows the
// set of entities that may be inside a query box; callers refine the result
// with an exact test. Several cells may hash to the same slot, which only
// adds candidates.
type CullGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewCullGrid creates a grid; numCells is rounded up to a power of two
func NewCullGrid(cellSize float64, numCells int) *CullGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].entityIndices = make([]int, 0, 8)
	}

	return &CullGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

func (cg *CullGrid) CellSize() float64 {
	return cg.cellSize
}

func (cg *CullGrid) NumCells() int {
	return len(cg.cells)
}

// Insert adds an entity index to every cell its bounds touch
func (cg *CullGrid) Insert(entityIndex int, bounds actor.AABB) {
	if bounds.IsEmpty() {
		return
	}

	if cg.spannedCells(bounds) > float64(len(cg.cells)) {
		for i := range cg.cells {
			cg.cells[i].entityIndices = append(cg.cells[i].entityIndices, entityIndex)
		}
		return
	}

	cg.forEachCell(bounds, func(cellIdx int) {
		cg.cells[cellIdx].entityIndices = append(cg.cells[cellIdx].entityIndices, entityIndex)
	})
}

func (cg *CullGrid) Clear() {
	for i := range cg.cells {
		cg.cells[i].entityIndices = cg.cells[i].entityIndices[:0]
	}
}

// Query returns, sorted and without duplicates, every entity index stored in
// a cell the box touches. When the box spans more cells than the grid has
// slots, every slot is scanned instead.
func (cg *CullGrid) Query(box actor.AABB) []int {
	if box.IsEmpty() {
		return nil
	}

	var found []int
	if cg.spannedCells(box) > float64(len(cg.cells)) {
		for i := range cg.cells {
			found = append(found, cg.cells[i].entityIndices...)
		}
	} else {
		cg.forEachCell(box, func(cellIdx int) {
			found = append(found, cg.cells[cellIdx].entityIndices...)
		})
	}

	sort.Ints(found)

	n := 0
	for i, idx := range found {
		if i > 0 && idx == found[n-1] {
			continue
		}
		found[n] = idx
		n++
	}

	return found[:n]
}

func (cg *CullGrid) spannedCells(box actor.AABB) float64 {
	minCell := cg.worldToCell(box.Min)
	maxCell := cg.worldToCell(box.Max)

	return float64(maxCell.X-minCell.X+1) *
		float64(maxCell.Y-minCell.Y+1) *
		float64(maxCell.Z-minCell.Z+1)
}

func (cg *CullGrid) forEachCell(box actor.AABB, fn func(cellIdx int)) {
	minCell := cg.worldToCell(box.Min)
	maxCell := cg.worldToCell(box.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(cg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

// worldToCell converts a world position to cell coordinates
func (cg *CullGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / cg.cellSize)),
		Y: int(math.Floor(pos.Y() / cg.cellSize)),
		Z: int(math.Floor(pos.Z() / cg.cellSize)),
	}
}

// hashCell maps a cell to a slot of the array
func (cg *CullGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & cg.cellMask
}
