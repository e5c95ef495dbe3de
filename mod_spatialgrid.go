package totter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y()
}

// SpatialHashGrid is the collision broad-phase: bodies are binned into
// square cells by their world AABB and candidate pairs come only from
// shared cells. It stores entity ids only; callers re-test candidates with
// the narrow phase.
type SpatialHashGrid struct {
	cellSize float64
	cells    map[uint64][]EntityId
}

func NewSpatialHashGrid(cellSize float64) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]EntityId),
	}
}

func (grid *SpatialHashGrid) Clear() {
	clear(grid.cells)
}

func (grid *SpatialHashGrid) Insert(id EntityId, aabb AABB) {
	minX, maxX := grid.getCellIndex(aabb.Min.X()), grid.getCellIndex(aabb.Max.X())
	minY, maxY := grid.getCellIndex(aabb.Min.Y()), grid.getCellIndex(aabb.Max.Y())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := grid.hashKey(x, y)
			grid.cells[key] = append(grid.cells[key], id)
		}
	}
}

func (grid *SpatialHashGrid) QueryAABB(aabb AABB) []EntityId {
	minX, maxX := grid.getCellIndex(aabb.Min.X()), grid.getCellIndex(aabb.Max.X())
	minY, maxY := grid.getCellIndex(aabb.Min.Y()), grid.getCellIndex(aabb.Max.Y())

	unique := make(map[EntityId]struct{})
	var results []EntityId

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := grid.hashKey(x, y)
			for _, id := range grid.cells[key] {
				if _, ok := unique[id]; !ok {
					unique[id] = struct{}{}
					results = append(results, id)
				}
			}
		}
	}
	return results
}

func (grid *SpatialHashGrid) getCellIndex(pos float64) int {
	return int(math.Floor(pos / grid.cellSize))
}

// Simple hash for 2D cell coordinates, large primes for mixing.
func (grid *SpatialHashGrid) hashKey(x, y int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	return uint64(x*p1 ^ y*p2)
}
