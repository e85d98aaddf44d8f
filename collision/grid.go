package collision

import (
	"math"
	"slices"

	"github.com/kamstrup/intmap"
)

// Grid is a uniform-grid broad phase. Enemies are bucketed by the cell holding their
// center; each projectile only tests enemies in the cells its reach covers. Candidates
// are visited in enemy index order, so results match Detect exactly.
//
// A Grid reuses its buckets between scans and is not safe for concurrent use.
type Grid[H comparable] struct {
	cellSize float32
	cells    *intmap.Map[uint64, int32]
	buckets  [][]int32
	scratch  []int32

	// bounds of the occupied cells, inclusive
	minCX, minCY, maxCX, maxCY int32
}

// NewGrid creates a grid with square cells of the given size.
func NewGrid[H comparable](cellSize float32) *Grid[H] {
	if cellSize <= 0 || math.IsNaN(float64(cellSize)) {
		panic("collision: grid cell size must be positive")
	}
	return &Grid[H]{
		cellSize: cellSize,
		cells:    intmap.New[uint64, int32](64),
	}
}

// CellSize returns the grid's cell edge length.
func (g *Grid[H]) CellSize() float32 {
	return g.cellSize
}

func cellKey(cx, cy int32) uint64 {
	return uint64(uint32(cx))<<32 | uint64(uint32(cy))
}

// cellOf saturates at the int32 range so far-away bodies land in the edge cells.
func (g *Grid[H]) cellOf(v float32) int32 {
	c := math.Floor(float64(v) / float64(g.cellSize))
	switch {
	case math.IsNaN(c):
		return 0
	case c <= math.MinInt32:
		return math.MinInt32
	case c >= math.MaxInt32:
		return math.MaxInt32
	}
	return int32(c)
}

func (g *Grid[H]) reset() {
	g.cells.Clear()
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
	g.buckets = g.buckets[:0]
	g.minCX, g.minCY = math.MaxInt32, math.MaxInt32
	g.maxCX, g.maxCY = math.MinInt32, math.MinInt32
}

func (g *Grid[H]) insert(cx, cy int32, index int32) {
	key := cellKey(cx, cy)
	slot, ok := g.cells.Get(key)
	if !ok {
		slot = int32(len(g.buckets))
		if cap(g.buckets) > len(g.buckets) {
			g.buckets = g.buckets[:len(g.buckets)+1]
		} else {
			g.buckets = append(g.buckets, nil)
		}
		g.cells.Put(key, slot)
	}
	g.buckets[slot] = append(g.buckets[slot], index)
	g.minCX, g.maxCX = min(g.minCX, cx), max(g.maxCX, cx)
	g.minCY, g.maxCY = min(g.minCY, cy), max(g.maxCY, cy)
}

// Detect behaves like the package-level Detect but only tests nearby pairs.
func (g *Grid[H]) Detect(projectiles, enemies []Body[H], policy Policy) []Pair[H] {
	if len(projectiles) == 0 || len(enemies) == 0 {
		return nil
	}

	g.reset()
	var maxRadius float32
	for i, e := range enemies {
		g.insert(g.cellOf(e.Position[0]), g.cellOf(e.Position[1]), int32(i))
		maxRadius = max(maxRadius, e.Radius)
	}

	var pairs []Pair[H]
	var consumed []bool
	if policy == FirstMatch {
		consumed = make([]bool, len(enemies))
	}

	for _, p := range projectiles {
		// only cells that hold an enemy are worth a lookup
		reach := p.Radius + maxRadius
		minX := int64(max(g.cellOf(p.Position[0]-reach), g.minCX))
		maxX := int64(min(g.cellOf(p.Position[0]+reach), g.maxCX))
		minY := int64(max(g.cellOf(p.Position[1]-reach), g.minCY))
		maxY := int64(min(g.cellOf(p.Position[1]+reach), g.maxCY))

		g.scratch = g.scratch[:0]
		for cx := minX; cx <= maxX; cx++ {
			for cy := minY; cy <= maxY; cy++ {
				if slot, ok := g.cells.Get(cellKey(int32(cx), int32(cy))); ok {
					g.scratch = append(g.scratch, g.buckets[slot]...)
				}
			}
		}
		slices.Sort(g.scratch)

		for _, i := range g.scratch {
			if consumed != nil && consumed[i] {
				continue
			}
			e := enemies[i]
			if !Overlaps(p, e) {
				continue
			}
			pairs = append(pairs, Pair[H]{Projectile: p.Handle, Enemy: e.Handle})
			if consumed != nil {
				consumed[i] = true
				break
			}
		}
	}
	return pairs
}
