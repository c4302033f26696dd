package gctoo

import (
	"fmt"
	"math/rand"
)

// Transpose swaps the data axes and the two metadata tables.
func Transpose(g *GCToo) (*GCToo, error) {
	return New(g.data.T(), g.colMeta, g.rowMeta, WithSource(g.Source), WithVersion(g.Version))
}

// RandomSlice keeps n randomly chosen entries of one axis, in the shuffled
// order, and the whole of the other axis.
func RandomSlice(g *GCToo, n int, axis Axis, rng *rand.Rand) (*GCToo, error) {
	rows, cols := g.data.Shape()
	length := rows
	if axis == ColAxis {
		length = cols
	}
	if n < 0 || n > length {
		return nil, fmt.Errorf("RandomSlice: number of entries must not exceed the %s dimension: %d > %d", axis, n, length)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	pos := rng.Perm(length)[:n]
	if axis == RowAxis {
		return takeAll(g, pos, nil)
	}
	return takeAll(g, nil, pos)
}
