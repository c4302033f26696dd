package gctoo

import "sort"

// Axis selects the rows or the columns of a table.
type Axis int

const (
	RowAxis Axis = iota
	ColAxis
)

func (a Axis) String() string {
	if a == RowAxis {
		return "row"
	}
	return "col"
}

// labelIndex maps each label to its position. The duplicates, in order of
// first repetition, are returned alongside.
func labelIndex(labels []string) (map[string]int, []string) {
	index := make(map[string]int, len(labels))
	var dups []string
	seen := make(map[string]bool)
	for i, l := range labels {
		if _, exists := index[l]; exists {
			if !seen[l] {
				dups = append(dups, l)
				seen[l] = true
			}
			continue
		}
		index[l] = i
	}
	return index, dups
}

// positionsOf resolves labels in the order given.
func positionsOf(index map[string]int, labels []string, axis string) ([]int, error) {
	out := make([]int, 0, len(labels))
	var missing []string
	for _, l := range labels {
		p, ok := index[l]
		if !ok {
			missing = append(missing, l)
			continue
		}
		out = append(out, p)
	}
	if len(missing) > 0 {
		return nil, &UnknownIdentifierError{Axis: axis, IDs: missing}
	}
	return out, nil
}

func checkPositions(n int, positions []int, axis string) error {
	var bad []int
	for _, p := range positions {
		if p < 0 || p >= n {
			bad = append(bad, p)
		}
	}
	if len(bad) > 0 {
		return &IndexOutOfRangeError{Axis: axis, Length: n, Indices: bad}
	}
	return nil
}

func maskPositions(n int, mask []bool, axis string) ([]int, error) {
	if len(mask) != n {
		return nil, &ShapeMismatchError{Axis: axis + " mask", Expected: n, Actual: len(mask)}
	}
	out := make([]int, 0, n)
	for i, keep := range mask {
		if keep {
			out = append(out, i)
		}
	}
	return out, nil
}

// sameLabelSet compares two label lists as sets with equal cardinality.
func sameLabelSet(axis string, want, got []string) error {
	wantIdx, _ := labelIndex(want)
	gotIdx, _ := labelIndex(got)
	var missing, extra []string
	for _, l := range want {
		if _, ok := gotIdx[l]; !ok {
			missing = append(missing, l)
		}
	}
	for _, l := range got {
		if _, ok := wantIdx[l]; !ok {
			extra = append(extra, l)
		}
	}
	if len(want) != len(got) || len(missing) > 0 || len(extra) > 0 {
		return &ShapeMismatchError{Axis: axis, Expected: len(want), Actual: len(got), Missing: missing, Extra: extra}
	}
	return nil
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func pick(labels []string, positions []int) []string {
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = labels[p]
	}
	return out
}

// sortedPositions returns the positions of labels in ascending label order.
// Ties keep their original relative order.
func sortedPositions(labels []string) []int {
	pos := identity(len(labels))
	sort.SliceStable(pos, func(a, b int) bool { return labels[pos[a]] < labels[pos[b]] })
	return pos
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
