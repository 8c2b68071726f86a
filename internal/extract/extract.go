// Package extract holds the pieces every extractor shares: the error kinds,
// flattened cell sequences, positional correlation and per-item outcomes.
package extract

import (
	"errors"
	"fmt"

	"unitables/pkg/htmlutil"
)

var (
	// ErrInvalidArgument is returned for an unsupported selector value, it
	// is always returned before any network access.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexIntegrity means the markup does not have the expected shape:
	// a missing anchor element or two correlated collections that differ in
	// length.
	ErrIndexIntegrity = errors.New("index integrity fault")
)

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func IndexIntegrity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIndexIntegrity, fmt.Sprintf(format, args...))
}

// Require finds the n-th match of q in tree, or fails with ErrIndexIntegrity.
func Require(tree htmlutil.Tree, q htmlutil.Query, n int) (htmlutil.Node, error) {
	node, ok := tree.Nth(q, n)
	if !ok {
		return nil, IndexIntegrity("no match for %s at index %d", q, n)
	}
	return node, nil
}

// Cell is a text value with its position in the sequence it was read from.
type Cell struct {
	Index int
	Text  string
}

// Cells flattens nodes into a sequence of trimmed texts.
func Cells(nodes []htmlutil.Node) []Cell {
	out := make([]Cell, len(nodes))
	for i, n := range nodes {
		out[i] = Cell{Index: i, Text: n.Text()}
	}
	return out
}

// Filter keeps the cells for which keep returns true, original indices are
// preserved.
func Filter(cells []Cell, keep func(Cell) bool) []Cell {
	var out []Cell
	for _, c := range cells {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

type Pair struct {
	Name  Cell
	Value Cell
}

// Pairs reads cells as alternating (name, value), a trailing unpaired cell is
// dropped.
func Pairs(cells []Cell) []Pair {
	out := make([]Pair, 0, len(cells)/2)
	for i := 0; i+1 < len(cells); i += 2 {
		out = append(out, Pair{Name: cells[i], Value: cells[i+1]})
	}
	return out
}

// Correlated is the i-th element of two collections.
type Correlated[A, B any] struct {
	Index int
	Left  A
	Right B
}

// Correlate pairs two independently enumerated collections by position. It
// fails with ErrIndexIntegrity when their lengths differ.
func Correlate[A, B any](left []A, right []B) ([]Correlated[A, B], error) {
	if len(left) != len(right) {
		return nil, IndexIntegrity(
			"cannot correlate collections of length %d and %d",
			len(left), len(right),
		)
	}
	return zip(left, right), nil
}

// Zip pairs two collections by position, stopping at the shorter one. The
// second return value is false when anything was left over.
func Zip[A, B any](left []A, right []B) ([]Correlated[A, B], bool) {
	return zip(left, right), len(left) == len(right)
}

func zip[A, B any](left []A, right []B) []Correlated[A, B] {
	n := min(len(left), len(right))
	out := make([]Correlated[A, B], n)
	for i := 0; i < n; i++ {
		out[i] = Correlated[A, B]{Index: i, Left: left[i], Right: right[i]}
	}
	return out
}
