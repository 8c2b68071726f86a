package extract

import (
	"errors"
	"testing"

	"unitables/pkg/htmlutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	err := InvalidArgument("unknown table %q", "invalid")
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.NotErrorIs(t, err, ErrIndexIntegrity)
	require.Contains(t, err.Error(), `"invalid"`)

	err = IndexIntegrity("missing table")
	require.ErrorIs(t, err, ErrIndexIntegrity)
}

func TestRequire(t *testing.T) {
	doc, err := htmlutil.Parse(`<div class="x">a</div><div class="x">b</div>`)
	require.NoError(t, err)

	second, err := Require(doc, htmlutil.Tag("div").WithClass("x"), 1)
	require.NoError(t, err)
	require.Equal(t, "b", second.Text())

	_, err = Require(doc, htmlutil.Tag("div").WithClass("x"), 2)
	require.ErrorIs(t, err, ErrIndexIntegrity)
	require.Contains(t, err.Error(), "div.x")
}

func TestCellsAndPairs(t *testing.T) {
	doc, err := htmlutil.Parse(`<table><tbody><tr>
		<td> A </td><td>1</td><td></td><td>B</td><td>2</td>
	</tr></tbody></table>`)
	require.NoError(t, err)

	cells := Cells(doc.FindAll(htmlutil.Tag("td")))
	require.Equal(t, []Cell{
		{Index: 0, Text: "A"},
		{Index: 1, Text: "1"},
		{Index: 2, Text: ""},
		{Index: 3, Text: "B"},
		{Index: 4, Text: "2"},
	}, cells)

	filtered := Filter(cells, func(c Cell) bool { return c.Text != "" })
	require.Len(t, filtered, 4)
	require.Equal(t, 3, filtered[2].Index)

	pairs := Pairs(filtered)
	expected := []Pair{
		{Name: Cell{Index: 0, Text: "A"}, Value: Cell{Index: 1, Text: "1"}},
		{Name: Cell{Index: 3, Text: "B"}, Value: Cell{Index: 4, Text: "2"}},
	}
	if diff := cmp.Diff(expected, pairs); diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, Pairs(cells[:3]), 1)
	require.Empty(t, Pairs(nil))
}

func TestCorrelate(t *testing.T) {
	pairs, err := Correlate([]string{"a", "b"}, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, []Correlated[string, int]{
		{Index: 0, Left: "a", Right: 1},
		{Index: 1, Left: "b", Right: 2},
	}, pairs)

	_, err = Correlate([]string{"a", "b", "c"}, []int{1, 2})
	require.ErrorIs(t, err, ErrIndexIntegrity)

	empty, err := Correlate([]string{}, []int{})
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestZip(t *testing.T) {
	pairs, complete := Zip([]string{"a", "b", "c"}, []int{1, 2})
	require.False(t, complete)
	require.Len(t, pairs, 2)
	require.Equal(t, "b", pairs[1].Left)

	_, complete = Zip([]string{"a"}, []int{1})
	require.True(t, complete)
}

func TestPartition(t *testing.T) {
	boom := errors.New("boom")
	outcomes := []Outcome[string]{
		Success("a"),
		Failed[string](0, 1, boom),
		Success("b"),
		Failed[string](2, -1, IndexIntegrity("mismatch")),
	}

	values, failures := Partition(outcomes)
	require.Equal(t, []string{"a", "b"}, values)
	require.Len(t, failures, 2)
	require.ErrorIs(t, failures[0], boom)
	require.Equal(t, "group 0, item 1: boom", failures[0].Error())
	require.ErrorIs(t, failures[1], ErrIndexIntegrity)
	require.Contains(t, failures[1].Error(), "group 2: ")
}
