package optimizer_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/ledger"
	"github.com/mind-engage/mindengage-grades/internal/optimizer"
)

func electives(t *testing.T, specs ...string) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	for _, s := range specs {
		var id, pts, grade string
		_, err := fmt.Sscanf(s, "%s %s %s", &id, &pts, &grade)
		require.NoError(t, err)
		r, err := course.Parse(id, "name-"+id, pts, grade, course.Elective)
		require.NoError(t, err)
		l.Add(r)
	}
	return l
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestBest_ExactMatchRanking(t *testing.T) {
	l := electives(t, "A 10 80", "B 15 90", "C 5 70")
	run, err := optimizer.ForLedger(l, 15)
	require.NoError(t, err)
	assert.False(t, run.Fallback)

	want := []optimizer.Result{
		{IDs: []string{"B"}, Points: 15, Average: 90},
		{IDs: []string{"A", "C"}, Points: 15, Average: (10*80 + 5*70) / 15.0},
	}
	if diff := cmp.Diff(want, run.Results, approx); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	// sizes 0, 1 and 2 of a 3-pool
	assert.Equal(t, 1+3+3, run.Enumerated)
}

func TestBest_FallbackWholePool(t *testing.T) {
	l := electives(t, "A 10 80")
	run, err := optimizer.ForLedger(l, 99)
	require.NoError(t, err)
	assert.True(t, run.Fallback)
	require.Len(t, run.Results, 1)
	assert.Equal(t, []string{"A"}, run.Results[0].IDs)
	assert.InDelta(t, 80, run.Results[0].Average, 1e-9)
}

// The complete pool is never a candidate, even when it is the only exact
// match. It still comes back, but only through the fallback path.
func TestBest_FullSetNeverTested(t *testing.T) {
	l := electives(t, "A 5 80", "B 5 100")
	run, err := optimizer.ForLedger(l, 10)
	require.NoError(t, err)
	assert.True(t, run.Fallback, "size-n subset must not count as a match")
	assert.Equal(t, 1+2, run.Enumerated)
	require.Len(t, run.Results, 1)
	assert.Equal(t, []string{"A", "B"}, run.Results[0].IDs)
	assert.InDelta(t, 90, run.Results[0].Average, 1e-9)
}

func TestBest_BinaryMembersCountPointsNotAverage(t *testing.T) {
	l := electives(t, "A 4 pass", "B 6 70", "C 10 95", "D 3 99")
	run, err := optimizer.ForLedger(l, 10)
	require.NoError(t, err)
	want := []optimizer.Result{
		{IDs: []string{"C"}, Points: 10, Average: 95},
		{IDs: []string{"A", "B"}, Points: 10, Average: 70},
	}
	if diff := cmp.Diff(want, run.Results, approx); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestBest_AllBinarySubsetAveragesZero(t *testing.T) {
	l := electives(t, "A 2 pass", "B 2 80")
	run, err := optimizer.ForLedger(l, 2)
	require.NoError(t, err)
	require.Len(t, run.Results, 2)
	assert.Equal(t, []string{"B"}, run.Results[0].IDs)
	assert.Equal(t, []string{"A"}, run.Results[1].IDs)
	assert.Zero(t, run.Results[1].Average)
}

func TestBest_TieBreakBySortedIDs(t *testing.T) {
	l := electives(t, "d 2 80", "c 2 80", "b 1 80", "a 1 80", "e 5 80")
	run, err := optimizer.ForLedger(l, 2)
	require.NoError(t, err)
	var got [][]string
	for _, r := range run.Results {
		got = append(got, r.IDs)
	}
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}, {"d"}}, got)
}

func TestBest_FloatingPointQuota(t *testing.T) {
	l := electives(t, "A 0.1 90", "B 0.2 80", "C 2.7 70", "D 5 60")
	run, err := optimizer.ForLedger(l, 3)
	require.NoError(t, err)
	assert.False(t, run.Fallback)
	require.Len(t, run.Results, 1)
	assert.Equal(t, []string{"A", "B", "C"}, run.Results[0].IDs)
}

func TestBest_ZeroQuotaMatchesEmptySelection(t *testing.T) {
	l := electives(t, "A 3 80")
	run, err := optimizer.ForLedger(l, 0)
	require.NoError(t, err)
	require.Len(t, run.Results, 1)
	assert.Empty(t, run.Results[0].IDs)
	assert.Zero(t, run.Results[0].Average)
}

func TestBest_EmptyPool(t *testing.T) {
	run, err := optimizer.Best(nil, 5)
	require.NoError(t, err)
	assert.True(t, run.Fallback)
	require.Len(t, run.Results, 1)
	assert.Empty(t, run.Results[0].IDs)
}

func TestBest_Errors(t *testing.T) {
	_, err := optimizer.Best(nil, -1)
	assert.ErrorIs(t, err, optimizer.ErrNegativeQuota)

	pool := make([]ledger.Elective, 5)
	for i := range pool {
		pool[i] = ledger.Elective{ID: fmt.Sprint(i), Points: 1}
	}
	_, err = optimizer.Best(pool, 2, optimizer.WithMaxElectives(4))
	assert.ErrorIs(t, err, optimizer.ErrPoolTooLarge)
	_, err = optimizer.Best(pool, 2, optimizer.WithMaxElectives(0))
	assert.NoError(t, err)
}

func TestBest_PruningDoesNotChangeResults(t *testing.T) {
	specs := []string{"a 1 61", "b 2 72", "c 3 83", "d 4 94", "e 5 65", "f 6 76", "g 1 87", "h 2 98", "i 3 69"}
	l := electives(t, specs...)
	for q := 0; q <= 27; q++ {
		pruned, err := optimizer.ForLedger(l, q, optimizer.WithPruning(true))
		require.NoError(t, err)
		full, err := optimizer.ForLedger(l, q, optimizer.WithPruning(false))
		require.NoError(t, err)
		if diff := cmp.Diff(full, pruned); diff != "" {
			t.Fatalf("quota %d: pruning changed the run (-full +pruned):\n%s", q, diff)
		}
	}
}

func TestCursor(t *testing.T) {
	rs := []optimizer.Result{{IDs: []string{"a"}}, {IDs: []string{"b"}}}
	c := optimizer.NewCursor(rs)
	r, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, r.IDs)
	r, ok = c.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, r.IDs)
	_, ok = c.Next()
	assert.False(t, ok)
	assert.Equal(t, 2, c.Pos())
	c.Reset()
	r, _ = c.Next()
	assert.Equal(t, []string{"a"}, r.IDs)

	var nilCursor *optimizer.Cursor
	_, ok = nilCursor.Next()
	assert.False(t, ok)
}
