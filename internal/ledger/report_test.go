package ledger_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/ledger"
)

func TestCharts(t *testing.T) {
	l := ledger.New()
	l.Add(rec(t, "1", 4, "92", "math"))
	l.Add(rec(t, "2", 2, "61", "math"))
	l.Add(rec(t, "3", 3, "pass", "sport"))
	l.Add(rec(t, "4", 1, "100", course.Elective))

	bars := l.GradeBars()
	want := []ledger.Bar{{Name: "course 2", Grade: 61}, {Name: "course 1", Grade: 92}, {Name: "course 4", Grade: 100}}
	if diff := cmp.Diff(want, bars); diff != "" {
		t.Fatalf("bars mismatch (-want +got):\n%s", diff)
	}

	hist := l.Histogram()
	assert.Len(t, hist, 18)
	assert.Equal(t, 10.0, hist[0].Low)
	assert.Equal(t, 100.0, hist[17].High)
	assert.Equal(t, 2.0, hist[10].Points) // [60,65)
	assert.Equal(t, 4.0, hist[16].Points) // [90,95)
	assert.Equal(t, 1.0, hist[17].Points) // 100 lands in the last bin

	shares := l.CategoryShares()
	wantShares := []ledger.Share{{Category: "math", Points: 6}, {Category: "sport", Points: 3}, {Category: course.Elective, Points: 1}}
	if diff := cmp.Diff(wantShares, shares); diff != "" {
		t.Fatalf("shares mismatch (-want +got):\n%s", diff)
	}

	ch := l.Characteristics()
	assert.Equal(t, 4, ch.Courses)
	assert.Equal(t, 10.0, ch.TotalPoints)
	assert.Equal(t, 9.0, ch.NonElectivePoints)
}
