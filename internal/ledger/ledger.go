// Package ledger keeps a learner's courses together with running weighted
// statistics. Every mutation leaves the aggregates consistent with the
// current records before it returns.
package ledger

import (
	"math"
	"sort"

	"github.com/mind-engage/mindengage-grades/internal/course"
)

type entry struct {
	rec    course.Record
	binary bool
}

// Ledger is not safe for concurrent use. Readers that must not observe
// edits work on a Clone.
type Ledger struct {
	entries []entry

	totalPoints       float64
	weightedPoints    float64
	weightedGradeSum  float64
	nonElectivePoints float64
	numericCount      int

	categoryTotals map[string]float64
	electives      map[string]int // id -> number of elective records carrying it

	mean   float64
	stddev float64

	quota    int
	hasQuota bool
}

func New() *Ledger {
	return &Ledger{
		categoryTotals: map[string]float64{},
		electives:      map[string]int{},
	}
}

// Add stores r and folds it into every aggregate. Ids are not checked for
// uniqueness here.
func (l *Ledger) Add(r course.Record) {
	e := entry{rec: r, binary: r.IsBinary()}
	if rel, ok := r.RelativeGrade(); ok {
		l.weightedPoints += r.Points
		l.weightedGradeSum += rel
		l.numericCount++
	}
	if r.IsElective() {
		l.electives[r.ID]++
	} else {
		l.nonElectivePoints += r.Points
	}
	l.categoryTotals[r.Category] += r.Points
	l.totalPoints += r.Points
	l.entries = append(l.entries, e)
	l.refresh()
}

// Remove drops the first record with the given id and reverses its
// contributions. It reports false, leaving the ledger untouched, when no
// such record exists.
func (l *Ledger) Remove(id string) (course.Record, bool) {
	idx := l.index(id)
	if idx < 0 {
		return course.Record{}, false
	}
	e := l.entries[idx]
	r := e.rec
	if !e.binary {
		rel, _ := r.RelativeGrade()
		l.weightedPoints -= r.Points
		l.weightedGradeSum -= rel
		l.numericCount--
	}
	if r.IsElective() {
		if l.electives[r.ID]--; l.electives[r.ID] <= 0 {
			delete(l.electives, r.ID)
		}
	} else {
		l.nonElectivePoints -= r.Points
	}
	l.categoryTotals[r.Category] -= r.Points
	l.totalPoints -= r.Points
	l.entries = append(l.entries[:idx:idx], l.entries[idx+1:]...)
	if len(l.entries) == 0 {
		// drop float residue so an emptied ledger reports exact zeros
		l.totalPoints, l.nonElectivePoints = 0, 0
		for c := range l.categoryTotals {
			l.categoryTotals[c] = 0
		}
	}
	l.refresh()
	return r, true
}

// Replace swaps the record set for recs and re-derives every aggregate.
// The target quota and the sticky statistics survive the swap.
func (l *Ledger) Replace(recs []course.Record) {
	fresh := New()
	fresh.mean, fresh.stddev = l.mean, l.stddev
	fresh.quota, fresh.hasQuota = l.quota, l.hasQuota
	for _, r := range recs {
		fresh.Add(r)
	}
	*l = *fresh
}

// Clone rebuilds a ledger by replaying every record through Add, so the
// copy derives its aggregates independently of the source.
func (l *Ledger) Clone() *Ledger {
	c := New()
	c.quota, c.hasQuota = l.quota, l.hasQuota
	for _, e := range l.entries {
		c.Add(e.rec)
	}
	return c
}

func (l *Ledger) refresh() {
	if l.numericCount == 0 {
		// No denominator: mean and stddev keep their last value.
		l.weightedPoints, l.weightedGradeSum = 0, 0
		return
	}
	l.mean = l.weightedGradeSum / l.weightedPoints
	var num float64
	for _, e := range l.entries {
		if e.binary {
			continue
		}
		g, _ := e.rec.Grade.Value()
		d := g - l.mean
		num += e.rec.Points * d * d
	}
	l.stddev = math.Sqrt(num / l.weightedPoints)
}

func (l *Ledger) index(id string) int {
	for i, e := range l.entries {
		if e.rec.ID == id {
			return i
		}
	}
	return -1
}

// Records returns the courses in insertion order.
func (l *Ledger) Records() []course.Record {
	out := make([]course.Record, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.rec
	}
	return out
}

func (l *Ledger) Len() int { return len(l.entries) }

// Lookup returns the first record with the given id.
func (l *Ledger) Lookup(id string) (course.Record, bool) {
	if i := l.index(id); i >= 0 {
		return l.entries[i].rec, true
	}
	return course.Record{}, false
}

// Name resolves a course id to its display name, or the id itself.
func (l *Ledger) Name(id string) string {
	if r, ok := l.Lookup(id); ok {
		return r.Name
	}
	return id
}

func (l *Ledger) TotalPoints() float64       { return l.totalPoints }
func (l *Ledger) WeightedPoints() float64    { return l.weightedPoints }
func (l *Ledger) WeightedGradeSum() float64  { return l.weightedGradeSum }
func (l *Ledger) NonElectivePoints() float64 { return l.nonElectivePoints }
func (l *Ledger) Mean() float64              { return l.mean }
func (l *Ledger) StdDev() float64            { return l.stddev }

// Average is the weighted mean rounded for display.
func (l *Ledger) Average() float64 { return round3(l.mean) }

// StdDevReport is the weighted standard deviation rounded for display.
func (l *Ledger) StdDevReport() float64 { return round3(l.stddev) }

// CategoryTotals returns a copy of category -> points.
func (l *Ledger) CategoryTotals() map[string]float64 {
	out := make(map[string]float64, len(l.categoryTotals))
	for k, v := range l.categoryTotals {
		out[k] = v
	}
	return out
}

// ElectiveIDs returns the elective ids in ascending order.
func (l *Ledger) ElectiveIDs() []string {
	ids := make([]string, 0, len(l.electives))
	for id := range l.electives {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (l *Ledger) SetTargetQuota(n int) int {
	l.quota, l.hasQuota = n, true
	return l.quota
}

func (l *Ledger) TargetQuota() (int, bool) { return l.quota, l.hasQuota }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
