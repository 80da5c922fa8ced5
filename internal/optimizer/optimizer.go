package optimizer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mind-engage/mindengage-grades/internal/ledger"
)

// Epsilon is the tolerance used when comparing a subset's points to the quota.
const Epsilon = 1e-9

const DefaultMaxElectives = 24

var (
	ErrNegativeQuota = errors.New("quota must not be negative")
	ErrPoolTooLarge  = errors.New("elective pool too large")
)

// Result is one candidate selection.
type Result struct {
	IDs     []string `json:"ids"`
	Points  float64  `json:"points"`
	Average float64  `json:"average"`
}

// Run is the outcome of a search.
type Run struct {
	Results    []Result
	Enumerated int  // subsets examined
	Fallback   bool // no subset matched; Results holds the whole pool
}

type options struct {
	maxElectives int
	prune        bool
}

type Option func(*options)

// WithMaxElectives caps the pool size; n <= 0 removes the cap.
func WithMaxElectives(n int) Option { return func(o *options) { o.maxElectives = n } }

// WithPruning skips extensions of a partial selection that already exceeds
// the quota. Points are positive, so the result set is the same either way.
func WithPruning(on bool) Option { return func(o *options) { o.prune = on } }

// ForLedger runs Best over l's current elective pool.
func ForLedger(l *ledger.Ledger, quota int, opts ...Option) (Run, error) {
	return Best(l.Electives(), quota, opts...)
}

// Best searches pool for subsets worth exactly quota points.
func Best(pool []ledger.Elective, quota int, opts ...Option) (Run, error) {
	o := options{maxElectives: DefaultMaxElectives, prune: true}
	for _, fn := range opts {
		fn(&o)
	}
	if quota < 0 {
		return Run{}, ErrNegativeQuota
	}
	if o.maxElectives > 0 && len(pool) > o.maxElectives {
		return Run{}, fmt.Errorf("%w: %d electives, limit %d", ErrPoolTooLarge, len(pool), o.maxElectives)
	}

	items := append([]ledger.Elective(nil), pool...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	s := &search{items: items, quota: float64(quota), prune: o.prune}
	for k := 0; k < len(items); k++ {
		s.choose(0, k, make([]int, 0, k), 0)
	}

	run := Run{Results: s.kept, Enumerated: s.enumerated}
	if len(run.Results) == 0 {
		all := make([]int, len(items))
		for i := range all {
			all[i] = i
		}
		run.Results = []Result{s.result(all)}
		run.Fallback = true
		return run, nil
	}
	rank(run.Results)
	return run, nil
}

type search struct {
	items      []ledger.Elective
	quota      float64
	prune      bool
	kept       []Result
	enumerated int
}

// choose extends picked with k more indices from start onward, in
// lexicographic index order.
func (s *search) choose(start, k int, picked []int, sum float64) {
	if s.prune && sum > s.quota+Epsilon {
		if n := countSubsets(len(s.items)-start, k); n < math.MaxInt-s.enumerated {
			s.enumerated += n
		} else {
			s.enumerated = math.MaxInt
		}
		return
	}
	if k == 0 {
		s.enumerated++
		if math.Abs(sum-s.quota) <= Epsilon {
			s.kept = append(s.kept, s.result(picked))
		}
		return
	}
	for i := start; i <= len(s.items)-k; i++ {
		s.choose(i+1, k-1, append(picked, i), sum+s.items[i].Points)
	}
}

func (s *search) result(idx []int) Result {
	r := Result{IDs: make([]string, len(idx))}
	var numPts, gradeSum float64
	for i, j := range idx {
		it := s.items[j]
		r.IDs[i] = it.ID
		r.Points += it.Points
		numPts += it.NumericPoints
		gradeSum += it.GradeSum
	}
	if numPts > 0 {
		r.Average = gradeSum / numPts
	}
	return r
}

func rank(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Average != rs[j].Average {
			return rs[i].Average > rs[j].Average
		}
		return lessIDs(rs[i].IDs, rs[j].IDs)
	})
}

func lessIDs(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// countSubsets is C(n, k), saturating at MaxInt.
func countSubsets(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1
	for i := 1; i <= k; i++ {
		if c > math.MaxInt/(n-k+i) {
			return math.MaxInt
		}
		c = c * (n - k + i) / i
	}
	return c
}
