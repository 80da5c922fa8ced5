package ledger

import (
	"sort"
)

// Characteristics is the summary shown next to the course table.
type Characteristics struct {
	Courses           int     `json:"courses"`
	TotalPoints       float64 `json:"total_points"`
	NonElectivePoints float64 `json:"non_elective_points"`
	Average           float64 `json:"average"`
	StdDev            float64 `json:"stddev"`
}

func (l *Ledger) Characteristics() Characteristics {
	return Characteristics{
		Courses:           len(l.entries),
		TotalPoints:       l.totalPoints,
		NonElectivePoints: l.nonElectivePoints,
		Average:           l.Average(),
		StdDev:            l.StdDevReport(),
	}
}

type Bar struct {
	Name  string  `json:"name"`
	Grade float64 `json:"grade"`
}

// GradeBars lists numeric courses by grade, lowest first.
func (l *Ledger) GradeBars() []Bar {
	var bars []Bar
	for _, e := range l.entries {
		if g, ok := e.rec.Grade.Value(); ok {
			bars = append(bars, Bar{Name: e.rec.Name, Grade: g})
		}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Grade < bars[j].Grade })
	return bars
}

const (
	histLow   = 10
	histHigh  = 100
	histWidth = 5
)

// Bin covers [Low, High); the last bin also includes High.
type Bin struct {
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	Points float64 `json:"points"`
}

// Histogram buckets numeric grades weighted by points. Grades outside
// 10..100 are not counted.
func (l *Ledger) Histogram() []Bin {
	n := (histHigh - histLow) / histWidth
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = float64(histLow + i*histWidth)
		bins[i].High = bins[i].Low + histWidth
	}
	for _, e := range l.entries {
		g, ok := e.rec.Grade.Value()
		if !ok || g < histLow || g > histHigh {
			continue
		}
		i := int((g - histLow) / histWidth)
		if i >= n {
			i = n - 1
		}
		bins[i].Points += e.rec.Points
	}
	return bins
}

type Share struct {
	Category string  `json:"category"`
	Points   float64 `json:"points"`
}

// CategoryShares lists categories with a positive point total, largest first.
func (l *Ledger) CategoryShares() []Share {
	out := make([]Share, 0, len(l.categoryTotals))
	for c, p := range l.categoryTotals {
		if p > 0 {
			out = append(out, Share{Category: c, Points: p})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Category < out[j].Category
	})
	return out
}
