package ledger

// Elective is the optimizer's view of one elective id. Records sharing an id
// are merged.
type Elective struct {
	ID            string
	Points        float64 // all records, pass/fail included
	NumericPoints float64
	GradeSum      float64 // sum of points*grade over numeric records
}

// Electives snapshots the elective pool in ascending id order.
func (l *Ledger) Electives() []Elective {
	ids := l.ElectiveIDs()
	pos := make(map[string]int, len(ids))
	out := make([]Elective, len(ids))
	for i, id := range ids {
		pos[id] = i
		out[i].ID = id
	}
	for _, e := range l.entries {
		if !e.rec.IsElective() {
			continue
		}
		el := &out[pos[e.rec.ID]]
		el.Points += e.rec.Points
		if rel, ok := e.rec.RelativeGrade(); ok {
			el.NumericPoints += e.rec.Points
			el.GradeSum += rel
		}
	}
	return out
}
