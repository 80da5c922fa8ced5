package course

import (
	"strings"
)

// Elective is the reserved category for optional courses.
const Elective = "choice"

// Record is a single course. It is not modified after construction.
type Record struct {
	ID       string
	Name     string
	Points   float64
	Grade    Grade
	Category string
}

// New validates an already-typed record.
func New(id, name string, points float64, grade Grade, category string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, fieldErr("id", id, ErrMissingField)
	}
	if !validPoints(points) {
		return Record{}, fieldErr("points", formatFloat(points), ErrInvalidPoints)
	}
	return Record{ID: id, Name: name, Points: points, Grade: grade, Category: category}, nil
}

// Parse builds a record from text fields as they arrive from a form or a file.
func Parse(id, name, points, grade, category string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, fieldErr("id", id, ErrMissingField)
	}
	if strings.TrimSpace(name) == "" {
		return Record{}, fieldErr("name", name, ErrMissingField)
	}
	if strings.TrimSpace(category) == "" {
		return Record{}, fieldErr("category", category, ErrMissingField)
	}
	p, err := ParsePoints(points)
	if err != nil {
		return Record{}, err
	}
	g, err := ParseGrade(grade)
	if err != nil {
		return Record{}, err
	}
	return New(id, strings.TrimSpace(name), p, g, strings.TrimSpace(category))
}

func (r Record) IsBinary() bool { return r.Grade.IsBinary() }

func (r Record) IsElective() bool { return r.Category == Elective }

// RelativeGrade is points*grade; ok is false for pass/fail courses.
func (r Record) RelativeGrade() (float64, bool) {
	g, ok := r.Grade.Value()
	if !ok {
		return 0, false
	}
	return r.Points * g, true
}

// Fields returns id, name, points, grade, category in text form.
func (r Record) Fields() []string {
	return []string{r.ID, r.Name, formatFloat(r.Points), r.Grade.String(), r.Category}
}

func (r Record) String() string { return strings.Join(r.Fields(), ",") }
