package course

import "fmt"

const (
	DefaultMinGrade = 60
	DefaultMaxGrade = 100
)

// Bounds is the accepted numeric grade range at input boundaries.
// The ledger itself accepts any numeric grade.
type Bounds struct {
	Min float64
	Max float64
}

func DefaultBounds() Bounds { return Bounds{Min: DefaultMinGrade, Max: DefaultMaxGrade} }

func (b Bounds) Check(r Record) error {
	g, ok := r.Grade.Value()
	if !ok {
		return nil
	}
	if g < b.Min || g > b.Max {
		return &FieldError{
			Field: "grade",
			Value: r.Grade.String(),
			Err:   fmt.Errorf("%w: want %s..%s", ErrOutOfRange, formatFloat(b.Min), formatFloat(b.Max)),
		}
	}
	return nil
}
