package course

import (
	"math"
	"strconv"
	"strings"
)

// PassToken is the textual form of a pass/fail grade.
const PassToken = "pass"

// Grade is either a numeric grade or a pass mark. The zero value is a numeric 0.
type Grade struct {
	value  float64
	binary bool
}

func Numeric(v float64) Grade { return Grade{value: v} }

func Pass() Grade { return Grade{binary: true} }

func (g Grade) IsBinary() bool { return g.binary }

// Value returns the numeric grade; ok is false for a pass mark.
func (g Grade) Value() (float64, bool) {
	if g.binary {
		return 0, false
	}
	return g.value, true
}

func (g Grade) String() string {
	if g.binary {
		return PassToken
	}
	return formatFloat(g.value)
}

// ParseGrade classifies text once: "pass" (any case) or a finite number.
func ParseGrade(text string) (Grade, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Grade{}, fieldErr("grade", text, ErrMissingField)
	}
	if strings.EqualFold(s, PassToken) {
		return Pass(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Grade{}, fieldErr("grade", text, ErrInvalidGrade)
	}
	return Numeric(v), nil
}

// ParsePoints accepts a positive finite real.
func ParsePoints(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fieldErr("points", text, ErrMissingField)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !validPoints(v) {
		return 0, fieldErr("points", text, ErrInvalidPoints)
	}
	return v, nil
}

func validPoints(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatFloat is the shortest decimal that parses back to the same float64.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
