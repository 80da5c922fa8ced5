package course_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-grades/internal/course"
)

func TestParse_NumericAndPass(t *testing.T) {
	r, err := course.Parse("101", "Algebra", "5", "88.5", "math")
	require.NoError(t, err)
	assert.False(t, r.IsBinary())
	rel, ok := r.RelativeGrade()
	require.True(t, ok)
	assert.InDelta(t, 442.5, rel, 1e-9)

	p, err := course.Parse("102", "Seminar", "2", "PASS", course.Elective)
	require.NoError(t, err)
	assert.True(t, p.IsBinary())
	assert.True(t, p.IsElective())
	_, ok = p.RelativeGrade()
	assert.False(t, ok)
}

func TestParse_InvalidFields(t *testing.T) {
	cases := []struct {
		name   string
		fields [5]string
		want   error
		field  string
	}{
		{"zero points", [5]string{"1", "A", "0", "90", "x"}, course.ErrInvalidPoints, "points"},
		{"negative points", [5]string{"1", "A", "-3", "90", "x"}, course.ErrInvalidPoints, "points"},
		{"text points", [5]string{"1", "A", "many", "90", "x"}, course.ErrInvalidPoints, "points"},
		{"bad grade", [5]string{"1", "A", "3", "excellent", "x"}, course.ErrInvalidGrade, "grade"},
		{"nan grade", [5]string{"1", "A", "3", "NaN", "x"}, course.ErrInvalidGrade, "grade"},
		{"missing id", [5]string{" ", "A", "3", "90", "x"}, course.ErrMissingField, "id"},
		{"missing category", [5]string{"1", "A", "3", "90", ""}, course.ErrMissingField, "category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.fields
			_, err := course.Parse(f[0], f[1], f[2], f[3], f[4])
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))
			assert.True(t, errors.Is(err, course.ErrInvalidField))
			var fe *course.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestNew_AcceptsAnyPositiveNumericGrade(t *testing.T) {
	r, err := course.New("7", "Outlier", 1.5, course.Numeric(130), "misc")
	require.NoError(t, err)
	g, ok := r.Grade.Value()
	require.True(t, ok)
	assert.Equal(t, 130.0, g)
}

func TestRecord_StringRoundTrip(t *testing.T) {
	r, err := course.New("42", "Physics", 3.3333333333333335, course.Numeric(91.25), "science")
	require.NoError(t, err)
	f := r.Fields()
	back, err := course.Parse(f[0], f[1], f[2], f[3], f[4])
	require.NoError(t, err)
	assert.Equal(t, r, back)
	assert.Equal(t, "42,Physics,3.3333333333333335,91.25,science", r.String())

	pass, err := course.New("43", "Lab", 1, course.Pass(), course.Elective)
	require.NoError(t, err)
	assert.Equal(t, "43,Lab,1,pass,choice", pass.String())
}

func TestBounds_Check(t *testing.T) {
	b := course.DefaultBounds()
	low, _ := course.New("1", "A", 1, course.Numeric(59.9), "x")
	ok, _ := course.New("2", "B", 1, course.Numeric(60), "x")
	pass, _ := course.New("3", "C", 1, course.Pass(), "x")

	err := b.Check(low)
	require.Error(t, err)
	assert.True(t, errors.Is(err, course.ErrOutOfRange))
	assert.NoError(t, b.Check(ok))
	assert.NoError(t, b.Check(pass))
}
