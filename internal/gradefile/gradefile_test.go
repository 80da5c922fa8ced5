package gradefile_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/gradefile"
	"github.com/mind-engage/mindengage-grades/internal/ledger"
	"github.com/mind-engage/mindengage-grades/internal/optimizer"
)

const sample = `10,Calculus,5,88,math
11,Gym,1.5,pass,sport

12,Poetry,2.25,91.75,choice
13,"History, Modern",3,60,choice
`

func TestRead_RoundTrip(t *testing.T) {
	recs, err := gradefile.Read(strings.NewReader(sample), course.DefaultBounds())
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "History, Modern", recs[3].Name)
	assert.True(t, recs[1].IsBinary())

	l := ledger.New()
	for _, r := range recs {
		l.Add(r)
	}
	var buf bytes.Buffer
	require.NoError(t, gradefile.Write(&buf, l.Records()))
	assert.Equal(t, `10,Calculus,5,88,math
11,Gym,1.5,pass,sport
12,Poetry,2.25,91.75,choice
13,"History, Modern",3,60,choice
`, buf.String())

	again, err := gradefile.Read(&buf, course.DefaultBounds())
	require.NoError(t, err)
	assert.Equal(t, recs, again)
}

func TestRead_LosslessFloats(t *testing.T) {
	r, err := course.New("1", "Odd", 0.1+0.2, course.Numeric(200.0/3), "x")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, gradefile.Write(&buf, []course.Record{r}))
	back, err := gradefile.Read(&buf, course.Bounds{Min: 0, Max: 100})
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, r, back[0])
}

func TestRead_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		line int
		want error
	}{
		{"field count", "1,A,3,90,x\n2,B,3,90\n", 2, gradefile.ErrFieldCount},
		{"points", "1,A,zero,90,x\n", 1, course.ErrInvalidPoints},
		{"grade", "1,A,2,great,x\n", 1, course.ErrInvalidGrade},
		{"range", "1,A,2,90,x\n\n2,B,2,59,x\n", 3, course.ErrOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gradefile.Read(strings.NewReader(tc.in), course.DefaultBounds())
			require.Error(t, err)
			var le *gradefile.LineError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tc.line, le.Line)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWriteBestOptions(t *testing.T) {
	names := map[string]string{"A": "Art", "B": "Biology", "C": "Chemistry"}
	results := []optimizer.Result{
		{IDs: []string{"B"}, Average: 90},
		{IDs: []string{"A", "C"}, Average: 77.5},
	}
	var buf bytes.Buffer
	require.NoError(t, gradefile.WriteBestOptions(&buf, results, func(id string) string { return names[id] }))
	assert.Equal(t, "90: Biology\n77.5: Art, Chemistry\n", buf.String())
}
