// Package gradefile reads and writes the delimited course file
// (id,name,points,grade,category per line) and the best-options report.
package gradefile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/optimizer"
)

const fieldsPerRecord = 5

// LineError ties a parse failure to its 1-based line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

var ErrFieldCount = fmt.Errorf("%w: want %d comma-separated fields", course.ErrInvalidField, fieldsPerRecord)

// Read parses every non-blank line into a record. Numeric grades outside
// bounds are rejected.
func Read(r io.Reader, bounds course.Bounds) ([]course.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []course.Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LineError{Line: pe.Line, Err: pe.Err}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(fields) != fieldsPerRecord {
			return nil, &LineError{Line: line, Err: ErrFieldCount}
		}
		rec, err := course.Parse(fields[0], fields[1], fields[2], fields[3], fields[4])
		if err == nil {
			err = bounds.Check(rec)
		}
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		out = append(out, rec)
	}
}

// Write emits records in order, one canonical line each.
func Write(w io.Writer, recs []course.Record) error {
	cw := csv.NewWriter(w)
	for _, r := range recs {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBestOptions renders one "<average>: <name>, <name>" line per result.
func WriteBestOptions(w io.Writer, results []optimizer.Result, nameOf func(id string) string) error {
	for _, r := range results {
		names := make([]string, len(r.IDs))
		for i, id := range r.IDs {
			names[i] = nameOf(id)
		}
		line := strconv.FormatFloat(r.Average, 'f', -1, 64) + ": " + strings.Join(names, ", ") + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
