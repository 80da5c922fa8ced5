// Command gradectl loads a course file, prints its characteristics and the
// elective combinations that hit a target quota of points.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/gradefile"
	"github.com/mind-engage/mindengage-grades/internal/ledger"
	"github.com/mind-engage/mindengage-grades/internal/optimizer"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "gradectl:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("gradectl", pflag.ContinueOnError)
	file := fs.StringP("file", "f", "", "course file (id,name,points,grade,category per line)")
	quota := fs.IntP("quota", "q", -1, "target elective points; negative skips the search")
	out := fs.StringP("out", "o", "", "write the best options report to this path")
	limit := fs.IntP("top", "n", 0, "print at most this many options (0 prints all)")
	minGrade := fs.Float64("min-grade", 60, "lowest accepted numeric grade")
	maxGrade := fs.Float64("max-grade", 100, "highest accepted numeric grade")
	maxElectives := fs.Int("max-electives", optimizer.DefaultMaxElectives, "largest elective pool searched")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("--file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	recs, err := gradefile.Read(f, course.Bounds{Min: *minGrade, Max: *maxGrade})
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", *file, err)
	}

	l := ledger.New()
	for _, r := range recs {
		ledger.Upsert(l, r)
	}
	printCharacteristics(stdout, l)

	if *quota < 0 {
		return nil
	}
	run, err := optimizer.ForLedger(l, *quota, optimizer.WithMaxElectives(*maxElectives))
	if err != nil {
		return err
	}
	if run.Fallback {
		fmt.Fprintf(stdout, "\nno combination of electives sums to %d points; all electives:\n", *quota)
	} else {
		fmt.Fprintf(stdout, "\nbest options for %d elective points (%d subsets checked):\n", *quota, run.Enumerated)
	}
	shown := run.Results
	if *limit > 0 && *limit < len(shown) {
		shown = shown[:*limit]
	}
	if err := gradefile.WriteBestOptions(stdout, shown, l.Name); err != nil {
		return err
	}

	if *out == "" {
		return nil
	}
	w, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := gradefile.WriteBestOptions(w, run.Results, l.Name); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func printCharacteristics(w io.Writer, l *ledger.Ledger) {
	c := l.Characteristics()
	fmt.Fprintf(w, "courses:             %d\n", c.Courses)
	fmt.Fprintf(w, "total points:        %g\n", c.TotalPoints)
	fmt.Fprintf(w, "non-elective points: %g\n", c.NonElectivePoints)
	fmt.Fprintf(w, "average:             %g\n", c.Average)
	fmt.Fprintf(w, "std deviation:       %g\n", c.StdDev)
	for _, s := range l.CategoryShares() {
		fmt.Fprintf(w, "  %-18s %g\n", s.Category+":", s.Points)
	}
}
