// Package report orders homopolymer results and writes them as a tab separated table.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dasnellings/indelProbe/homopolymer"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Header is the first line written by Write.
const Header = "#refName\tstart\tbase\tkind\treads\tmean\tmode\tmax\tgenotype\trefLength"

// Sort orders results by reference name then start. Results at the same locus keep their order.
func Sort(results []homopolymer.Result) {
	slices.SortStableFunc(results, func(a, b homopolymer.Result) int {
		if c := strings.Compare(a.RefName, b.RefName); c != 0 {
			return c
		}
		return a.Start - b.Start
	})
}

// Stats summarizes the homopolymer lengths of one locus.
type Stats struct {
	Reads    int
	Mean     float64
	Mode     float64
	Max      int
	Genotype homopolymer.Genotype // most likely pair of homopolymer lengths
}

// Compute returns the Stats of r. A locus with no samples has zero Stats.
func Compute(r homopolymer.Result) Stats {
	var ans Stats
	ans.Reads = len(r.Samples)
	if ans.Reads == 0 {
		return ans
	}
	x := make([]float64, ans.Reads)
	for i := range r.Samples {
		x[i] = float64(r.Samples[i].Length)
		ans.Max = max(ans.Max, r.Samples[i].Length)
	}
	ans.Mean = stat.Mean(x, nil)
	ans.Mode, _ = stat.Mode(x, nil)
	ans.Genotype, _ = homopolymer.BestGenotype(r.Lengths(), homopolymer.DefaultStutter)
	return ans
}

// Write sorts results and writes one line per locus to w.
func Write(w io.Writer, results []homopolymer.Result) error {
	Sort(results)
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return errors.Wrap(err, "writing report")
	}
	for i := range results {
		if _, err := fmt.Fprintln(w, Line(results[i])); err != nil {
			return errors.Wrap(err, "writing report")
		}
	}
	return nil
}

// Line formats one locus. Statistics of a locus with no reads are written as NA.
func Line(r homopolymer.Result) string {
	s := Compute(r)
	prefix := fmt.Sprintf("%s\t%d\t%c\t%s\t%d", r.RefName, r.Start, dna.BaseToRune(r.Base), r.Kind, s.Reads)
	if s.Reads == 0 {
		return fmt.Sprintf("%s\tNA\tNA\tNA\tNA\t%d", prefix, r.RefLength)
	}
	return fmt.Sprintf("%s\t%.2f\t%g\t%d\t%s\t%d", prefix, s.Mean, s.Mode, s.Max, s.Genotype, r.RefLength)
}
