// Package homopolymer measures the homopolymer context of indel loci in reads
// aligned to a reference.
package homopolymer

import (
	"github.com/vertgenlab/gonomics/dna"
)

// Run is a maximal stretch of one repeated base starting at Start within a window.
type Run struct {
	Base   dna.Base
	Length int
	Start  int
}

// Decompose run-length encodes seq. The runs tile seq in order with no gaps or overlaps.
func Decompose(seq []dna.Base) []Run {
	var ans []Run
	for i := range seq {
		if len(ans) > 0 && ans[len(ans)-1].Base == seq[i] {
			ans[len(ans)-1].Length++
			continue
		}
		ans = append(ans, Run{Base: seq[i], Length: 1, Start: i})
	}
	return ans
}

// Length returns the homopolymer length reported for an indel whose breakpoint sits at
// offset center of the window described by runs. The candidate is the run preceding the
// run that contains center. If the candidate is not made of base, the run after the
// candidate is used instead, and 0 is returned when there is no such run.
//
// When center falls in the first run there is no preceding run and the first run is
// the candidate. When center falls in the last run the run before it is still the
// candidate. When center is past the end of the window the last run is the candidate.
func Length(runs []Run, center int, base dna.Base) int {
	if len(runs) == 0 {
		return 0
	}
	candidate := containing(runs, center) - 1
	if candidate < 0 {
		candidate = 0
	}
	if runs[candidate].Base == base {
		return runs[candidate].Length
	}
	if candidate+1 < len(runs) {
		return runs[candidate+1].Length
	}
	return 0
}

// containing returns the index of the run covering pos, or len(runs) if pos is past the last run.
func containing(runs []Run, pos int) int {
	for i := range runs {
		if pos < runs[i].Start+runs[i].Length {
			return i
		}
	}
	return len(runs)
}
