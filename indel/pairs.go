package indel

import (
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/cigar"
)

// Absent marks the missing side of an AlignedPair.
const Absent = -1

// ErrCoordinateNotFound is returned when a read offset has no paired reference coordinate.
var ErrCoordinateNotFound = errors.New("coordinate not found")

// AlignedPair is one column of an alignment. ReadPos is Absent for reference-only
// columns (deletions, reference skips) and RefPos is Absent for read-only columns
// (insertions, soft clips).
type AlignedPair struct {
	ReadPos int
	RefPos  int
}

// PairsFromCigar expands a cigar into the ordered list of aligned pairs for an alignment
// starting at 0-based reference position refStart. Read offsets include soft clipped bases.
func PairsFromCigar(refStart int, cig []cigar.Cigar) []AlignedPair {
	var readPos, refPos, i, j int
	refPos = refStart
	ans := make([]AlignedPair, 0, pairsLen(cig))
	for i = range cig {
		switch cig[i].Op {
		case 'M', '=', 'X':
			for j = 0; j < cig[i].RunLength; j++ {
				ans = append(ans, AlignedPair{ReadPos: readPos, RefPos: refPos})
				readPos++
				refPos++
			}
		case 'I', 'S':
			for j = 0; j < cig[i].RunLength; j++ {
				ans = append(ans, AlignedPair{ReadPos: readPos, RefPos: Absent})
				readPos++
			}
		case 'D', 'N':
			for j = 0; j < cig[i].RunLength; j++ {
				ans = append(ans, AlignedPair{ReadPos: Absent, RefPos: refPos})
				refPos++
			}
		}
	}
	return ans
}

func pairsLen(cig []cigar.Cigar) int {
	var n int
	for i := range cig {
		switch cig[i].Op {
		case 'H', 'P':
			continue
		}
		n += cig[i].RunLength
	}
	return n
}

// CoordinateMap resolves alignment-local read offsets to reference coordinates.
type CoordinateMap map[int]int

// NewCoordinateMap indexes every pair that has both a read offset and a reference coordinate.
func NewCoordinateMap(pairs []AlignedPair) CoordinateMap {
	m := make(CoordinateMap, len(pairs))
	for i := range pairs {
		if pairs[i].ReadPos == Absent || pairs[i].RefPos == Absent {
			continue
		}
		m[pairs[i].ReadPos] = pairs[i].RefPos
	}
	return m
}

// RefPos returns the reference coordinate paired with readPos.
func (m CoordinateMap) RefPos(readPos int) (int, error) {
	refPos, found := m[readPos]
	if !found {
		return Absent, errors.Wrapf(ErrCoordinateNotFound, "read offset %d", readPos)
	}
	return refPos, nil
}
