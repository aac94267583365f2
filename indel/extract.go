package indel

import (
	"go.uber.org/zap"
)

// Result holds the indels found in one alignment.
type Result struct {
	Calls          []Call
	Insertions     int // 1bp insertions
	Deletions      int // 1bp deletions
	LongInsertions int
	LongDeletions  int
	Skipped        int // 1bp indels with no resolvable reference coordinate
}

// Extractor walks the cigar of an alignment and reports single base pair indels.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor returns an Extractor that logs unresolved coordinates to logger.
// A nil logger discards output.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract finds the 1bp indels in a. The read offset counter only advances on
// match and insertion operations. An insertion is anchored to the reference
// coordinate of the offset after the inserted base, a deletion to the coordinate
// of the current offset.
func (e *Extractor) Extract(a Alignment) Result {
	var ans Result
	var alnPos, refPos int
	var err error
	coords := NewCoordinateMap(a.Pairs)

	for _, op := range a.Cigar {
		switch op.Op {
		case 'M', '=', 'X':
			alnPos += op.RunLength

		case 'I':
			if op.RunLength != 1 {
				ans.LongInsertions++
				alnPos += op.RunLength
				continue
			}
			ans.Insertions++
			alnPos++
			if refPos, err = coords.RefPos(alnPos); err != nil {
				e.skip(a, Insertion, err)
				ans.Skipped++
				continue
			}
			ans.Calls = append(ans.Calls, Call{RefName: a.RefName, Start: refPos, End: refPos, Kind: Insertion})

		case 'D':
			if op.RunLength != 1 {
				ans.LongDeletions++
				continue
			}
			ans.Deletions++
			if refPos, err = coords.RefPos(alnPos); err != nil {
				e.skip(a, Deletion, err)
				ans.Skipped++
				continue
			}
			ans.Calls = append(ans.Calls, Call{RefName: a.RefName, Start: refPos, End: refPos, Kind: Deletion})
		}
	}
	return ans
}

func (e *Extractor) skip(a Alignment, k Kind, err error) {
	e.logger.Debug("skipping indel with no reference coordinate",
		zap.String("query", a.Name),
		zap.String("reference", a.RefName),
		zap.Stringer("kind", k),
		zap.Error(err))
}
