// Package indel finds single base pair insertions and deletions in alignments of coding
// sequences to a reference genome and collapses them to a set of unique loci.
package indel

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/cigar"
)

// Kind is the type of an indel call.
type Kind uint8

const (
	Insertion Kind = iota
	Deletion
)

func (k Kind) String() string {
	switch k {
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "insertion":
		return Insertion, nil
	case "deletion":
		return Deletion, nil
	default:
		return 0, errors.Errorf("unrecognized indel kind: %q", s)
	}
}

// Call is a single base pair indel at a reference locus. Calls are comparable
// and are deduplicated by all four fields. Start == End for every call.
type Call struct {
	RefName string
	Start   int
	End     int
	Kind    Kind
}

func (c Call) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%s", c.RefName, c.Start, c.End, c.Kind)
}

// Alignment is the part of an alignment record needed to find indels.
type Alignment struct {
	Name    string
	RefName string
	Mapped  bool
	Cigar   []cigar.Cigar
	Pairs   []AlignedPair
}
