// Package reference provides random access to bases of an indexed reference fasta.
package reference

import (
	"os"

	"github.com/dasnellings/indelProbe/fai"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/fasta"
)

// Lookup reads reference bases by name and coordinate. The fasta must have a .fai index.
type Lookup struct {
	seeker *fasta.Seeker
	idx    fai.Index
}

// Open opens the fasta at path and its index at path.fai.
func Open(path string) (*Lookup, error) {
	var err error
	if _, err = os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "opening reference")
	}
	l := new(Lookup)
	if l.idx, err = fai.ReadIndex(path + ".fai"); err != nil {
		return nil, err
	}
	l.seeker = fasta.NewSeeker(path, "")
	return l, nil
}

// Names returns the reference sequence names in file order.
func (l *Lookup) Names() []string {
	return l.idx.Names()
}

// Seq returns the upper case bases [start, end) of refName clipped to the bounds of the sequence.
// An interval entirely outside the sequence returns no bases.
func (l *Lookup) Seq(refName string, start, end int) ([]dna.Base, error) {
	size, found := l.idx.Size(refName)
	if !found {
		return nil, errors.Errorf("%s not found in reference", refName)
	}
	start = max(0, start)
	end = min(size, end)
	if start >= end {
		return nil, nil
	}
	seq, err := fasta.SeekByName(l.seeker, refName, start, end)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s:%d-%d", refName, start, end)
	}
	dna.AllToUpper(seq)
	return seq, nil
}

// Close releases the underlying fasta file.
func (l *Lookup) Close() error {
	return l.seeker.Close()
}
