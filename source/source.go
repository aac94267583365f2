// Package source adapts gonomics sam/bam readers to the alignment types used by
// the indel and homopolymer packages.
package source

import (
	"os"
	"strings"

	"github.com/dasnellings/indelProbe/homopolymer"
	"github.com/dasnellings/indelProbe/indel"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/sam"
)

// GoReadAlignments streams every record of a sam or bam file as an indel.Alignment and
// returns the reference names declared in the header. The channel is closed after the
// last record.
func GoReadAlignments(path string) (<-chan indel.Alignment, []string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, errors.Wrap(err, "opening alignments")
	}
	records, header := sam.GoReadToChan(path)
	names := make([]string, len(header.Chroms))
	for i := range header.Chroms {
		names[i] = header.Chroms[i].Name
	}

	out := make(chan indel.Alignment, 1000)
	go func() {
		for s := range records {
			out <- ToAlignment(s)
		}
		close(out)
	}()
	return out, names, nil
}

// ToAlignment converts a sam record. Aligned pairs are computed from the cigar and the
// 0-based alignment start.
func ToAlignment(s sam.Sam) indel.Alignment {
	ans := indel.Alignment{
		Name:    s.QName,
		RefName: s.RName,
		Mapped:  !sam.IsUnmapped(s),
		Cigar:   s.Cigar,
	}
	if ans.Mapped {
		ans.Pairs = indel.PairsFromCigar(s.GetChromStart(), s.Cigar)
	}
	return ans
}

// ErrRegion is returned by Fetch for a region that cannot be queried.
var ErrRegion = errors.New("invalid region")

// RawReads fetches reads from a coordinate sorted and indexed bam file.
type RawReads struct {
	path    string
	br      *sam.BamReader
	bai     sam.Bai
	refs    map[string]bool
	recycle []sam.Sam
}

// OpenRawReads opens the bam at path and its index at path.bai or, failing that,
// the path with .bam replaced by .bai.
func OpenRawReads(path string) (*RawReads, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "opening raw reads")
	}
	baiPath, err := FindBai(path)
	if err != nil {
		return nil, err
	}
	r := &RawReads{path: path, refs: make(map[string]bool)}
	var header sam.Header
	r.br, header = sam.OpenBam(path)
	for i := range header.Chroms {
		r.refs[header.Chroms[i].Name] = true
	}
	r.bai = sam.ReadBai(baiPath)
	return r, nil
}

// FindBai returns the index file of the bam at path.
func FindBai(path string) (string, error) {
	candidates := []string{path + ".bai", strings.TrimSuffix(path, ".bam") + ".bai"}
	for _, c := range candidates {
		if _, err := os.Stat(c); !errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
	}
	return "", errors.Wrapf(os.ErrNotExist, "no bam index for %s", path)
}

// Fetch returns the mapped reads overlapping [start, end) of refName, ordered by name.
// A negative start is clipped to 0. An inverted region or a reference missing from the
// bam header is an ErrRegion.
func (r *RawReads) Fetch(refName string, start, end int) ([]homopolymer.Read, error) {
	start = max(start, 0)
	if start > end {
		return nil, errors.Wrapf(ErrRegion, "%s:%d-%d", refName, start, end)
	}
	if !r.refs[refName] {
		return nil, errors.Wrapf(ErrRegion, "%s is not in the bam header", refName)
	}
	if err := r.reopen(); err != nil {
		return nil, err
	}
	r.recycle = sam.SeekBamRegionRecycle(r.br, r.bai, refName, uint32(start), uint32(end), r.recycle)
	ans := make([]homopolymer.Read, 0, len(r.recycle))
	for i := range r.recycle {
		if sam.IsUnmapped(r.recycle[i]) {
			continue
		}
		ans = append(ans, ToRead(r.recycle[i]))
	}
	return ans, nil
}

// reopen replaces the bam reader. A reader that has reached the end of the file
// returns no records from later seeks.
func (r *RawReads) reopen() error {
	if err := r.Close(); err != nil {
		return errors.Wrap(err, "closing bam")
	}
	r.br, _ = sam.OpenBam(r.path)
	return nil
}

// ToRead converts a sam record to a homopolymer.Read. The sequence is copied so the
// record may be recycled.
func ToRead(s sam.Sam) homopolymer.Read {
	return homopolymer.Read{
		Name:  s.QName,
		Seq:   append(s.Seq[:0:0], s.Seq...),
		Pairs: indel.PairsFromCigar(s.GetChromStart(), s.Cigar),
	}
}

// Close releases the bam file.
func (r *RawReads) Close() error {
	if r.br == nil {
		return nil
	}
	err := r.br.Close()
	r.br = nil
	return err
}
