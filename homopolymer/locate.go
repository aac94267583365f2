package homopolymer

import (
	"fmt"

	"github.com/dasnellings/indelProbe/indel"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
	"go.uber.org/zap"
)

// DefaultFlank is the number of read bases kept on each side of an indel breakpoint.
const DefaultFlank = 100

var (
	// ErrEmptyFlankWindow is returned when a read has no sequence around a breakpoint.
	ErrEmptyFlankWindow = errors.New("empty flanking window")
	// ErrReferenceBase is returned when the reference base before a breakpoint cannot be read.
	ErrReferenceBase = errors.New("reference base unavailable")
)

// Read is an aligned raw read.
type Read struct {
	Name  string
	Seq   []dna.Base
	Pairs []indel.AlignedPair
}

// ReadFetcher returns the reads overlapping the 0-based half open interval [start, end) of refName.
type ReadFetcher interface {
	Fetch(refName string, start, end int) ([]Read, error)
}

// ReferenceLookup returns the reference bases [start, end) of refName, clipped to the
// bounds of the sequence.
type ReferenceLookup interface {
	Seq(refName string, start, end int) ([]dna.Base, error)
}

// Renderer draws the distribution of homopolymer lengths observed at one locus.
type Renderer interface {
	Render(name string, lengths []int) error
}

// Summary is the reportable outcome for one indel locus.
type Summary struct {
	RefName string
	Start   int
	Base    dna.Base
	Kind    indel.Kind
}

// Sample is the homopolymer length observed in one read.
type Sample struct {
	Base   dna.Base
	Length int
}

// Result is the homopolymer context of one indel locus.
type Result struct {
	Summary
	Samples   []Sample
	RefLength int // homopolymer length measured the same way in the reference
}

// Lengths returns the homopolymer length of every sample.
func (r Result) Lengths() []int {
	ans := make([]int, len(r.Samples))
	for i := range r.Samples {
		ans[i] = r.Samples[i].Length
	}
	return ans
}

// PlotName is the artifact name for the locus: refName_start.
func (s Summary) PlotName() string {
	return fmt.Sprintf("%s_%d", s.RefName, s.Start)
}

// Locator measures homopolymer lengths around indel loci in reads fetched from a
// second alignment source.
type Locator struct {
	fetcher  ReadFetcher
	ref      ReferenceLookup
	renderer Renderer
	logger   *zap.Logger
	flank    int
}

// NewLocator returns a Locator. renderer may be nil to skip rendering and a nil logger
// discards output. A flank < 1 uses DefaultFlank.
func NewLocator(logger *zap.Logger, fetcher ReadFetcher, ref ReferenceLookup, renderer Renderer, flank int) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if flank < 1 {
		flank = DefaultFlank
	}
	return &Locator{
		fetcher:  fetcher,
		ref:      ref,
		renderer: renderer,
		logger:   logger,
		flank:    flank,
	}
}

// LocateAll runs Locate on every call in order. Only read fetch failures are returned.
func (l *Locator) LocateAll(calls []indel.Call) ([]Result, error) {
	l.logger.Info("checking indels for homopolymer regions", zap.Int("loci", len(calls)))
	ans := make([]Result, 0, len(calls))
	for i := range calls {
		r, err := l.Locate(calls[i])
		if err != nil {
			return ans, err
		}
		ans = append(ans, r)
	}
	return ans, nil
}

// Locate measures the homopolymer context of c in every read spanning it.
func (l *Locator) Locate(c indel.Call) (Result, error) {
	var ans Result
	var err error
	ans.RefName, ans.Start, ans.Kind = c.RefName, c.Start, c.Kind

	if ans.Base, err = l.indelBase(c); err != nil {
		l.logger.Warn("could not read indel base", zap.Stringer("call", c), zap.Error(err))
		ans.Base = dna.N
	}
	ans.RefLength = l.refLength(c, ans.Base)

	reads, err := l.fetcher.Fetch(c.RefName, c.Start, c.End+1)
	if err != nil {
		return ans, errors.Wrapf(err, "fetching reads for %s:%d", c.RefName, c.Start)
	}

	var win []dna.Base
	var center int
	for i := range reads {
		if win, center, err = l.window(reads[i], c.Start); err != nil {
			l.logger.Debug("read excluded", zap.String("read", reads[i].Name), zap.Stringer("call", c), zap.Error(err))
			continue
		}
		ans.Samples = append(ans.Samples, Sample{Base: ans.Base, Length: Length(Decompose(win), center, ans.Base)})
	}

	l.render(ans)
	return ans, nil
}

func (l *Locator) render(r Result) {
	if l.renderer == nil {
		return
	}
	if len(r.Samples) == 0 {
		l.logger.Debug("no reads span locus, skipping plot", zap.String("name", r.PlotName()))
		return
	}
	if err := l.renderer.Render(r.PlotName(), r.Lengths()); err != nil {
		l.logger.Warn("render failed", zap.String("name", r.PlotName()), zap.Error(err))
		return
	}
	l.logger.Debug("plot written", zap.String("name", r.PlotName()))
}

// indelBase is the reference base preceding the breakpoint: start-2 for insertions and
// start-1 for deletions.
func (l *Locator) indelBase(c indel.Call) (dna.Base, error) {
	pos := c.Start - 1
	if c.Kind == indel.Insertion {
		pos = c.Start - 2
	}
	if pos < 0 {
		return dna.N, errors.Wrapf(ErrReferenceBase, "%s:%d", c.RefName, pos)
	}
	seq, err := l.ref.Seq(c.RefName, pos, pos+1)
	if err != nil {
		return dna.N, errors.Wrapf(ErrReferenceBase, "%s:%d: %v", c.RefName, pos, err)
	}
	if len(seq) != 1 {
		return dna.N, errors.Wrapf(ErrReferenceBase, "%s:%d out of range", c.RefName, pos)
	}
	return upper(seq[0]), nil
}

func (l *Locator) refLength(c indel.Call, base dna.Base) int {
	start := max(0, c.Start-l.flank)
	seq, err := l.ref.Seq(c.RefName, start, c.Start+l.flank)
	if err != nil || len(seq) == 0 {
		return 0
	}
	seq = append([]dna.Base(nil), seq...)
	dna.AllToUpper(seq)
	return Length(Decompose(seq), c.Start-start, base)
}

// window returns the read bases within flank of the breakpoint at reference
// coordinate start, and the offset of the breakpoint within the window.
func (l *Locator) window(r Read, start int) ([]dna.Base, int, error) {
	pos, found := breakpoint(r.Pairs, start)
	if !found {
		return nil, 0, errors.Errorf("no aligned read base at %d", start)
	}
	lo := max(0, pos-l.flank)
	hi := min(len(r.Seq), pos+l.flank)
	if lo >= hi {
		return nil, 0, errors.Wrapf(ErrEmptyFlankWindow, "read offset %d", pos)
	}
	return r.Seq[lo:hi], pos - lo, nil
}

// breakpoint returns the read offset aligned to reference coordinate start, falling
// back to the offset aligned to start-1 when start is deleted in the read.
func breakpoint(pairs []indel.AlignedPair, start int) (int, bool) {
	var covered bool
	for i := range pairs {
		if pairs[i].RefPos != start {
			continue
		}
		if pairs[i].ReadPos != indel.Absent {
			return pairs[i].ReadPos, true
		}
		covered = true
		break
	}
	if !covered {
		return indel.Absent, false
	}
	for i := range pairs {
		if pairs[i].RefPos == start-1 && pairs[i].ReadPos != indel.Absent {
			return pairs[i].ReadPos, true
		}
	}
	return indel.Absent, false
}

func upper(b dna.Base) dna.Base {
	s := []dna.Base{b}
	dna.AllToUpper(s)
	return s[0]
}
