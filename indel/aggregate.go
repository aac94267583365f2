package indel

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// Totals are raw counts over every scanned alignment, before deduplication.
type Totals struct {
	Alignments     int
	Mapped         int
	Insertions     int
	Deletions      int
	LongInsertions int
	LongDeletions  int
	Skipped        int
}

func (t *Totals) add(o Totals) {
	t.Alignments += o.Alignments
	t.Mapped += o.Mapped
	t.Insertions += o.Insertions
	t.Deletions += o.Deletions
	t.LongInsertions += o.LongInsertions
	t.LongDeletions += o.LongDeletions
	t.Skipped += o.Skipped
}

// Set is a set of unique indel calls.
type Set map[Call]struct{}

// Add inserts every call in c.
func (s Set) Add(c ...Call) {
	for i := range c {
		s[c[i]] = struct{}{}
	}
}

// Calls returns the members of s sorted by reference name, start and kind.
func (s Set) Calls() []Call {
	ans := make([]Call, 0, len(s))
	for c := range s {
		ans = append(ans, c)
	}
	slices.SortFunc(ans, Compare)
	return ans
}

// Compare orders calls by reference name, then start, then kind.
func Compare(a, b Call) int {
	if c := strings.Compare(a.RefName, b.RefName); c != 0 {
		return c
	}
	if a.Start != b.Start {
		if a.Start < b.Start {
			return -1
		}
		return 1
	}
	return int(a.Kind) - int(b.Kind)
}

// Aggregator runs an Extractor over a stream of alignments.
type Aggregator struct {
	extractor *Extractor
	logger    *zap.Logger
	workers   int
}

// NewAggregator returns an Aggregator using the given number of extraction workers.
// Fewer than one worker is treated as one.
func NewAggregator(logger *zap.Logger, workers int) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		extractor: NewExtractor(logger),
		logger:    logger,
		workers:   workers,
	}
}

// Aggregate consumes alignments until the channel is closed and returns the unique
// indel calls together with the raw totals.
func (a *Aggregator) Aggregate(alignments <-chan Alignment) (Set, Totals) {
	var wg sync.WaitGroup
	sets := make([]Set, a.workers)
	totals := make([]Totals, a.workers)

	wg.Add(a.workers)
	for i := 0; i < a.workers; i++ {
		sets[i] = make(Set)
		go func(s Set, t *Totals) {
			defer wg.Done()
			a.scan(alignments, s, t)
		}(sets[i], &totals[i])
	}
	wg.Wait()

	ans, sum := sets[0], totals[0]
	for i := 1; i < a.workers; i++ {
		for c := range sets[i] {
			ans.Add(c)
		}
		sum.add(totals[i])
	}
	return ans, sum
}

func (a *Aggregator) scan(in <-chan Alignment, s Set, t *Totals) {
	var r Result
	for aln := range in {
		t.Alignments++
		if aln.Mapped {
			t.Mapped++
		}
		a.logger.Debug("investigating alignment", zap.String("query", aln.Name), zap.String("reference", aln.RefName))
		r = a.extractor.Extract(aln)
		if r.Insertions > 0 || r.Deletions > 0 {
			a.logger.Debug("found single bp indels",
				zap.String("query", aln.Name),
				zap.Int("insertions", r.Insertions),
				zap.Int("deletions", r.Deletions))
		}
		t.Insertions += r.Insertions
		t.Deletions += r.Deletions
		t.LongInsertions += r.LongInsertions
		t.LongDeletions += r.LongDeletions
		t.Skipped += r.Skipped
		s.Add(r.Calls...)
	}
}

// LogTotals reports the totals of a scan at info level.
func LogTotals(logger *zap.Logger, t Totals, unique int) {
	logger.Info("CDS alignments scanned", zap.Int("alignments", t.Alignments), zap.Int("mapped", t.Mapped))
	logger.Info("1 bp insertions detected", zap.Int("count", t.Insertions))
	logger.Info("1 bp deletions detected", zap.Int("count", t.Deletions))
	if t.LongInsertions > 0 || t.LongDeletions > 0 {
		logger.Info("multi bp indels ignored", zap.Int("insertions", t.LongInsertions), zap.Int("deletions", t.LongDeletions))
	}
	if t.Skipped > 0 {
		logger.Warn("1 bp indels without a reference coordinate were skipped", zap.Int("count", t.Skipped))
	}
	logger.Info("unique 1 bp indel loci", zap.Int("count", unique))
}
