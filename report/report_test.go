package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dasnellings/indelProbe/homopolymer"
	"github.com/dasnellings/indelProbe/indel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertgenlab/gonomics/dna"
)

func result(ref string, start int, kind indel.Kind, lengths ...int) homopolymer.Result {
	r := homopolymer.Result{Summary: homopolymer.Summary{RefName: ref, Start: start, Base: dna.G, Kind: kind}}
	for _, l := range lengths {
		r.Samples = append(r.Samples, homopolymer.Sample{Base: dna.G, Length: l})
	}
	return r
}

func TestSort(t *testing.T) {
	results := []homopolymer.Result{
		result("chr2", 5, indel.Insertion),
		result("chr1", 100, indel.Deletion),
		result("chr1", 20, indel.Insertion),
		result("chr1", 100, indel.Insertion),
		result("chr10", 1, indel.Deletion),
	}
	Sort(results)

	var got []string
	for _, r := range results {
		got = append(got, r.PlotName()+":"+r.Kind.String())
	}
	assert.Equal(t, []string{
		"chr1_20:insertion",
		"chr1_100:deletion",
		"chr1_100:insertion",
		"chr10_1:deletion",
		"chr2_5:insertion",
	}, got)
}

func TestCompute(t *testing.T) {
	s := Compute(result("chr1", 8, indel.Deletion, 5, 7, 5, 3))
	assert.Equal(t, 4, s.Reads)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.Equal(t, 5.0, s.Mode)
	assert.Equal(t, 7, s.Max)

	assert.Equal(t, Stats{}, Compute(result("chr1", 8, indel.Deletion)))
}

func TestWrite(t *testing.T) {
	withReads := result("chr1", 8, indel.Deletion, 5, 7, 5)
	withReads.RefLength = 5
	results := []homopolymer.Result{
		result("chr2", 3, indel.Insertion),
		withReads,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, results))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		Header,
		"chr1\t8\tG\tdeletion\t3\t5.67\t5\t7\t5/7\t5",
		"chr2\t3\tG\tinsertion\t0\tNA\tNA\tNA\tNA\t0",
	}, lines)
}
