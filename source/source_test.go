package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dasnellings/indelProbe/homopolymer"
	"github.com/dasnellings/indelProbe/indel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/sam"
	"go.uber.org/zap"
)

func TestGoReadAlignments(t *testing.T) {
	alignments, names, err := GoReadAlignments("testdata/cds.sam")
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, names)

	var all []indel.Alignment
	for a := range alignments {
		all = append(all, a)
	}
	require.Len(t, all, 3)
	assert.Equal(t, "cds1", all[0].Name)
	assert.True(t, all[0].Mapped)
	assert.False(t, all[2].Mapped)
	assert.Empty(t, all[2].Pairs)

	ex := indel.NewExtractor(zap.NewNop())
	ins := ex.Extract(all[0])
	assert.Equal(t, []indel.Call{{RefName: "chr1", Start: 7, End: 7, Kind: indel.Insertion}}, ins.Calls)
	del := ex.Extract(all[1])
	assert.Equal(t, []indel.Call{{RefName: "chr1", Start: 8, End: 8, Kind: indel.Deletion}}, del.Calls)
}

func collect(t *testing.T, path string) []indel.Alignment {
	t.Helper()
	alignments, names, err := GoReadAlignments(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, names)
	var all []indel.Alignment
	for a := range alignments {
		all = append(all, a)
	}
	return all
}

func TestGoReadAlignmentsBam(t *testing.T) {
	fromBam := collect(t, "testdata/raw.bam")
	fromSam := collect(t, "testdata/raw.sam")
	require.Len(t, fromBam, 5)
	require.Len(t, fromSam, 5)
	for i := range fromBam {
		assert.Equal(t, fromSam[i].Name, fromBam[i].Name)
		assert.Equal(t, fromSam[i].RefName, fromBam[i].RefName)
		assert.Equal(t, fromSam[i].Mapped, fromBam[i].Mapped)
		assert.Equal(t, fromSam[i].Pairs, fromBam[i].Pairs)
	}
	assert.False(t, fromBam[2].Mapped)
}

func TestGoReadAlignmentsMissing(t *testing.T) {
	_, _, err := GoReadAlignments("testdata/nothere.sam")
	assert.Error(t, err)
}

func TestToRead(t *testing.T) {
	s := sam.Sam{
		QName: "r1",
		RName: "chr1",
		Pos:   11,
		Cigar: cigar.FromString("2S3M"),
		Seq:   dna.StringToBases("TTGGG"),
	}
	r := ToRead(s)
	assert.Equal(t, "r1", r.Name)
	assert.Equal(t, "TTGGG", dna.BasesToString(r.Seq))
	assert.Equal(t, []indel.AlignedPair{
		{ReadPos: 0, RefPos: indel.Absent},
		{ReadPos: 1, RefPos: indel.Absent},
		{ReadPos: 2, RefPos: 10},
		{ReadPos: 3, RefPos: 11},
		{ReadPos: 4, RefPos: 12},
	}, r.Pairs)

	s.Seq[0] = dna.A
	assert.Equal(t, dna.T, r.Seq[0])
}

func TestFindBai(t *testing.T) {
	dir := t.TempDir()
	bam := filepath.Join(dir, "raw.bam")

	_, err := FindBai(bam)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw.bai"), nil, 0644))
	path, err := FindBai(bam)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "raw.bai"), path)

	require.NoError(t, os.WriteFile(bam+".bai", nil, 0644))
	path, err = FindBai(bam)
	require.NoError(t, err)
	assert.Equal(t, bam+".bai", path)
}

func TestOpenRawReadsMissing(t *testing.T) {
	_, err := OpenRawReads(filepath.Join(t.TempDir(), "raw.bam"))
	assert.Error(t, err)
}

func names(reads []homopolymer.Read) []string {
	var ans []string
	for _, r := range reads {
		ans = append(ans, r.Name)
	}
	return ans
}

func TestRawReadsFetch(t *testing.T) {
	r, err := OpenRawReads("testdata/raw.bam")
	require.NoError(t, err)
	defer r.Close()

	// chr1: r1 [0,10) r2 [5,16) 5M1D5M, r3 unmapped placed at 8, r4 [16,26)
	// chr2: r5 [2,12)
	tests := []struct {
		refName    string
		start, end int
		want       []string
	}{
		{"chr1", 9, 10, []string{"r1", "r2"}},
		{"chr2", 0, 5, []string{"r5"}},
		{"chr1", 10, 11, []string{"r2"}},
		{"chr1", 15, 16, []string{"r2"}},
		{"chr1", 16, 17, []string{"r4"}},
		{"chr1", 7, 9, []string{"r1", "r2"}},
		{"chr1", -3, 1, []string{"r1"}},
		{"chr1", 50, 60, nil},
		{"chr2", 12, 13, nil},
		{"chr2", 11, 12, []string{"r5"}},
	}
	for _, test := range tests {
		reads, err := r.Fetch(test.refName, test.start, test.end)
		require.NoError(t, err)
		assert.Equal(t, test.want, names(reads), "%s:%d-%d", test.refName, test.start, test.end)
	}

	reads, err := r.Fetch("chr1", 10, 11)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "GGGGGCATCC", dna.BasesToString(reads[0].Seq))
	assert.Equal(t, indel.AlignedPair{ReadPos: 0, RefPos: 5}, reads[0].Pairs[0])
	assert.Equal(t, indel.AlignedPair{ReadPos: indel.Absent, RefPos: 10}, reads[0].Pairs[5])
}

func TestRawReadsFetchInvalidRegion(t *testing.T) {
	r, err := OpenRawReads("testdata/raw.bam")
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Fetch("chr3", 0, 10)
	assert.ErrorIs(t, err, ErrRegion)
	_, err = r.Fetch("chr1", 10, 5)
	assert.ErrorIs(t, err, ErrRegion)
}

func TestRawReadsClose(t *testing.T) {
	r, err := OpenRawReads("testdata/raw.bam")
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}
