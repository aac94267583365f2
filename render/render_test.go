package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 2, 0, 1}, Counts([]int{5, 7, 5}))
	assert.Equal(t, []float64{1}, Counts([]int{0}))
}

func TestPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	p := PNG{Dir: dir}
	require.NoError(t, p.Render("chr1_8", []int{5, 7, 5, 6}))

	info, err := os.Stat(filepath.Join(dir, "chr1_8.png"))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestPNGSingleLength(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, PNG{Dir: dir}.Render("chr2_3", []int{4, 4, 4}))
	assert.FileExists(t, filepath.Join(dir, "chr2_3.png"))
}

func TestEmptyLengths(t *testing.T) {
	err := PNG{Dir: t.TempDir()}.Render("chr1_8", nil)
	assert.True(t, errors.Is(err, ErrRender))

	err = ASCII{W: new(bytes.Buffer)}.Render("chr1_8", nil)
	assert.True(t, errors.Is(err, ErrRender))
}

func TestASCII(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ASCII{W: &buf}.Render("chr1_8", []int{5, 7, 5}))
	assert.Contains(t, buf.String(), "chr1_8 homopolymer length 5-7")
}

type recorder struct {
	names []string
	err   error
}

func (r *recorder) Render(name string, lengths []int) error {
	r.names = append(r.names, name)
	return r.err
}

func TestMulti(t *testing.T) {
	failing := &recorder{err: errors.Wrap(ErrRender, "disk full")}
	ok := &recorder{}
	m := Multi{failing, ok}

	err := m.Render("chr1_8", []int{1})
	assert.True(t, errors.Is(err, ErrRender))
	assert.Equal(t, []string{"chr1_8"}, failing.names)
	assert.Equal(t, []string{"chr1_8"}, ok.names)

	assert.NoError(t, Multi{ok}.Render("chr1_9", []int{1}))
}
