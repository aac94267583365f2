package fai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIndex(t *testing.T) {
	idx, err := ReadIndex("testdata/ref.fa.fai")
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, idx.Names())

	size, found := idx.Size("chr2")
	assert.True(t, found)
	assert.Equal(t, 12, size)

	_, found = idx.Size("chrM")
	assert.False(t, found)

	assert.Equal(t, "chr1\t34\t6\t10\t11\nchr2\t12\t50\t10\t11\n", idx.String())
}

func TestReadIndexMissing(t *testing.T) {
	_, err := ReadIndex("testdata/missing.fa.fai")
	assert.Error(t, err)
}
