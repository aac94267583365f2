package fai

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/fileio"
)

// Index stores the byte offset for each fasta sequence allowing for efficient random access.
type Index struct {
	chroms  []chrOffset    // for search by index
	nameMap map[string]int // maps chr name to index in chroms
}

// String method for Index enables easy writing with the fmt package.
func (idx Index) String() string {
	answer := new(strings.Builder)
	for i := range idx.chroms {
		answer.WriteString(idx.chroms[i].String())
		answer.WriteByte('\n')
	}
	return answer.String()
}

// Size returns the length of chr and whether chr is present in the index.
func (idx Index) Size(chr string) (int, bool) {
	i, found := idx.nameMap[chr]
	if !found {
		return 0, false
	}
	return idx.chroms[i].len, true
}

// Names returns the reference names in file order.
func (idx Index) Names() []string {
	ans := make([]string, len(idx.chroms))
	for i := range idx.chroms {
		ans[i] = idx.chroms[i].name
	}
	return ans
}

// chrOffset has offset information about each reference. Equivalent to one line of a fai file.
type chrOffset struct {
	name         string // Name of this reference sequence
	len          int    // Total length of this reference sequence, in bases
	offset       int    // Offset within the FASTA file of this sequence's first base
	basesPerLine int    // The number of bases on each line
	bytesPerLine int    // The number of bytes in each line, including the newline
}

// String method for chrOffset enables easy writing with the fmt package.
func (c chrOffset) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", c.name, c.len, c.offset, c.basesPerLine, c.bytesPerLine)
}

// ReadIndex reads a fai index file to an Index struct that can be used for random access.
func ReadIndex(filename string) (Index, error) {
	var answer Index
	if _, err := os.Stat(filename); err != nil {
		return answer, errors.Wrap(err, "reading fasta index")
	}
	file := fileio.EasyOpen(filename)
	defer file.Close()

	var curr chrOffset
	var line string
	var col []string
	var done bool
	var err error
	var lineNum int
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		lineNum++
		col = strings.Split(line, "\t")
		if len(col) != 5 {
			return answer, errors.Errorf("malformed index file: %s\nerror on line %d:\n%s", filename, lineNum, line)
		}

		curr.name = col[0]
		if curr.len, err = strconv.Atoi(col[1]); err != nil {
			return answer, errors.Wrapf(err, "%s line %d", filename, lineNum)
		}
		if curr.offset, err = strconv.Atoi(col[2]); err != nil {
			return answer, errors.Wrapf(err, "%s line %d", filename, lineNum)
		}
		if curr.basesPerLine, err = strconv.Atoi(col[3]); err != nil {
			return answer, errors.Wrapf(err, "%s line %d", filename, lineNum)
		}
		if curr.bytesPerLine, err = strconv.Atoi(col[4]); err != nil {
			return answer, errors.Wrapf(err, "%s line %d", filename, lineNum)
		}

		answer.chroms = append(answer.chroms, curr)
	}

	answer.nameMap = make(map[string]int)
	for i := range answer.chroms {
		answer.nameMap[answer.chroms[i].name] = i
	}
	return answer, nil
}
