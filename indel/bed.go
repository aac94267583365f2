package indel

import (
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/fileio"
)

// WriteBed writes calls to path, one tab delimited line per call:
// reference name, start, end, kind.
func WriteBed(path string, calls []Call) error {
	out := fileio.EasyCreate(path)
	for i := range calls {
		bed.WriteBed(out, toBed(calls[i]))
	}
	return errors.Wrapf(out.Close(), "closing %s", path)
}

// ReadBed reads calls written by WriteBed.
func ReadBed(path string) ([]Call, error) {
	var err error
	records := bed.Read(path)
	ans := make([]Call, len(records))
	for i := range records {
		ans[i].RefName = records[i].Chrom
		ans[i].Start = records[i].ChromStart
		ans[i].End = records[i].ChromEnd
		if ans[i].Kind, err = ParseKind(records[i].Name); err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, i+1)
		}
	}
	return ans, nil
}

func toBed(c Call) bed.Bed {
	return bed.Bed{
		Chrom:             c.RefName,
		ChromStart:        c.Start,
		ChromEnd:          c.End,
		Name:              c.Kind.String(),
		FieldsInitialized: 4,
	}
}
