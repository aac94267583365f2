// Package probe drives an indel scan: it opens the inputs, runs the extraction and
// homopolymer phases and writes their outputs.
package probe

import (
	"io"
	"os"

	"github.com/dasnellings/indelProbe/homopolymer"
	"github.com/dasnellings/indelProbe/indel"
	"github.com/dasnellings/indelProbe/reference"
	"github.com/dasnellings/indelProbe/render"
	"github.com/dasnellings/indelProbe/report"
	"github.com/dasnellings/indelProbe/source"
	"github.com/dasnellings/indelProbe/store"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/fileio"
	"go.uber.org/zap"
)

// ErrInputNotFound is returned before any processing when an input file is missing.
var ErrInputNotFound = errors.New("input not found")

// Config holds every option of a run.
type Config struct {
	CDS       string `mapstructure:"cds" yaml:"cds"`             // coding sequences aligned to the reference (sam/bam)
	Reference string `mapstructure:"reference" yaml:"reference"` // indexed reference fasta
	Reads     string `mapstructure:"reads" yaml:"reads"`         // raw reads aligned to the reference (indexed bam), optional
	Bed       string `mapstructure:"bed" yaml:"bed"`             // locus list written by the extraction phase
	PlotDir   string `mapstructure:"plot-dir" yaml:"plot-dir"`   // empty disables png output
	ASCII     bool   `mapstructure:"ascii" yaml:"ascii"`
	Flank     int    `mapstructure:"flank" yaml:"flank"`
	Threads   int    `mapstructure:"threads" yaml:"threads"`
	Out       string `mapstructure:"out" yaml:"out"`       // report path, stdout when empty
	DuckDB    string `mapstructure:"duckdb" yaml:"duckdb"` // database export path, disabled when empty
}

// DefaultConfig returns the options used when none are given.
func DefaultConfig() Config {
	return Config{
		Bed:     "indels.bed",
		PlotDir: ".",
		Flank:   homopolymer.DefaultFlank,
		Threads: 1,
	}
}

// Probe runs the phases of a scan with a fixed Config.
type Probe struct {
	cfg    Config
	logger *zap.Logger
	stdout io.Writer
}

// New returns a Probe. Reports and terminal plots are written to stdout unless
// cfg.Out is set. A nil logger discards output.
func New(cfg Config, logger *zap.Logger, stdout io.Writer) *Probe {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Probe{cfg: cfg, logger: logger, stdout: stdout}
}

// Scan extracts indels from the coding sequence alignments and, when raw reads are
// configured, measures their homopolymer context.
func (p *Probe) Scan() error {
	inputs := []string{p.cfg.CDS, p.cfg.Reference}
	if p.cfg.Reads != "" {
		inputs = append(inputs, p.cfg.Reads)
	}
	if err := checkInputs(inputs...); err != nil {
		return err
	}

	calls, err := p.Extract()
	if err != nil {
		return err
	}
	if p.cfg.Reads == "" {
		return nil
	}
	_, err = p.Homopolymer(calls)
	return err
}

// Extract reads the coding sequence alignments, writes the unique 1bp indels to the
// locus bed and returns them.
func (p *Probe) Extract() ([]indel.Call, error) {
	if err := checkInputs(p.cfg.CDS); err != nil {
		return nil, err
	}
	alignments, refNames, err := source.GoReadAlignments(p.cfg.CDS)
	if err != nil {
		return nil, err
	}
	p.logger.Info("coding sequences aligned against the reference", zap.Int("references", len(refNames)))

	set, totals := indel.NewAggregator(p.logger, p.cfg.Threads).Aggregate(alignments)
	calls := set.Calls()
	indel.LogTotals(p.logger, totals, len(calls))

	if err = indel.WriteBed(p.cfg.Bed, calls); err != nil {
		return calls, err
	}
	p.logger.Info("locus list written", zap.String("path", p.cfg.Bed))

	if p.cfg.DuckDB != "" {
		err = p.export(func(s *store.Store) error { return s.WriteLoci(calls) })
	}
	return calls, err
}

// HomopolymerFromBed runs the homopolymer phase on the loci of a previously written bed.
func (p *Probe) HomopolymerFromBed() ([]homopolymer.Result, error) {
	if err := checkInputs(p.cfg.Bed); err != nil {
		return nil, err
	}
	calls, err := indel.ReadBed(p.cfg.Bed)
	if err != nil {
		return nil, err
	}
	return p.Homopolymer(calls)
}

// Homopolymer measures the homopolymer context of calls in the raw reads and writes
// the report, plots and database export.
func (p *Probe) Homopolymer(calls []indel.Call) (results []homopolymer.Result, err error) {
	if err = checkInputs(p.cfg.Reads, p.cfg.Reference); err != nil {
		return nil, err
	}

	reads, err := source.OpenRawReads(p.cfg.Reads)
	if err != nil {
		return nil, err
	}
	defer closeInto(reads, "raw reads", &err)

	ref, err := reference.Open(p.cfg.Reference)
	if err != nil {
		return nil, err
	}
	defer closeInto(ref, "reference", &err)

	return p.analyze(calls, reads, ref)
}

func (p *Probe) analyze(calls []indel.Call, fetcher homopolymer.ReadFetcher, ref homopolymer.ReferenceLookup) ([]homopolymer.Result, error) {
	loc := homopolymer.NewLocator(p.logger, fetcher, ref, p.renderer(), p.cfg.Flank)
	results, err := loc.LocateAll(calls)
	if err != nil {
		return results, err
	}

	if err = p.writeReport(results); err != nil {
		return results, err
	}
	if p.cfg.DuckDB != "" {
		err = p.export(func(s *store.Store) error { return s.WriteResults(results) })
	}
	return results, err
}

// renderer returns nil when no plot output is configured.
func (p *Probe) renderer() homopolymer.Renderer {
	var m render.Multi
	if p.cfg.PlotDir != "" {
		m = append(m, render.PNG{Dir: p.cfg.PlotDir})
	}
	if p.cfg.ASCII {
		m = append(m, render.ASCII{W: p.stdout})
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func (p *Probe) writeReport(results []homopolymer.Result) (err error) {
	if p.cfg.Out == "" {
		return report.Write(p.stdout, results)
	}
	out := fileio.EasyCreate(p.cfg.Out)
	defer closeInto(out, "report", &err)
	if err = report.Write(out, results); err != nil {
		return err
	}
	p.logger.Info("report written", zap.String("path", p.cfg.Out), zap.Int("loci", len(results)))
	return nil
}

func (p *Probe) export(write func(s *store.Store) error) (err error) {
	s, err := store.Open(p.cfg.DuckDB)
	if err != nil {
		return err
	}
	defer closeInto(s, "database", &err)
	if err = write(s); err != nil {
		return err
	}
	p.logger.Info("database updated", zap.String("path", p.cfg.DuckDB))
	return nil
}

func checkInputs(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			return errors.Wrap(ErrInputNotFound, "no path given")
		}
		if _, err := os.Stat(path); err != nil {
			return errors.Wrapf(ErrInputNotFound, "%s: %v", path, err)
		}
	}
	return nil
}

// closeInto closes c and stores the error in err unless err is already set.
func closeInto(c io.Closer, name string, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = errors.Wrapf(cerr, "closing %s", name)
	}
}
