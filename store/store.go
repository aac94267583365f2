// Package store exports indel loci and their homopolymer measurements to a DuckDB database.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"os"
	"path/filepath"

	"github.com/dasnellings/indelProbe/homopolymer"
	"github.com/dasnellings/indelProbe/indel"
	"github.com/dasnellings/indelProbe/report"
	goduckdb "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
)

// Tables written by a Store.
const (
	LociTable      = "loci"
	SamplesTable   = "samples"
	SummariesTable = "summaries"
)

// Store manages a DuckDB connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening duckdb")
	}

	s := &Store{db: db, path: path}
	if err = s.ensureSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensuring schema")
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS loci (
			chrom VARCHAR,
			start BIGINT,
			end_ BIGINT,
			kind VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS samples (
			chrom VARCHAR,
			start BIGINT,
			kind VARCHAR,
			base VARCHAR,
			length BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			chrom VARCHAR,
			start BIGINT,
			kind VARCHAR,
			base VARCHAR,
			reads BIGINT,
			mean DOUBLE,
			mode DOUBLE,
			max BIGINT,
			genotype VARCHAR,
			ref_length BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// WriteLoci replaces the contents of the loci table with calls.
func (s *Store) WriteLoci(calls []indel.Call) error {
	return s.replace(LociTable, func(a *goduckdb.Appender) error {
		for _, c := range calls {
			if err := a.AppendRow(c.RefName, int64(c.Start), int64(c.End), c.Kind.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteResults replaces the contents of the samples and summaries tables with results.
func (s *Store) WriteResults(results []homopolymer.Result) error {
	err := s.replace(SamplesTable, func(a *goduckdb.Appender) error {
		for _, r := range results {
			for _, smp := range r.Samples {
				if err := a.AppendRow(r.RefName, int64(r.Start), r.Kind.String(), baseString(smp.Base), int64(smp.Length)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.replace(SummariesTable, func(a *goduckdb.Appender) error {
		for _, r := range results {
			st := report.Compute(r)
			var mean, mode, genotype any
			if st.Reads > 0 {
				mean, mode, genotype = st.Mean, st.Mode, st.Genotype.String()
			}
			if err := a.AppendRow(r.RefName, int64(r.Start), r.Kind.String(), baseString(r.Base),
				int64(st.Reads), mean, mode, int64(st.Max), genotype, int64(r.RefLength)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of rows in table.
func (s *Store) Count(table string) (int, error) {
	switch table {
	case LociTable, SamplesTable, SummariesTable:
	default:
		return 0, errors.Errorf("unknown table %q", table)
	}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "counting %s", table)
	}
	return n, nil
}

// replace clears table and appends rows with fill through the Appender API.
func (s *Store) replace(table string, fill func(a *goduckdb.Appender) error) error {
	if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
		return errors.Wrapf(err, "clearing %s", table)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return errors.Wrap(err, "getting connection")
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err = conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return errors.Wrapf(err, "creating appender for %s", table)
	}

	if err = fill(appender); err != nil {
		appender.Close()
		return errors.Wrapf(err, "appending to %s", table)
	}
	return errors.Wrapf(appender.Close(), "flushing %s", table)
}

func baseString(b dna.Base) string {
	return string(dna.BaseToRune(b))
}
