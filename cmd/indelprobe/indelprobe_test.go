package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dasnellings/indelProbe/indel"
	"github.com/dasnellings/indelProbe/probe"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func printedConfig(t *testing.T, args ...string) probe.Config {
	t.Helper()
	out, err := execute(t, append([]string{"config"}, args...)...)
	require.NoError(t, err)
	var cfg probe.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	return cfg
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, probe.DefaultConfig(), printedConfig(t))
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indelprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flank: 7\nthreads: 3\nascii: true\n"), 0644))
	t.Setenv("INDELPROBE_PLOT_DIR", "plots")
	t.Setenv("INDELPROBE_THREADS", "5")

	cfg := printedConfig(t, "--config", path, "--flank", "50")
	assert.Equal(t, 50, cfg.Flank)
	assert.Equal(t, 5, cfg.Threads)
	assert.True(t, cfg.ASCII)
	assert.Equal(t, "plots", cfg.PlotDir)
	assert.Equal(t, "indels.bed", cfg.Bed)
}

func TestConfigEnvOnlyKey(t *testing.T) {
	t.Setenv("INDELPROBE_CDS", "cds.sam")
	t.Setenv("INDELPROBE_DUCKDB", "probe.duckdb")
	cfg := printedConfig(t)
	assert.Equal(t, "cds.sam", cfg.CDS)
	assert.Equal(t, "probe.duckdb", cfg.DuckDB)
}

func TestConfigMissingFile(t *testing.T) {
	_, err := execute(t, "config", "--config", filepath.Join(t.TempDir(), "nothere.yaml"))
	assert.Error(t, err)
}

func TestExtractCmd(t *testing.T) {
	bed := filepath.Join(t.TempDir(), "indels.bed")
	_, err := execute(t, "extract", "--bed", bed, "../../probe/testdata/cds.sam")
	require.NoError(t, err)

	calls, err := indel.ReadBed(bed)
	require.NoError(t, err)
	assert.Len(t, calls, 2)
}

func TestScanCmdMissingInput(t *testing.T) {
	bed := filepath.Join(t.TempDir(), "indels.bed")
	_, err := execute(t, "scan", "--bed", bed, "nothere.bam", "../../probe/testdata/ref.fa")
	assert.True(t, errors.Is(err, probe.ErrInputNotFound))
}

func TestHomopolymerCmdMissingBed(t *testing.T) {
	bed := filepath.Join(t.TempDir(), "indels.bed")
	_, err := execute(t, "homopolymer", "--bed", bed, "raw.bam", "../../probe/testdata/ref.fa")
	assert.True(t, errors.Is(err, probe.ErrInputNotFound))
}
