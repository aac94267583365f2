package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dasnellings/indelProbe/probe"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version string = "0.1.0"
const gonomicsVersion string = "1.0.1-0.20240426183757-e6c6ab634c20"

// app is the state shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
	stdout io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop(), stdout: stdout}
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "indelprobe",
		Short: "find 1bp indels in coding sequence alignments and probe their homopolymer context",
		Long: "Program: indelprobe (1bp indel discovery in CDS alignments)\n" +
			"Version: " + version + " (gonomics " + gonomicsVersion + ")\n\n" +
			"Options may also be set in a YAML file given with --config or with\n" +
			"INDELPROBE_ prefixed environment variables (e.g. INDELPROBE_PLOT_DIR).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Root(), cfgFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	cmd.SetOut(stdout)

	d := probe.DefaultConfig()
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file.")
	flags.String("reference", "", "Reference FASTA file. Must be indexed (.fai).")
	flags.String("reads", "", "Raw reads aligned to the reference. Must be an indexed (.bai) bam. Enables the homopolymer check.")
	flags.String("bed", d.Bed, "Locus list of unique 1bp indels. Written by scan and extract, read by homopolymer.")
	flags.String("plot-dir", d.PlotDir, "Directory for {ref}_{start}.png histograms. Empty disables png output.")
	flags.Bool("ascii", d.ASCII, "Print a terminal histogram for each locus.")
	flags.Int("flank", d.Flank, "Read bases kept on each side of an indel breakpoint.")
	flags.Int("threads", d.Threads, "Number of extraction workers.")
	flags.String("out", d.Out, "Output report file. Default stdout.")
	flags.String("duckdb", d.DuckDB, "Export loci and homopolymer results to this DuckDB file.")
	flags.Bool("debug", false, "Debug logging.")
	a.v.SetEnvPrefix("INDELPROBE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(
		newScanCmd(a),
		newExtractCmd(a),
		newHomopolymerCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// init binds the root flags and the environment, then reads cfgFile if one was given.
func (a *app) init(root *cobra.Command, cfgFile string) error {
	if err := a.v.BindPFlags(root.PersistentFlags()); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	if err := a.v.BindEnv("cds"); err != nil {
		return errors.Wrap(err, "binding environment")
	}
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", cfgFile)
		}
	}
	logger, err := newLogger(a.v.GetBool("debug"))
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// config returns the effective options. Positional arguments are assigned to keys in order.
func (a *app) config(keys []string, args []string) (probe.Config, error) {
	for i := range args {
		a.v.Set(keys[i], args[i])
	}
	cfg := probe.DefaultConfig()
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing options")
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.Sampling = nil
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zc.Build()
	return logger, errors.Wrap(err, "building logger")
}
