package main

import (
	"github.com/dasnellings/indelProbe/probe"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [cds.bam] [reference.fasta]",
		Short: "extract 1bp indels and, with --reads, check them for homopolymer context",
		Long: "scan - find 1bp insertions and deletions in coding sequences aligned to a reference\n" +
			"\tUnique loci are written to --bed. When --reads is set, the homopolymer run at each\n" +
			"\tlocus is measured in the raw reads and a summary is printed.\n\n" +
			"Usage:\n" +
			"  indelprobe scan [options] cds.bam reference.fasta > summary.tsv\n" +
			"  indelprobe scan --reads raw.bam --plot-dir plots cds.bam reference.fasta",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config([]string{"cds", "reference"}, args)
			if err != nil {
				return err
			}
			return probe.New(cfg, a.logger, cmd.OutOrStdout()).Scan()
		},
	}
}
