package main

import (
	"github.com/dasnellings/indelProbe/probe"
	"github.com/spf13/cobra"
)

func newHomopolymerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "homopolymer [raw.bam] [reference.fasta]",
		Short: "measure homopolymer runs in raw reads at the loci of a bed file",
		Long: "homopolymer - measure the homopolymer run at each 1bp indel locus in --bed\n" +
			"\tusing raw reads aligned to the reference. Loci are usually the output of extract.\n\n" +
			"Usage:\n" +
			"  indelprobe homopolymer [options] --bed indels.bed raw.bam reference.fasta > summary.tsv",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config([]string{"reads", "reference"}, args)
			if err != nil {
				return err
			}
			_, err = probe.New(cfg, a.logger, cmd.OutOrStdout()).HomopolymerFromBed()
			return err
		},
	}
}
