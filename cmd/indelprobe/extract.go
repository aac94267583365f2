package main

import (
	"github.com/dasnellings/indelProbe/probe"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [cds.bam]",
		Short: "write the unique 1bp indels of coding sequence alignments to a bed file",
		Long: "extract - find 1bp insertions and deletions in coding sequences aligned to a reference\n" +
			"\tand write each unique locus to --bed as: refName, start, end, kind.\n\n" +
			"Usage:\n" +
			"  indelprobe extract [options] --bed indels.bed cds.bam",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config([]string{"cds"}, args)
			if err != nil {
				return err
			}
			_, err = probe.New(cfg, a.logger, cmd.OutOrStdout()).Extract()
			return err
		},
	}
}
