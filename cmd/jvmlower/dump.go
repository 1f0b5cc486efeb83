package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jvmlower/internal/driver"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <unit>",
	Short: "Lower one unit and print its IR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		companions, err := cmd.Flags().GetStringSlice("companion")
		if err != nil {
			return fmt.Errorf("failed to get companion flag: %w", err)
		}
		opts, err := mergeLowerOptions(&cfg, lowerFlags{companions: companions, noCache: true}, args)
		if err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd, cfg.Lower.Trace)
		if err != nil {
			return err
		}
		defer cleanup()
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		defer stopProfiling()

		withSymbols, err := cmd.Flags().GetBool("symbols")
		if err != nil {
			return fmt.Errorf("failed to get symbols flag: %w", err)
		}

		results, err := driver.LowerUnits(cmd.Context(), &driver.Request{
			Paths:       opts.paths,
			Jobs:        1,
			Companions:  opts.companions,
			DumpSymbols: withSymbols,
		})
		if err != nil {
			return err
		}
		for i := range results {
			if results[i].Err != nil {
				return results[i].Err
			}
			fmt.Fprint(cmd.OutOrStdout(), results[i].Dump)
			if withSymbols {
				fmt.Fprintln(cmd.OutOrStdout(), "synthesized symbols:")
				fmt.Fprint(cmd.OutOrStdout(), results[i].Symbols)
			}
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringSlice("companion", nil, "extra intrinsic companion owner (repeatable)")
	dumpCmd.Flags().Bool("symbols", false, "also print the synthesized symbols")
}
