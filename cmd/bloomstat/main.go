// Command bloomstat derives Bloom filter parameters and measures the
// false-positive rate they deliver.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/FastFilter/bloomfilter"
)

func newRootCmd() *cobra.Command {
	cfg := DefaultConfig()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "bloomstat",
		Short:         "Derive Bloom filter parameters and measure false positives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				file, err := LoadConfig(cfgFile)
				if err != nil {
					return err
				}
				cfg.Merge(file, cmd.Flags())
			}
			return cfg.Validate()
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "expected number of values")
	flags.IntVar(&cfg.BitsPerValue, "bits-per-value", cfg.BitsPerValue, "bits of storage per value")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level")
	flags.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "log format (text or json)")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "Print the derived width, probe count and strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd.OutOrStdout(), cfg.Logging.Level, cfg.Logging.Format)
			p, err := bloomfilter.Derive(cfg.Capacity, cfg.BitsPerValue)
			if err != nil {
				return err
			}
			log.Info().
				Int("capacity", cfg.Capacity).
				Int("bits_per_value", cfg.BitsPerValue).
				Uint32("m", p.M).
				Uint32("k", p.K).
				Stringer("strategy", p.Strategy).
				Float64("fpr_at_capacity", p.FalsePositiveRate(cfg.Capacity)).
				Msg("derived parameters")
			return nil
		},
	}

	measureCmd := &cobra.Command{
		Use:   "measure",
		Short: "Fill a filter and count false positives on values never added",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd.OutOrStdout(), cfg.Logging.Level, cfg.Logging.Format)
			log.Debug().Str("hash", cfg.Hash).Int("inserts", cfg.Inserts).Int("queries", cfg.Queries).Msg("measuring")
			res, err := Measure(cfg)
			if err != nil {
				log.Error().Err(err).Msg("measure failed")
				return err
			}
			log.Info().
				Uint32("m", res.Params.M).
				Uint32("k", res.Params.K).
				Stringer("strategy", res.Params.Strategy).
				Str("hash", cfg.Hash).
				Int("inserted", res.Inserted).
				Int("queries", res.Queries).
				Int("false_positives", res.FalsePositives).
				Float64("fpr", res.Empirical).
				Float64("fpr_estimated", res.Estimated).
				Float64("fill_ratio", res.FillRatio).
				Msg("measured")
			return nil
		},
	}
	measureCmd.Flags().IntVar(&cfg.Inserts, "inserts", cfg.Inserts, "values to insert")
	measureCmd.Flags().IntVar(&cfg.Queries, "queries", cfg.Queries, "values never inserted to query")
	measureCmd.Flags().StringVar(&cfg.Hash, "hash", cfg.Hash, "hash function (xxhash, murmur3 or maphash)")

	rootCmd.AddCommand(paramsCmd, measureCmd)
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
