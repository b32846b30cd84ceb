package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"curvedb/calendar"
	"curvedb/core"
	"curvedb/resample"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type resampleFlags struct {
	period string
	policy string
	epoch  bool
}

func (flags *resampleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.period, "period", "month", "day|week|month|quarter|halfyear|year|decade")
	cmd.Flags().StringVar(&flags.policy, "policy", "weighted-mean", "weighted-mean|period-end")
	cmd.Flags().BoolVar(&flags.epoch, "epoch", false, "print epoch seconds instead of RFC 3339")
}

func (flags *resampleFlags) parse() (core.Policy, calendar.PeriodKind, error) {
	kind, err := calendar.ParsePeriodKind(flags.period)
	if err != nil {
		return 0, 0, err
	}
	policy, err := core.ParsePolicy(flags.policy)
	if err != nil {
		return 0, 0, err
	}
	return policy, kind, nil
}

func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

func resampleSeries(
	times []int64,
	values []float64,
	policy core.Policy,
	kind calendar.PeriodKind) (*resample.Resampler, error) {
	resampler := resample.NewResampler()
	if err := resampler.SetCurveData(values, times); err != nil {
		return nil, err
	}
	var err error
	switch policy {
	case core.PeriodEnd:
		err = resampler.ResampleAndComputePeriodEndValues(kind)
	default:
		err = resampler.ResampleAndComputeWeightedMeanValues(kind)
	}
	return resampler, err
}

func newResampleCmd(opts *globalOptions) *cobra.Command {
	flags := &resampleFlags{}

	cmd := &cobra.Command{
		Use:   "resample [file.csv]",
		Short: "Resample a time,value CSV without touching the database",
		Long: `Resample a time,value CSV and print one row per calendar period.

Times may be epoch seconds, RFC 3339 or 2006-01-02. Reads stdin when no file
is given.

Example: curvedb resample --period quarter --policy period-end rates.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, kind, err := flags.parse()
			if err != nil {
				return err
			}
			input, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer input.Close()

			times, values, err := readCurve(input)
			if err != nil {
				return err
			}
			resampler, err := resampleSeries(times, values, policy, kind)
			if err != nil {
				return err
			}
			opts.logger.Debug("resampled",
				zap.Int("samples", resampler.Len()),
				zap.Int("periods", len(resampler.ResampledTimeSteps())))
			return writeCurve(cmd.OutOrStdout(),
				resampler.ResampledTimeSteps(), resampler.ResampledValues(), flags.epoch)
		},
	}
	flags.register(cmd)
	return cmd
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import --name NAME file.csv",
		Short: "Store a time,value CSV as a named curve, replacing any earlier data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer input.Close()
			times, values, err := readCurve(input)
			if err != nil {
				return err
			}

			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			curve, err := db.FindCurve(name)
			if err != nil {
				curve, err = db.NewCurve(name)
				if err != nil {
					return err
				}
			}
			if err := curve.SetData(values, times); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d samples into %q (id %d)\n",
				len(times), curve.Name(), curve.ID())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "curve name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newQueryCmd(opts *globalOptions) *cobra.Command {
	var name string
	flags := &resampleFlags{}

	cmd := &cobra.Command{
		Use:   "query --name NAME",
		Short: "Resample a stored curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, kind, err := flags.parse()
			if err != nil {
				return err
			}
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			curve, err := db.FindCurve(name)
			if err != nil {
				return err
			}
			result, err := curve.Resample(policy, kind)
			if err != nil {
				return err
			}
			return writeCurve(cmd.OutOrStdout(), result.TimeSteps, result.Values, flags.epoch)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "curve name")
	_ = cmd.MarkFlagRequired("name")
	flags.register(cmd)
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tSAMPLES\tFIRST\tLAST\tMEAN")
			for _, curve := range db.Curves() {
				statistics, err := curve.Statistics()
				if err != nil {
					return err
				}
				first, last := "-", "-"
				if statistics.NumValues > 0 {
					first = time.Unix(statistics.FirstTimestamp, 0).UTC().Format("2006-01-02")
					last = time.Unix(statistics.LastTimestamp, 0).UTC().Format("2006-01-02")
				}
				fmt.Fprintf(writer, "%d\t%s\t%d\t%s\t%s\t%g\n",
					curve.ID(), curve.Name(), statistics.NumValues,
					first, last, statistics.ValueStats.GetMean())
			}
			return writer.Flush()
		},
	}
}
