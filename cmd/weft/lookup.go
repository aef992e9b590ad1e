package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/weft"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <file.weft> <instant>",
	Short: "Evaluate a weft file at an instant (RFC 3339)",
	Long: "Lookup evaluates the file's quantity at one instant, or sweeps a\n" +
		"range when --until is given.",
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().String("until", "", "sweep until this instant instead of a single lookup")
	lookupCmd.Flags().Duration("step", time.Hour, "sweep step")
}

func runLookup(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	f, err := weft.ParseLazy(data)
	if err != nil {
		return err
	}
	reader, err := weft.NewReader(f, weft.WithReaderLogger(newLogger()))
	if err != nil {
		return err
	}

	start, err := time.Parse(time.RFC3339, args[1])
	if err != nil {
		return fmt.Errorf("bad instant %q: %w", args[1], err)
	}

	out := cmd.OutOrStdout()
	untilToken, _ := cmd.Flags().GetString("until")
	if untilToken == "" {
		value, err := reader.ValueAt(start)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%.9g\n", value)

		return nil
	}

	until, err := time.Parse(time.RFC3339, untilToken)
	if err != nil {
		return fmt.Errorf("bad --until %q: %w", untilToken, err)
	}
	step, _ := cmd.Flags().GetDuration("step")

	for t, rv := range reader.ValuesInRange(start, until, step) {
		if rv.Err != nil {
			fmt.Fprintf(out, "%s out of range\n", t.Format(time.RFC3339))
			continue
		}
		fmt.Fprintf(out, "%s %.9g\n", t.Format(time.RFC3339), rv.Value)
	}

	return nil
}
