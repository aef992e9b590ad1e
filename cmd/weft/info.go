package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/weft"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.weft>",
	Short: "Show a weft file's preamble and block census",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	f, err := weft.ParseLazy(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := f.Preamble
	fmt.Fprintf(out, "id:         %s\n", p.ID)
	fmt.Fprintf(out, "source:     %s\n", p.DataSource)
	fmt.Fprintf(out, "timespan:   %s\n", p.Timespan)
	fmt.Fprintf(out, "quantity:   %s\n", p.Quantity)
	fmt.Fprintf(out, "behavior:   %s\n", behaviorLabel(p.Behavior))
	fmt.Fprintf(out, "generated:  %s\n", p.GeneratedAt)

	fmt.Fprintf(out, "blocks:     %d total\n", f.BlockCount())
	for _, blk := range f.MultiYear {
		fmt.Fprintf(out, "  multi-year %d +%dy (%d coefficients)\n", blk.StartYear, blk.Duration, len(blk.Coeffs))
	}
	for _, blk := range f.Monthly {
		fmt.Fprintf(out, "  monthly    %04d-%02d x%d days (%d coefficients)\n", blk.Year, blk.Month, blk.DayCount, len(blk.Coeffs))
	}
	for _, s := range f.Sections {
		fmt.Fprintf(out, "  48h section %s .. %s (%d blocks of %d bytes)\n",
			s.Header.StartDate().Format(time.DateOnly),
			s.Header.EndDate().Format(time.DateOnly),
			s.Header.BlockCount, s.Header.BlockSize)
	}

	if start, end, ok := f.Coverage(); ok {
		fmt.Fprintf(out, "coverage:   %s .. %s\n", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return nil
}

func behaviorLabel(b weft.ValueBehavior) string {
	if s := b.String(); s != "" {
		return s
	}

	return "unbounded"
}
