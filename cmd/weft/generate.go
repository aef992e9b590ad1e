package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/weft"
	"github.com/arloliu/weft/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate <samples.csv> <output.weft>",
	Short: "Generate a weft file from sampled data",
	Long: "Generate reads (timestamp, value) samples from a CSV file and fits\n" +
		"them into a weft file. Timestamps are RFC 3339; rows must be ascending.\n" +
		"With --auto the block kinds are chosen from the data's span and density.",
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("id", "", "body or point identifier (required)")
	generateCmd.Flags().String("data-source", "csv", "data source token for the preamble")
	generateCmd.Flags().String("quantity", "", "quantity name, e.g. longitude (required)")
	generateCmd.Flags().String("behavior", "", "value behavior: wrapping[a,b], bounded[a,b], or empty for unbounded")
	generateCmd.Flags().String("timespan", "", "override the inferred preamble timespan")
	generateCmd.Flags().Bool("auto", false, "pick block kinds from data span and density")
	generateCmd.Flags().Bool("multi-year", false, "enable multi-year blocks")
	generateCmd.Flags().Bool("monthly", false, "enable monthly blocks")
	generateCmd.Flags().Bool("forty-eight-hour", false, "enable forty-eight hour blocks")
	generateCmd.Flags().Bool("force-forty-eight-hour", false, "bypass forty-eight hour coverage and density checks")
	generateCmd.Flags().String("cache", "", "SQLite sample cache path")

	_ = generateCmd.MarkFlagRequired("id")
	_ = generateCmd.MarkFlagRequired("quantity")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	samplePath, outputPath := args[0], args[1]
	flags := cmd.Flags()

	behaviorToken, _ := flags.GetString("behavior")
	behavior, err := weft.ParseValueBehavior(behaviorToken)
	if err != nil {
		return err
	}

	var src source.DataSource
	src, err = loadCSVSource(samplePath)
	if err != nil {
		return err
	}

	id, _ := flags.GetString("id")
	quantity, _ := flags.GetString("quantity")

	if cachePath, _ := flags.GetString("cache"); cachePath != "" {
		cached, err := source.NewCachedSource(context.Background(), cachePath, id, quantity, src)
		if err != nil {
			return err
		}
		defer cached.Close()
		src = cached
	}

	var cfg weft.Config
	if auto, _ := flags.GetBool("auto"); auto {
		cfg = weft.RecommendedConfig(src)
	} else {
		cfg.MultiYear.Enabled, _ = flags.GetBool("multi-year")
		cfg.Monthly.Enabled, _ = flags.GetBool("monthly")
		cfg.FortyEightHour.Enabled, _ = flags.GetBool("forty-eight-hour")
	}
	cfg.ID = id
	cfg.DataSource, _ = flags.GetString("data-source")
	cfg.Quantity = quantity
	cfg.Behavior = behavior
	cfg.CustomTimespan, _ = flags.GetString("timespan")
	cfg.ForceFortyEightHourBlocks, _ = flags.GetBool("force-forty-eight-hour")

	writer, err := weft.NewWriter(cfg, weft.WithWriterLogger(newLogger()))
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := writer.Write(src, out)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outputPath, n)

	return nil
}

// loadCSVSource reads "timestamp,value" rows into a SliceSource.
func loadCSVSource(path string) (*source.SliceSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read samples %s: %w", path, err)
	}

	times := make([]time.Time, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("samples %s row %d: need timestamp,value", path, i+1)
		}
		t, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, fmt.Errorf("samples %s row %d: %w", path, i+1, err)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("samples %s row %d: %w", path, i+1, err)
		}
		times = append(times, t.UTC())
		values = append(values, v)
	}

	return source.NewSliceSource(times, values)
}
