package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/weft"
)

var combineCmd = &cobra.Command{
	Use:   "combine <output.weft> <input.weft>...",
	Short: "Splice multiple weft files into one",
	Long: "Combine merges the blocks of several preamble-compatible weft files.\n" +
		"Inputs must agree on id, data source, precision, quantity, value\n" +
		"behavior, and method; the timespan and generation time are recomputed.",
	Args: cobra.MinimumNArgs(3),
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().String("timespan", "", "override the inferred timespan")
}

func runCombine(cmd *cobra.Command, args []string) error {
	outputPath, inputPaths := args[0], args[1:]

	files := make([]*weft.File, 0, len(inputPaths))
	for _, path := range inputPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		f, err := weft.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		files = append(files, f)
	}

	timespan, _ := cmd.Flags().GetString("timespan")
	combined, err := weft.Combine(files, timespan)
	if err != nil {
		return err
	}

	data, err := combined.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "combined %d files into %s (%d blocks)\n",
		len(files), outputPath, combined.BlockCount())

	return nil
}
