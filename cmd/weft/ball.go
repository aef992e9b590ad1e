package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arloliu/weft"
	"github.com/arloliu/weft/weftball"
)

var ballCmd = &cobra.Command{
	Use:   "ball",
	Short: "Pack and unpack weftball archives",
}

var ballPackCmd = &cobra.Command{
	Use:   "pack <archive> <file.weft>...",
	Short: "Pack weft files into a weftball",
	Long: "Pack bundles weft files into a tar archive. The codec is inferred\n" +
		"from the archive suffix: .tar, .tar.gz, .tar.zst, .tar.lz4, .tar.s2.",
	Args: cobra.MinimumNArgs(2),
	RunE: runBallPack,
}

var ballUnpackCmd = &cobra.Command{
	Use:   "unpack <archive> [dir]",
	Short: "Unpack a weftball, verifying member checksums",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBallUnpack,
}

func init() {
	rootCmd.AddCommand(ballCmd)
	ballCmd.AddCommand(ballPackCmd)
	ballCmd.AddCommand(ballUnpackCmd)
}

func runBallPack(cmd *cobra.Command, args []string) error {
	archivePath, inputPaths := args[0], args[1:]

	entries := make([]weftball.Entry, 0, len(inputPaths))
	for _, path := range inputPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		// Reject non-weft members early rather than at unpack time.
		if _, err := weft.ParseLazy(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		entries = append(entries, weftball.Entry{Name: filepath.Base(path), Data: data})
	}

	if err := weftball.PackFile(archivePath, entries); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "packed %d files into %s\n", len(entries), archivePath)

	return nil
}

func runBallUnpack(cmd *cobra.Command, args []string) error {
	archivePath := args[0]
	dir := "."
	if len(args) == 2 {
		dir = args[1]
	}

	entries, err := weftball.UnpackFile(archivePath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, e := range entries {
		target := filepath.Join(dir, filepath.Base(e.Name))
		if err := os.WriteFile(target, e.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", target, len(e.Data))
	}

	return nil
}
