package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepteams/defc"
	"github.com/deepteams/defc/internal/cliutil"
)

var (
	outputPath  string
	concurrency int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "undefc <input>...",
	Short: "decompress files produced by defc",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (only valid with a single input file)")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "j", runtime.GOMAXPROCS(-1), "number of files to decompress in parallel")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-file decompression stats")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if outputPath != "" && len(args) > 1 {
		return fmt.Errorf("undefc: -o/--output requires exactly one input file")
	}

	results := cliutil.RunBatch(args, concurrency, decompressFile)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "undefc: %s: %v\n", r.Path, r.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("undefc: %d of %d files failed", failed, len(results))
	}
	return nil
}

func decompressFile(path string) error {
	in, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, stats, err := defc.DecodeWithStats(in)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	dst := outputPath
	if dst == "" {
		dst = defaultOutputPath(path)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	if verbose {
		log.Printf("%s -> %s: %d -> %d bytes, %d literals, %d matches, %d duplicate bytes",
			path, dst, stats.InputSize, stats.OutputSize, stats.NumLiterals, stats.NumMatches, stats.DuplicateBytes)
	}
	return nil
}

func defaultOutputPath(path string) string {
	if trimmed := strings.TrimSuffix(path, ".defc"); trimmed != path {
		return trimmed
	}
	return path + ".out"
}
