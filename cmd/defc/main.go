package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/deepteams/defc"
	"github.com/deepteams/defc/internal/cliutil"
	"github.com/deepteams/defc/internal/pool"
)

var (
	outputPath  string
	concurrency int
	verbose     bool
	noProgress  bool
)

var rootCmd = &cobra.Command{
	Use:   "defc <input>... ",
	Short: "compress files with the defc codec",
	Long: "defc compresses one or more files with a DEFLATE-like codec: LZ77 " +
		"back-references over a 32 KiB window encoded with canonical Huffman trees.",
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (only valid with a single input file)")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "j", runtime.GOMAXPROCS(-1), "number of files to compress in parallel")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-file compression stats")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if outputPath != "" && len(args) > 1 {
		return fmt.Errorf("defc: -o/--output requires exactly one input file")
	}

	results := cliutil.RunBatch(args, concurrency, func(path string) error {
		return compressFile(path)
	})

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "defc: %s: %v\n", r.Path, r.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("defc: %d of %d files failed", failed, len(results))
	}
	return nil
}

func compressFile(path string) error {
	in, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	buf := pool.Get(len(in))
	defer pool.Put(buf)
	copy(buf, in)

	var bar *progressbar.ProgressBar
	if !noProgress {
		bar = progressbar.NewOptions64(int64(len(in)),
			progressbar.OptionSetBytes64(int64(len(in))),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(true))
		bar.RenderBlank()
	}

	out, stats, err := defc.EncodeWithOptions(buf[:len(in)], &defc.EncodeOptions{
		Progress: func(done, total int) {
			if bar != nil {
				bar.Add(done)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	dst := outputPath
	if dst == "" {
		dst = defaultOutputPath(path)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	if verbose {
		log.Printf("%s -> %s: %d -> %d bytes (%.1f%%), %d literals, %d matches, %d duplicate bytes",
			path, dst, stats.InputSize, stats.OutputSize, stats.Ratio()*100,
			stats.NumLiterals, stats.NumMatches, stats.DuplicateBytes)
	}
	return nil
}

func defaultOutputPath(path string) string {
	if strings.HasSuffix(path, ".defc") {
		return path
	}
	return path + ".defc"
}
