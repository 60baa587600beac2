// Package cmd wires the command line onto the listing pipeline: flag
// parsing, sort-key inference, colour and layout decisions, and the driver
// loop that streams directory entries into the live renderer.
package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/harrison/livels/internal/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// sortChoices are the accepted --sort/--reverse-sort values. "infer" is the
// value the bare flag assumes.
var sortChoices = map[string]bool{
	"infer": true,
	"n":     true,
	"c":     true,
	"m":     true,
	"nf":    true,
	"nd":    true,
	"s":     true,
	"e":     true,
}

// options carries the parsed flag values for one invocation.
type options struct {
	filesOnly     bool
	dirsOnly      bool
	ctime         bool
	longCTime     bool
	mtime         bool
	longMTime     bool
	subCounts     bool
	longSubCounts bool
	size          bool
	longSize      bool
	extensions    bool
	sort          string
	reverseSort   string
	singleColumn  bool
	columns       int
	noColour      bool
	noRunning     bool
	rowWise       bool
	uniformWidth  bool
	configPath    string
	cache         bool
	debugLog      string
}

// NewRootCommand creates and returns the root cobra command for livels
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "livels [PATH]",
		Short: "List directory contents, sorted and rendered as entries arrive",
		Long: `livels lists the contents of a directory, keeping the output sorted
and repainting it live while entries stream in.

Displayed attributes always appear in the order: creation time, last
modification time, number of sub-files, number of sub-directories, size,
path (each only present if requested).`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return run(path, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.filesOnly, "files", "f", false, "only list files")
	flags.BoolVarP(&opts.dirsOnly, "directories", "d", false, "only list directories")

	flags.BoolVarP(&opts.ctime, "ctime", "c", false, "include creation time")
	flags.BoolVarP(&opts.longCTime, "long-ctime", "C", false, "'-c' in long format")
	flags.BoolVarP(&opts.mtime, "mtime", "m", false, "include last modification time")
	flags.BoolVarP(&opts.longMTime, "long-mtime", "M", false, "'-m' in long format")
	flags.BoolVarP(&opts.subCounts, "sub-counts", "n", false,
		"include number of sub-files/sub-directories for directories")
	flags.BoolVarP(&opts.longSubCounts, "long-sub-counts", "N", false, "'-n' in long format")
	flags.BoolVarP(&opts.size, "size", "s", false, "include size")
	flags.BoolVarP(&opts.longSize, "long-size", "S", false, "'-s' in long format")
	flags.BoolVarP(&opts.extensions, "extensions", "e", false, "highlight extensions")

	flags.StringVarP(&opts.sort, "sort", "x", "",
		"sort ascending by key (n, c, m, nf, nd, s, e); inferred when the value is omitted")
	flags.StringVarP(&opts.reverseSort, "reverse-sort", "X", "", "'-x' in descending order")
	flags.Lookup("sort").NoOptDefVal = "infer"
	flags.Lookup("reverse-sort").NoOptDefVal = "infer"

	flags.BoolVarP(&opts.singleColumn, "single-column", "1", false, "display as a single column")
	flags.IntVar(&opts.columns, "columns", 0, "display with at-most this many columns")

	flags.BoolVar(&opts.noColour, "no-colour", false, "display without colour")
	flags.BoolVar(&opts.noRunning, "no-running", false, "display only once finished")
	flags.BoolVar(&opts.rowWise, "row-wise", false, "display sorted row-wise instead of column-wise")
	flags.BoolVar(&opts.uniformWidth, "uniform-width", false, "display with equal-width columns")

	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/livels/config.yaml)")
	flags.BoolVar(&opts.cache, "cache", false, "cache directory aggregates between runs")
	flags.StringVar(&opts.debugLog, "debug-log", "", "append debug output to this file")

	cmd.MarkFlagsMutuallyExclusive("files", "directories")
	cmd.MarkFlagsMutuallyExclusive("ctime", "long-ctime")
	cmd.MarkFlagsMutuallyExclusive("mtime", "long-mtime")
	cmd.MarkFlagsMutuallyExclusive("sub-counts", "long-sub-counts")
	cmd.MarkFlagsMutuallyExclusive("size", "long-size")
	cmd.MarkFlagsMutuallyExclusive("sort", "reverse-sort")
	cmd.MarkFlagsMutuallyExclusive("single-column", "columns")

	return cmd
}

// validate rejects flag values cobra cannot check itself.
func (o *options) validate() error {
	if o.sort != "" && !sortChoices[o.sort] {
		return fmt.Errorf("invalid --sort value %q (choose from n, c, m, nf, nd, s, e)", o.sort)
	}
	if o.reverseSort != "" && !sortChoices[o.reverseSort] {
		return fmt.Errorf("invalid --reverse-sort value %q (choose from n, c, m, nf, nd, s, e)", o.reverseSort)
	}
	if o.columns < 0 {
		return fmt.Errorf("--columns must be positive, got %d", o.columns)
	}
	return nil
}

// loadConfig resolves the config file path and loads it.
func (o *options) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// notifyInterrupt exits with the conventional interrupt status when the user
// hits Ctrl-C, leaving whatever was last painted in place.
func notifyInterrupt() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	go func() {
		<-sigc
		fmt.Fprint(os.Stdout, "\nInterrupted.\n")
		os.Exit(130)
	}()
}
