package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"fsim/internal/config"
	"fsim/internal/finder"
	"fsim/internal/output"
)

var (
	ignoreFile  string
	recursive   bool
	useCache    bool
	format      string
	showSummary bool
)

func init() {
	rootCmd.Flags().StringVarP(&ignoreFile, "ignore", "i", "", "Ignore file (default <folder>/.fsimignore)")
	rootCmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "Recurse into subdirectories")
	rootCmd.Flags().BoolVarP(&useCache, "cache", "c", false, "Persist the bigram cache in <folder>/.fsimcache")
	rootCmd.Flags().StringVarP(&format, "format", "o", config.FormatText, "Output format (text, json)")
	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "Print a summary line after the groups")
}

func runScan(cmd *cobra.Command, args []string) error {
	// Progress goes to stderr, and only when a person is watching
	var scanProgress func(scanned int, current string)
	var progress func(done, total int, current string)
	lastLine := ""
	show := func(line string) {
		if lastLine != "" {
			fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", utf8.RuneCountInString(lastLine))+"\r")
		}
		lastLine = line
		fmt.Fprint(os.Stderr, lastLine)
	}
	if isTerminal(os.Stderr) {
		scanProgress = func(scanned int, _ string) {
			show(fmt.Sprintf("Scanning: %d files", scanned))
		}
		progress = func(done, total int, current string) {
			show(fmt.Sprintf("Progress: %d/%d  %s", done, total, shortenPath(current, 50)))
		}
	}

	result, err := finder.Run(finder.Options{
		Dir:          args[0],
		IgnoreFile:   cfg.IgnoreFile,
		MinRating:    cfg.Rating,
		Separator:    cfg.Separator,
		Recursive:    cfg.Recursive,
		UseCache:     cfg.Cache,
		ScanProgress: scanProgress,
		Progress:     progress,
	})

	// Clear progress line
	if lastLine != "" {
		fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", utf8.RuneCountInString(lastLine))+"\r")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isTerminal(f)
	}
	p := output.NewPrinter(out, cfg.Separator, styled)

	if cfg.Format == config.FormatJSON {
		return p.PrintJSON(result)
	}
	if err := p.PrintText(result.Clusters); err != nil {
		return err
	}
	if showSummary {
		return p.PrintSummary(result)
	}
	return nil
}

// shortenPath keeps the last characters of p so it fits in max runes
func shortenPath(p string, max int) string {
	runes := []rune(p)
	if len(runes) <= max {
		return p
	}
	return "..." + string(runes[len(runes)-(max-3):])
}
