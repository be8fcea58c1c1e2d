package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fsim/internal/config"
)

// version is set at build time with -ldflags "-X fsim/cmd.version=..."
var version = "dev"

var (
	configPath string
	logLevel   string
	rating     float64
	separator  string

	// cfg is the resolved configuration for the running command
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fsim <folder>",
	Short: "Find similarly named files",
	Long: `fsim groups the files of a folder by filename similarity.

Names are compared without their extension using the Dice coefficient over
character bigrams. Files linked by any chain of similar names end up in the
same group, so copies in several formats or multi-volume sets are reported
together. Each group is printed one path per line, followed by a separator.

Pairs listed together in the ignore file (default <folder>/.fsimignore) are
never matched with each other.

Example usage:
  fsim ./books                  # Group similar names in ./books
  fsim ./books -R               # Include subdirectories
  fsim ./books -r 0.8 -c        # Stricter rating, persist the bigram cache
  fsim compare "a.txt" "b.pdf"  # Show the score of two names`,
	Version:           version,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: setup,
	RunE:              runScan,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Float64VarP(&rating, "rating", "r", 0.7, "Minimum similarity rating, exclusive (0-1)")
	rootCmd.PersistentFlags().StringVarP(&separator, "separator", "s", "--", "Separator between ignore groups and output groups")
}

// setup resolves the configuration and configures logging
func setup(cmd *cobra.Command, args []string) error {
	resolved, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg = resolved
	setupLogging(cfg.LogLevel)
	return nil
}

// resolveConfig applies explicitly set flags over the config file
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("rating") {
		c.Rating = rating
	}
	if flags.Changed("separator") {
		c.Separator = separator
	}
	if flags.Changed("ignore") {
		c.IgnoreFile = ignoreFile
	}
	if flags.Changed("recursive") {
		c.Recursive = recursive
	}
	if flags.Changed("cache") {
		c.Cache = useCache
	}
	if flags.Changed("format") {
		c.Format = format
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isTerminal(os.Stderr),
	})
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
