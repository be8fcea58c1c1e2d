package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"fsim/internal/similarity"
)

var compareCmd = &cobra.Command{
	Use:   "compare <name> <name>",
	Short: "Show the similarity of two filenames",
	Long: `Score two filenames the same way a folder scan does.

Only the base names are compared and extensions shorter than ten characters
are removed first. The pair matches when the score exceeds the rating.

Example:
  fsim compare "Vol1 - Knuth.txt" "Vol2 - Knuth.epub"
  fsim compare a.txt b.txt -r 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a := similarity.CompareKey(path.Base(args[0]))
	b := similarity.CompareKey(path.Base(args[1]))
	score := similarity.Similarity(a, b)

	verdict := "no match"
	if score > cfg.Rating {
		verdict = "match"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Compare keys: %q, %q\n", a, b)
	fmt.Fprintf(out, "Score:        %.4f\n", score)
	fmt.Fprintf(out, "Rating:       %.4f (%s)\n", cfg.Rating, verdict)
	return nil
}
