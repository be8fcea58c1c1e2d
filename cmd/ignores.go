package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fsim/internal/ignore"
)

var (
	ignoresLimit  int
	ignoresOffset int
)

var ignoresCmd = &cobra.Command{
	Use:   "ignores [folder|file]",
	Short: "List the groups declared in an ignore file",
	Long: `Display the ignore groups fsim will apply.

The argument is either an ignore file or a folder, in which case its
.fsimignore is read. Groups must be closed by a separator line; a trailing
group without one is not applied and is reported as such.

Example:
  fsim ignores ./books             # Groups from ./books/.fsimignore
  fsim ignores my-ignores.txt      # Groups from a specific file
  fsim ignores ./books -n 0        # Show all groups`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIgnores,
}

func init() {
	ignoresCmd.Flags().IntVarP(&ignoresLimit, "limit", "n", 10, "Limit number of groups to display (0 = all)")
	ignoresCmd.Flags().IntVar(&ignoresOffset, "offset", 0, "Skip first N groups (for pagination)")
	rootCmd.AddCommand(ignoresCmd)
}

func runIgnores(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	path := resolveIgnorePath(target)

	m, order, err := ignore.LoadOrdered(path, cfg.Separator)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	groups := m.Groups(order)
	dropped := countUncommitted(m, order)

	if len(groups) == 0 {
		fmt.Fprintf(out, "No ignore groups in %s\n", path)
		if dropped > 0 {
			fmt.Fprintf(out, "%d name(s) after the last %q line are not applied\n", dropped, cfg.Separator)
		}
		return nil
	}

	fmt.Fprintf(out, "Found %d ignore groups in %s\n\n", len(groups), path)

	// Apply pagination
	totalGroups := len(groups)
	startIdx := min(ignoresOffset, len(groups))
	groups = groups[startIdx:]
	if ignoresLimit > 0 && ignoresLimit < len(groups) {
		groups = groups[:ignoresLimit]
	}

	if len(groups) == 0 {
		fmt.Fprintf(out, "No groups in range (offset %d exceeds total %d)\n", ignoresOffset, totalGroups)
	}
	for i, group := range groups {
		printIgnoreGroup(out, startIdx+i+1, group)
	}

	endIdx := startIdx + len(groups)
	if len(groups) > 0 {
		fmt.Fprintf(out, "Showing groups %d-%d of %d\n", startIdx+1, endIdx, totalGroups)
		if endIdx < totalGroups {
			limitArg := ""
			if ignoresLimit > 0 {
				limitArg = fmt.Sprintf(" -n %d", ignoresLimit)
			}
			fmt.Fprintf(out, "Next page: fsim ignores %s%s --offset %d\n", target, limitArg, endIdx)
		}
	}
	if dropped > 0 {
		fmt.Fprintf(out, "%d name(s) after the last %q line are not applied\n", dropped, cfg.Separator)
	}

	return nil
}

// resolveIgnorePath maps a folder to its default ignore file
func resolveIgnorePath(target string) string {
	if isDir(target) {
		return filepath.Join(target, ignore.DefaultFileName)
	}
	return target
}

// countUncommitted counts declared names that ended up in no group
func countUncommitted(m ignore.Map, order []string) int {
	n := 0
	for _, key := range order {
		if _, ok := m[key]; !ok {
			n++
		}
	}
	return n
}

func printIgnoreGroup(w io.Writer, id int, group []string) {
	fmt.Fprintf(w, "Group #%d (%d files)\n", id, len(group))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, key := range group {
		fmt.Fprintf(w, "  ✗ %s\n", key)
	}
	fmt.Fprintln(w)
}
