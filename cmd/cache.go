package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"fsim/internal/storage"
)

var (
	dryRun    bool
	noConfirm bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or remove the bigram cache of a folder",
	Long: `Manage the .fsimcache side file written by 'fsim <folder> --cache'.

Example:
  fsim cache stats ./books          # Show cache size and entry counts
  fsim cache clear ./books --dry-run
  fsim cache clear ./books -y       # Delete without confirmation`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats [folder]",
	Short: "Show cache entry counts",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [folder]",
	Short: "Delete the cache side file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without removing")
	cacheClearCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func cachePathFor(args []string) (string, error) {
	folder := "."
	if len(args) == 1 {
		folder = args[0]
	}
	if !isDir(folder) {
		return "", fmt.Errorf("not a directory: %s", folder)
	}
	return filepath.Join(folder, storage.DefaultFileName), nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	path, err := cachePathFor(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(out, "No cache at %s\n", path)
		return nil
	}

	store, err := storage.NewStorage(path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	st, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Cache:   %s\n", path)
	fmt.Fprintf(out, "Names:   %d\n", st.Names)
	fmt.Fprintf(out, "Bigrams: %d\n", st.Bigrams)
	fmt.Fprintf(out, "Size:    %s\n", formatSize(st.Size))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	path, err := cachePathFor(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// Collect files to remove
	var toRemove []string
	var totalSize int64
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm", path + ".lock"} {
		if info, err := os.Stat(p); err == nil {
			toRemove = append(toRemove, p)
			totalSize += info.Size()
		}
	}

	if len(toRemove) == 0 {
		fmt.Fprintf(out, "No cache at %s\n", path)
		return nil
	}

	fmt.Fprintf(out, "Will delete %d files (%s)\n\n", len(toRemove), formatSize(totalSize))

	if dryRun {
		fmt.Fprintln(out, "Files to be removed:")
		for _, p := range toRemove {
			fmt.Fprintf(out, "  %s\n", p)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "(Dry run - no files were modified)")
		return nil
	}

	// Refuse while a run holds the cache
	lock := storage.NewLock(path)
	held, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !held {
		return fmt.Errorf("cache %s is in use by another run", path)
	}
	lockHeld := true
	release := func() {
		if lockHeld {
			lockHeld = false
			lock.Unlock()
		}
	}
	defer release()

	if !noConfirm {
		fmt.Fprintf(out, "Are you sure you want to delete %d files? [y/N]: ", len(toRemove))
		reader := bufio.NewReader(cmd.InOrStdin())
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	// The lock file goes last, once released; TryLock may have just created it
	lockPath := lock.Path()
	toRemove = append(slices.DeleteFunc(toRemove, func(p string) bool { return p == lockPath }), lockPath)

	var removed, failed int
	for _, p := range toRemove {
		if p == lockPath {
			release()
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to remove %s: %v\n", p, err)
			failed++
			continue
		}
		removed++
	}

	fmt.Fprintf(out, "Deleted %d files\n", removed)
	if failed > 0 {
		return fmt.Errorf("failed to remove %d files", failed)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
