// Package finder runs one similarity pass over a directory: it scans the
// files, loads the ignore groups and the optional bigram cache, builds the
// clusters and persists the cache again.
package finder

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"fsim/internal/cluster"
	"fsim/internal/ignore"
	"fsim/internal/models"
	"fsim/internal/scan"
	"fsim/internal/similarity"
	"fsim/internal/storage"
)

// Options configures a run
type Options struct {
	Dir        string
	IgnoreFile string // empty means <Dir>/.fsimignore
	MinRating  float64
	Separator  string
	Recursive  bool
	UseCache   bool

	// ScanProgress is called for each file the scan collects
	ScanProgress func(scanned int, current string)
	// Progress is called after each cluster seed is processed
	Progress func(done, total int, current string)
}

// Run groups the files of opts.Dir by filename similarity.
// Only an unusable directory is an error; ignore and cache problems are logged.
func Run(opts Options) (*models.Result, error) {
	absDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	ignorePath := opts.IgnoreFile
	if ignorePath == "" {
		ignorePath = filepath.Join(absDir, ignore.DefaultFileName)
	}

	exclude := []string{ignore.DefaultFileName}
	if abs, err := filepath.Abs(ignorePath); err == nil && filepath.Dir(abs) == absDir {
		exclude = append(exclude, filepath.Base(abs))
	}

	scanner := scan.NewScanner(
		scan.WithRecursive(opts.Recursive),
		scan.WithExclude(exclude...),
		scan.WithExcludePrefix(storage.DefaultFileName),
		scan.WithProgress(opts.ScanProgress),
	)
	files, err := scanner.Scan(absDir)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	log.Debug().Str("dir", absDir).Int("files", len(files)).Bool("recursive", opts.Recursive).Msg("scanned")

	ignores, err := ignore.Load(ignorePath, opts.Separator)
	if err != nil {
		log.Warn().Err(err).Str("path", ignorePath).Msg("ignoring unreadable ignore file")
	}

	index := similarity.NewBigramIndex()
	var c *cache
	if opts.UseCache {
		c = openCache(filepath.Join(absDir, storage.DefaultFileName), index)
		defer c.close()
	}

	builder := cluster.NewBuilder(opts.MinRating,
		cluster.WithScorer(similarity.NewScorer(index)),
		cluster.WithProgress(opts.Progress),
	)
	log.Debug().Float64("min_rating", builder.MinRating()).Int("ignored_names", len(ignores)).Msg("clustering")
	clusters := builder.Build(files, ignores)

	if c != nil {
		c.save()
	}

	hits, misses := index.Stats()
	result := &models.Result{
		Dir:         absDir,
		Scanned:     len(files),
		Clusters:    clusters,
		CacheHits:   hits,
		CacheMisses: misses,
	}
	log.Info().
		Int("files", result.Scanned).
		Int("clusters", len(clusters)).
		Int("cache_hits", hits).
		Int("cache_misses", misses).
		Msg("grouping complete")

	return result, nil
}
