package models

// FileEntry is one scanned file
type FileEntry struct {
	Key         string `json:"key"`          // Relative path, slash separated, unique within a run
	CompareName string `json:"compare_name"` // Base name with extension stripped, used only for scoring
}

// Cluster is an ordered list of file keys; the first key is the seed
type Cluster []string

// Result holds the outcome of one run over a directory
type Result struct {
	Dir         string    `json:"dir"`
	Scanned     int       `json:"scanned"`
	Clusters    []Cluster `json:"clusters"`
	CacheHits   int       `json:"-"`
	CacheMisses int       `json:"-"`
}

// TotalMatched returns the number of files placed in a cluster
func (r *Result) TotalMatched() int {
	n := 0
	for _, c := range r.Clusters {
		n += len(c)
	}
	return n
}
