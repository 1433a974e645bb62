// Package corpus builds the SourceCorpus described in spec.md §3: the
// ordered, deduplicated set of (path, contents) pairs the Matcher
// scores log lines against. Expansion uses doublestar so that include
// and exclude patterns may use "**" the way dtail's own file-discovery
// code expects globs to behave.
package corpus

import (
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v3"

	"github.com/mimecast/retread/internal/dlog"
)

// File is one entry of the corpus: a source path and its full contents.
type File struct {
	Path     string
	Contents string
}

// Build expands include, subtracts any path matched by exclude, reads
// every remaining file, and returns the corpus in deterministic
// (lexicographic-by-path) order. A file that fails to read is dropped
// with a diagnostic; it is not a fatal error for the corpus as a whole
// (spec.md §7 CorpusError).
func Build(include, exclude []string) []File {
	paths := expand(include, exclude)

	corpus := make([]File, 0, len(paths))
	for _, path := range paths {
		contents, err := os.ReadFile(path)
		if err != nil {
			dlog.Warn("dropping unreadable corpus file", path, err)
			continue
		}
		corpus = append(corpus, File{Path: path, Contents: string(contents)})
	}
	return corpus
}

func expand(include, exclude []string) []string {
	seen := make(map[string]struct{})
	for _, pattern := range include {
		matches, err := doublestar.Glob(pattern)
		if err != nil {
			dlog.Warn("invalid include pattern", pattern, err)
			continue
		}
		for _, m := range matches {
			if excluded(m, exclude) {
				continue
			}
			seen[m] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func excluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		ok, err := doublestar.Match(pattern, path)
		if err != nil {
			dlog.Warn("invalid exclude pattern", pattern, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
