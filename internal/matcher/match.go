package matcher

import (
	"strings"
	"sync"

	"github.com/mimecast/retread/internal/corpus"
)

// LogMatch is the best source location found for a LogLineSearch:
// the corpus file it landed in, the 1-based line number within that
// file, and the TokenLCS score that won. Grounded on
// original_source/src/log_search.rs's LogMatch struct.
type LogMatch struct {
	File  string
	Line  int
	Score int
}

// bestInFile scores every line of file against search and returns the
// single best-scoring line, or nil if file cannot possibly contain a
// match. Grounded on log_search.rs's best_match_in_file.
func bestInFile(file corpus.File, search LogLineSearch) *LogMatch {
	if search.Func != nil && !strings.Contains(file.Contents, *search.Func) {
		return nil
	}

	lines := splitLines(file.Contents)
	if len(lines) == 0 {
		return nil
	}

	if search.Line != nil {
		i := *search.Line - 1
		if i < 0 || i >= len(lines) {
			return nil
		}
		return &LogMatch{File: file.Path, Line: *search.Line, Score: TokenLCS(lines[i], search.Message)}
	}

	bestLine, bestScore := 0, -1
	for i, line := range lines {
		score := TokenLCS(line, search.Message)
		if score > bestScore {
			bestScore, bestLine = score, i
		}
	}
	return &LogMatch{File: file.Path, Line: bestLine + 1, Score: bestScore}
}

func splitLines(contents string) []string {
	lines := strings.Split(contents, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// bestInCorpus fans best-in-file scoring out across pool, one task
// per corpus file, then picks the single best LogMatch. Ties are
// broken deterministically by corpus order (earliest file wins, and
// within bestInFile, earliest line wins) regardless of which goroutine
// happens to finish first: results are collected into a slice indexed
// by corpus position and scanned in that fixed order, so only a
// strictly greater score ever replaces the current best. Grounded on
// log_search.rs's search_files, minus its rayon par_bridge (replaced
// by an explicit pond.WorkerPool so fan-out width is configurable).
func bestInCorpus(files []corpus.File, search LogLineSearch, pool workerPool) *LogMatch {
	if search.File != nil {
		filtered := files[:0:0]
		for _, f := range files {
			if f.Path == *search.File {
				filtered = append(filtered, f)
			}
		}
		files = filtered
	}

	results := make([]*LogMatch, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		i, f := i, f
		wg.Add(1)
		pool.submit(func() {
			defer wg.Done()
			results[i] = bestInFile(f, search)
		})
	}
	wg.Wait()

	var best *LogMatch
	for _, m := range results {
		if m == nil {
			continue
		}
		if best == nil || m.Score > best.Score {
			best = m
		}
	}
	return best
}
