package matcher

import (
	"regexp"
	"runtime"
	"sync"

	"github.com/mimecast/retread/internal/constants"
	"github.com/mimecast/retread/internal/corpus"
)

// Matcher is the session-lifetime facade the replay state machine
// calls into: given a captured log line it returns the best-scoring
// source location, memoized so repeated steps over the same line
// (StepBack then Continue again, say) don't re-run the fan-out.
type Matcher struct {
	pattern *regexp.Regexp
	corpus  []corpus.File
	cache   *cache
	pool    workerPool

	stopOnce sync.Once
}

// New builds a Matcher over a fixed corpus and compiled log_pattern.
// Fan-out width defaults to runtime.NumCPU() (constants.CorpusWorkers
// == 0 means "size to the runtime", matching dtail's own worker-pool
// sizing convention).
func New(pattern *regexp.Regexp, files []corpus.File) *Matcher {
	workers := constants.CorpusWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Matcher{
		pattern: pattern,
		corpus:  files,
		cache:   newCache(constants.MatchCacheSize),
		pool:    newWorkerPool(workers),
	}
}

// Best parses logLine against the Matcher's log_pattern and returns
// the best-scoring corpus line, or nil if no corpus file yields a
// candidate line. A returned match may have Score 0; callers that
// need a real match check the score. A parse failure
// (ErrUnparsableLine, ErrMissingMessage, ErrBadLineNumber) is
// returned as-is, never cached:
// it is the caller's job to decide whether an unparsable line is
// fatal or simply skipped.
func (m *Matcher) Best(logLine string) (*LogMatch, error) {
	search, err := ParseLine(m.pattern, logLine)
	if err != nil {
		return nil, err
	}
	return m.cache.getOrCompute(logLine, func() (*LogMatch, error) {
		return bestInCorpus(m.corpus, search, m.pool), nil
	})
}

// Stop releases the Matcher's worker pool. Safe to call more than
// once (Replay.Shutdown reaches it from both handleDisconnect and the
// cleanup in main after the session loop returns).
func (m *Matcher) Stop() {
	m.stopOnce.Do(m.pool.stop)
}
