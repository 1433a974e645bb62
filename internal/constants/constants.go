// Package constants holds the small set of tunables shared across the
// adapter: cache sizing, worker pool sizing and channel buffer depths.
package constants

const (
	// MatchCacheSize is the minimum number of entries the Matcher's
	// memoization cache must hold, per spec.md §4.1/§9.
	MatchCacheSize = 10_000

	// CorpusWorkers bounds the fork-join pool used to score a log line
	// against every file in the source corpus concurrently.
	CorpusWorkers = 0 // 0 means "size to runtime.NumCPU()", see matcher.New

	// InboundQueueCapacity is the buffered capacity of the Transport's
	// inbound request queue. Sized generously so that, in practice, the
	// queue never blocks the background reader.
	InboundQueueCapacity = 4096

	// OutboundLogRingSize is how many diagnostic records dlog buffers
	// before a Sink (the Transport) is registered.
	OutboundLogRingSize = 256
)
