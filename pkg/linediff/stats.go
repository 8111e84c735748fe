package linediff

// Statistics is the per-invocation summary. Counters count output records:
// a paired record (Unchanged, Modified, Moved) consumes one line from each
// side, an Added or Removed record consumes one line from one side. Created
// fresh per invocation and never persisted across them.
type Statistics struct {
	Added     int
	Removed   int
	Modified  int
	Moved     int
	Unchanged int

	OldLines int
	NewLines int

	CacheHits   int64
	CacheMisses int64
}

// Total returns the number of classification records.
func (s Statistics) Total() int {
	return s.Added + s.Removed + s.Modified + s.Moved + s.Unchanged
}

// Consistent checks the completeness invariant: every old-side and new-side
// line is accounted for exactly once across all records.
func (s Statistics) Consistent() bool {
	paired := s.Modified + s.Moved + s.Unchanged

	return s.Added+s.Removed+2*paired == s.OldLines+s.NewLines
}
