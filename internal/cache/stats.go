package cache

// Stats counts cache activity since construction.
//
// Fields are modified under the Cache mutex; Cache.Stats returns a copy.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Sets          uint64
	Invalidations uint64
	Discards      uint64 // snapshots not stored by Commit
}

// HitRatio returns Hits / (Hits + Misses), or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
