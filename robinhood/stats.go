package robinhood

// Stats holds a snapshot of a table's occupancy and probe
// lengths.
type Stats struct {
	Len      int
	Capacity int

	// LoadFactor holds Len/Capacity, or zero for an
	// unallocated table.
	LoadFactor float64

	// MaxDisplacement holds the largest distance of any
	// entry from its ideal bucket. A lookup for a present key
	// inspects at most MaxDisplacement+1 slots.
	MaxDisplacement int

	// MeanDisplacement holds the average distance of the
	// entries from their ideal buckets.
	MeanDisplacement float64
}

// Stats returns statistics about the table. It takes time
// proportional to the table's capacity.
func (t *Table[K, V, H, P]) Stats() Stats {
	var st Stats
	if t == nil || !t.store.allocated() {
		return st
	}
	st.Len = t.length
	st.Capacity = t.store.capacity
	st.LoadFactor = float64(t.length) / float64(t.store.capacity)
	if t.length == 0 {
		return st
	}
	total := 0
	for i := range t.store.capacity {
		s := t.store.at(i)
		if s.empty() {
			continue
		}
		d := s.displacement()
		total += d
		st.MaxDisplacement = max(st.MaxDisplacement, d)
	}
	st.MeanDisplacement = float64(total) / float64(t.length)
	return st
}
