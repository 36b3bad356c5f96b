package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithName labels the store in metrics, usually the competition id.
func WithName(name string) Option {
	return func(s *TreapStore) {
		if name != "" {
			s.name = name
		}
	}
}

// HistoryOption configures a MemoryHistory.
type HistoryOption func(*MemoryHistory)

// WithRetention caps the snapshots kept per player; older ones are dropped
// first. n <= 0 keeps everything.
//
// Competition gains are measured from the first snapshot stored inside the
// window, so a history serving competitions must retain every snapshot since
// the earliest active competition started. Otherwise standings silently
// measure from a later start.
func WithRetention(n int) HistoryOption {
	return func(h *MemoryHistory) {
		h.retention = n
	}
}
