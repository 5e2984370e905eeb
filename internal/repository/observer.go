package repository

import "time"

// QueryObserver receives the latency of finished storage operations, keyed
// by a stable label per operation. A nil observer disables instrumentation.
type QueryObserver interface {
	ObserveDBQuery(label string, elapsed time.Duration)
}

func observeQuery(observer QueryObserver, label string, start time.Time) {
	if observer != nil {
		observer.ObserveDBQuery(label, time.Since(start))
	}
}
