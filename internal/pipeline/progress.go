package pipeline

import (
	"math"
	"sync"
)

// Percentages emitted at each phase boundary of a push
const (
	ProgressResolve     = 5
	ProgressUploadStart = 10
	ProgressUploadEnd   = 70
	ProgressTree        = 70
	ProgressCommit      = 80
	ProgressRef         = 90
	ProgressDone        = 100
)

// Reporter receives progress updates while a push runs.
// Implementations must return quickly; the push waits for every call.
type Reporter interface {
	Report(percent int, message string)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(percent int, message string)

// Report calls f(percent, message)
func (f ReporterFunc) Report(percent int, message string) {
	f(percent, message)
}

// NopReporter discards every report
var NopReporter Reporter = ReporterFunc(func(int, string) {})

// UploadProgress maps uploaded bytes onto the upload phase's share of the bar.
// A push with no bytes at all jumps straight to the end of the phase.
func UploadProgress(done, total int64) int {
	if total <= 0 {
		return ProgressUploadEnd
	}
	if done > total {
		done = total
	}
	if done < 0 {
		done = 0
	}
	span := float64(ProgressUploadEnd - ProgressUploadStart)
	return ProgressUploadStart + int(math.Round(float64(done)/float64(total)*span))
}

// monotonicReporter serializes reports and never lets the percentage go backwards
type monotonicReporter struct {
	mu      sync.Mutex
	next    Reporter
	highest int
}

func newMonotonicReporter(next Reporter) *monotonicReporter {
	if next == nil {
		next = NopReporter
	}
	return &monotonicReporter{next: next}
}

func (m *monotonicReporter) Report(percent int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if percent > 100 {
		percent = 100
	}
	if percent < m.highest {
		percent = m.highest
	}
	m.highest = percent
	m.next.Report(percent, message)
}
