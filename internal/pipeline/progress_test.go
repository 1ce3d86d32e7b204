package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadProgress(t *testing.T) {
	tests := []struct {
		done, total int64
		expected    int
	}{
		{0, 100, 10},
		{50, 100, 40},
		{100, 100, 70},
		{1, 3, 30},
		{2, 3, 50},
		{0, 0, 70},
		{200, 100, 70},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, UploadProgress(tt.done, tt.total), "done=%d total=%d", tt.done, tt.total)
	}
}

func TestMonotonicReporter(t *testing.T) {
	var got []int
	reporter := newMonotonicReporter(ReporterFunc(func(percent int, _ string) {
		got = append(got, percent)
	}))

	for _, p := range []int{5, 10, 40, 30, 70, 120} {
		reporter.Report(p, "")
	}
	require.Equal(t, []int{5, 10, 40, 40, 70, 100}, got)
}

func TestMonotonicReporterConcurrent(t *testing.T) {
	var mu sync.Mutex
	var got []int
	reporter := newMonotonicReporter(ReporterFunc(func(percent int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, percent)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reporter.Report(i, "")
		}()
	}
	wg.Wait()

	require.Len(t, got, 50)
	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i], got[i-1])
	}
}

func TestNilReporter(t *testing.T) {
	require.NotPanics(t, func() {
		newMonotonicReporter(nil).Report(50, "halfway")
	})
}
