// Package history keeps the bounded, newest-first list of samples and
// derives from it the padded per-keyword series that templates read.
package history

import (
	"fmt"
	"sort"

	"gitlab.com/tinyland/lab/system-graph/metrics"
)

// DefaultMaxPoints is the number of data points kept when no other value is
// configured.
const DefaultMaxPoints = 25

// FileVersion is the version of the persisted history layout.
const FileVersion = 1

// History is an ordered list of samples, newest first. It holds at most
// maxPoints+1 samples so that the oldest retained point still has an older
// neighbour to compute its delta against.
type History struct {
	maxPoints int
	samples   []metrics.Sample
}

// New returns a history bounded by maxPoints. The samples may be in any
// order; they are sorted newest first by timestamp, keeping the input order
// of samples with equal timestamps.
func New(maxPoints int, samples []metrics.Sample) *History {
	if maxPoints < 1 {
		maxPoints = 1
	}
	sorted := make([]metrics.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	h := &History{maxPoints: maxPoints, samples: sorted}
	h.trim(maxPoints + 1)
	return h
}

// Push adds s as the newest sample and drops the oldest samples beyond
// maxPoints+1.
func (h *History) Push(s metrics.Sample) {
	h.samples = append([]metrics.Sample{s}, h.samples...)
	h.trim(h.maxPoints + 1)
}

func (h *History) trim(n int) {
	if len(h.samples) > n {
		h.samples = h.samples[:n]
	}
}

// MaxPoints returns the configured number of data points.
func (h *History) MaxPoints() int { return h.maxPoints }

// Len returns the number of samples currently held.
func (h *History) Len() int { return len(h.samples) }

// Samples returns a copy of all held samples, newest first.
func (h *History) Samples() []metrics.Sample {
	out := make([]metrics.Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Newest returns the most recent sample.
func (h *History) Newest() (metrics.Sample, bool) {
	if len(h.samples) == 0 {
		return metrics.Sample{}, false
	}
	return h.samples[0], true
}

// Retained returns the newest maxPoints samples. This is what gets persisted.
func (h *History) Retained() []metrics.Sample {
	n := len(h.samples)
	if n > h.maxPoints {
		n = h.maxPoints
	}
	out := make([]metrics.Sample, n)
	copy(out, h.samples[:n])
	return out
}

// File is the persisted history layout.
type File struct {
	Version int              `json:"version"`
	Samples []metrics.Sample `json:"samples"`
}

// ToFile returns the persisted form of h.
func (h *History) ToFile() *File {
	return &File{Version: FileVersion, Samples: h.Retained()}
}

// FromFile rebuilds a history from its persisted form.
func FromFile(f *File, maxPoints int) (*History, error) {
	if f == nil {
		return New(maxPoints, nil), nil
	}
	if f.Version != FileVersion {
		return nil, fmt.Errorf("history: unsupported file version %d", f.Version)
	}
	return New(maxPoints, f.Samples), nil
}
