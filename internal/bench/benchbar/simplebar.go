// Package benchbar wraps a progress bar for the benchmark workloads.
package benchbar

import (
	"github.com/schollz/progressbar/v3"
)

// Bar tracks the progress of a single benchmark phase.
type Bar struct {
	pb *progressbar.ProgressBar
}

// NewBar returns a started bar with maxItems steps.
func NewBar(description string, maxItems int) *Bar {
	pb := progressbar.Default(int64(maxItems), description)
	_ = pb.Set(0)

	return &Bar{pb: pb}
}

// Inc advances the bar by one step.
func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

// Finish completes and releases the bar.
func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
