package util

import (
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

// ProgressBar draws a single terminal progress bar. A nil *ProgressBar is
// valid and does nothing, so callers may skip drawing without branching.
type ProgressBar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewProgressBar creates a progress bar labelled name which completes
// after total increments. It returns nil when show is false or there is
// nothing to count.
func NewProgressBar(name string, total int, show bool) *ProgressBar {
	if !show || total <= 0 {
		return nil
	}
	p := mpb.New(mpb.WithWidth(20))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("\t[-] "+name+":", decor.WC{W: 30, C: decor.DidentRight}),
			decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return &ProgressBar{progress: p, bar: bar}
}

// Increment advances the bar by one
func (b *ProgressBar) Increment() {
	if b == nil {
		return
	}
	b.bar.IncrBy(1)
}

// Wait blocks until the bar has been drawn to completion. Every one of the
// total increments must have been made before calling Wait.
func (b *ProgressBar) Wait() {
	if b == nil {
		return
	}
	b.progress.Wait()
}
