// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// ProgressBar is an atomically advanced counter rendered as a terminal
// progress bar. Increment is safe for concurrent use; Display and Done are
// expected to be called from a single goroutine.
type ProgressBar struct {
	Label string
	Total uint64

	w       io.Writer
	current uint64
}

func NewProgressBar(label string, total int, w io.Writer) *ProgressBar {
	return &ProgressBar{Label: label, Total: uint64(total), w: w}
}

func (b *ProgressBar) Increment() {
	atomic.AddUint64(&b.current, 1)
}

func (b *ProgressBar) Display() {
	if b.Total == 0 {
		return
	}
	cur := atomic.LoadUint64(&b.current)
	width := 80 - len(b.Label)
	if width < 10 {
		width = 10
	}
	ticks := int(uint64(width) * cur / b.Total)
	if ticks > width {
		ticks = width
	}
	fmt.Fprintf(b.w, "\r%s [%s%s] %d / %d",
		b.Label,
		strings.Repeat("=", ticks), strings.Repeat(" ", width-ticks),
		cur, b.Total)
}

func (b *ProgressBar) Done() {
	if b.Total == 0 {
		return
	}
	fmt.Fprintln(b.w)
}
