// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package report

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/davetashner/resultpush/internal/upload"
)

// ProgressBar draws the remote calls of an upload session as a terminal
// progress bar. It is safe for concurrent Increment calls.
type ProgressBar struct {
	writer      io.Writer
	description string

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewProgress returns a progress bar on stderr when enabled and stderr is a
// terminal, and upload.NoProgress otherwise.
func NewProgress(enabled bool) upload.Progress {
	if enabled && IsInteractive(os.Stderr) {
		return NewProgressBar(os.Stderr, "Uploading")
	}
	return upload.NoProgress
}

// NewProgressBar returns a ProgressBar writing to w.
func NewProgressBar(w io.Writer, description string) *ProgressBar {
	return &ProgressBar{writer: w, description: description}
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start creates the bar for total calls.
func (p *ProgressBar) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// Increment records one settled call.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Done finishes and clears the bar.
func (p *ProgressBar) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Current returns the number of settled calls so far.
func (p *ProgressBar) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return 0
	}
	return p.bar.State().CurrentNum
}
