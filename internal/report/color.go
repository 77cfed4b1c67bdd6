// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package report

import (
	"github.com/fatih/color"
)

// Shared color printers.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// Status labels used in summaries.
const (
	StatusOK      = "ok"
	StatusFailed  = "FAILED"
	StatusSkipped = "skipped"
	StatusPartial = "PARTIAL"
)

// ColorStatus colors an upload status label.
func ColorStatus(val string) string {
	switch val {
	case StatusFailed:
		return colorRed.Sprint(val)
	case StatusPartial, StatusSkipped:
		return colorYellow.Sprint(val)
	case StatusOK:
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}
