// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package notify

import (
	"fmt"

	"github.com/davetashner/resultpush/internal/upload"
)

// FromReport summarises an upload session as a commit status.
func FromReport(r *upload.Report) Status {
	if r == nil {
		return Status{State: StateSuccess, Description: "Upload skipped"}
	}
	var sent, failed int
	tools := make(map[string]bool)
	for _, c := range r.Calls {
		if c.Err != nil {
			failed++
			continue
		}
		if c.Kind == upload.CallResults {
			sent += c.Items
			tools[c.Target] = true
		}
	}

	if r.ConfigErr != nil {
		return Status{State: StateError, Description: "Could not read the project configuration"}
	}
	if failed > 0 {
		return Status{
			State:       StateFailure,
			Description: fmt.Sprintf("%d of %d upload calls failed", failed, len(r.Calls)),
		}
	}
	return Status{
		State:       StateSuccess,
		Description: fmt.Sprintf("Uploaded %d results from %d tools", sent, len(tools)),
	}
}
