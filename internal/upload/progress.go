// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package upload

// Progress observes the remote calls of a session. Increment is called from
// concurrent goroutines, once per settled call.
type Progress interface {
	Start(total int)
	Increment()
	Done()
}

// NoProgress discards progress events. It is the default of an Uploader.
var NoProgress Progress = noopProgress{}

type noopProgress struct{}

func (noopProgress) Start(int)  {}
func (noopProgress) Increment() {}
func (noopProgress) Done()      {}
