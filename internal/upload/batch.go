// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package upload

// Plan splits items into consecutive batches of at most size elements,
// preserving order. The last batch holds the remainder. An empty input yields
// no batches. A size of zero or less puts every item in a single batch.
func Plan[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches
}
