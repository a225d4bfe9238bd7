// Package batch provides slice chunking for APIs with payload-size limits.
package batch

// Chunk splits items into contiguous slices of at most size elements,
// preserving order. The final chunk may be shorter. The chunks share the
// backing array of items; callers must not modify them. A size below 1
// yields the whole input as a single chunk.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size < 1 {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
