package batch

import "testing"

func TestChunkSplitsInOrder(t *testing.T) {
	items := make([]int, 250)
	for i := range items {
		items[i] = i + 1
	}

	chunks := Chunk(items, 100)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	for i, want := range []int{100, 100, 50} {
		if len(chunks[i]) != want {
			t.Fatalf("chunk %d size = %d, want %d", i, len(chunks[i]), want)
		}
	}

	n := 1
	for _, c := range chunks {
		for _, v := range c {
			if v != n {
				t.Fatalf("value = %d, want %d", v, n)
			}
			n++
		}
	}
}

func TestChunkExactMultiple(t *testing.T) {
	chunks := Chunk([]string{"a", "b", "c", "d"}, 2)
	if len(chunks) != 2 || len(chunks[0]) != 2 || len(chunks[1]) != 2 {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestChunkEmpty(t *testing.T) {
	if chunks := Chunk([]int(nil), 10); chunks != nil {
		t.Fatalf("chunks = %v, want nil", chunks)
	}
}

func TestChunkSizeBelowOne(t *testing.T) {
	chunks := Chunk([]int{1, 2, 3}, 0)
	if len(chunks) != 1 || len(chunks[0]) != 3 {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestChunkRestartable(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	first := Chunk(items, 2)
	second := Chunk(items, 2)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("chunks differ at %d/%d", i, j)
			}
		}
	}
}
