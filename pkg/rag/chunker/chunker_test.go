package chunker

import (
	"strings"
	"testing"
)

func TestSplitDegenerateInputs(t *testing.T) {
	c := New(100, 20)

	if got := c.Split(""); got != nil {
		t.Errorf("empty document should yield no chunks, got %d", len(got))
	}

	short := "A single short sentence."
	got := c.Split(short)
	if len(got) != 1 || got[0] != short {
		t.Errorf("short document should yield one identical chunk, got %v", got)
	}
}

func TestSplitExactBudgetYieldsOneChunk(t *testing.T) {
	c := New(50, 10)
	text := strings.Repeat("a", 50)

	got := c.Split(text)
	if len(got) != 1 {
		t.Fatalf("document of exactly chunkSize runes should yield 1 chunk, got %d", len(got))
	}
	if got[0] != text {
		t.Errorf("chunk should equal input verbatim")
	}
}

func TestSplitRespectsBudgetAndOverlap(t *testing.T) {
	c := New(80, 15)
	text := strings.Repeat("Lesson content keeps going with more detail. ", 20)

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("long document should produce multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 80 {
			t.Errorf("chunk %d has %d runes, exceeds budget", i, n)
		}
	}

	// Consecutive chunks share exactly the configured overlap.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		tail := string(prev[len(prev)-15:])
		head := string(cur[:15])
		if tail != head {
			t.Errorf("chunk %d overlap mismatch: tail %q vs head %q", i, tail, head)
		}
	}
}

func TestSplitReconstructsDocument(t *testing.T) {
	c := New(60, 12)
	text := "First sentence here. Second one follows. A third, somewhat longer sentence continues the lesson. " +
		"Fourth sentence! Fifth sentence? The final sentence closes the lesson with extra words to force splits."

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		runes := []rune(chunk)
		rebuilt.WriteString(string(runes[12:]))
	}
	if rebuilt.String() != text {
		t.Errorf("concatenating chunks minus overlap should reconstruct the document")
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	c := New(70, 10)
	text := strings.Repeat("Deterministic chunking matters for reindexing. ", 12)

	first := c.Split(text)
	second := c.Split(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitMultiByteText(t *testing.T) {
	c := New(30, 5)
	text := strings.Repeat("日本語のテキストです。", 15)

	chunks := c.Split(text)
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 30 {
			t.Errorf("chunk %d has %d runes, exceeds budget", i, n)
		}
		if !strings.Contains(text, chunk) {
			t.Errorf("chunk %d is not a contiguous slice of the input", i)
		}
	}
}

func TestNewSanitizesOverlap(t *testing.T) {
	// Overlap >= chunkSize would stall the scan; it must be dropped.
	c := New(10, 10)
	text := strings.Repeat("abcdefghij", 5)

	chunks := c.Split(text)
	if len(chunks) != 5 {
		t.Errorf("sanitized chunker should step a full budget, got %d chunks", len(chunks))
	}
}
