package chunker

import "unicode"

// Chunker splits course text into overlapping chunks. Sizes are measured in
// runes so multi-byte text never splits mid-character. Splitting is
// deterministic: identical input always yields identical chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

func New(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 || overlap >= chunkSize {
		// An overlap that swallows the whole budget would stall the scan.
		overlap = 0
	}
	return &Chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Split segments text greedily on sentence boundaries up to the chunk budget,
// hard-splitting at the budget when no boundary fits. Each chunk begins with
// the last overlap runes of its predecessor, so retrieval keeps context that
// straddles a split point. Concatenating every chunk minus its leading
// overlap reproduces the input exactly.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen == 0 {
		return nil
	}
	if totalLen <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < totalLen {
		end := start + c.chunkSize
		if end >= totalLen {
			end = totalLen
		} else if b := lastSentenceEnd(runes[start:end]); b > c.overlap {
			// Prefer ending the chunk at a sentence boundary, as long as
			// that still moves the scan past the overlap region.
			end = start + b
		}

		chunks = append(chunks, string(runes[start:end]))

		if end == totalLen {
			break
		}
		start = end - c.overlap
	}

	return chunks
}

// lastSentenceEnd returns the length of the longest prefix of runes ending
// just after a sentence terminator, or 0 if there is none.
func lastSentenceEnd(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if !isSentenceTerminator(runes[i]) {
			continue
		}
		// A terminator ends a sentence when it is last in the window or
		// followed by whitespace.
		if i == len(runes)-1 || unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}
	return 0
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '\n'
}
