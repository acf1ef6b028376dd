package chunk

// splitFixed slides a window of size runes across the content,
// advancing by size minus overlap. The last window may be shorter and
// a window reaching the end of the content terminates the scan, so no
// chunk is wholly contained in its predecessor.
func splitFixed(content string, size, overlap int) []Chunk {
	runes := []rune(content)
	stride := size - overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, newChunk(len(chunks), string(runes[start:end]), start, end))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
