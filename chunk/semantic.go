package chunk

import (
	"strings"
)

// segment is a paragraph or sentence with its rune offset in the
// original content.
type segment struct {
	text  string
	start int
}

// splitParagraphs accumulates blank-line separated paragraphs until
// adding the next one would exceed size, then closes the chunk and
// seeds the next buffer with the trailing overlap runes of the closed
// chunk plus the paragraph that triggered the split.
func splitParagraphs(content string, size, overlap int) []Chunk {
	segments := paragraphSegments(content)

	var chunks []Chunk
	var buf strings.Builder
	bufStart := 0
	seeded := 0 // rune length of the seed prefix in buf

	flush := func(end int) {
		if buf.Len() == 0 {
			return
		}
		start := bufStart - seeded
		if start < 0 {
			start = 0
		}
		chunks = append(chunks, newChunk(len(chunks), buf.String(), start, end))
	}

	for _, seg := range segments {
		if buf.Len() == 0 {
			buf.WriteString(seg.text)
			bufStart = seg.start
			seeded = 0
			continue
		}
		candidate := buf.String() + "\n\n" + seg.text
		if len([]rune(candidate)) <= size {
			buf.WriteString("\n\n")
			buf.WriteString(seg.text)
			continue
		}

		closed := buf.String()
		flush(seg.start)

		buf.Reset()
		seed := tail(closed, overlap)
		if seed != "" {
			buf.WriteString(seed)
			buf.WriteString("\n\n")
		}
		buf.WriteString(seg.text)
		bufStart = seg.start
		seeded = len([]rune(seed))
	}
	flush(len([]rune(content)))
	return chunks
}

// splitSentences accumulates sentences until adding the next one would
// exceed size. No seeding: each sentence appears in exactly one chunk.
func splitSentences(content string, size int) []Chunk {
	segments := sentenceSegments(content)

	var chunks []Chunk
	var buf strings.Builder
	bufStart := 0

	flush := func(end int) {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, newChunk(len(chunks), buf.String(), bufStart, end))
	}

	for _, seg := range segments {
		if buf.Len() == 0 {
			buf.WriteString(seg.text)
			bufStart = seg.start
			continue
		}
		candidate := buf.String() + " " + seg.text
		if len([]rune(candidate)) <= size {
			buf.WriteString(" ")
			buf.WriteString(seg.text)
			continue
		}
		flush(seg.start)
		buf.Reset()
		buf.WriteString(seg.text)
		bufStart = seg.start
	}
	flush(len([]rune(content)))
	return chunks
}

// paragraphSegments splits on blank lines, keeping each paragraph's
// rune offset.
func paragraphSegments(content string) []segment {
	runes := []rune(content)
	var segments []segment
	start := 0
	i := 0
	for i < len(runes) {
		if runes[i] == '\n' && blankLineAt(runes, i) {
			if text := strings.TrimSpace(string(runes[start:i])); text != "" {
				segments = append(segments, segment{text: text, start: start})
			}
			for i < len(runes) && (runes[i] == '\n' || runes[i] == ' ' || runes[i] == '\t' || runes[i] == '\r') {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if text := strings.TrimSpace(string(runes[start:])); text != "" {
		segments = append(segments, segment{text: text, start: start})
	}
	return segments
}

// blankLineAt reports whether the newline at i is followed, after
// optional horizontal whitespace, by another newline.
func blankLineAt(runes []rune, i int) bool {
	j := i + 1
	for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\r') {
		j++
	}
	return j < len(runes) && runes[j] == '\n'
}

// sentenceSegments splits after sentence-ending punctuation followed by
// whitespace or end of content.
func sentenceSegments(content string) []segment {
	runes := []rune(content)
	var segments []segment
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) {
			continue
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue
		}
		if text := strings.TrimSpace(string(runes[start : i+1])); text != "" {
			segments = append(segments, segment{text: text, start: start})
		}
		i++
		for i < len(runes) && isSpace(runes[i]) {
			i++
		}
		start = i
		i--
	}
	if start < len(runes) {
		if text := strings.TrimSpace(string(runes[start:])); text != "" {
			segments = append(segments, segment{text: text, start: start})
		}
	}
	return segments
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
