// Package chunk segments documents into overlapping windows for
// downstream indexing and generation. Three strategies are supported:
// a fixed-size sliding window, paragraph-aware accumulation with
// overlap seeding, and sentence-aware accumulation.
package chunk

import (
	"errors"

	"github.com/google/uuid"
)

// Strategy selects how a document is segmented.
type Strategy string

const (
	// FixedWindow slides a fixed-size window across the content,
	// advancing by size minus overlap each step.
	FixedWindow Strategy = "fixed_window"
	// Paragraph accumulates blank-line separated paragraphs up to the
	// size limit, seeding each new chunk with the tail of the previous
	// one so boundary context is preserved.
	Paragraph Strategy = "paragraph"
	// Sentence accumulates sentences up to the size limit with no
	// prefix duplication.
	Sentence Strategy = "sentence"
)

// Chunk is one ordered segment of a document. Offsets are rune
// positions into the original content; for the paragraph strategy the
// seeded prefix makes StartOffset approximate by up to the overlap.
type Chunk struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Index       int    `json:"chunk_index"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// Config controls a Split call. Size and Overlap are measured in runes.
type Config struct {
	Strategy Strategy
	Size     int
	Overlap  int
}

var (
	// ErrInvalidSize is returned when the chunk size is not positive.
	ErrInvalidSize = errors.New("chunk: size must be positive")
	// ErrInvalidOverlap is returned when the overlap is negative or not
	// smaller than the size.
	ErrInvalidOverlap = errors.New("chunk: overlap must be non-negative and smaller than size")
	// ErrUnknownStrategy is returned for a strategy this package does
	// not implement.
	ErrUnknownStrategy = errors.New("chunk: unknown strategy")
)

// Split segments content under the configured strategy. Empty content
// yields no chunks. Chunk indexes are zero-based and contiguous and the
// final partial buffer, when non-empty, is always flushed.
func Split(content string, cfg Config) ([]Chunk, error) {
	if cfg.Size <= 0 {
		return nil, ErrInvalidSize
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return nil, ErrInvalidOverlap
	}
	if content == "" {
		return nil, nil
	}

	switch cfg.Strategy {
	case FixedWindow:
		return splitFixed(content, cfg.Size, cfg.Overlap), nil
	case Paragraph:
		return splitParagraphs(content, cfg.Size, cfg.Overlap), nil
	case Sentence:
		return splitSentences(content, cfg.Size), nil
	default:
		return nil, ErrUnknownStrategy
	}
}

func newChunk(index int, content string, start, end int) Chunk {
	return Chunk{
		ID:          uuid.NewString(),
		Content:     content,
		Index:       index,
		StartOffset: start,
		EndOffset:   end,
	}
}
