package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitConfig(t *testing.T) {
	t.Run("size must be positive", func(t *testing.T) {
		_, err := Split("abc", Config{Strategy: FixedWindow, Size: 0})
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("overlap must be smaller than size", func(t *testing.T) {
		_, err := Split("abc", Config{Strategy: FixedWindow, Size: 10, Overlap: 10})
		assert.ErrorIs(t, err, ErrInvalidOverlap)

		_, err = Split("abc", Config{Strategy: FixedWindow, Size: 10, Overlap: -1})
		assert.ErrorIs(t, err, ErrInvalidOverlap)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := Split("abc", Config{Strategy: "semantic", Size: 10})
		assert.ErrorIs(t, err, ErrUnknownStrategy)
	})

	t.Run("empty content yields no chunks", func(t *testing.T) {
		chunks, err := Split("", Config{Strategy: FixedWindow, Size: 10})
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})
}

func TestFixedWindow(t *testing.T) {
	t.Run("zero overlap round trips", func(t *testing.T) {
		content := strings.Repeat("abcdefghij", 25) // 250 runes
		chunks, err := Split(content, Config{Strategy: FixedWindow, Size: 80})
		require.NoError(t, err)

		var rebuilt strings.Builder
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			rebuilt.WriteString(c.Content)
		}
		assert.Equal(t, content, rebuilt.String())
	})

	t.Run("overlap duplicates the boundary", func(t *testing.T) {
		content := strings.Repeat("0123456789", 40) // 400 runes
		const overlap = 30
		chunks, err := Split(content, Config{Strategy: FixedWindow, Size: 100, Overlap: overlap})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for i := 0; i < len(chunks)-1; i++ {
			cur := []rune(chunks[i].Content)
			next := []rune(chunks[i+1].Content)
			assert.Equal(t, string(cur[len(cur)-overlap:]), string(next[:overlap]),
				"boundary between chunk %d and %d", i, i+1)
		}
	})

	t.Run("thousand runes size 300 overlap 50", func(t *testing.T) {
		content := strings.Repeat("x", 1000)
		chunks, err := Split(content, Config{Strategy: FixedWindow, Size: 300, Overlap: 50})
		require.NoError(t, err)
		require.Len(t, chunks, 4)

		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.NotEmpty(t, c.ID)
		}
		for i := 1; i < len(chunks); i++ {
			assert.Greater(t, chunks[i].StartOffset, chunks[i-1].StartOffset)
		}
		assert.Equal(t, 750, chunks[3].StartOffset)
		assert.Equal(t, 1000, chunks[3].EndOffset)
	})

	t.Run("short content is a single chunk", func(t *testing.T) {
		chunks, err := Split("tiny", Config{Strategy: FixedWindow, Size: 100, Overlap: 10})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "tiny", chunks[0].Content)
		assert.Equal(t, 0, chunks[0].StartOffset)
		assert.Equal(t, 4, chunks[0].EndOffset)
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		content := strings.Repeat("日本語テキスト処理", 10) // 80 runes
		chunks, err := Split(content, Config{Strategy: FixedWindow, Size: 30})
		require.NoError(t, err)

		var rebuilt strings.Builder
		for _, c := range chunks {
			rebuilt.WriteString(c.Content)
		}
		assert.Equal(t, content, rebuilt.String())
	})
}

func TestParagraph(t *testing.T) {
	t.Run("paragraphs accumulate up to size", func(t *testing.T) {
		content := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."
		chunks, err := Split(content, Config{Strategy: Paragraph, Size: 50, Overlap: 0})
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "First paragraph here.\n\nSecond paragraph here.", chunks[0].Content)
		assert.Equal(t, "Third paragraph here.", chunks[1].Content)
	})

	t.Run("small paragraphs share a chunk", func(t *testing.T) {
		content := "One.\n\nTwo.\n\nThree."
		chunks, err := Split(content, Config{Strategy: Paragraph, Size: 100, Overlap: 0})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "One.\n\nTwo.\n\nThree.", chunks[0].Content)
	})

	t.Run("overlap seeds the next chunk", func(t *testing.T) {
		content := "Alpha paragraph with some words.\n\nBeta paragraph with some words."
		const overlap = 10
		chunks, err := Split(content, Config{Strategy: Paragraph, Size: 40, Overlap: overlap})
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		seed := tail(chunks[0].Content, overlap)
		assert.True(t, strings.HasPrefix(chunks[1].Content, seed+"\n\n"),
			"second chunk should start with the previous chunk's tail")
		assert.True(t, strings.HasSuffix(chunks[1].Content, "Beta paragraph with some words."))
	})

	t.Run("offsets are non-decreasing", func(t *testing.T) {
		content := strings.Repeat("Lorem ipsum dolor sit amet consequat.\n\n", 10)
		chunks, err := Split(content, Config{Strategy: Paragraph, Size: 90, Overlap: 15})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)
		for i := 1; i < len(chunks); i++ {
			assert.GreaterOrEqual(t, chunks[i].StartOffset, chunks[i-1].StartOffset)
		}
	})

	t.Run("trailing buffer is flushed", func(t *testing.T) {
		content := "Long enough paragraph to stand alone in one chunk.\n\nShort tail."
		chunks, err := Split(content, Config{Strategy: Paragraph, Size: 55, Overlap: 0})
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "Short tail.", chunks[1].Content)
	})
}

func TestSentence(t *testing.T) {
	t.Run("sentences accumulate without seeding", func(t *testing.T) {
		content := "First sentence. Second sentence! Third sentence? Fourth."
		chunks, err := Split(content, Config{Strategy: Sentence, Size: 35, Overlap: 0})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		var all string
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.NotEmpty(t, c.Content)
			all += " " + c.Content
		}
		// Every sentence appears exactly once.
		for _, sentence := range []string{"First sentence.", "Second sentence!", "Third sentence?", "Fourth."} {
			assert.Equal(t, 1, strings.Count(all, sentence), sentence)
		}
	})

	t.Run("abbreviation-free splitting keeps punctuation", func(t *testing.T) {
		content := "Hello there. General remark."
		chunks, err := Split(content, Config{Strategy: Sentence, Size: 15, Overlap: 0})
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "Hello there.", chunks[0].Content)
		assert.Equal(t, "General remark.", chunks[1].Content)
	})

	t.Run("content without terminators is one chunk", func(t *testing.T) {
		chunks, err := Split("no punctuation at all", Config{Strategy: Sentence, Size: 10, Overlap: 0})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "no punctuation at all", chunks[0].Content)
	})
}
