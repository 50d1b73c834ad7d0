package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkWords_SplitsOnBoundaries(t *testing.T) {
	text := makeWords(2500)

	chunks := ChunkWords(text, 1000)

	require.Len(t, chunks, 3)
	require.Len(t, strings.Fields(chunks[0]), 1000)
	require.Len(t, strings.Fields(chunks[1]), 1000)
	require.Len(t, strings.Fields(chunks[2]), 500)
}

func TestChunkWords_PreservesWordSequence(t *testing.T) {
	text := makeWords(2500)

	chunks := ChunkWords(text, 1000)

	require.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
}

func TestChunkWords_Idempotent(t *testing.T) {
	text := "one two\tthree\nfour  five"

	first := ChunkWords(text, 2)
	second := ChunkWords(text, 2)

	require.Equal(t, first, second)
	require.Equal(t, []string{"one two", "three four", "five"}, first)
}

func TestChunkWords_EmptyText(t *testing.T) {
	require.Nil(t, ChunkWords("", 1000))
	require.Nil(t, ChunkWords("   \n\t ", 1000))
}

func TestChunkWords_ZeroSizeUsesDefault(t *testing.T) {
	chunks := ChunkWords(makeWords(DefaultChunkSize+1), 0)
	require.Len(t, chunks, 2)
}
