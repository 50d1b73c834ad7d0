package extract

import "strings"

// DefaultChunkSize is the number of words per chunk sent to the generator.
const DefaultChunkSize = 1000

// ChunkWords splits text on whitespace and groups the words into chunks of
// at most size words, preserving the original order. Concatenating the words
// of all chunks reproduces the input word sequence exactly. Empty or
// whitespace-only text yields no chunks.
func ChunkWords(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
