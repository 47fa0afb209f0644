package chunker

import (
	"docuchat/internal/models"
)

// Split windows each page's text into chunks of up to size characters,
// advancing by size-overlap, and tags them with the page's source metadata.
// Chunk ids come from a single counter spanning all pages, so one ingest
// run produces a contiguous 0-based id sequence. Chunks never cross page
// boundaries. For identical input and parameters the output is identical.
func Split(pages []models.PageText, size, overlap int) []models.Chunk {
	if size <= 0 {
		size = models.DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []models.Chunk
	id := 0
	for _, p := range pages {
		text := []rune(p.Text)
		if len(text) == 0 {
			continue
		}
		for start := 0; ; start += size - overlap {
			end := start + size
			if end > len(text) {
				end = len(text)
			}
			chunks = append(chunks, models.Chunk{
				Content:    string(text[start:end]),
				Source:     p.Source,
				PageNumber: p.Page,
				ChunkID:    id,
			})
			id++
			// The next window would only repeat overlap already emitted.
			if start+size >= len(text) {
				break
			}
		}
	}
	return chunks
}
