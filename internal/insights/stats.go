package insights

import (
	"math"

	"github.com/swaroski/ai-shelves/internal/library"
)

const topGenreLimit = 5

// GenreShare is a histogram bucket with its share of the whole collection.
type GenreShare struct {
	Genre      string `json:"genre"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// CollectionStats aggregates one collection.
type CollectionStats struct {
	Total     int                  `json:"total"`
	Available int                  `json:"available"`
	Borrowed  int                  `json:"borrowed"`
	Genres    []library.GenreCount `json:"genres"`
	TopGenres []GenreShare         `json:"topGenres"`
}

// ComputeStats counts availability and ranks genres by count descending.
func ComputeStats(books []library.Book) CollectionStats {
	stats := CollectionStats{Total: len(books)}
	for _, book := range books {
		if book.IsAvailable {
			stats.Available++
		} else {
			stats.Borrowed++
		}
	}
	stats.Genres = library.GenreHistogram(books)

	top := stats.Genres
	if len(top) > topGenreLimit {
		top = top[:topGenreLimit]
	}
	stats.TopGenres = make([]GenreShare, 0, len(top))
	for _, bucket := range top {
		stats.TopGenres = append(stats.TopGenres, GenreShare{
			Genre:      bucket.Genre,
			Count:      bucket.Count,
			Percentage: percentage(bucket.Count, len(books)),
		})
	}
	return stats
}

func percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
