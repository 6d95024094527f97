package library

import (
	"context"
	"sort"
)

const (
	popularGenreLimit   = 5
	recentBorrowingSize = 5
)

// Stats aggregates availability, the top genres and the most recent borrowings of the scope.
func (s *Service) Stats(ctx context.Context, scope Scope) (Stats, error) {
	books, err := s.ListAll(ctx, scope)
	if err != nil {
		return Stats{}, err
	}
	records, err := s.ListBorrowings(ctx, scope)
	if err != nil {
		return Stats{}, err
	}

	now := s.clock()
	stats := Stats{TotalBooks: len(books)}
	for _, book := range books {
		if book.IsAvailable {
			stats.AvailableBooks++
			continue
		}
		stats.BorrowedBooks++
		if book.IsOverdue(now) {
			stats.OverdueBooks++
		}
	}

	genres := GenreHistogram(books)
	if len(genres) > popularGenreLimit {
		genres = genres[:popularGenreLimit]
	}
	stats.PopularGenres = genres

	recent := make([]BorrowingRecord, len(records))
	copy(recent, records)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].BorrowedDate.After(recent[j].BorrowedDate)
	})
	if len(recent) > recentBorrowingSize {
		recent = recent[:recentBorrowingSize]
	}
	stats.RecentBorrowings = recent
	return stats, nil
}

// GenreHistogram counts books per genre, sorted by count descending.
// Ties keep the order in which each genre first appears.
func GenreHistogram(books []Book) []GenreCount {
	index := make(map[string]int)
	counts := make([]GenreCount, 0)
	for _, book := range books {
		position, ok := index[book.Genre]
		if !ok {
			index[book.Genre] = len(counts)
			counts = append(counts, GenreCount{Genre: book.Genre, Count: 1})
			continue
		}
		counts[position].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
