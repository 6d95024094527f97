package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/swaroski/ai-shelves/internal/library"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSearcher struct {
	response *Response
	err      error
	requests []SearchRequest
}

func (s *stubSearcher) Search(_ context.Context, request SearchRequest) (*Response, error) {
	s.requests = append(s.requests, request)
	return s.response, s.err
}

var adapterNow = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

func docs(count int) []Doc {
	result := make([]Doc, 0, count)
	for index := 0; index < count; index++ {
		result = append(result, Doc{
			Key:              fmt.Sprintf("/works/OL%dW", index),
			Title:            fmt.Sprintf("Title %d", index),
			AuthorName:       []string{"Author"},
			FirstPublishYear: 1990 + index,
			ISBN:             []string{fmt.Sprintf("isbn-%d", index)},
			Subject:          []string{"Fantasy", "Magic", "Quests", "Dragons"},
		})
	}
	return result
}

func newTestAdapter(searcher Searcher, logger *zap.Logger) *Adapter {
	return NewAdapter(AdapterConfig{
		Searcher: searcher,
		Seed:     7,
		Clock:    func() time.Time { return adapterNow },
		Logger:   logger,
	})
}

func requireAvailabilityInvariant(t *testing.T, books []library.Book) {
	t.Helper()
	for _, book := range books {
		if book.IsAvailable {
			require.Empty(t, book.Borrower, book.ID)
			require.Empty(t, book.DueDate, book.ID)
			require.Nil(t, book.BorrowedDate, book.ID)
			continue
		}
		require.NotEmpty(t, book.Borrower, book.ID)
		require.NotEmpty(t, book.DueDate, book.ID)
		require.NotNil(t, book.BorrowedDate, book.ID)
	}
}

func TestFallbackCatalog(t *testing.T) {
	books := FallbackBooks()
	require.Len(t, books, 45)
	require.GreaterOrEqual(t, len(books), MinimumResults)
	require.Equal(t, "fallback-1", books[0].ID)
	require.Equal(t, "fallback-45", books[44].ID)
	requireAvailabilityInvariant(t, books)

	books[0].Tags[0] = "mutated"
	require.NotEqual(t, "mutated", FallbackBooks()[0].Tags[0])
}

func TestPopularBooksUsesRemoteWhenEnough(t *testing.T) {
	searcher := &stubSearcher{response: &Response{Docs: docs(MinimumResults)}}
	books := newTestAdapter(searcher, nil).PopularBooks(context.Background())

	require.Len(t, books, MinimumResults)
	require.Equal(t, "OL0W", books[0].ID)
	require.Equal(t, "Fantasy", books[0].Genre)
	require.Equal(t, []string{"Fantasy", "Magic", "Quests"}, books[0].Tags)
	require.Equal(t, []SearchRequest{{Query: "*", Sort: "rating desc", Limit: 50}}, searcher.requests)
	requireAvailabilityInvariant(t, books)
}

func TestPopularBooksFallsBack(t *testing.T) {
	testCases := []struct {
		name     string
		searcher Searcher
	}{
		{name: "remote error", searcher: &stubSearcher{err: errors.New("boom")}},
		{name: "too few results", searcher: &stubSearcher{response: &Response{Docs: docs(MinimumResults - 1)}}},
		{name: "empty results", searcher: &stubSearcher{response: &Response{}}},
		{name: "no searcher", searcher: nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			books := newTestAdapter(testCase.searcher, zap.New(core)).PopularBooks(context.Background())
			require.Len(t, books, 45)
			require.True(t, strings.HasPrefix(books[0].ID, "fallback-"))
			require.Equal(t, 1, logs.Len())
		})
	}
}

func TestSearchDefaultsAndShortAnswers(t *testing.T) {
	searcher := &stubSearcher{response: &Response{Docs: docs(3)}}
	books := newTestAdapter(searcher, nil).Search(context.Background(), "  ", 0)

	require.Len(t, books, 3)
	require.Equal(t, []SearchRequest{{Query: "popular", Limit: 30}}, searcher.requests)
}

func TestSearchFallsBackOnError(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("timeout")}
	books := newTestAdapter(searcher, nil).Search(context.Background(), "dune", 10)
	require.Len(t, books, 45)
}

func TestTrendingBooksQuery(t *testing.T) {
	searcher := &stubSearcher{response: &Response{Docs: docs(1)}}
	newTestAdapter(searcher, nil).TrendingBooks(context.Background())

	require.Len(t, searcher.requests, 1)
	require.Equal(t, 25, searcher.requests[0].Limit)
	require.Equal(t,
		"harry potter OR lord of the rings OR game of thrones OR dune OR sherlock holmes OR jane austen",
		searcher.requests[0].Query)
}

func TestConvertToleratesMissingFields(t *testing.T) {
	searcher := &stubSearcher{response: &Response{Docs: []Doc{{}}}}
	books := newTestAdapter(searcher, nil).Search(context.Background(), "anything", 1)

	require.Len(t, books, 1)
	book := books[0]
	require.Equal(t, "Unknown Title", book.Title)
	require.Equal(t, "Unknown Author", book.Author)
	require.Equal(t, 2020, book.Year)
	require.True(t, strings.HasPrefix(book.ISBN, "978"))
	require.Equal(t, []string{"fiction", "literature"}, book.Tags)
	require.Equal(t, fmt.Sprintf("ol-%d-0", adapterNow.UnixMilli()), book.ID)
	require.Empty(t, book.CoverURL)
	require.NotEmpty(t, book.Genre)
}

func TestConvertBuildsCoverURL(t *testing.T) {
	searcher := &stubSearcher{response: &Response{Docs: []Doc{{Key: "/works/OL9W", CoverID: 12345}}}}
	books := newTestAdapter(searcher, nil).Search(context.Background(), "anything", 1)
	require.Equal(t, "https://covers.openlibrary.org/b/id/12345-M.jpg", books[0].CoverURL)
}

func TestSameSeedGivesSameCatalog(t *testing.T) {
	first := newTestAdapter(&stubSearcher{response: &Response{Docs: docs(30)}}, nil).PopularBooks(context.Background())
	second := newTestAdapter(&stubSearcher{response: &Response{Docs: docs(30)}}, nil).PopularBooks(context.Background())
	require.Equal(t, first, second)
}

func TestNormalizeGenre(t *testing.T) {
	testCases := map[string]string{
		"Science Fiction":  "Science Fiction",
		"science  fiction": "Science Fiction",
		"LITERATURE":       "Classic Literature",
		"Horror":           "Horror",
		"Cooking":          "Fiction",
		"":                 "Fiction",
	}
	for input, want := range testCases {
		require.Equal(t, want, NormalizeGenre(input), input)
	}
}
