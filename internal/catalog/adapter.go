package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/swaroski/ai-shelves/internal/library"
	"go.uber.org/zap"
)

const (
	// MinimumResults is the smallest popular-books answer accepted before falling back.
	MinimumResults = 25

	popularQuery  = "*"
	popularSort   = "rating desc"
	popularLimit  = 50
	defaultQuery  = "popular"
	defaultLimit  = 30
	trendingLimit = 25

	availableProbability = 0.7
	loanDays             = 14
	syntheticBorrower    = "John Doe"
	unknownTitle         = "Unknown Title"
	unknownAuthor        = "Unknown Author"
	unknownYear          = 2020
	coverURLTemplate     = "https://covers.openlibrary.org/b/id/%d-M.jpg"
	summaryTemplate      = "A fascinating %s work that explores themes of human nature, society, and the complexities of modern life. " +
		"This book has captivated readers with its compelling narrative and thought-provoking insights."
)

var trendingTopics = []string{
	"harry potter",
	"lord of the rings",
	"game of thrones",
	"dune",
	"sherlock holmes",
	"jane austen",
}

var errTooFewResults = errors.New("catalog returned too few results")

// AdapterConfig describes the dependencies of the catalog adapter.
type AdapterConfig struct {
	Searcher Searcher
	// Seed drives the synthesized availability so identical seeds give identical catalogs.
	Seed   uint64
	Clock  func() time.Time
	Logger *zap.Logger
}

// Adapter turns search hits into library books. It never returns an error: failures fall back.
type Adapter struct {
	searcher Searcher
	clock    func() time.Time
	logger   *zap.Logger

	randMu sync.Mutex
	random *rand.Rand
}

// NewAdapter constructs an Adapter. A nil Searcher always serves the fallback catalog.
func NewAdapter(cfg AdapterConfig) *Adapter {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		searcher: cfg.Searcher,
		clock:    clock,
		logger:   logger,
		random:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// PopularBooks returns the highest rated works, or the fallback catalog when the call fails
// or yields fewer than MinimumResults hits.
func (a *Adapter) PopularBooks(ctx context.Context) []library.Book {
	books, err := a.fetch(ctx, SearchRequest{Query: popularQuery, Sort: popularSort, Limit: popularLimit})
	if err == nil && len(books) < MinimumResults {
		err = fmt.Errorf("%w: %d", errTooFewResults, len(books))
	}
	if err != nil {
		a.logFallback("catalog.popular_books", err)
		return FallbackBooks()
	}
	a.logger.Info("catalog popular books fetched", zap.Int("books", len(books)))
	return books
}

// Search runs a free-text query. Empty queries search "popular" and non-positive limits use 30.
// Only a failed call falls back; a short answer is returned as is.
func (a *Adapter) Search(ctx context.Context, query string, limit int) []library.Book {
	query = strings.TrimSpace(query)
	if query == "" {
		query = defaultQuery
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	books, err := a.fetch(ctx, SearchRequest{Query: query, Limit: limit})
	if err != nil {
		a.logFallback("catalog.search", err, zap.String("query", query))
		return FallbackBooks()
	}
	return books
}

// TrendingBooks searches a fixed OR query of perennial favourites.
func (a *Adapter) TrendingBooks(ctx context.Context) []library.Book {
	return a.Search(ctx, strings.Join(trendingTopics, " OR "), trendingLimit)
}

func (a *Adapter) fetch(ctx context.Context, request SearchRequest) ([]library.Book, error) {
	if a.searcher == nil {
		return nil, errors.New("catalog searcher not configured")
	}
	response, err := a.searcher.Search(ctx, request)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, errors.New("catalog returned no payload")
	}
	now := a.clock().UTC()
	books := make([]library.Book, 0, len(response.Docs))
	for index, doc := range response.Docs {
		books = append(books, a.convert(doc, index, now))
	}
	return books, nil
}

func (a *Adapter) convert(doc Doc, index int, now time.Time) library.Book {
	a.randMu.Lock()
	defer a.randMu.Unlock()

	rawGenre := ""
	if len(doc.Subject) > 0 {
		rawGenre = doc.Subject[0]
	} else {
		rawGenre = genrePool[a.random.IntN(len(genrePool))]
	}

	id := strings.TrimPrefix(doc.Key, "/works/")
	if id == "" {
		id = fmt.Sprintf("ol-%d-%d", now.UnixMilli(), index)
	}
	title := doc.Title
	if title == "" {
		title = unknownTitle
	}
	author := unknownAuthor
	if len(doc.AuthorName) > 0 && doc.AuthorName[0] != "" {
		author = doc.AuthorName[0]
	}
	year := doc.FirstPublishYear
	if year == 0 {
		year = unknownYear
	}
	isbn := ""
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	}
	if isbn == "" {
		isbn = "978" + strconv.Itoa(a.random.IntN(1_000_000_000))
	}
	tags := []string{"fiction", "literature"}
	if len(doc.Subject) > 0 {
		tags = append([]string(nil), doc.Subject[:min(3, len(doc.Subject))]...)
	}
	coverURL := ""
	if doc.CoverID > 0 {
		coverURL = fmt.Sprintf(coverURLTemplate, doc.CoverID)
	}

	summary := fmt.Sprintf(summaryTemplate, strings.ToLower(rawGenre))

	book := library.Book{
		ID:          id,
		Title:       title,
		Author:      author,
		Genre:       NormalizeGenre(rawGenre),
		Year:        year,
		ISBN:        isbn,
		Tags:        tags,
		Summary:     summary,
		CoverURL:    coverURL,
		IsAvailable: true,
	}
	if a.random.Float64() >= availableProbability {
		dueDate := now.AddDate(0, 0, loanDays).Format("2006-01-02")
		book.IsAvailable = false
		book.Borrower = syntheticBorrower
		book.DueDate = dueDate
		borrowedAt := now
		book.BorrowedDate = &borrowedAt
	}
	return book
}

func (a *Adapter) logFallback(operation string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", "fallback"),
		zap.Error(err),
	}
	attrs = append(attrs, fields...)
	a.logger.Warn("catalog unavailable, serving fallback", attrs...)
}
