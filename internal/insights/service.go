package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/swaroski/ai-shelves/internal/gemini"
	"github.com/swaroski/ai-shelves/internal/library"
	"go.uber.org/zap"
)

const sampleTitleCount = 10

var (
	insightsGeneration = gemini.GenerationConfig{Temperature: 0.6, MaxOutputTokens: 400}
	summaryGeneration  = gemini.GenerationConfig{Temperature: 0.7, MaxOutputTokens: 200}
)

// Generator is the generative-text collaborator.
type Generator interface {
	Configured(ctx context.Context) bool
	Generate(ctx context.Context, prompt string, generation gemini.GenerationConfig) (string, error)
}

// ServiceConfig describes the dependencies of the insights service.
type ServiceConfig struct {
	Generator Generator
	Logger    *zap.Logger
}

// Service augments aggregate statistics with generated narrative when a generator is configured.
type Service struct {
	generator Generator
	logger    *zap.Logger
}

// NewService constructs a Service. A nil Generator always takes the rule-based path.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: cfg.Generator, logger: logger}
}

// Insights never fails: generator errors and empty answers fall back to RuleBasedInsights.
func (s *Service) Insights(ctx context.Context, books []library.Book) Insights {
	stats := ComputeStats(books)
	if !s.generatorReady(ctx) {
		return RuleBasedInsights(stats)
	}
	text, err := s.generator.Generate(ctx, insightsPrompt(books, stats), insightsGeneration)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logFallback("insights.generate", err)
		return RuleBasedInsights(stats)
	}
	return ParseInsights(text, stats.TopGenres)
}

// Summary returns a generated summary, or FallbackSummary when generation is unavailable.
func (s *Service) Summary(ctx context.Context, book library.Book) string {
	if !s.generatorReady(ctx) {
		return FallbackSummary(book)
	}
	text, err := s.generator.Generate(ctx, summaryPrompt(book), summaryGeneration)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logFallback("insights.summary", err, zap.String("book_id", book.ID))
		return FallbackSummary(book)
	}
	return strings.TrimSpace(text)
}

// Recommend applies the rule-based selection.
func (s *Service) Recommend(current []library.Book, target *library.Book, genre string, limit int) []library.Book {
	return Recommend(current, target, genre, limit)
}

func (s *Service) generatorReady(ctx context.Context) bool {
	return s.generator != nil && s.generator.Configured(ctx)
}

func (s *Service) logFallback(operation string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", "fallback"),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Warn("generator unavailable, using rules", attrs...)
}

func insightsPrompt(books []library.Book, stats CollectionStats) string {
	genres := make([]string, 0, len(stats.TopGenres))
	for _, share := range stats.TopGenres {
		genres = append(genres, fmt.Sprintf("%s (%d books)", share.Genre, share.Count))
	}
	sample := books
	if len(sample) > sampleTitleCount {
		sample = sample[:sampleTitleCount]
	}
	titles := make([]string, 0, len(sample))
	for _, book := range sample {
		titles = append(titles, fmt.Sprintf("%q by %s", book.Title, book.Author))
	}

	var builder strings.Builder
	builder.WriteString("Analyze this library collection and provide insights:\n\n")
	fmt.Fprintf(&builder, "Collection: %d books\n", stats.Total)
	fmt.Fprintf(&builder, "Top genres: %s\n", strings.Join(genres, ", "))
	fmt.Fprintf(&builder, "Sample titles: %s\n\n", strings.Join(titles, ", "))
	builder.WriteString("Provide:\n")
	builder.WriteString("1. A brief analysis of reading trends and patterns\n")
	builder.WriteString("2. 3-4 personalized book recommendations based on this collection\n")
	builder.WriteString("3. A library health score (1-10) with improvement suggestions\n\n")
	builder.WriteString("Keep it concise and actionable.")
	return builder.String()
}

func summaryPrompt(book library.Book) string {
	return fmt.Sprintf("Write a compelling 2-3 sentence summary for the book %q by %s.\n"+
		"Genre: %s. Year: %d.\n"+
		"The summary should be engaging and give readers a sense of what makes this book special.\n"+
		"Focus on the main themes, plot, or key insights without spoilers.",
		book.Title, book.Author, book.Genre, book.Year)
}
