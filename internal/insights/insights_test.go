package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swaroski/ai-shelves/internal/gemini"
	"github.com/swaroski/ai-shelves/internal/library"
)

type stubGenerator struct {
	configured bool
	text       string
	err        error
	prompts    []string
}

func (g *stubGenerator) Configured(context.Context) bool {
	return g.configured
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, _ gemini.GenerationConfig) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func book(title, genre string, available bool) library.Book {
	return library.Book{Title: title, Author: "Author", Genre: genre, IsAvailable: available}
}

func TestComputeStatsTopGenrePercentage(t *testing.T) {
	books := []library.Book{
		book("a", "Fantasy", true),
		book("b", "Mystery", false),
		book("c", "Fantasy", true),
		book("d", "Mystery", true),
		book("e", "Fantasy", false),
		book("f", "Horror", true),
		book("g", "Romance", true),
	}
	stats := ComputeStats(books)

	require.Equal(t, 7, stats.Total)
	require.Equal(t, 5, stats.Available)
	require.Equal(t, 2, stats.Borrowed)
	require.Equal(t, GenreShare{Genre: "Fantasy", Count: 3, Percentage: 43}, stats.TopGenres[0])
	require.Equal(t, GenreShare{Genre: "Mystery", Count: 2, Percentage: 29}, stats.TopGenres[1])
}

func TestComputeStatsCapsTopGenres(t *testing.T) {
	books := []library.Book{
		book("a", "g1", true), book("b", "g2", true), book("c", "g3", true),
		book("d", "g4", true), book("e", "g5", true), book("f", "g6", true),
	}
	stats := ComputeStats(books)
	require.Len(t, stats.Genres, 6)
	require.Len(t, stats.TopGenres, 5)
}

func TestRecommend(t *testing.T) {
	testCases := []struct {
		name    string
		current []library.Book
		target  *library.Book
		genre   string
		limit   int
		want    []string
	}{
		{name: "genre pool", genre: "Fantasy", want: []string{"rec-5", "rec-6"}},
		{name: "target genre wins", target: &library.Book{Genre: "Science Fiction"}, genre: "Fantasy", want: []string{"rec-3", "rec-4"}},
		{name: "unknown genre uses whole pool", genre: "Cooking", limit: 10, want: []string{"rec-1", "rec-2", "rec-3", "rec-4", "rec-5", "rec-6"}},
		{name: "default limit", want: []string{"rec-1", "rec-2", "rec-3", "rec-4", "rec-5"}},
		{name: "owned titles skipped", current: []library.Book{{Title: "the martian"}}, genre: "Science Fiction", want: []string{"rec-4"}},
		{name: "limit truncates", genre: "Fiction", limit: 1, want: []string{"rec-1"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Recommend(testCase.current, testCase.target, testCase.genre, testCase.limit)
			ids := make([]string, 0, len(got))
			for _, candidate := range got {
				ids = append(ids, candidate.ID)
			}
			require.Equal(t, testCase.want, ids)
		})
	}
}

func TestRuleBasedInsights(t *testing.T) {
	books := []library.Book{
		book("a", "Fantasy", true),
		book("b", "Fantasy", false),
		book("c", "Mystery", true),
		book("d", "Romance", true),
	}
	insights := RuleBasedInsights(ComputeStats(books))

	require.Equal(t, SourceRules, insights.Source)
	require.Equal(t,
		"Your library shows a strong preference for Fantasy (50% of collection) and Mystery (25%). This suggests you enjoy diverse storytelling across multiple genres.",
		insights.ReadingTrends)
	require.Len(t, insights.Recommendations, 3)
	// 5 + 0.75*2 + 3*0.5 = 8
	require.Equal(t, 8, insights.LibraryHealth.Score)
	require.Equal(t, []string{
		"75% of books are available for reading",
		"Collection spans 3 different genres",
		"Consider expanding your collection",
		"Active borrowing shows engagement",
	}, insights.LibraryHealth.Factors)
}

func TestRuleBasedInsightsEmptyCollection(t *testing.T) {
	insights := RuleBasedInsights(ComputeStats(nil))
	require.True(t, strings.HasPrefix(insights.ReadingTrends, "Your library collection is just getting started!"))
	require.Equal(t, 5, insights.LibraryHealth.Score)
	require.Equal(t, "0% of books are available for reading", insights.LibraryHealth.Factors[0])
}

func TestParseInsights(t *testing.T) {
	text := strings.Join([]string{
		"Reading trends lean toward speculative fiction.",
		"",
		"1. The Left Hand of Darkness",
		"2. Piranesi",
		"I recommend adding more non-fiction.",
		"3. Circe",
		"4. Station Eleven",
		"Library health score: 14/10",
	}, "\n")
	top := []GenreShare{{Genre: "Fantasy", Count: 1, Percentage: 100}}

	insights := ParseInsights(text, top)
	require.Equal(t, SourceGenerated, insights.Source)
	require.Equal(t, "Reading trends lean toward speculative fiction.", insights.ReadingTrends)
	require.Equal(t, []string{"The Left Hand of Darkness", "Piranesi", "I recommend adding more non-fiction.", "Circe"}, insights.Recommendations)
	require.Equal(t, 10, insights.LibraryHealth.Score)
	require.Len(t, insights.LibraryHealth.Factors, 3)
	require.Equal(t, top, insights.TopGenres)
}

func TestParseInsightsDefaults(t *testing.T) {
	insights := ParseInsights("Nothing useful here.", nil)
	require.Equal(t, "Your collection shows strong preferences for various genres.", insights.ReadingTrends)
	require.Equal(t, []string{"Explore new genres", "Try award-winning authors", "Balance fiction and non-fiction"}, insights.Recommendations)
	require.Equal(t, 7, insights.LibraryHealth.Score)

	zero := ParseInsights("Overall score 0", nil)
	require.Equal(t, 1, zero.LibraryHealth.Score)

	huge := ParseInsights("Library health score: 99999999999999999999", nil)
	require.Equal(t, 10, huge.LibraryHealth.Score)
}

func TestServiceInsightsPaths(t *testing.T) {
	books := []library.Book{book("Dune", "Science Fiction", true)}

	unconfigured := &stubGenerator{configured: false}
	require.Equal(t, SourceRules, NewService(ServiceConfig{Generator: unconfigured}).Insights(context.Background(), books).Source)
	require.Empty(t, unconfigured.prompts)

	failing := &stubGenerator{configured: true, err: errors.New("quota")}
	require.Equal(t, SourceRules, NewService(ServiceConfig{Generator: failing}).Insights(context.Background(), books).Source)

	empty := &stubGenerator{configured: true, text: "   "}
	require.Equal(t, SourceRules, NewService(ServiceConfig{Generator: empty}).Insights(context.Background(), books).Source)

	working := &stubGenerator{configured: true, text: "Reading patterns are focused."}
	insights := NewService(ServiceConfig{Generator: working}).Insights(context.Background(), books)
	require.Equal(t, SourceGenerated, insights.Source)
	require.Equal(t, "Reading patterns are focused.", insights.ReadingTrends)
	require.Len(t, working.prompts, 1)
	require.Contains(t, working.prompts[0], "Collection: 1 books")
	require.Contains(t, working.prompts[0], `"Dune" by Author`)
	require.Contains(t, working.prompts[0], "Science Fiction (1 books)")
}

func TestServiceSummary(t *testing.T) {
	target := library.Book{ID: "3", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Year: 1965}

	fallback := NewService(ServiceConfig{}).Summary(context.Background(), target)
	require.Equal(t, "An imaginative science fiction tale that pushes the boundaries of what's possible in Frank Herbert's visionary world.", fallback)

	failing := &stubGenerator{configured: true, err: errors.New("down")}
	require.Equal(t, fallback, NewService(ServiceConfig{Generator: failing}).Summary(context.Background(), target))

	working := &stubGenerator{configured: true, text: " Spice and sand. "}
	require.Equal(t, "Spice and sand.", NewService(ServiceConfig{Generator: working}).Summary(context.Background(), target))
	require.Contains(t, working.prompts[0], `"Dune" by Frank Herbert`)
}

func TestFallbackSummaryUnknownGenre(t *testing.T) {
	summary := FallbackSummary(library.Book{Author: "Ann", Genre: "Self-Help"})
	require.Equal(t, "A captivating self-help work by Ann that offers readers an engaging and memorable experience.", summary)
}
