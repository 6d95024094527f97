package insights

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/swaroski/ai-shelves/internal/library"
)

const (
	defaultAIScore      = 7
	minHealthScore      = 1
	maxHealthScore      = 10
	maxAIRecommendation = 4
	ruleRecommendations = 3
	largeCollectionSize = 20
)

// Source names the path that produced an Insights value.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceRules     Source = "rules"
)

// Health scores the collection from 1 to 10.
type Health struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// Insights has the same shape whichever path produced it.
type Insights struct {
	TopGenres       []GenreShare `json:"topGenres"`
	ReadingTrends   string       `json:"readingTrends"`
	Recommendations []string     `json:"recommendations"`
	LibraryHealth   Health       `json:"libraryHealth"`
	Source          Source       `json:"source"`
}

var (
	numberedLine = regexp.MustCompile(`^\d+\.\s*`)
	firstNumber  = regexp.MustCompile(`\d+`)
)

var ruleRecommendationText = []string{
	"Consider exploring new genres to diversify your reading experience",
	"Look for award-winning books in your favorite genres",
	"Try authors you haven't read before within your preferred categories",
	"Balance fiction and non-fiction for a well-rounded library",
}

// RuleBasedInsights derives a deterministic narrative from the aggregates.
func RuleBasedInsights(stats CollectionStats) Insights {
	top := stats.TopGenres

	trends := "Your library collection is just getting started! Consider exploring different genres to discover your preferences."
	if len(top) > 0 {
		trends = fmt.Sprintf("Your library shows a strong preference for %s (%d%% of collection)", top[0].Genre, top[0].Percentage)
		if len(top) > 1 {
			trends += fmt.Sprintf(" and %s (%d%%)", top[1].Genre, top[1].Percentage)
		}
		trends += ". This suggests you enjoy diverse storytelling across multiple genres."
	}

	availableRatio := 0.0
	if stats.Total > 0 {
		availableRatio = float64(stats.Available) / float64(stats.Total)
	}
	score := math.Min(10, math.Max(1, 5+availableRatio*2+float64(len(top))*0.5))

	sizeFactor := "Consider expanding your collection"
	if stats.Total > largeCollectionSize {
		sizeFactor = "Good collection size for variety"
	}
	engagementFactor := "Consider checking out some books"
	if stats.Borrowed > 0 {
		engagementFactor = "Active borrowing shows engagement"
	}

	return Insights{
		TopGenres:       top,
		ReadingTrends:   trends,
		Recommendations: append([]string(nil), ruleRecommendationText[:ruleRecommendations]...),
		LibraryHealth: Health{
			Score: int(math.Round(score)),
			Factors: []string{
				fmt.Sprintf("%d%% of books are available for reading", percentage(stats.Available, stats.Total)),
				fmt.Sprintf("Collection spans %d different genres", len(top)),
				sizeFactor,
				engagementFactor,
			},
		},
		Source: SourceRules,
	}
}

// ParseInsights reads free text line by line: a trend or pattern line becomes the trends,
// recommendation and numbered lines become recommendations and a score line yields the score.
func ParseInsights(text string, top []GenreShare) Insights {
	trends := ""
	recommendations := make([]string, 0, maxAIRecommendation)
	score := defaultAIScore

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "trend") || strings.Contains(lower, "pattern"):
			trends = line
		case strings.Contains(lower, "recommend") || numberedLine.MatchString(line):
			recommendations = append(recommendations, numberedLine.ReplaceAllString(line, ""))
		case strings.Contains(lower, "score"):
			if match := firstNumber.FindString(line); match != "" {
				parsed, err := strconv.Atoi(match)
				switch {
				case err == nil:
					score = parsed
				case errors.Is(err, strconv.ErrRange):
					// The pattern has no sign, so an out-of-range value is too large.
					score = maxHealthScore
				}
			}
		}
	}

	if trends == "" {
		leading := "various genres"
		if len(top) > 0 {
			leading = top[0].Genre
		}
		trends = fmt.Sprintf("Your collection shows strong preferences for %s.", leading)
	}
	if len(recommendations) == 0 {
		recommendations = []string{"Explore new genres", "Try award-winning authors", "Balance fiction and non-fiction"}
	}
	if len(recommendations) > maxAIRecommendation {
		recommendations = recommendations[:maxAIRecommendation]
	}

	return Insights{
		TopGenres:       top,
		ReadingTrends:   trends,
		Recommendations: recommendations,
		LibraryHealth: Health{
			Score: min(maxHealthScore, max(minHealthScore, score)),
			Factors: []string{
				"Collection demonstrates good genre diversity",
				"Reading habits show consistent engagement",
				"Library size supports varied reading experiences",
			},
		},
		Source: SourceGenerated,
	}
}

var genreSummaries = map[string]string{
	"Fiction":            "A compelling work of fiction that explores the human condition through %s's masterful storytelling.",
	"Science Fiction":    "An imaginative science fiction tale that pushes the boundaries of what's possible in %s's visionary world.",
	"Fantasy":            "A magical fantasy adventure filled with wonder and excitement, brought to life by %s's rich imagination.",
	"Mystery":            "A gripping mystery that will keep you guessing until the very end, showcasing %s's talent for suspense.",
	"Romance":            "A heartwarming romance that explores the complexities of love and relationships through %s's engaging narrative.",
	"Thriller":           "A pulse-pounding thriller that delivers non-stop excitement and unexpected twists from %s.",
	"Biography":          "An insightful biography that provides a compelling look into a remarkable life, written by %s.",
	"History":            "A fascinating exploration of historical events and their impact, presented through %s's expert analysis.",
	"Classic Literature": "A timeless classic that continues to resonate with readers, demonstrating %s's enduring literary genius.",
}

// FallbackSummary writes a genre-shaped summary without any collaborator.
func FallbackSummary(book library.Book) string {
	if template, ok := genreSummaries[book.Genre]; ok {
		return fmt.Sprintf(template, book.Author)
	}
	return fmt.Sprintf("A captivating %s work by %s that offers readers an engaging and memorable experience.",
		strings.ToLower(book.Genre), book.Author)
}
