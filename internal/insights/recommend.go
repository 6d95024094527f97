package insights

import (
	"strings"

	"github.com/swaroski/ai-shelves/internal/library"
)

const defaultRecommendationLimit = 5

var poolOrder = []string{"Fiction", "Science Fiction", "Fantasy"}

var recommendationPool = map[string][]library.Book{
	"Fiction": {
		{ID: "rec-1", Title: "The Seven Husbands of Evelyn Hugo", Author: "Taylor Jenkins Reid", Genre: "Fiction", Year: 2017, ISBN: "9781501161933", Tags: []string{"romance", "hollywood", "lgbtq"}, Summary: "A reclusive Hollywood icon finally tells her story to a young journalist.", IsAvailable: true},
		{ID: "rec-2", Title: "Where the Crawdads Sing", Author: "Delia Owens", Genre: "Fiction", Year: 2018, ISBN: "9780735219090", Tags: []string{"mystery", "nature", "coming of age"}, Summary: "A mystery about a young woman who raised herself in the marshes of North Carolina.", IsAvailable: true},
	},
	"Science Fiction": {
		{ID: "rec-3", Title: "The Martian", Author: "Andy Weir", Genre: "Science Fiction", Year: 2011, ISBN: "9780553418026", Tags: []string{"space", "survival", "humor"}, Summary: "An astronaut stranded on Mars must use his ingenuity to survive.", IsAvailable: true},
		{ID: "rec-4", Title: "Klara and the Sun", Author: "Kazuo Ishiguro", Genre: "Science Fiction", Year: 2021, ISBN: "9780571364909", Tags: []string{"ai", "love", "philosophy"}, Summary: "An artificial friend observes the world with extraordinary perception.", IsAvailable: true},
	},
	"Fantasy": {
		{ID: "rec-5", Title: "The Name of the Wind", Author: "Patrick Rothfuss", Genre: "Fantasy", Year: 2007, ISBN: "9780756404079", Tags: []string{"magic", "music", "adventure"}, Summary: "A legendary figure tells his own story of love, loss, and magic.", IsAvailable: true},
		{ID: "rec-6", Title: "The Fifth Season", Author: "N.K. Jemisin", Genre: "Fantasy", Year: 2015, ISBN: "9780316229296", Tags: []string{"dystopian", "magic", "award-winning"}, Summary: "A world of devastating earthquakes and supernatural powers.", IsAvailable: true},
	},
}

// Recommend picks candidates from the fixed pool. The target book's genre wins over genre;
// an unknown or empty genre draws from the whole pool. Titles already in current are skipped
// case-insensitively and the result is truncated to limit (5 when non-positive).
func Recommend(current []library.Book, target *library.Book, genre string, limit int) []library.Book {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	targetGenre := genre
	if target != nil && target.Genre != "" {
		targetGenre = target.Genre
	}

	candidates, ok := recommendationPool[targetGenre]
	if !ok {
		candidates = nil
		for _, key := range poolOrder {
			candidates = append(candidates, recommendationPool[key]...)
		}
	}

	owned := make(map[string]bool, len(current))
	for _, book := range current {
		owned[strings.ToLower(book.Title)] = true
	}
	result := make([]library.Book, 0, limit)
	for _, candidate := range candidates {
		if owned[strings.ToLower(candidate.Title)] {
			continue
		}
		candidate.Tags = append([]string(nil), candidate.Tags...)
		result = append(result, candidate)
		if len(result) == limit {
			break
		}
	}
	return result
}
