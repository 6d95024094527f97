package catalog

import (
	"regexp"
	"strings"
)

const defaultGenre = "Fiction"

var whitespace = regexp.MustCompile(`\s+`)

var genreTable = map[string]string{
	"fiction":         "Fiction",
	"science_fiction": "Science Fiction",
	"fantasy":         "Fantasy",
	"mystery":         "Mystery",
	"romance":         "Romance",
	"thriller":        "Thriller",
	"biography":       "Biography",
	"history":         "History",
	"science":         "Science",
	"philosophy":      "Philosophy",
	"literature":      "Classic Literature",
	"horror":          "Horror",
	"adventure":       "Adventure",
}

// genrePool is sampled when a hit carries no subject at all.
var genrePool = []string{
	"Fiction", "Science Fiction", "Fantasy", "Mystery", "Romance",
	"Thriller", "Biography", "History", "Science", "Philosophy",
	"Classic Literature", "Contemporary Fiction", "Horror", "Adventure",
}

// NormalizeGenre maps a free-text subject onto the fixed genre table. Unmapped values become "Fiction".
func NormalizeGenre(subject string) string {
	key := whitespace.ReplaceAllString(strings.ToLower(subject), "_")
	if genre, ok := genreTable[key]; ok {
		return genre
	}
	return defaultGenre
}
