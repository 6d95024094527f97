package library

import "time"

// SeedBooks returns the catalog materialized the first time a scope is read.
func SeedBooks() []Book {
	borrowedAt := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	return []Book{
		{
			ID:          "1",
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			Genre:       "Classic Literature",
			Year:        1925,
			ISBN:        "9780743273565",
			Tags:        []string{"American Literature", "Jazz Age", "Classic"},
			Summary:     "A masterpiece of American literature set in the Jazz Age, exploring themes of wealth, love, and the American Dream through the eyes of Nick Carraway.",
			IsAvailable: true,
		},
		{
			ID:           "2",
			Title:        "To Kill a Mockingbird",
			Author:       "Harper Lee",
			Genre:        "Classic Literature",
			Year:         1960,
			ISBN:         "9780061120084",
			Tags:         []string{"American Literature", "Social Justice", "Coming of Age"},
			Summary:      "A profound tale of moral courage in the American South, told through the perspective of Scout Finch as her father defends an innocent Black man.",
			IsAvailable:  false,
			Borrower:     "Sarah Johnson",
			DueDate:      "2024-08-15",
			BorrowedDate: &borrowedAt,
		},
		{
			ID:          "3",
			Title:       "Dune",
			Author:      "Frank Herbert",
			Genre:       "Science Fiction",
			Year:        1965,
			ISBN:        "9780441172719",
			Tags:        []string{"Space Opera", "Politics", "Ecology"},
			Summary:     "An epic science fiction saga set on the desert planet Arrakis, following Paul Atreides as he navigates politics, religion, and ecology.",
			IsAvailable: true,
		},
		{
			ID:          "4",
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Genre:       "Romance",
			Year:        1813,
			ISBN:        "9780141439518",
			Tags:        []string{"British Literature", "Romance", "Social Commentary"},
			Summary:     "A witty and romantic tale of Elizabeth Bennet and Mr. Darcy, exploring themes of love, class, and social expectations in Regency England.",
			IsAvailable: true,
		},
	}
}
