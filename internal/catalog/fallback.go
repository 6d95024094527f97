package catalog

import (
	"time"

	"github.com/swaroski/ai-shelves/internal/library"
)

type fallbackLoan struct {
	borrower     string
	dueDate      string
	borrowedDate string
}

type fallbackEntry struct {
	id      string
	title   string
	author  string
	genre   string
	year    int
	isbn    string
	tags    []string
	summary string
	loan    *fallbackLoan
}

// FallbackBooks returns a fresh copy of the embedded catalog.
func FallbackBooks() []library.Book {
	books := make([]library.Book, 0, len(fallbackCatalog))
	for _, entry := range fallbackCatalog {
		book := library.Book{
			ID:          entry.id,
			Title:       entry.title,
			Author:      entry.author,
			Genre:       entry.genre,
			Year:        entry.year,
			ISBN:        entry.isbn,
			Tags:        append([]string(nil), entry.tags...),
			Summary:     entry.summary,
			IsAvailable: true,
		}
		if entry.loan != nil {
			borrowedAt, err := time.Parse("2006-01-02", entry.loan.borrowedDate)
			if err == nil {
				book.IsAvailable = false
				book.Borrower = entry.loan.borrower
				book.DueDate = entry.loan.dueDate
				book.BorrowedDate = &borrowedAt
			}
		}
		books = append(books, book)
	}
	return books
}
