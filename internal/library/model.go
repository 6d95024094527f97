package library

import (
	"strings"
	"time"
)

const dueDateLayout = "2006-01-02"

// Book is a catalog record. IsAvailable is true exactly when Borrower, DueDate and BorrowedDate are all empty.
type Book struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	Genre          string     `json:"genre"`
	Year           int        `json:"year"`
	ISBN           string     `json:"isbn"`
	Tags           []string   `json:"tags"`
	Summary        string     `json:"summary,omitempty"`
	CoverURL       string     `json:"coverUrl,omitempty"`
	IsAvailable    bool       `json:"isAvailable"`
	Borrower       string     `json:"borrower,omitempty"`
	DueDate        string     `json:"dueDate,omitempty"`
	BorrowedDate   *time.Time `json:"borrowedDate,omitempty"`
	WorkspaceID    string     `json:"workspaceId,omitempty"`
	CreatedBy      string     `json:"createdBy,omitempty"`
	LastModifiedBy string     `json:"lastModifiedBy,omitempty"`
	LastModified   *time.Time `json:"lastModified,omitempty"`
	Version        int        `json:"version,omitempty"`
}

// IsOverdue reports whether the book is checked out with a due date before now.
// Date-only due dates are read as midnight UTC. Unparseable due dates are never overdue.
func (b Book) IsOverdue(now time.Time) bool {
	if b.IsAvailable || b.DueDate == "" {
		return false
	}
	due, ok := ParseDueDate(b.DueDate)
	if !ok {
		return false
	}
	return due.Before(now)
}

// ParseDueDate accepts YYYY-MM-DD or RFC 3339 values.
func ParseDueDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.Parse(dueDateLayout, trimmed); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func (b *Book) markBorrowed(borrower, dueDate string, at time.Time) {
	b.IsAvailable = false
	b.Borrower = borrower
	b.DueDate = dueDate
	borrowedAt := at
	b.BorrowedDate = &borrowedAt
}

func (b *Book) markReturned() {
	b.IsAvailable = true
	b.Borrower = ""
	b.DueDate = ""
	b.BorrowedDate = nil
}

// BookInput carries the caller-supplied fields of a new book. Availability is not an input.
type BookInput struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Genre    string   `json:"genre"`
	Year     int      `json:"year"`
	ISBN     string   `json:"isbn"`
	Tags     []string `json:"tags"`
	Summary  string   `json:"summary"`
	CoverURL string   `json:"coverUrl"`
}

// BookPatch lists the descriptive fields an update may change.
// Availability only moves through CheckOut and CheckIn.
type BookPatch struct {
	Title    *string   `json:"title"`
	Author   *string   `json:"author"`
	Genre    *string   `json:"genre"`
	Year     *int      `json:"year"`
	ISBN     *string   `json:"isbn"`
	Tags     *[]string `json:"tags"`
	Summary  *string   `json:"summary"`
	CoverURL *string   `json:"coverUrl"`
}

func (p BookPatch) apply(book *Book) {
	if p.Title != nil {
		book.Title = *p.Title
	}
	if p.Author != nil {
		book.Author = *p.Author
	}
	if p.Genre != nil {
		book.Genre = *p.Genre
	}
	if p.Year != nil {
		book.Year = *p.Year
	}
	if p.ISBN != nil {
		book.ISBN = *p.ISBN
	}
	if p.Tags != nil {
		book.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Summary != nil {
		book.Summary = *p.Summary
	}
	if p.CoverURL != nil {
		book.CoverURL = *p.CoverURL
	}
}

// BorrowingRecord is active while ReturnedDate is nil.
type BorrowingRecord struct {
	ID           string     `json:"id"`
	BookID       string     `json:"bookId"`
	Borrower     string     `json:"borrower"`
	BorrowedDate time.Time  `json:"borrowedDate"`
	DueDate      string     `json:"dueDate"`
	ReturnedDate *time.Time `json:"returnedDate,omitempty"`
	WorkspaceID  string     `json:"workspaceId,omitempty"`
}

// Active reports whether the record has not been closed by a check-in.
func (r BorrowingRecord) Active() bool {
	return r.ReturnedDate == nil
}

// GenreCount is one bucket of a genre histogram.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats summarises one scope's collection.
type Stats struct {
	TotalBooks       int               `json:"totalBooks"`
	BorrowedBooks    int               `json:"borrowedBooks"`
	AvailableBooks   int               `json:"availableBooks"`
	OverdueBooks     int               `json:"overdueBooks"`
	PopularGenres    []GenreCount      `json:"popularGenres"`
	RecentBorrowings []BorrowingRecord `json:"recentBorrowings"`
}
