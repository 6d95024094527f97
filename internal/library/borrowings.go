package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"github.com/swaroski/ai-shelves/internal/workspaces"
	"go.uber.org/zap"
)

// ListBorrowings returns every borrowing record of the scope in insertion order.
func (s *Service) ListBorrowings(ctx context.Context, scope Scope) ([]BorrowingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadBorrowings(ctx, scope)
}

// CheckOut marks the book borrowed and appends an open borrowing record.
// A book that is already borrowed is checked out again, replacing borrower and due date.
func (s *Service) CheckOut(ctx context.Context, scope Scope, actor, id, borrower, dueDate string) (bool, error) {
	borrower = strings.TrimSpace(borrower)
	dueDate = strings.TrimSpace(dueDate)
	if borrower == "" || dueDate == "" {
		return false, newServiceError(opCheckOut, reasonInvalidInput, ErrInvalidCheckout)
	}
	if _, ok := ParseDueDate(dueDate); !ok {
		return false, newServiceError(opCheckOut, reasonInvalidInput,
			fmt.Errorf("%w: unparseable due date %q", ErrInvalidCheckout, dueDate))
	}
	if err := s.authorize(ctx, opCheckOut, scope, actor, workspaces.CanBorrowBooks); err != nil {
		return false, err
	}

	now := s.clock().UTC()
	book, found, err := s.mutate(ctx, opCheckOut, scope, actor, id, func(book *Book) {
		book.markBorrowed(borrower, dueDate, now)
	})
	if err != nil || !found {
		return false, err
	}

	recordID, err := s.newPrefixedID(scope.idPrefix("borrowing"))
	if err != nil {
		s.logError(opCheckOut, reasonIDFailed, err)
		return false, newServiceError(opCheckOut, reasonIDFailed, err)
	}
	record := BorrowingRecord{
		ID:           recordID,
		BookID:       book.ID,
		Borrower:     borrower,
		BorrowedDate: now,
		DueDate:      dueDate,
		WorkspaceID:  scope.WorkspaceID,
	}

	s.mu.Lock()
	records, err := s.loadBorrowings(ctx, scope)
	if err == nil {
		records = append(records, record)
		err = s.saveBorrowings(ctx, opCheckOut, scope, records)
	}
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.recordActivity(ctx, opCheckOut, scope, actor, workspaces.ActionBorrowed, workspaces.ResourceBorrowing, record.ID,
		map[string]any{"bookId": book.ID, "title": book.Title, "borrower": borrower, "dueDate": dueDate})
	return true, nil
}

// CheckIn makes the book available and closes the first open record for it.
func (s *Service) CheckIn(ctx context.Context, scope Scope, actor, id string) (bool, error) {
	if err := s.authorize(ctx, opCheckIn, scope, actor, workspaces.CanBorrowBooks); err != nil {
		return false, err
	}

	book, found, err := s.mutate(ctx, opCheckIn, scope, actor, id, (*Book).markReturned)
	if err != nil || !found {
		return false, err
	}

	now := s.clock().UTC()
	closedID := ""
	s.mu.Lock()
	records, err := s.loadBorrowings(ctx, scope)
	if err == nil {
		for index := range records {
			if records[index].BookID == id && records[index].Active() {
				records[index].ReturnedDate = &now
				closedID = records[index].ID
				break
			}
		}
		if closedID != "" {
			err = s.saveBorrowings(ctx, opCheckIn, scope, records)
		}
	}
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.recordActivity(ctx, opCheckIn, scope, actor, workspaces.ActionReturned, workspaces.ResourceBorrowing, closedID,
		map[string]any{"bookId": book.ID, "title": book.Title})
	return true, nil
}

func (s *Service) loadBorrowings(ctx context.Context, scope Scope) ([]BorrowingRecord, error) {
	records, _, err := kvstore.LoadCollection[BorrowingRecord](ctx, s.store, scope.borrowingsKey())
	if err != nil {
		s.logError(opListBorrowings, reasonLoadFailed, err, zap.String("workspace_id", scope.WorkspaceID))
		return nil, newServiceError(opListBorrowings, reasonLoadFailed, err)
	}
	if records == nil {
		records = []BorrowingRecord{}
	}
	return records, nil
}

func (s *Service) saveBorrowings(ctx context.Context, operation string, scope Scope, records []BorrowingRecord) error {
	if err := kvstore.SaveCollection(ctx, s.store, scope.borrowingsKey(), records); err != nil {
		s.logError(operation, reasonSaveFailed, err, zap.String("workspace_id", scope.WorkspaceID))
		return newServiceError(operation, reasonSaveFailed, err)
	}
	return nil
}
