package library

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"github.com/swaroski/ai-shelves/internal/workspaces"
	"go.uber.org/zap"
)

const (
	opServiceNew     = "library.service.new"
	opListBooks      = "library.list_books"
	opAddBook        = "library.add_book"
	opUpdateBook     = "library.update_book"
	opDeleteBook     = "library.delete_book"
	opCheckOut       = "library.check_out"
	opCheckIn        = "library.check_in"
	opListBorrowings = "library.list_borrowings"
	opReplaceBooks   = "library.replace_books"

	reasonLoadFailed       = "load_failed"
	reasonSaveFailed       = "save_failed"
	reasonIDFailed         = "id_generation_failed"
	reasonInvalidInput     = "invalid_input"
	reasonPermission       = "permission_denied"
	reasonRoleLookupFailed = "role_lookup_failed"
	reasonActivityFailed   = "activity_failed"
)

// RoleResolver resolves a caller's role inside a workspace.
type RoleResolver interface {
	MemberRole(ctx context.Context, workspaceID, userID string) (workspaces.Role, bool, error)
}

// ActivityRecorder appends workspace activity entries.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, activity workspaces.Activity) (workspaces.Activity, error)
}

// ServiceConfig describes the dependencies of the book store.
type ServiceConfig struct {
	Store      kvstore.Store
	Clock      func() time.Time
	IDProvider IDProvider
	Roles      RoleResolver
	Activities ActivityRecorder
	Logger     *zap.Logger
}

// Service stores books and borrowing records per scope.
// Every mutation reads the whole collection, changes it in memory and writes it back.
type Service struct {
	store      kvstore.Store
	clock      func() time.Time
	idProvider IDProvider
	roles      RoleResolver
	activities ActivityRecorder
	logger     *zap.Logger

	// mu serializes read-modify-write cycles inside this process only.
	mu sync.Mutex
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      cfg.Store,
		clock:      clock,
		idProvider: cfg.IDProvider,
		roles:      cfg.Roles,
		activities: cfg.Activities,
		logger:     logger,
	}, nil
}

// ListAll returns the scope's books, persisting the seed catalog on first access.
func (s *Service) ListAll(ctx context.Context, scope Scope) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadBooks(ctx, scope)
}

// Get returns the book with the given id.
func (s *Service) Get(ctx context.Context, scope Scope, id string) (Book, bool, error) {
	books, err := s.ListAll(ctx, scope)
	if err != nil {
		return Book{}, false, err
	}
	for _, book := range books {
		if book.ID == id {
			return book, true, nil
		}
	}
	return Book{}, false, nil
}

// Add assigns a scope-prefixed id and stores the book as available.
func (s *Service) Add(ctx context.Context, scope Scope, actor string, input BookInput) (Book, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Book{}, newServiceError(opAddBook, reasonInvalidInput,
			fmt.Errorf("%w: title is required", ErrInvalidBook))
	}
	if err := s.authorize(ctx, opAddBook, scope, actor, workspaces.CanManageBooks); err != nil {
		return Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.loadBooks(ctx, scope)
	if err != nil {
		return Book{}, err
	}
	id, err := s.newPrefixedID(scope.idPrefix("book"))
	if err != nil {
		s.logError(opAddBook, reasonIDFailed, err)
		return Book{}, newServiceError(opAddBook, reasonIDFailed, err)
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	book := Book{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		Genre:       strings.TrimSpace(input.Genre),
		Year:        input.Year,
		ISBN:        strings.TrimSpace(input.ISBN),
		Tags:        tags,
		Summary:     input.Summary,
		CoverURL:    input.CoverURL,
		IsAvailable: true,
	}
	if scope.IsWorkspace() {
		now := s.clock().UTC()
		book.WorkspaceID = scope.WorkspaceID
		book.CreatedBy = actor
		book.LastModifiedBy = actor
		book.LastModified = &now
		book.Version = 1
	}

	books = append(books, book)
	if err := s.saveBooks(ctx, opAddBook, scope, books); err != nil {
		return Book{}, err
	}
	s.recordActivity(ctx, opAddBook, scope, actor, workspaces.ActionCreated, workspaces.ResourceBook, book.ID,
		map[string]any{"title": book.Title})
	return book, nil
}

// Update merges the patch into the book. The boolean is false when the id is absent.
func (s *Service) Update(ctx context.Context, scope Scope, actor, id string, patch BookPatch) (Book, bool, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Book{}, false, newServiceError(opUpdateBook, reasonInvalidInput,
			fmt.Errorf("%w: title is required", ErrInvalidBook))
	}
	if err := s.authorize(ctx, opUpdateBook, scope, actor, workspaces.CanManageBooks); err != nil {
		return Book{}, false, err
	}

	book, found, err := s.mutate(ctx, opUpdateBook, scope, actor, id, patch.apply)
	if err != nil || !found {
		return book, found, err
	}
	s.recordActivity(ctx, opUpdateBook, scope, actor, workspaces.ActionUpdated, workspaces.ResourceBook, book.ID,
		map[string]any{"title": book.Title})
	return book, true, nil
}

// Delete removes the book. Borrowing records and favorites referencing it are left in place.
func (s *Service) Delete(ctx context.Context, scope Scope, actor, id string) (bool, error) {
	if err := s.authorize(ctx, opDeleteBook, scope, actor, workspaces.CanManageBooks); err != nil {
		return false, err
	}

	s.mu.Lock()
	books, err := s.loadBooks(ctx, scope)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	var removed *Book
	filtered := make([]Book, 0, len(books))
	for index := range books {
		if books[index].ID == id && removed == nil {
			removed = &books[index]
			continue
		}
		filtered = append(filtered, books[index])
	}
	if removed == nil {
		s.mu.Unlock()
		return false, nil
	}
	err = s.saveBooks(ctx, opDeleteBook, scope, filtered)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.recordActivity(ctx, opDeleteBook, scope, actor, workspaces.ActionDeleted, workspaces.ResourceBook, id,
		map[string]any{"title": removed.Title})
	return true, nil
}

// Search matches query case-insensitively against title, author or any tag,
// ANDed with an exact genre match. Empty query and genre "all" or "" match everything.
func (s *Service) Search(ctx context.Context, scope Scope, query, genre string) ([]Book, error) {
	books, err := s.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return FilterBooks(books, query, genre), nil
}

// FilterBooks applies the search predicate to an in-memory collection, preserving order.
func FilterBooks(books []Book, query, genre string) []Book {
	needle := strings.ToLower(query)
	result := make([]Book, 0, len(books))
	for _, book := range books {
		if matchesQuery(book, needle) && matchesGenre(book, genre) {
			result = append(result, book)
		}
	}
	return result
}

func matchesQuery(book Book, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(book.Title), needle) ||
		strings.Contains(strings.ToLower(book.Author), needle) {
		return true
	}
	for _, tag := range book.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func matchesGenre(book Book, genre string) bool {
	return genre == "" || genre == "all" || book.Genre == genre
}

// ReplaceAll overwrites the scope's collection, stamping workspace metadata when scope is workspace-aware.
func (s *Service) ReplaceAll(ctx context.Context, scope Scope, actor string, books []Book) ([]Book, error) {
	if err := s.authorize(ctx, opReplaceBooks, scope, actor, workspaces.CanManageBooks); err != nil {
		return nil, err
	}
	replaced := make([]Book, len(books))
	copy(replaced, books)
	now := s.clock().UTC()
	for index := range replaced {
		if replaced[index].Tags == nil {
			replaced[index].Tags = []string{}
		}
		if !scope.IsWorkspace() {
			continue
		}
		replaced[index].WorkspaceID = scope.WorkspaceID
		replaced[index].CreatedBy = actor
		replaced[index].LastModifiedBy = actor
		replaced[index].LastModified = &now
		replaced[index].Version = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveBooks(ctx, opReplaceBooks, scope, replaced); err != nil {
		return nil, err
	}
	return replaced, nil
}

func (s *Service) mutate(ctx context.Context, operation string, scope Scope, actor, id string, change func(*Book)) (Book, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.loadBooks(ctx, scope)
	if err != nil {
		return Book{}, false, err
	}
	for index := range books {
		if books[index].ID != id {
			continue
		}
		change(&books[index])
		if scope.IsWorkspace() {
			now := s.clock().UTC()
			books[index].LastModifiedBy = actor
			books[index].LastModified = &now
			books[index].Version++
		}
		if err := s.saveBooks(ctx, operation, scope, books); err != nil {
			return Book{}, false, err
		}
		return books[index], true, nil
	}
	return Book{}, false, nil
}

func (s *Service) loadBooks(ctx context.Context, scope Scope) ([]Book, error) {
	books, found, err := kvstore.LoadCollection[Book](ctx, s.store, scope.booksKey())
	if err != nil {
		s.logError(opListBooks, reasonLoadFailed, err, zap.String("workspace_id", scope.WorkspaceID))
		return nil, newServiceError(opListBooks, reasonLoadFailed, err)
	}
	if found {
		return books, nil
	}

	seed := SeedBooks()
	if scope.IsWorkspace() {
		now := s.clock().UTC()
		for index := range seed {
			seed[index].WorkspaceID = scope.WorkspaceID
			seed[index].LastModified = &now
			seed[index].Version = 1
		}
	}
	if err := s.saveBooks(ctx, opListBooks, scope, seed); err != nil {
		return nil, err
	}
	s.logger.Info("seed catalog materialized",
		zap.String("workspace_id", scope.WorkspaceID),
		zap.Int("books", len(seed)))
	return seed, nil
}

func (s *Service) saveBooks(ctx context.Context, operation string, scope Scope, books []Book) error {
	if err := kvstore.SaveCollection(ctx, s.store, scope.booksKey(), books); err != nil {
		s.logError(operation, reasonSaveFailed, err, zap.String("workspace_id", scope.WorkspaceID))
		return newServiceError(operation, reasonSaveFailed, err)
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, operation string, scope Scope, actor string, allowed func(workspaces.Role) bool) error {
	if !scope.IsWorkspace() {
		return nil
	}
	if s.roles == nil {
		return newServiceError(operation, reasonPermission, fmt.Errorf("%w: %w", ErrPermissionDenied, errMissingRoles))
	}
	role, ok, err := s.roles.MemberRole(ctx, scope.WorkspaceID, actor)
	if err != nil {
		s.logError(operation, reasonRoleLookupFailed, err,
			zap.String("workspace_id", scope.WorkspaceID),
			zap.String("user_id", actor))
		return newServiceError(operation, reasonRoleLookupFailed, err)
	}
	if !ok || !allowed(role) {
		return newServiceError(operation, reasonPermission,
			fmt.Errorf("%w: role %q in workspace %s", ErrPermissionDenied, role, scope.WorkspaceID))
	}
	return nil
}

// recordActivity appends to the workspace log after a mutation has been saved.
// A failure is logged and never undoes or fails the mutation.
func (s *Service) recordActivity(ctx context.Context, operation string, scope Scope, actor string, action workspaces.ActivityAction, resource workspaces.ActivityResource, resourceID string, details map[string]any) {
	if !scope.IsWorkspace() || s.activities == nil {
		return
	}
	if _, err := s.activities.RecordActivity(ctx, workspaces.Activity{
		WorkspaceID:  scope.WorkspaceID,
		UserID:       actor,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		Details:      details,
	}); err != nil {
		s.logger.Warn("library activity not recorded",
			zap.String("operation", operation),
			zap.String("reason", reasonActivityFailed),
			zap.String("workspace_id", scope.WorkspaceID),
			zap.String("resource_id", resourceID),
			zap.Error(err))
	}
}

func (s *Service) newPrefixedID(prefix string) (string, error) {
	id, err := s.idProvider.NewID()
	if err != nil {
		return "", err
	}
	return prefix + "-" + id, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("library service error", attrs...)
}
