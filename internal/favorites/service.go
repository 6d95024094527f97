package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swaroski/ai-shelves/internal/kvstore"
	"go.uber.org/zap"
)

const favoritesKey = "user_favorites"

const (
	opServiceNew     = "favorites.service.new"
	opList           = "favorites.list"
	opAdd            = "favorites.add"
	opRemove         = "favorites.remove"
	opClear          = "favorites.clear"
	reasonLoadFailed = "load_failed"
	reasonSaveFailed = "save_failed"
	reasonIDFailed   = "id_generation_failed"
	reasonInvalid    = "invalid_input"
)

var (
	errMissingStore = errors.New("favorites: key-value store is required")
	// ErrInvalidFavorite indicates a missing user or book id.
	ErrInvalidFavorite = errors.New("favorites: user and book are required")
)

// ServiceError carries a stable "<operation>.<reason>" code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// Favorite marks a book for a user. At most one exists per (UserID, BookID).
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookID    string    `json:"bookId"`
	DateAdded time.Time `json:"dateAdded"`
}

// ToggleResult reports the state after a toggle. Favorite is set only when the book became a favorite.
type ToggleResult struct {
	IsFavorite bool      `json:"isFavorite"`
	Favorite   *Favorite `json:"favorite,omitempty"`
}

// IDProvider issues favorite identifiers.
type IDProvider interface {
	NewID() (string, error)
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7 identifiers.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// ServiceConfig describes the dependencies of the favorites store.
type ServiceConfig struct {
	Store      kvstore.Store
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service keeps every user's favorites in one collection.
type Service struct {
	store      kvstore.Store
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	idProvider := cfg.IDProvider
	if idProvider == nil {
		idProvider = NewUUIDProvider()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      cfg.Store,
		clock:      clock,
		idProvider: idProvider,
		logger:     logger,
	}, nil
}

// All returns every favorite of every user.
func (s *Service) All(ctx context.Context) ([]Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ListForUser returns the user's favorites in insertion order.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Favorite, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Favorite, 0)
	for _, favorite := range all {
		if favorite.UserID == userID {
			result = append(result, favorite)
		}
	}
	return result, nil
}

// IsFavorite reports whether the user marked the book.
func (s *Service) IsFavorite(ctx context.Context, userID, bookID string) (bool, error) {
	favorites, err := s.ListForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, favorite := range favorites {
		if favorite.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

// FavoriteBookIDs returns the ids of the user's favorite books.
func (s *Service) FavoriteBookIDs(ctx context.Context, userID string) ([]string, error) {
	favorites, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		ids = append(ids, favorite.BookID)
	}
	return ids, nil
}

// CountFor returns how many favorites the user has.
func (s *Service) CountFor(ctx context.Context, userID string) (int, error) {
	favorites, err := s.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(favorites), nil
}

// Add returns the existing favorite when the pair is already present.
func (s *Service) Add(ctx context.Context, userID, bookID string) (Favorite, error) {
	if err := validatePair(opAdd, userID, bookID); err != nil {
		return Favorite{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, userID, bookID)
}

// Remove reports false without error when the pair is absent.
func (s *Service) Remove(ctx context.Context, userID, bookID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, userID, bookID)
}

// Toggle flips the favorite state of (userID, bookID) in one read-check-write cycle.
func (s *Service) Toggle(ctx context.Context, userID, bookID string) (ToggleResult, error) {
	if err := validatePair(opAdd, userID, bookID); err != nil {
		return ToggleResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.removeLocked(ctx, userID, bookID)
	if err != nil {
		return ToggleResult{}, err
	}
	if removed {
		return ToggleResult{IsFavorite: false}, nil
	}
	favorite, err := s.addLocked(ctx, userID, bookID)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{IsFavorite: true, Favorite: &favorite}, nil
}

// ClearUser removes every favorite of the user.
func (s *Service) ClearUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.load(ctx)
	if err != nil {
		return err
	}
	filtered := make([]Favorite, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.UserID != userID {
			filtered = append(filtered, favorite)
		}
	}
	return s.save(ctx, opClear, filtered)
}

func (s *Service) addLocked(ctx context.Context, userID, bookID string) (Favorite, error) {
	favorites, err := s.load(ctx)
	if err != nil {
		return Favorite{}, err
	}
	for _, favorite := range favorites {
		if favorite.UserID == userID && favorite.BookID == bookID {
			return favorite, nil
		}
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAdd, reasonIDFailed, err)
		return Favorite{}, newServiceError(opAdd, reasonIDFailed, err)
	}
	favorite := Favorite{
		ID:        "fav-" + id,
		UserID:    userID,
		BookID:    bookID,
		DateAdded: s.clock().UTC(),
	}
	favorites = append(favorites, favorite)
	if err := s.save(ctx, opAdd, favorites); err != nil {
		return Favorite{}, err
	}
	return favorite, nil
}

func (s *Service) removeLocked(ctx context.Context, userID, bookID string) (bool, error) {
	favorites, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	filtered := make([]Favorite, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.UserID == userID && favorite.BookID == bookID {
			continue
		}
		filtered = append(filtered, favorite)
	}
	if len(filtered) == len(favorites) {
		return false, nil
	}
	if err := s.save(ctx, opRemove, filtered); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) load(ctx context.Context) ([]Favorite, error) {
	favorites, _, err := kvstore.LoadCollection[Favorite](ctx, s.store, favoritesKey)
	if err != nil {
		s.logError(opList, reasonLoadFailed, err)
		return nil, newServiceError(opList, reasonLoadFailed, err)
	}
	return favorites, nil
}

func (s *Service) save(ctx context.Context, operation string, favorites []Favorite) error {
	if err := kvstore.SaveCollection(ctx, s.store, favoritesKey, favorites); err != nil {
		s.logError(operation, reasonSaveFailed, err)
		return newServiceError(operation, reasonSaveFailed, err)
	}
	return nil
}

func validatePair(operation, userID, bookID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(bookID) == "" {
		return newServiceError(operation, reasonInvalid, ErrInvalidFavorite)
	}
	return nil
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
	s.logger.Error("favorites service error", attrs...)
}
