package library

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"bookmory/internal/apperr"
	"bookmory/internal/book"

	"go.uber.org/zap"
)

// errAccountGone answers a still-valid token whose account was deleted.
var errAccountGone = apperr.Unauthorized("Account no longer exists")

type Service struct {
	repo    Repository
	books   BookStore
	catalog VolumeFetcher
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, books BookStore, catalog VolumeFetcher, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		books:   books,
		catalog: catalog,
		log:     log,
		now:     time.Now,
	}
}

// Add materializes the catalog volume as a Book on first use and attaches a
// new membership for userID. An existing membership is a Conflict.
func (s *Service) Add(ctx context.Context, userID string, cmd AddCommand) (View, error) {
	externalID := strings.TrimSpace(cmd.ExternalID)
	if externalID == "" {
		return View{}, apperr.Validation("Book ID is required").WithFields(apperr.FieldError{
			Field: "external_id", Message: "external_id is required",
		})
	}
	status := StatusWantToRead
	if cmd.Status != nil {
		if !cmd.Status.Valid() {
			return View{}, apperr.Validationf("Invalid reading status %q", *cmd.Status)
		}
		status = *cmd.Status
	}

	b, err := s.books.GetByExternalID(ctx, externalID)
	switch {
	case err == nil:
		exists, err := s.repo.Exists(ctx, userID, b.ID)
		if err != nil {
			return View{}, apperr.Internal(err)
		}
		if exists {
			return View{}, apperr.Conflict("Book already exists in your library")
		}
	case errors.Is(err, book.ErrNotFound):
		b, err = s.materialize(ctx, userID, externalID)
		if err != nil {
			return View{}, err
		}
	default:
		return View{}, apperr.Internal(err)
	}

	now := s.now()
	ub := UserBook{
		UserID: userID,
		BookID: b.ID,
		Status: status,
	}
	if cmd.IsFavorite != nil {
		ub.IsFavorite = *cmd.IsFavorite
	}
	if status == StatusReading {
		ub.StartedAt = timePtr(now)
	}

	created, err := s.repo.Create(ctx, ub)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicate):
			return View{}, apperr.Conflict("Book already exists in your library")
		case errors.Is(err, ErrUnknownUser):
			return View{}, errAccountGone
		}
		return View{}, apperr.Internal(err)
	}
	created.Book = b

	s.log.Info("book added to library",
		zap.String("user_id", userID),
		zap.String("book_id", b.ID),
		zap.String("external_id", externalID),
		zap.String("status", string(status)),
	)
	return NewView(created), nil
}

func (s *Service) materialize(ctx context.Context, userID, externalID string) (book.Book, error) {
	vol, err := s.catalog.GetVolume(ctx, externalID)
	if err != nil {
		return book.Book{}, catalogError(err)
	}
	b, err := s.books.CreateOrGet(ctx, book.FromVolume(*vol, userID, s.now()))
	if errors.Is(err, book.ErrUnknownUser) {
		return book.Book{}, errAccountGone
	}
	if err != nil {
		return book.Book{}, apperr.Internal(err)
	}
	return b, nil
}

// catalogError keeps NotFound and Timeout and reports everything else as Upstream.
func catalogError(err error) error {
	switch apperr.CodeOf(err) {
	case apperr.CodeNotFound:
		return apperr.NotFound("Book not found in catalog").WithCause(err)
	case apperr.CodeTimeout:
		return apperr.Timeout("Request to the book catalog timed out").WithCause(err)
	default:
		return apperr.Upstream("Failed to fetch book from the catalog").WithCause(err)
	}
}

func (s *Service) Get(ctx context.Context, userID, bookID string) (View, error) {
	ub, err := s.get(ctx, userID, bookID)
	if err != nil {
		return View{}, err
	}
	return NewView(ub), nil
}

func (s *Service) get(ctx context.Context, userID, bookID string) (UserBook, error) {
	ub, err := s.repo.Get(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return UserBook{}, apperr.NotFound("Book not found in your library")
		}
		return UserBook{}, apperr.Internal(err)
	}
	return ub, nil
}

func (s *Service) UpdateProgress(ctx context.Context, userID, bookID string, upd ProgressUpdate) (View, error) {
	ub, err := s.get(ctx, userID, bookID)
	if err != nil {
		return View{}, err
	}
	if err := validateUpdate(upd, ub.Book.TotalPages); err != nil {
		return View{}, err
	}

	next := Derive(ub.Progress(), upd, ub.Book.TotalPages, s.now())

	updated, err := s.repo.UpdateProgress(ctx, ub.ID, next)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View{}, apperr.NotFound("Book not found in your library")
		}
		return View{}, apperr.Internal(err)
	}
	updated.Book = ub.Book
	return NewView(updated), nil
}

func validateUpdate(upd ProgressUpdate, totalPages int) error {
	var fields []apperr.FieldError
	if upd.CurrentPage != nil {
		switch page := *upd.CurrentPage; {
		case page < 0:
			fields = append(fields, apperr.FieldError{Field: "current_page", Message: "current_page must not be negative"})
		case page > totalPages:
			return apperr.Validationf("Current page cannot exceed total pages (%d)", totalPages).WithFields(
				apperr.FieldError{Field: "current_page", Message: "current_page cannot exceed total pages"})
		}
	}
	if upd.Status != nil && !upd.Status.Valid() {
		fields = append(fields, apperr.FieldError{Field: "status", Message: "status is invalid"})
	}
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		fields = append(fields, apperr.FieldError{Field: "rating", Message: "rating must be between 1 and 5"})
	}
	if len(fields) > 0 {
		return apperr.Validation("Validation failed").WithFields(fields...)
	}
	return nil
}

// Remove deletes only the membership. A second call reports NotFound.
func (s *Service) Remove(ctx context.Context, userID, bookID string) error {
	if err := s.repo.Delete(ctx, userID, bookID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Book not found in your library")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, q ListQuery) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Status != nil && !q.Status.Valid() {
		return Page{}, apperr.Validationf("Invalid reading status %q", *q.Status)
	}

	items, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return Page{}, apperr.Internal(err)
	}

	views := make([]View, 0, len(items))
	for _, ub := range items {
		views = append(views, NewView(ub))
	}
	return Page{
		Items:      views,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	row, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return Stats{}, apperr.Internal(err)
	}
	return NewStats(row), nil
}

// NewStats fills every status bucket and rounds the average rating to one decimal.
func NewStats(row StatsRow) Stats {
	st := Stats{
		TotalBooks:       row.Total,
		WantToRead:       row.ByStatus[StatusWantToRead],
		CurrentlyReading: row.ByStatus[StatusReading],
		Finished:         row.ByStatus[StatusFinished],
		Paused:           row.ByStatus[StatusPaused],
		DidNotFinish:     row.ByStatus[StatusDNF],
		Favorites:        row.Favorites,
		TotalPagesRead:   row.TotalPagesRead,
	}
	if row.AverageRating != nil {
		st.AverageRating = math.Round(*row.AverageRating*10) / 10
	}
	return st
}
