package library

import (
	"errors"
	"strings"
	"time"

	"bookmory/internal/apperr"
	"bookmory/internal/book"
)

var (
	// ErrNotFound is returned by the repository when no membership matches.
	ErrNotFound = errors.New("user book not found")
	// ErrDuplicate is returned when (user, book) already has a membership.
	ErrDuplicate = errors.New("user book already exists")
	// ErrUnknownUser is returned when the membership owner no longer exists.
	ErrUnknownUser = errors.New("user book owner does not exist")
)

type ReadingStatus string

const (
	StatusWantToRead ReadingStatus = "WANT_TO_READ"
	StatusReading    ReadingStatus = "READING"
	StatusFinished   ReadingStatus = "FINISHED"
	StatusPaused     ReadingStatus = "PAUSED"
	StatusDNF        ReadingStatus = "DNF"
)

var allStatuses = []ReadingStatus{StatusWantToRead, StatusReading, StatusFinished, StatusPaused, StatusDNF}

func (s ReadingStatus) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts exactly one of the five status names.
func ParseStatus(s string) (ReadingStatus, error) {
	st := ReadingStatus(s)
	if !st.Valid() {
		names := make([]string, len(allStatuses))
		for i, v := range allStatuses {
			names[i] = string(v)
		}
		return "", apperr.Validation("Invalid reading status").WithFields(apperr.FieldError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(names, ", "),
		})
	}
	return st, nil
}

// UserBook is one user's membership of a Book.
type UserBook struct {
	ID          string
	UserID      string
	BookID      string
	Status      ReadingStatus
	CurrentPage int
	Rating      *int
	Review      *string
	IsFavorite  bool
	StartedAt   *time.Time
	FinishedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Book book.Book
}

func (ub UserBook) Progress() Progress {
	return Progress{
		Status:      ub.Status,
		CurrentPage: ub.CurrentPage,
		Rating:      ub.Rating,
		Review:      ub.Review,
		IsFavorite:  ub.IsFavorite,
		StartedAt:   ub.StartedAt,
		FinishedAt:  ub.FinishedAt,
	}
}

// View is the membership as returned to clients.
type View struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	BookID             string        `json:"book_id"`
	Status             ReadingStatus `json:"status"`
	CurrentPage        int           `json:"current_page"`
	Rating             *int          `json:"rating,omitempty"`
	Review             *string       `json:"review,omitempty"`
	IsFavorite         bool          `json:"is_favorite"`
	StartedAt          *time.Time    `json:"started_at,omitempty"`
	FinishedAt         *time.Time    `json:"finished_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	Book               book.Book     `json:"book"`
	ProgressPercentage int           `json:"progress_percentage"`
}

func NewView(ub UserBook) View {
	return View{
		ID:                 ub.ID,
		UserID:             ub.UserID,
		BookID:             ub.BookID,
		Status:             ub.Status,
		CurrentPage:        ub.CurrentPage,
		Rating:             ub.Rating,
		Review:             ub.Review,
		IsFavorite:         ub.IsFavorite,
		StartedAt:          ub.StartedAt,
		FinishedAt:         ub.FinishedAt,
		CreatedAt:          ub.CreatedAt,
		UpdatedAt:          ub.UpdatedAt,
		Book:               ub.Book,
		ProgressPercentage: ProgressPercentage(ub.CurrentPage, ub.Book.TotalPages),
	}
}

type AddCommand struct {
	ExternalID string
	Status     *ReadingStatus
	IsFavorite *bool
}

// ProgressUpdate carries only the fields the caller sent; nil means absent.
type ProgressUpdate struct {
	CurrentPage *int
	Status      *ReadingStatus
	Rating      *int
	Review      *string
	IsFavorite  *bool
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListQuery struct {
	Status     *ReadingStatus
	IsFavorite *bool
	Page       int
	Limit      int
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type Page struct {
	Items      []View `json:"books"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// StatsRow is the raw aggregate read from storage.
type StatsRow struct {
	Total          int
	ByStatus       map[ReadingStatus]int
	Favorites      int
	AverageRating  *float64
	TotalPagesRead int
}

type Stats struct {
	TotalBooks       int     `json:"total_books"`
	WantToRead       int     `json:"want_to_read"`
	CurrentlyReading int     `json:"currently_reading"`
	Finished         int     `json:"finished"`
	Paused           int     `json:"paused"`
	DidNotFinish     int     `json:"did_not_finish"`
	Favorites        int     `json:"favorites"`
	AverageRating    float64 `json:"average_rating"`
	// TotalPagesRead sums current_page over every membership regardless of status.
	TotalPagesRead int `json:"total_pages_read"`
}
