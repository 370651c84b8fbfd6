package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrUnknownUser is returned when added_by_id names a user that no longer exists.
	ErrUnknownUser = errors.New("book creator does not exist")
)

// UnknownAuthor is stored when the catalog lists no authors.
const UnknownAuthor = "Unknown Author"

// Book is a catalog volume materialized locally. It is created the first time
// any user adds its external id and is never mutated afterwards.
type Book struct {
	ID            string     `json:"id"`
	ExternalID    string     `json:"external_id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          *string    `json:"isbn,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CoverURL      *string    `json:"cover_url,omitempty"`
	Publisher     *string    `json:"publisher,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Language      *string    `json:"language,omitempty"`
	TotalPages    int        `json:"total_pages"`
	Genres        []string   `json:"genres"`
	Snapshot      Snapshot   `json:"-"`
	AddedByID     *string    `json:"added_by_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
