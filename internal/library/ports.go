package library

import (
	"context"

	"bookmory/internal/book"
	"bookmory/internal/platform/googlebooks"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=library

// Repository stores memberships. Reads join the owning Book.
type Repository interface {
	Exists(ctx context.Context, userID, bookID string) (bool, error)
	Create(ctx context.Context, ub UserBook) (UserBook, error)
	Get(ctx context.Context, userID, bookID string) (UserBook, error)
	UpdateProgress(ctx context.Context, userBookID string, p Progress) (UserBook, error)
	Delete(ctx context.Context, userID, bookID string) error
	List(ctx context.Context, userID string, q ListQuery) ([]UserBook, int, error)
	Stats(ctx context.Context, userID string) (StatsRow, error)
}

// BookStore is the subset of book storage the library needs.
type BookStore interface {
	GetByExternalID(ctx context.Context, externalID string) (book.Book, error)
	CreateOrGet(ctx context.Context, b book.Book) (book.Book, error)
}

// VolumeFetcher resolves an external catalog id to its volume.
type VolumeFetcher interface {
	GetVolume(ctx context.Context, volumeID string) (*googlebooks.Volume, error)
}
