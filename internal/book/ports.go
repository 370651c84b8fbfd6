package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	GetByID(ctx context.Context, id string) (Book, error)
	GetByExternalID(ctx context.Context, externalID string) (Book, error)
	// CreateOrGet inserts b unless a Book with the same external id exists,
	// and returns whichever row is stored.
	CreateOrGet(ctx context.Context, b Book) (Book, error)
}
