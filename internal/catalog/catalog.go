package catalog

import (
	"context"

	"bookmory/internal/platform/googlebooks"
)

//go:generate mockgen -source=catalog.go -destination=mock_volume_source.go -package=catalog

// VolumeSource is satisfied by the Google Books client and by the cache in front of it.
type VolumeSource interface {
	Search(ctx context.Context, params googlebooks.SearchParams) (*googlebooks.SearchResponse, error)
	GetVolume(ctx context.Context, volumeID string) (*googlebooks.Volume, error)
}

const (
	DefaultMaxResults = 10
)

type SearchQuery struct {
	Q          string `json:"q" validate:"required,min=1"`
	MaxResults int    `json:"maxResults" validate:"gte=1,lte=40"`
	StartIndex int    `json:"startIndex" validate:"gte=0"`
}

type AdvancedQuery struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Publisher    string `json:"publisher"`
	Subject      string `json:"subject"`
	ISBN         string `json:"isbn"`
	MaxResults   int    `json:"maxResults" validate:"gte=1,lte=40"`
	StartIndex   int    `json:"startIndex" validate:"gte=0"`
	OrderBy      string `json:"orderBy" validate:"omitempty,oneof=newest relevance"`
	Filter       string `json:"filter" validate:"omitempty,oneof=ebooks free-ebooks full paid-ebooks partial"`
	PrintType    string `json:"printType" validate:"omitempty,oneof=all books magazines"`
	LangRestrict string `json:"langRestrict" validate:"omitempty,min=2,max=8"`
}

type SearchResult struct {
	Kind       string               `json:"kind"`
	TotalItems int                  `json:"totalItems"`
	Items      []googlebooks.Volume `json:"items"`
}
