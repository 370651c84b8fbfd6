package catalog

import (
	"context"
	"strings"

	"bookmory/internal/apperr"
	"bookmory/internal/httpx"
	"bookmory/internal/platform/googlebooks"
)

type Service struct {
	source VolumeSource
}

func NewService(source VolumeSource) *Service {
	return &Service{source: source}
}

func (s *Service) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q.Q = strings.TrimSpace(q.Q)
	if err := httpx.ValidateStruct(q); err != nil {
		return SearchResult{}, err
	}
	res, err := s.source.Search(ctx, googlebooks.SearchParams{
		Query:      q.Q,
		MaxResults: q.MaxResults,
		StartIndex: q.StartIndex,
		Projection: "full",
	})
	if err != nil {
		return SearchResult{}, err
	}
	return toResult(res), nil
}

// AdvancedSearch combines the supplied fields into one qualified catalog query.
func (s *Service) AdvancedSearch(ctx context.Context, q AdvancedQuery) (SearchResult, error) {
	if err := httpx.ValidateStruct(q); err != nil {
		return SearchResult{}, err
	}
	query := BuildAdvancedQuery(q)
	if query == "" {
		return SearchResult{}, apperr.Validation("At least one search parameter must be provided")
	}
	res, err := s.source.Search(ctx, googlebooks.SearchParams{
		Query:        query,
		MaxResults:   q.MaxResults,
		StartIndex:   q.StartIndex,
		OrderBy:      q.OrderBy,
		Filter:       q.Filter,
		PrintType:    q.PrintType,
		LangRestrict: q.LangRestrict,
		Projection:   "full",
	})
	if err != nil {
		return SearchResult{}, err
	}
	return toResult(res), nil
}

func (s *Service) GetVolume(ctx context.Context, id string) (googlebooks.Volume, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return googlebooks.Volume{}, apperr.Validation("Book ID is required")
	}
	v, err := s.source.GetVolume(ctx, id)
	if err != nil {
		return googlebooks.Volume{}, err
	}
	return *v, nil
}

func BuildAdvancedQuery(q AdvancedQuery) string {
	var parts []string
	if v := strings.TrimSpace(q.Title); v != "" {
		parts = append(parts, `intitle:"`+v+`"`)
	}
	if v := strings.TrimSpace(q.Author); v != "" {
		parts = append(parts, `inauthor:"`+v+`"`)
	}
	if v := strings.TrimSpace(q.Publisher); v != "" {
		parts = append(parts, `inpublisher:"`+v+`"`)
	}
	if v := strings.TrimSpace(q.Subject); v != "" {
		parts = append(parts, `subject:"`+v+`"`)
	}
	if v := strings.TrimSpace(q.ISBN); v != "" {
		parts = append(parts, "isbn:"+strings.ReplaceAll(v, "-", ""))
	}
	return strings.Join(parts, " ")
}

func toResult(res *googlebooks.SearchResponse) SearchResult {
	items := res.Items
	if items == nil {
		items = []googlebooks.Volume{}
	}
	return SearchResult{Kind: res.Kind, TotalItems: res.TotalItems, Items: items}
}
