package catalog

import (
	"context"
	"testing"

	"bookmory/internal/apperr"
	"bookmory/internal/platform/googlebooks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAdvancedQuery(t *testing.T) {
	tests := []struct {
		name string
		in   AdvancedQuery
		want string
	}{
		{"empty", AdvancedQuery{}, ""},
		{"blank fields", AdvancedQuery{Title: "  ", Author: ""}, ""},
		{"title only", AdvancedQuery{Title: "Dune"}, `intitle:"Dune"`},
		{
			"all fields",
			AdvancedQuery{Title: "Dune", Author: "Frank Herbert", Publisher: "Ace", Subject: "Fiction", ISBN: "978-0441013593"},
			`intitle:"Dune" inauthor:"Frank Herbert" inpublisher:"Ace" subject:"Fiction" isbn:9780441013593`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildAdvancedQuery(tt.in))
		})
	}
}

func TestService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSource := NewMockVolumeSource(ctrl)
	svc := NewService(mockSource)

	t.Run("requires query", func(t *testing.T) {
		_, err := svc.Search(context.Background(), SearchQuery{Q: "   ", MaxResults: 10})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("rejects max results above cap", func(t *testing.T) {
		_, err := svc.Search(context.Background(), SearchQuery{Q: "dune", MaxResults: 41})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("passes params through", func(t *testing.T) {
		mockSource.EXPECT().Search(gomock.Any(), googlebooks.SearchParams{
			Query: "dune", MaxResults: 10, StartIndex: 0, Projection: "full",
		}).Return(&googlebooks.SearchResponse{Kind: "books#volumes", TotalItems: 0}, nil)

		res, err := svc.Search(context.Background(), SearchQuery{Q: " dune ", MaxResults: 10})
		require.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Equal(t, "books#volumes", res.Kind)
	})
}

func TestService_AdvancedSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSource := NewMockVolumeSource(ctrl)
	svc := NewService(mockSource)

	t.Run("empty query is a validation error", func(t *testing.T) {
		_, err := svc.AdvancedSearch(context.Background(), AdvancedQuery{MaxResults: 10})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("invalid order", func(t *testing.T) {
		_, err := svc.AdvancedSearch(context.Background(), AdvancedQuery{Title: "Dune", MaxResults: 10, OrderBy: "oldest"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		mockSource.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrUpstream)

		_, err := svc.AdvancedSearch(context.Background(), AdvancedQuery{Author: "Herbert", MaxResults: 10})
		assert.ErrorIs(t, err, apperr.ErrUpstream)
	})
}
