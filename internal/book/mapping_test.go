package book

import (
	"testing"
	"time"

	"bookmory/internal/platform/googlebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromVolume(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v := googlebooks.Volume{
		ID: "X123",
		VolumeInfo: googlebooks.VolumeInfo{
			Title:         "Good Omens",
			Authors:       []string{"Terry Pratchett", "Neil Gaiman"},
			Publisher:     "Harper",
			PublishedDate: "2006-11",
			Description:   "The world ends on Saturday.",
			IndustryIdentifiers: []googlebooks.IndustryIdentifier{
				{Type: "ISBN_10", Identifier: "0060853980"},
				{Type: "ISBN_13", Identifier: "9780060853983"},
			},
			PageCount:  432,
			Categories: []string{"Fiction", "Humor"},
			ImageLinks: &googlebooks.ImageLinks{Thumbnail: "http://covers/good-omens.jpg"},
			Language:   "en",
		},
	}

	b := FromVolume(v, "user-1", now)

	assert.Equal(t, "X123", b.ExternalID)
	assert.Equal(t, "Good Omens", b.Title)
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", b.Author)
	require.NotNil(t, b.ISBN)
	assert.Equal(t, "9780060853983", *b.ISBN)
	require.NotNil(t, b.CoverURL)
	assert.Equal(t, "http://covers/good-omens.jpg", *b.CoverURL)
	assert.Equal(t, 432, b.TotalPages)
	assert.Equal(t, []string{"Fiction", "Humor"}, b.Genres)
	require.NotNil(t, b.PublishedDate)
	assert.Equal(t, time.Date(2006, 11, 1, 0, 0, 0, 0, time.UTC), *b.PublishedDate)
	require.NotNil(t, b.AddedByID)
	assert.Equal(t, "user-1", *b.AddedByID)
	assert.Equal(t, SnapshotVersion, b.Snapshot.Version)
	assert.Equal(t, now, b.Snapshot.FetchedAt)
	assert.Equal(t, "X123", b.Snapshot.Volume.ID)
}

func TestFromVolume_Defaults(t *testing.T) {
	b := FromVolume(googlebooks.Volume{ID: "bare", VolumeInfo: googlebooks.VolumeInfo{Title: "Untitled"}}, "", time.Now())

	assert.Equal(t, UnknownAuthor, b.Author)
	assert.Nil(t, b.ISBN)
	assert.Nil(t, b.CoverURL)
	assert.Nil(t, b.Description)
	assert.Nil(t, b.PublishedDate)
	assert.Nil(t, b.AddedByID)
	assert.Equal(t, 0, b.TotalPages)
	assert.NotNil(t, b.Genres)
	assert.Empty(t, b.Genres)
}

func TestSelectISBN(t *testing.T) {
	tests := []struct {
		name string
		ids  []googlebooks.IndustryIdentifier
		want string
	}{
		{"none", nil, ""},
		{"only other", []googlebooks.IndustryIdentifier{{Type: "OTHER", Identifier: "OCLC:1"}}, ""},
		{"only isbn10", []googlebooks.IndustryIdentifier{{Type: "ISBN_10", Identifier: "0441013597"}}, "0441013597"},
		{"isbn13 listed after isbn10", []googlebooks.IndustryIdentifier{
			{Type: "ISBN_10", Identifier: "0441013597"},
			{Type: "ISBN_13", Identifier: "9780441013593"},
		}, "9780441013593"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectISBN(tt.ids)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParsePublishedDate(t *testing.T) {
	assert.Equal(t, time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC), *ParsePublishedDate("1965"))
	assert.Equal(t, time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC), *ParsePublishedDate("1965-08"))
	assert.Equal(t, time.Date(1965, 8, 26, 0, 0, 0, 0, time.UTC), *ParsePublishedDate("1965-08-26"))
	assert.Nil(t, ParsePublishedDate(""))
	assert.Nil(t, ParsePublishedDate("circa 1965"))
}

func TestJoinAuthors_SkipsBlankNames(t *testing.T) {
	assert.Equal(t, "Frank Herbert", JoinAuthors([]string{" ", "Frank Herbert", ""}))
	assert.Equal(t, UnknownAuthor, JoinAuthors([]string{""}))
}
