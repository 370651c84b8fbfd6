package book

import (
	"strings"
	"time"

	"bookmory/internal/platform/googlebooks"
)

// FromVolume maps a catalog volume into a new, not yet persisted Book.
func FromVolume(v googlebooks.Volume, addedBy string, now time.Time) Book {
	info := v.VolumeInfo

	b := Book{
		ExternalID:    v.ID,
		Title:         strings.TrimSpace(info.Title),
		Author:        JoinAuthors(info.Authors),
		ISBN:          SelectISBN(info.IndustryIdentifiers),
		Description:   optional(info.Description),
		Publisher:     optional(info.Publisher),
		Language:      optional(info.Language),
		PublishedDate: ParsePublishedDate(info.PublishedDate),
		TotalPages:    max(info.PageCount, 0),
		Genres:        info.Categories,
		Snapshot:      NewSnapshot(v, now),
	}
	if b.Genres == nil {
		b.Genres = []string{}
	}
	if info.ImageLinks != nil {
		b.CoverURL = optional(info.ImageLinks.Thumbnail)
	}
	if addedBy != "" {
		b.AddedByID = &addedBy
	}
	return b
}

func JoinAuthors(authors []string) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	if len(names) == 0 {
		return UnknownAuthor
	}
	return strings.Join(names, ", ")
}

// SelectISBN prefers ISBN_13 and falls back to ISBN_10.
func SelectISBN(ids []googlebooks.IndustryIdentifier) *string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			if id.Identifier != "" {
				v := id.Identifier
				return &v
			}
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return optional(isbn10)
}

// ParsePublishedDate accepts the catalog's YYYY, YYYY-MM and YYYY-MM-DD forms.
func ParsePublishedDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
