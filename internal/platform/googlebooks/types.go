package googlebooks

// IndustryIdentifier is one entry of volumeInfo.industryIdentifiers, e.g. {"ISBN_13", "9780441013593"}.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Small          string `json:"small,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Large          string `json:"large,omitempty"`
	ExtraLarge     string `json:"extraLarge,omitempty"`
}

type VolumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	PageCount           int                  `json:"pageCount,omitempty"`
	PrintType           string               `json:"printType,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	AverageRating       float64              `json:"averageRating,omitempty"`
	RatingsCount        int                  `json:"ratingsCount,omitempty"`
	MaturityRating      string               `json:"maturityRating,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
	Language            string               `json:"language,omitempty"`
	PreviewLink         string               `json:"previewLink,omitempty"`
	InfoLink            string               `json:"infoLink,omitempty"`
	CanonicalVolumeLink string               `json:"canonicalVolumeLink,omitempty"`
}

type SearchInfo struct {
	TextSnippet string `json:"textSnippet,omitempty"`
}

// Volume is a catalog entry from /volumes and /volumes/{id}. Sale and access
// info are not modelled.
type Volume struct {
	Kind       string      `json:"kind"`
	ID         string      `json:"id"`
	Etag       string      `json:"etag,omitempty"`
	SelfLink   string      `json:"selfLink,omitempty"`
	VolumeInfo VolumeInfo  `json:"volumeInfo"`
	SearchInfo *SearchInfo `json:"searchInfo,omitempty"`
}

type SearchResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// SearchParams maps onto the /volumes query string. Zero values are omitted.
type SearchParams struct {
	Query        string
	MaxResults   int
	StartIndex   int
	LangRestrict string
	PrintType    string // all, books, magazines
	OrderBy      string // newest, relevance
	Filter       string // ebooks, free-ebooks, full, paid-ebooks, partial
	Projection   string // full, lite
}
