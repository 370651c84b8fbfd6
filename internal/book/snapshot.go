package book

import (
	"encoding/json"
	"fmt"
	"time"

	"bookmory/internal/platform/googlebooks"
)

const (
	SnapshotVersion = 1
	ProviderGoogle  = "google_books"
)

// Snapshot is the catalog payload a Book was created from, stored as jsonb.
type Snapshot struct {
	Version   int                `json:"version"`
	Provider  string             `json:"provider"`
	FetchedAt time.Time          `json:"fetched_at"`
	Volume    googlebooks.Volume `json:"volume"`
}

func NewSnapshot(v googlebooks.Volume, fetchedAt time.Time) Snapshot {
	return Snapshot{
		Version:   SnapshotVersion,
		Provider:  ProviderGoogle,
		FetchedAt: fetchedAt.UTC(),
		Volume:    v,
	}
}

func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a stored snapshot and rejects versions and providers it does not know.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(data) == 0 {
		return s, fmt.Errorf("decode snapshot: empty payload")
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return s, fmt.Errorf("decode snapshot: unsupported version %d", s.Version)
	}
	if s.Provider != ProviderGoogle {
		return s, fmt.Errorf("decode snapshot: unsupported provider %q", s.Provider)
	}
	return s, nil
}
