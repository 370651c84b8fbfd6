package catalog

import (
	"context"
	"fmt"
	"time"

	"bookmory/internal/platform/googlebooks"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	SearchTTL = 5 * time.Minute
	VolumeTTL = 10 * time.Minute
)

// CachedSource memoizes successful responses of another VolumeSource. Failures
// are never stored, so a miss always reaches the catalog.
type CachedSource struct {
	next     VolumeSource
	searches *expirable.LRU[string, *googlebooks.SearchResponse]
	volumes  *expirable.LRU[string, *googlebooks.Volume]
	log      *zap.Logger
}

func NewCachedSource(next VolumeSource, size int, log *zap.Logger) *CachedSource {
	return &CachedSource{
		next:     next,
		searches: expirable.NewLRU[string, *googlebooks.SearchResponse](size, nil, SearchTTL),
		volumes:  expirable.NewLRU[string, *googlebooks.Volume](size, nil, VolumeTTL),
		log:      log,
	}
}

func searchKey(p googlebooks.SearchParams) string {
	return fmt.Sprintf("google-books:search:q=%s|max=%d|start=%d|lang=%s|print=%s|order=%s|filter=%s|proj=%s",
		p.Query, p.MaxResults, p.StartIndex, p.LangRestrict, p.PrintType, p.OrderBy, p.Filter, p.Projection)
}

func volumeKey(id string) string {
	return "google-books:volume:" + id
}

func (c *CachedSource) Search(ctx context.Context, params googlebooks.SearchParams) (*googlebooks.SearchResponse, error) {
	key := searchKey(params)
	if res, ok := c.searches.Get(key); ok {
		c.log.Debug("catalog cache hit", zap.String("key", key))
		return res, nil
	}
	c.log.Debug("catalog cache miss", zap.String("key", key))

	res, err := c.next.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	c.searches.Add(key, res)
	return res, nil
}

func (c *CachedSource) GetVolume(ctx context.Context, volumeID string) (*googlebooks.Volume, error) {
	key := volumeKey(volumeID)
	if v, ok := c.volumes.Get(key); ok {
		c.log.Debug("catalog cache hit", zap.String("key", key))
		return v, nil
	}
	c.log.Debug("catalog cache miss", zap.String("key", key))

	v, err := c.next.GetVolume(ctx, volumeID)
	if err != nil {
		return nil, err
	}
	c.volumes.Add(key, v)
	return v, nil
}
