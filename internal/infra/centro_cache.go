package infra

import (
	"context"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const centrosKey = "centros:activos"

// CentroLoader fetches the active work centers from storage.
type CentroLoader func(ctx context.Context) ([]model.CentroTrabajo, error)

// CentroCache keeps the active work centers in memory. Every clock-in with
// coordinates needs the full list for the geofence check, and it only
// changes when an admin edits a center.
type CentroCache struct {
	c    *gocache.Cache
	sf   singleflight.Group
	load CentroLoader
}

func NewCentroCache(load CentroLoader, ttl time.Duration) *CentroCache {
	return &CentroCache{c: gocache.New(ttl, 2*ttl), load: load}
}

// Activos returns the cached list, loading it once when concurrent callers miss.
func (cc *CentroCache) Activos(ctx context.Context) ([]model.CentroTrabajo, error) {
	if v, ok := cc.c.Get(centrosKey); ok {
		return v.([]model.CentroTrabajo), nil
	}
	v, err, _ := cc.sf.Do(centrosKey, func() (any, error) {
		list, err := cc.load(ctx)
		if err != nil {
			return nil, err
		}
		cc.c.SetDefault(centrosKey, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.CentroTrabajo), nil
}

// Invalidate drops the cached list; the next Activos call reloads.
func (cc *CentroCache) Invalidate() {
	cc.c.Delete(centrosKey)
}
