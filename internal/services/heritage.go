package services

import (
	"context"
	"fmt"
	"math"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/models"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

const (
	// HeritageEndpoint is the collection path for heritage sites.
	HeritageEndpoint = "/heritage-sites"

	// DefaultFeaturedLimit is the number of sites Featured returns when no
	// limit is given.
	DefaultFeaturedLimit = 10

	kmPerDegree = 111.32
)

// HeritageService reads heritage sites.
type HeritageService struct {
	*resource.Service[models.HeritageSite, int]
}

// NewHeritageService creates a heritage site service
func NewHeritageService(tr resource.Transport, opts ...resource.Option) *HeritageService {
	return &HeritageService{
		Service: resource.NewService[models.HeritageSite, int](tr, HeritageEndpoint, opts...),
	}
}

// Featured returns the most viewed sites.
func (s *HeritageService) Featured(ctx context.Context, limit int) (*resource.PagedEnvelope[models.HeritageSite], error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	q := resource.NewQuery().
		Sort("viewCount").
		Order(resource.OrderDesc).
		Limit(limit)
	return s.GetAll(ctx, q)
}

// ByCategory lists sites in category. q may add paging or further filters.
func (s *HeritageService) ByCategory(ctx context.Context, category string, q resource.Query) (*resource.PagedEnvelope[models.HeritageSite], error) {
	return s.Filter(ctx, map[string]any{"category": category}, q)
}

// Nearby lists sites inside a square of radiusKm around (lat, lng). The
// backend has no geo queries, so the square is expressed as range filters on
// latitude and longitude.
func (s *HeritageService) Nearby(ctx context.Context, lat, lng, radiusKm float64, q resource.Query) (*resource.PagedEnvelope[models.HeritageSite], error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("radius must be positive, got: %v", radiusKm)
	}
	box := boundingBox(lat, lng, radiusKm)
	filters := map[string]any{
		resource.FilterKey("latitude", resource.OpGte):  box.minLat,
		resource.FilterKey("latitude", resource.OpLte):  box.maxLat,
		resource.FilterKey("longitude", resource.OpGte): box.minLng,
		resource.FilterKey("longitude", resource.OpLte): box.maxLng,
	}
	return s.Filter(ctx, filters, q)
}

// Timeline returns the historical timeline of a site.
func (s *HeritageService) Timeline(ctx context.Context, id int) ([]models.TimelineEvent, error) {
	site, err := s.GetWithRelations(ctx, id, resource.Relations{Embed: []string{"timeline"}})
	if err != nil {
		return nil, err
	}
	return site.Timeline, nil
}

// WithArtifacts fetches a site with its artifacts embedded.
func (s *HeritageService) WithArtifacts(ctx context.Context, id int) (*models.HeritageSite, error) {
	return s.GetWithRelations(ctx, id, resource.Relations{Embed: []string{"artifacts"}})
}

type geoBox struct {
	minLat, maxLat, minLng, maxLng float64
}

func boundingBox(lat, lng, radiusKm float64) geoBox {
	dLat := radiusKm / kmPerDegree
	dLng := 180.0
	if c := math.Cos(lat * math.Pi / 180); c > 1e-9 {
		dLng = math.Min(radiusKm/(kmPerDegree*c), 180)
	}
	return geoBox{
		minLat: math.Max(lat-dLat, -90),
		maxLat: math.Min(lat+dLat, 90),
		minLng: lng - dLng,
		maxLng: lng + dLng,
	}
}
