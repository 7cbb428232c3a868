package services

import (
	"context"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/models"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

// ArtifactEndpoint is the collection path for artifacts.
const ArtifactEndpoint = "/artifacts"

// ArtifactService reads artifacts.
type ArtifactService struct {
	*resource.Service[models.Artifact, int]
}

// NewArtifactService creates an artifact service
func NewArtifactService(tr resource.Transport, opts ...resource.Option) *ArtifactService {
	return &ArtifactService{
		Service: resource.NewService[models.Artifact, int](tr, ArtifactEndpoint, opts...),
	}
}

// ByHeritage lists the artifacts of a heritage site.
func (s *ArtifactService) ByHeritage(ctx context.Context, heritageID int, q resource.Query) (*resource.PagedEnvelope[models.Artifact], error) {
	return s.Filter(ctx, map[string]any{"heritageId": heritageID}, q)
}

// WithHeritage fetches an artifact with its heritage site expanded.
func (s *ArtifactService) WithHeritage(ctx context.Context, id int) (*models.Artifact, error) {
	return s.GetWithRelations(ctx, id, resource.Relations{Expand: []string{"heritage"}})
}

// Models3D lists artifacts that ship a 3D model.
func (s *ArtifactService) Models3D(ctx context.Context, q resource.Query) (*resource.PagedEnvelope[models.Artifact], error) {
	return s.Filter(ctx, map[string]any{"is3D": true}, q)
}
