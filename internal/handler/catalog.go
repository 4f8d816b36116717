package handler

import (
	"github.com/laskarj/theatre-api/internal/repository"
)

// CatalogHandler bundles repositories for browsing and managing the
// theatre catalog: genres, artists, plays, halls and performances.
// Catalog reads are public; writes sit behind the ADMIN role, enforced
// by middleware on the routes.
type CatalogHandler struct {
	GenreRepo       *repository.GenreRepo
	ArtistRepo      *repository.ArtistRepo
	PlayRepo        *repository.PlayRepo
	HallRepo        *repository.HallRepo
	PerformanceRepo *repository.PerformanceRepo
}

// NewCatalogHandler constructs a CatalogHandler and panics if any dependency is nil.
func NewCatalogHandler(genres *repository.GenreRepo, artists *repository.ArtistRepo, plays *repository.PlayRepo, halls *repository.HallRepo, performances *repository.PerformanceRepo) *CatalogHandler {
	if genres == nil || artists == nil || plays == nil || halls == nil || performances == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{
		GenreRepo:       genres,
		ArtistRepo:      artists,
		PlayRepo:        plays,
		HallRepo:        halls,
		PerformanceRepo: performances,
	}
}
