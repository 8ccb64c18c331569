package service

import (
	"context"
	"sort"

	"github.com/twpayne/go-geom/encoding/geojson"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/geo"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type ShapeService struct {
	store *repository.Store
	cache *CacheService
}

func NewShapeService(store *repository.Store, cache *CacheService) *ShapeService {
	return &ShapeService{store: store, cache: cache}
}

func toShapePoints(in []dto.ShapePointInput) []models.ShapePoint {
	points := make([]models.ShapePoint, 0, len(in))
	for _, p := range in {
		points = append(points, models.ShapePoint{
			Lat:          *p.Lat,
			Lon:          *p.Lon,
			Sequence:     *p.Sequence,
			DistTraveled: p.DistTraveled,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Sequence < points[j].Sequence })
	return points
}

func (s *ShapeService) Create(ctx context.Context, c policy.Caller, req dto.CreateShapeRequest) (*models.Shape, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := ensureUnique[models.Shape](ctx, s.store, "shape_id", req.ShapeID, 0, "shape_id"); err != nil {
		return nil, err
	}
	shape := &models.Shape{ShapeID: req.ShapeID, Points: toShapePoints(req.Points)}
	if err := repository.Create(ctx, s.store, shape); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKeyShapesSummary)
	return s.store.GetShape(ctx, shape.ID)
}

func (s *ShapeService) List(ctx context.Context) ([]models.Shape, error) {
	return s.store.ListShapes(ctx)
}

// Summary lists {id, shape_id} pairs without points.
func (s *ShapeService) Summary(ctx context.Context) ([]models.ShapeSummary, error) {
	var out []models.ShapeSummary
	if s.cache.Get(ctx, cacheKeyShapesSummary, &out) {
		return out, nil
	}
	out, err := s.store.ShapeSummaries(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cacheKeyShapesSummary, out)
	return out, nil
}

func (s *ShapeService) Get(ctx context.Context, id uint) (*models.Shape, error) {
	shape, err := s.store.GetShape(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "shape not found")
	}
	return shape, nil
}

func (s *ShapeService) ByShapeID(ctx context.Context, shapeID string) (*models.Shape, error) {
	shape, err := s.store.ShapeByShapeID(ctx, shapeID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "shape not found")
	}
	return shape, nil
}

// GeoJSON renders the shape as a LineString feature.
func (s *ShapeService) GeoJSON(ctx context.Context, id uint) (*geojson.Feature, error) {
	shape, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	points := make([]geo.Point, 0, len(shape.Points))
	for _, p := range shape.Points {
		points = append(points, geo.Point{Lat: p.Lat, Lon: p.Lon})
	}
	feature, err := geo.LineFeature(shape.ShapeID, points, map[string]any{"id": shape.ID, "shape_id": shape.ShapeID})
	if err != nil {
		return nil, apperrors.Validation("shape %s cannot be drawn: %v", shape.ShapeID, err)
	}
	return feature, nil
}

// Update renames the shape and, when points are sent, replaces all of them.
func (s *ShapeService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateShapeRequest) (*models.Shape, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Shape](ctx, s.store, id, "shape not found"); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.ShapeID != nil {
		if err := ensureUnique[models.Shape](ctx, s.store, "shape_id", *req.ShapeID, id, "shape_id"); err != nil {
			return nil, err
		}
		fields["shape_id"] = *req.ShapeID
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Update[models.Shape](ctx, tx, id, fields); err != nil {
			return err
		}
		if req.Points != nil {
			return tx.ReplaceShapePoints(ctx, id, toShapePoints(*req.Points))
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "shape not found")
	}
	s.cache.Invalidate(ctx, cacheKeyShapesSummary)
	return s.Get(ctx, id)
}

func (s *ShapeService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return err
	}
	if err := ensureExists[models.Shape](ctx, s.store, id, "shape not found"); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.ReplaceShapePoints(ctx, id, nil); err != nil {
			return err
		}
		return repository.Delete[models.Shape](ctx, tx, id)
	})
	if err != nil {
		return apperrors.NotFoundOr(err, "shape not found")
	}
	s.cache.Invalidate(ctx, cacheKeyShapesSummary)
	return nil
}
