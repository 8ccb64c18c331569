package service

import (
	"context"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/repository"
)

type StopService struct {
	store *repository.Store
	cache *CacheService
}

func NewStopService(store *repository.Store, cache *CacheService) *StopService {
	return &StopService{store: store, cache: cache}
}

func (s *StopService) Create(ctx context.Context, req dto.CreateStopRequest) (*models.Stop, error) {
	if err := ensureUnique[models.Stop](ctx, s.store, "stop_id", req.StopID, 0, "stop_id"); err != nil {
		return nil, err
	}
	stop := &models.Stop{
		StopID:   req.StopID,
		StopName: req.StopName,
		StopLat:  *req.StopLat,
		StopLon:  *req.StopLon,
		StopDesc: req.StopDesc,
		ZoneID:   req.ZoneID,
		StopURL:  req.StopURL,
	}
	if err := repository.Create(ctx, s.store, stop); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKeyStops)
	return stop, nil
}

// List is served from the cache when one is configured.
func (s *StopService) List(ctx context.Context) ([]models.Stop, error) {
	var stops []models.Stop
	if s.cache.Get(ctx, cacheKeyStops, &stops) {
		return stops, nil
	}
	stops, err := repository.List[models.Stop](ctx, s.store)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cacheKeyStops, stops)
	return stops, nil
}

func (s *StopService) Get(ctx context.Context, id uint) (*models.Stop, error) {
	stop, err := repository.Get[models.Stop](ctx, s.store, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "stop not found")
	}
	return stop, nil
}

func (s *StopService) Update(ctx context.Context, id uint, req dto.UpdateStopRequest) (*models.Stop, error) {
	if err := ensureExists[models.Stop](ctx, s.store, id, "stop not found"); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.StopID != nil {
		if err := ensureUnique[models.Stop](ctx, s.store, "stop_id", *req.StopID, id, "stop_id"); err != nil {
			return nil, err
		}
		fields["stop_id"] = *req.StopID
	}
	setIf(fields, "stop_name", req.StopName)
	setIf(fields, "stop_lat", req.StopLat)
	setIf(fields, "stop_lon", req.StopLon)
	setIf(fields, "stop_desc", req.StopDesc)
	setIf(fields, "zone_id", req.ZoneID)
	setIf(fields, "stop_url", req.StopURL)

	if err := repository.Update[models.Stop](ctx, s.store, id, fields); err != nil {
		return nil, apperrors.NotFoundOr(err, "stop not found")
	}
	s.cache.Invalidate(ctx, cacheKeyStops)
	return s.Get(ctx, id)
}

// Delete removes the stop and every stop time calling at it.
func (s *StopService) Delete(ctx context.Context, id uint) error {
	if err := ensureExists[models.Stop](ctx, s.store, id, "stop not found"); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.DeleteStopTimesForStop(ctx, id); err != nil {
			return err
		}
		return repository.Delete[models.Stop](ctx, tx, id)
	})
	if err != nil {
		return apperrors.NotFoundOr(err, "stop not found")
	}
	s.cache.Invalidate(ctx, cacheKeyStops)
	return nil
}
