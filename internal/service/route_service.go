package service

import (
	"context"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type RouteService struct {
	store *repository.Store
}

func NewRouteService(store *repository.Store) *RouteService {
	return &RouteService{store: store}
}

func (s *RouteService) Create(ctx context.Context, c policy.Caller, req dto.CreateRouteRequest) (*models.Route, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Agency](ctx, s.store, *req.Agency, "agency not found"); err != nil {
		return nil, err
	}
	if err := ensureUnique[models.Route](ctx, s.store, "route_id", req.RouteID, 0, "route_id"); err != nil {
		return nil, err
	}

	route := &models.Route{
		AgencyID:       req.Agency,
		RouteID:        req.RouteID,
		RouteShortName: req.RouteShortName,
		RouteLongName:  req.RouteLongName,
		RouteType:      req.RouteType,
	}
	if err := repository.Create(ctx, s.store, route); err != nil {
		return nil, err
	}
	return s.store.GetRoute(ctx, route.ID)
}

func (s *RouteService) List(ctx context.Context) ([]models.Route, error) {
	return s.store.ListRoutes(ctx)
}

func (s *RouteService) Get(ctx context.Context, id uint) (*models.Route, error) {
	route, err := s.store.GetRoute(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "route not found")
	}
	return route, nil
}

// Update may move the route to another agency; the agency must exist.
func (s *RouteService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateRouteRequest) (*models.Route, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Route](ctx, s.store, id, "route not found"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Agency != nil {
		if err := ensureExists[models.Agency](ctx, s.store, *req.Agency, "agency not found"); err != nil {
			return nil, err
		}
		fields["agency_id"] = *req.Agency
	}
	if req.RouteID != nil {
		if err := ensureUnique[models.Route](ctx, s.store, "route_id", *req.RouteID, id, "route_id"); err != nil {
			return nil, err
		}
		fields["route_id"] = *req.RouteID
	}
	setIf(fields, "route_short_name", req.RouteShortName)
	setIf(fields, "route_long_name", req.RouteLongName)
	setIf(fields, "route_type", req.RouteType)

	if err := repository.Update[models.Route](ctx, s.store, id, fields); err != nil {
		return nil, apperrors.NotFoundOr(err, "route not found")
	}
	return s.store.GetRoute(ctx, id)
}

// Delete detaches the route's trips and vehicles before removing it, which
// also takes it out of its agency.
func (s *RouteService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return err
	}
	if err := ensureExists[models.Route](ctx, s.store, id, "route not found"); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.DetachRouteTrips(ctx, id); err != nil {
			return err
		}
		if err := tx.ClearVehicleRoute(ctx, id); err != nil {
			return err
		}
		return repository.Delete[models.Route](ctx, tx, id)
	})
	return apperrors.NotFoundOr(err, "route not found")
}
