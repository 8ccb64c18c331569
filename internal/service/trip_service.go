package service

import (
	"context"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type TripService struct {
	store *repository.Store
}

func NewTripService(store *repository.Store) *TripService {
	return &TripService{store: store}
}

func (s *TripService) Create(ctx context.Context, c policy.Caller, req dto.CreateTripRequest) (*models.Trip, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Route](ctx, s.store, req.Route, "route not found"); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Calendar](ctx, s.store, req.ServiceID, "service not found"); err != nil {
		return nil, err
	}
	if req.VehicleID != nil {
		if err := ensureExists[models.Vehicle](ctx, s.store, *req.VehicleID, "vehicle not found"); err != nil {
			return nil, err
		}
	}
	if err := ensureUnique[models.Trip](ctx, s.store, "trip_id", req.TripID, 0, "trip_id"); err != nil {
		return nil, err
	}

	route := req.Route
	trip := &models.Trip{
		RouteID:       &route,
		TripID:        req.TripID,
		CalendarID:    req.ServiceID,
		TripHeadsign:  req.TripHeadsign,
		DirectionID:   req.DirectionID,
		BlockID:       req.BlockID,
		TripShortName: req.TripShortName,
		ShapeID:       req.ShapeID,
		VehicleID:     req.VehicleID,
	}
	if err := repository.Create(ctx, s.store, trip); err != nil {
		return nil, err
	}
	return s.store.GetTrip(ctx, trip.ID)
}

func (s *TripService) List(ctx context.Context) ([]models.Trip, error) {
	return s.store.ListTrips(ctx)
}

func (s *TripService) Get(ctx context.Context, id uint) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "trip not found")
	}
	return trip, nil
}

// ByRoute lists a route's trips; a route without trips is reported as NotFound.
func (s *TripService) ByRoute(ctx context.Context, routeID uint) ([]models.Trip, error) {
	trips, err := s.store.TripsByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, apperrors.NotFound("no trips found for this route")
	}
	return trips, nil
}

func (s *TripService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateTripRequest) (*models.Trip, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Trip](ctx, s.store, id, "trip not found"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Route != nil {
		if err := ensureExists[models.Route](ctx, s.store, *req.Route, "route not found"); err != nil {
			return nil, err
		}
		fields["route_id"] = *req.Route
	}
	if req.ServiceID != nil {
		if err := ensureExists[models.Calendar](ctx, s.store, *req.ServiceID, "service not found"); err != nil {
			return nil, err
		}
		fields["calendar_id"] = *req.ServiceID
	}
	if req.VehicleID != nil {
		if err := ensureExists[models.Vehicle](ctx, s.store, *req.VehicleID, "vehicle not found"); err != nil {
			return nil, err
		}
		fields["vehicle_id"] = *req.VehicleID
	}
	if req.TripID != nil {
		if err := ensureUnique[models.Trip](ctx, s.store, "trip_id", *req.TripID, id, "trip_id"); err != nil {
			return nil, err
		}
		fields["trip_id"] = *req.TripID
	}
	setIf(fields, "trip_headsign", req.TripHeadsign)
	setIf(fields, "direction_id", req.DirectionID)
	setIf(fields, "block_id", req.BlockID)
	setIf(fields, "trip_short_name", req.TripShortName)
	setIf(fields, "shape_id", req.ShapeID)

	if err := repository.Update[models.Trip](ctx, s.store, id, fields); err != nil {
		return nil, apperrors.NotFoundOr(err, "trip not found")
	}
	return s.store.GetTrip(ctx, id)
}

// Delete removes the trip with its stop times and releases vehicles running it.
func (s *TripService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return err
	}
	if err := ensureExists[models.Trip](ctx, s.store, id, "trip not found"); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.DeleteStopTimesForTrip(ctx, id); err != nil {
			return err
		}
		if err := tx.ClearVehicleTrip(ctx, id); err != nil {
			return err
		}
		return repository.Delete[models.Trip](ctx, tx, id)
	})
	return apperrors.NotFoundOr(err, "trip not found")
}
