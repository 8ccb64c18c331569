package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetTrip(ctx context.Context, id uint) (*models.Trip, error) {
	return Get[models.Trip](ctx, s, id, "StopTimes")
}

func (s *Store) ListTrips(ctx context.Context) ([]models.Trip, error) {
	return List[models.Trip](ctx, s, "StopTimes")
}

func (s *Store) TripsByRoute(ctx context.Context, routeID uint) ([]models.Trip, error) {
	trips := []models.Trip{}
	err := s.conn(ctx).Preload("StopTimes").Where("route_id = ?", routeID).Order("id").Find(&trips).Error
	return trips, err
}

// SetTripRoute points the trip at routeID, or detaches it when nil.
func (s *Store) SetTripRoute(ctx context.Context, tripID uint, routeID *uint) error {
	return Update[models.Trip](ctx, s, tripID, map[string]any{"route_id": routeID})
}

// DetachRouteTrips clears the route on all of its trips.
func (s *Store) DetachRouteTrips(ctx context.Context, routeID uint) error {
	return s.conn(ctx).Model(&models.Trip{}).Where("route_id = ?", routeID).Update("route_id", nil).Error
}

func (s *Store) CountTripsForCalendar(ctx context.Context, calendarID uint) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Trip{}).Where("calendar_id = ?", calendarID).Count(&count).Error
	return count, err
}

// DetachVehicleTrips clears the vehicle on every trip that references it.
func (s *Store) DetachVehicleTrips(ctx context.Context, vehicleID uint) error {
	return s.conn(ctx).Model(&models.Trip{}).Where("vehicle_id = ?", vehicleID).Update("vehicle_id", nil).Error
}
