package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetStopTime(ctx context.Context, id uint) (*models.StopTime, error) {
	return Get[models.StopTime](ctx, s, id)
}

func (s *Store) ListStopTimes(ctx context.Context) ([]models.StopTime, error) {
	return List[models.StopTime](ctx, s)
}

// StopTimesByTrip returns the trip's calls in stop_sequence order with their stops.
func (s *Store) StopTimesByTrip(ctx context.Context, tripID uint) ([]models.StopTime, error) {
	items := []models.StopTime{}
	err := s.conn(ctx).Preload("Stop").
		Where("trip_id = ?", tripID).
		Order("stop_sequence").Order("id").
		Find(&items).Error
	return items, err
}

// StopTimePairTaken reports whether the trip already calls at the stop.
func (s *Store) StopTimePairTaken(ctx context.Context, tripID, stopID, excludeID uint) (bool, error) {
	var count int64
	q := s.conn(ctx).Model(&models.StopTime{}).Where("trip_id = ? AND stop_id = ?", tripID, stopID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (s *Store) DeleteStopTimesForStop(ctx context.Context, stopID uint) error {
	return s.conn(ctx).Where("stop_id = ?", stopID).Delete(&models.StopTime{}).Error
}

func (s *Store) DeleteStopTimesForTrip(ctx context.Context, tripID uint) error {
	return s.conn(ctx).Where("trip_id = ?", tripID).Delete(&models.StopTime{}).Error
}
