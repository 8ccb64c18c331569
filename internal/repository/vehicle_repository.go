package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	return Get[models.Vehicle](ctx, s, id, "Drivers", "EstimatedArrivalTimes")
}

func (s *Store) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return List[models.Vehicle](ctx, s, "Drivers", "EstimatedArrivalTimes")
}

// SetVehicleAssignment overwrites the three assignment columns together.
func (s *Store) SetVehicleAssignment(ctx context.Context, vehicleID uint, routeID, tripID *uint, block *string) error {
	return Update[models.Vehicle](ctx, s, vehicleID, map[string]any{
		"assigned_route_id": routeID,
		"assigned_trip_id":  tripID,
		"assigned_block":    block,
	})
}

func (s *Store) ReplaceArrivalEstimates(ctx context.Context, vehicleID uint, estimates []models.ArrivalEstimate) error {
	if err := s.conn(ctx).Where("vehicle_id = ?", vehicleID).Delete(&models.ArrivalEstimate{}).Error; err != nil {
		return err
	}
	if len(estimates) == 0 {
		return nil
	}
	for i := range estimates {
		estimates[i].ID = 0
		estimates[i].VehicleID = vehicleID
	}
	return s.conn(ctx).Create(&estimates).Error
}

func (s *Store) LastPosition(ctx context.Context, vehicleID uint) (*models.VehiclePosition, error) {
	var pos models.VehiclePosition
	err := s.conn(ctx).Where("vehicle_id = ?", vehicleID).Order("timestamp DESC").Order("id DESC").First(&pos).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (s *Store) ListPositions(ctx context.Context, vehicleID uint, limit int) ([]models.VehiclePosition, error) {
	positions := []models.VehiclePosition{}
	q := s.conn(ctx).Where("vehicle_id = ?", vehicleID).Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&positions).Error
	return positions, err
}

// ClearVehicleRoute unassigns a deleted route from the vehicles running it.
func (s *Store) ClearVehicleRoute(ctx context.Context, routeID uint) error {
	return s.conn(ctx).Model(&models.Vehicle{}).Where("assigned_route_id = ?", routeID).Update("assigned_route_id", nil).Error
}

func (s *Store) ClearVehicleTrip(ctx context.Context, tripID uint) error {
	return s.conn(ctx).Model(&models.Vehicle{}).Where("assigned_trip_id = ?", tripID).Update("assigned_trip_id", nil).Error
}

// PurgeVehicle removes the rows owned by a vehicle: estimates, positions and assignments.
func (s *Store) PurgeVehicle(ctx context.Context, vehicleID uint) error {
	for _, model := range []any{&models.ArrivalEstimate{}, &models.VehiclePosition{}, &models.VehicleAssignment{}} {
		if err := s.conn(ctx).Where("vehicle_id = ?", vehicleID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
