package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetDriver(ctx context.Context, id uint) (*models.Driver, error) {
	return Get[models.Driver](ctx, s, id)
}

func (s *Store) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	return List[models.Driver](ctx, s)
}

func (s *Store) DriversByCIN(ctx context.Context, cins []string) ([]models.Driver, error) {
	drivers := []models.Driver{}
	if len(cins) == 0 {
		return drivers, nil
	}
	err := s.conn(ctx).Where("cin_number IN ?", cins).Order("id").Find(&drivers).Error
	return drivers, err
}

func (s *Store) AssignDrivers(ctx context.Context, driverIDs []uint, vehicleID uint) error {
	if len(driverIDs) == 0 {
		return nil
	}
	return s.conn(ctx).Model(&models.Driver{}).Where("id IN ?", driverIDs).Update("assigned_vehicle_id", vehicleID).Error
}

// ReleaseDrivers clears the vehicle on its drivers, keeping the ids in keep.
func (s *Store) ReleaseDrivers(ctx context.Context, vehicleID uint, keep []uint) error {
	q := s.conn(ctx).Model(&models.Driver{}).Where("assigned_vehicle_id = ?", vehicleID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Update("assigned_vehicle_id", nil).Error
}

func (s *Store) CountVehicleDrivers(ctx context.Context, vehicleID uint) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Driver{}).Where("assigned_vehicle_id = ?", vehicleID).Count(&count).Error
	return count, err
}
