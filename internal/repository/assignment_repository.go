package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetAssignment(ctx context.Context, id uint) (*models.VehicleAssignment, error) {
	return Get[models.VehicleAssignment](ctx, s, id, "Vehicle")
}

func (s *Store) ListAssignments(ctx context.Context) ([]models.VehicleAssignment, error) {
	return List[models.VehicleAssignment](ctx, s, "Vehicle")
}
