package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetRoute(ctx context.Context, id uint) (*models.Route, error) {
	return Get[models.Route](ctx, s, id, "Trips")
}

func (s *Store) ListRoutes(ctx context.Context) ([]models.Route, error) {
	return List[models.Route](ctx, s, "Trips")
}

// SetRouteAgency points the route at agencyID, or detaches it when nil.
func (s *Store) SetRouteAgency(ctx context.Context, routeID uint, agencyID *uint) error {
	return Update[models.Route](ctx, s, routeID, map[string]any{"agency_id": agencyID})
}

// RoutesOwnedElsewhere returns the routes among ids that belong to an agency other than agencyID.
func (s *Store) RoutesOwnedElsewhere(ctx context.Context, ids []uint, agencyID uint) ([]models.Route, error) {
	routes := []models.Route{}
	if len(ids) == 0 {
		return routes, nil
	}
	err := s.conn(ctx).
		Where("id IN ? AND agency_id IS NOT NULL AND agency_id <> ?", ids, agencyID).
		Order("id").
		Find(&routes).Error
	return routes, err
}
