package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetAgency(ctx context.Context, id uint) (*models.Agency, error) {
	return Get[models.Agency](ctx, s, id, "Routes")
}

// ListAgencies returns every agency, or only the given ids when ids is non-nil.
func (s *Store) ListAgencies(ctx context.Context, ids []uint) ([]models.Agency, error) {
	agencies := []models.Agency{}
	q := s.conn(ctx).Preload("Routes").Order("id")
	if ids != nil {
		if len(ids) == 0 {
			return agencies, nil
		}
		q = q.Where("id IN ?", ids)
	}
	err := q.Find(&agencies).Error
	return agencies, err
}

// SetAgencyRoutes makes routeIDs the exact route set of the agency.
func (s *Store) SetAgencyRoutes(ctx context.Context, agencyID uint, routeIDs []uint) error {
	q := s.conn(ctx).Model(&models.Route{}).Where("agency_id = ?", agencyID)
	if len(routeIDs) > 0 {
		q = q.Where("id NOT IN ?", routeIDs)
	}
	if err := q.Update("agency_id", nil).Error; err != nil {
		return err
	}
	if len(routeIDs) == 0 {
		return nil
	}
	return s.conn(ctx).Model(&models.Route{}).Where("id IN ?", routeIDs).Update("agency_id", agencyID).Error
}

// DetachAgencyRoutes clears the agency on all of its routes.
func (s *Store) DetachAgencyRoutes(ctx context.Context, agencyID uint) error {
	return s.conn(ctx).Model(&models.Route{}).Where("agency_id = ?", agencyID).Update("agency_id", nil).Error
}

// GrantAgencyToRole adds the agency to the scope of every user holding role.
func (s *Store) GrantAgencyToRole(ctx context.Context, agency *models.Agency, role string) error {
	var users []models.User
	if err := s.conn(ctx).Where("role = ?", role).Find(&users).Error; err != nil {
		return err
	}
	for i := range users {
		if err := s.conn(ctx).Model(&users[i]).Association("Agencies").Append(agency); err != nil {
			return err
		}
	}
	return nil
}

// RevokeAgency removes the agency from every user's scope.
func (s *Store) RevokeAgency(ctx context.Context, agencyID uint) error {
	return s.conn(ctx).Exec("DELETE FROM user_agencies WHERE agency_id = ?", agencyID).Error
}
