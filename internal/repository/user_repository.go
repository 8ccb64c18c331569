package repository

import (
	"context"
	"strings"

	"transit_ops/internal/models"
	"transit_ops/internal/policy"
)

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return Get[models.User](ctx, s, id, "Agencies", "Students")
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.conn(ctx).Preload("Agencies").Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) UserByCIN(ctx context.Context, cin string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("cin_number = ?", cin).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns the users inside scope with agencies and students loaded.
func (s *Store) ListUsers(ctx context.Context, scope policy.UserScope) ([]models.User, error) {
	users := []models.User{}
	q := s.conn(ctx).Preload("Agencies").Preload("Students").Order("id")
	if !scope.All {
		if scope.MyAdmin != "" {
			q = q.Where("LOWER(email) = ? OR LOWER(my_admin) = ?", strings.ToLower(scope.Email), strings.ToLower(scope.MyAdmin))
		} else {
			q = q.Where("LOWER(email) = ?", strings.ToLower(scope.Email))
		}
	}
	err := q.Find(&users).Error
	return users, err
}

// ManagedUsers returns the parent accounts owned by an admin.
func (s *Store) ManagedUsers(ctx context.Context, adminEmail string) ([]models.User, error) {
	users := []models.User{}
	err := s.conn(ctx).
		Where("LOWER(my_admin) = ? AND role = ?", strings.ToLower(adminEmail), string(policy.RoleParent)).
		Find(&users).Error
	return users, err
}

func (s *Store) AddUserAgency(ctx context.Context, user *models.User, agency *models.Agency) error {
	return s.conn(ctx).Model(user).Association("Agencies").Append(agency)
}

func (s *Store) RemoveUserAgency(ctx context.Context, user *models.User, agency *models.Agency) error {
	return s.conn(ctx).Model(user).Association("Agencies").Delete(agency)
}

func (s *Store) ReplaceUserAgencies(ctx context.Context, user *models.User, agencies []models.Agency) error {
	if len(agencies) == 0 {
		return s.conn(ctx).Model(user).Association("Agencies").Clear()
	}
	return s.conn(ctx).Model(user).Association("Agencies").Replace(agencies)
}

func (s *Store) ClearUserAgencies(ctx context.Context, user *models.User) error {
	return s.conn(ctx).Model(user).Association("Agencies").Clear()
}

func (s *Store) AgenciesByIDs(ctx context.Context, ids []uint) ([]models.Agency, error) {
	agencies := []models.Agency{}
	if len(ids) == 0 {
		return agencies, nil
	}
	err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&agencies).Error
	return agencies, err
}
