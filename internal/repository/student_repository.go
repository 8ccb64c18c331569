package repository

import (
	"context"

	"transit_ops/internal/models"
)

func (s *Store) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	return Get[models.Student](ctx, s, id)
}

func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	return List[models.Student](ctx, s)
}

// LinkStudentsByCIN attaches every student whose cinParent matches to the parent.
func (s *Store) LinkStudentsByCIN(ctx context.Context, cin string, parentID uint) error {
	return s.conn(ctx).Model(&models.Student{}).Where("cin_parent = ?", cin).Update("parent_id", parentID).Error
}

func (s *Store) UnlinkStudents(ctx context.Context, parentID uint) error {
	return s.conn(ctx).Model(&models.Student{}).Where("parent_id = ?", parentID).Update("parent_id", nil).Error
}

// RepointStudents moves students from an old parent CIN to a new one.
func (s *Store) RepointStudents(ctx context.Context, oldCIN, newCIN string, parentID uint) error {
	return s.conn(ctx).Model(&models.Student{}).
		Where("cin_parent = ?", oldCIN).
		Updates(map[string]any{"cin_parent": newCIN, "parent_id": parentID}).Error
}
