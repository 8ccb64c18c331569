package repository

import (
	"context"

	"gorm.io/gorm"

	"transit_ops/internal/models"
)

func orderedPoints(db *gorm.DB) *gorm.DB {
	return db.Order("sequence").Order("id")
}

func (s *Store) GetShape(ctx context.Context, id uint) (*models.Shape, error) {
	var shape models.Shape
	if err := s.conn(ctx).Preload("Points", orderedPoints).First(&shape, id).Error; err != nil {
		return nil, err
	}
	return &shape, nil
}

func (s *Store) ShapeByShapeID(ctx context.Context, shapeID string) (*models.Shape, error) {
	var shape models.Shape
	if err := s.conn(ctx).Preload("Points", orderedPoints).Where("shape_id = ?", shapeID).First(&shape).Error; err != nil {
		return nil, err
	}
	return &shape, nil
}

func (s *Store) ListShapes(ctx context.Context) ([]models.Shape, error) {
	shapes := []models.Shape{}
	err := s.conn(ctx).Preload("Points", orderedPoints).Order("id").Find(&shapes).Error
	return shapes, err
}

func (s *Store) ShapeSummaries(ctx context.Context) ([]models.ShapeSummary, error) {
	out := []models.ShapeSummary{}
	err := s.conn(ctx).Model(&models.Shape{}).Select("id", "shape_id").Order("id").Scan(&out).Error
	return out, err
}

// ReplaceShapePoints swaps the whole point list of a shape.
func (s *Store) ReplaceShapePoints(ctx context.Context, shapeRefID uint, points []models.ShapePoint) error {
	if err := s.conn(ctx).Where("shape_ref_id = ?", shapeRefID).Delete(&models.ShapePoint{}).Error; err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	for i := range points {
		points[i].ID = 0
		points[i].ShapeRefID = shapeRefID
	}
	return s.conn(ctx).Create(&points).Error
}
