package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/repository"
)

type AssignmentService struct {
	store *repository.Store
	now   func() time.Time
}

func NewAssignmentService(store *repository.Store) *AssignmentService {
	return &AssignmentService{store: store, now: time.Now}
}

// vehicleFields is the mirror of an assignment on the vehicle: exactly one
// of route, trip and block is set. target is the cleaned assignment target.
type vehicleFields struct {
	target models.AssignedTarget
	route  *uint
	trip   *uint
	block  *string
}

func (s *AssignmentService) resolveTarget(ctx context.Context, t *models.AssignedTarget) (vehicleFields, error) {
	if t == nil || t.Type == "" || strings.TrimSpace(string(t.ID)) == "" {
		return vehicleFields{}, apperrors.Validation("vehicle_id, assigned_type.type and assigned_type.id are required")
	}
	raw := strings.TrimSpace(string(t.ID))
	clean := models.AssignedTarget{Type: t.Type, ID: models.TargetID(raw)}
	switch t.Type {
	case models.AssignTrip, models.AssignRoute:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return vehicleFields{}, apperrors.Validation("assigned_type.id must be a numeric %s id", t.Type)
		}
		id := uint(n)
		if t.Type == models.AssignTrip {
			if err := ensureExists[models.Trip](ctx, s.store, id, "trip not found"); err != nil {
				return vehicleFields{}, err
			}
			return vehicleFields{target: clean, trip: &id}, nil
		}
		if err := ensureExists[models.Route](ctx, s.store, id, "route not found"); err != nil {
			return vehicleFields{}, err
		}
		return vehicleFields{target: clean, route: &id}, nil
	case models.AssignBlock:
		return vehicleFields{target: clean, block: &raw}, nil
	default:
		return vehicleFields{}, apperrors.Validation("invalid assignment type %q", t.Type)
	}
}

// Create records the assignment and mirrors it on the vehicle, clearing the
// other two assignment fields.
func (s *AssignmentService) Create(ctx context.Context, req dto.AssignmentRequest) (*models.VehicleAssignment, error) {
	if err := ensureExists[models.Vehicle](ctx, s.store, req.VehicleID, "vehicle not found"); err != nil {
		return nil, err
	}
	target, err := s.resolveTarget(ctx, req.AssignedType)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.AssignmentActive
	}
	assignment := &models.VehicleAssignment{
		VehicleID:    req.VehicleID,
		AssignedType: target.target,
		AssignedAt:   s.now().UTC(),
		Status:       status,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Create(ctx, tx, assignment); err != nil {
			return err
		}
		return tx.SetVehicleAssignment(ctx, req.VehicleID, target.route, target.trip, target.block)
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetAssignment(ctx, assignment.ID)
}

func (s *AssignmentService) List(ctx context.Context) ([]models.VehicleAssignment, error) {
	return s.store.ListAssignments(ctx)
}

func (s *AssignmentService) Get(ctx context.Context, id uint) (*models.VehicleAssignment, error) {
	a, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "assignment not found")
	}
	return a, nil
}

// Update rewrites the assignment. When it moves to another vehicle the
// previous vehicle is unassigned.
func (s *AssignmentService) Update(ctx context.Context, id uint, req dto.AssignmentRequest) (*models.VehicleAssignment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureExists[models.Vehicle](ctx, s.store, req.VehicleID, "vehicle not found"); err != nil {
		return nil, err
	}
	target, err := s.resolveTarget(ctx, req.AssignedType)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"vehicle_id":    req.VehicleID,
		"assigned_type": target.target.Type,
		"assigned_id":   string(target.target.ID),
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Update[models.VehicleAssignment](ctx, tx, id, fields); err != nil {
			return err
		}
		if current.VehicleID != req.VehicleID {
			if err := tx.SetVehicleAssignment(ctx, current.VehicleID, nil, nil, nil); err != nil && !repository.IsNotFound(err) {
				return err
			}
		}
		return tx.SetVehicleAssignment(ctx, req.VehicleID, target.route, target.trip, target.block)
	})
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "assignment not found")
	}
	return s.Get(ctx, id)
}

// Delete removes the assignment and clears the vehicle's assignment fields.
func (s *AssignmentService) Delete(ctx context.Context, id uint) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Delete[models.VehicleAssignment](ctx, tx, id); err != nil {
			return err
		}
		err := tx.SetVehicleAssignment(ctx, current.VehicleID, nil, nil, nil)
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	})
	return apperrors.NotFoundOr(err, "assignment not found")
}
