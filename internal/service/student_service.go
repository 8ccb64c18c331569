package service

import (
	"context"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type StudentService struct {
	store *repository.Store
}

func NewStudentService(store *repository.Store) *StudentService {
	return &StudentService{store: store}
}

func (s *StudentService) parentByCIN(ctx context.Context, cin string) (*models.User, error) {
	parent, err := s.store.UserByCIN(ctx, cin)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "parent not found with the provided CIN")
	}
	return parent, nil
}

// Create registers a student under the user whose cinNumber matches cinParent.
func (s *StudentService) Create(ctx context.Context, c policy.Caller, req dto.StudentRequest) (*models.Student, error) {
	if err := policy.Allow(c, policy.ManageUsers); err != nil {
		return nil, err
	}
	if err := ensureUnique[models.Student](ctx, s.store, "badge_id", req.BadgeID, 0, "badgeId"); err != nil {
		return nil, err
	}
	if err := ensureUnique[models.Student](ctx, s.store, "cin_parent", req.CINParent, 0, "cinParent"); err != nil {
		return nil, err
	}
	parent, err := s.parentByCIN(ctx, req.CINParent)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		Username:    req.Username,
		BadgeID:     req.BadgeID,
		CINParent:   req.CINParent,
		PhoneParent: req.PhoneParent,
		Level:       req.Level,
		ParentID:    &parent.ID,
	}
	if err := repository.Create(ctx, s.store, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	return s.store.ListStudents(ctx)
}

func (s *StudentService) Get(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "student not found")
	}
	return student, nil
}

// Update moves the student to the parent matching a new cinParent.
func (s *StudentService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := policy.Allow(c, policy.ManageUsers); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.BadgeID != nil {
		if err := ensureUnique[models.Student](ctx, s.store, "badge_id", *req.BadgeID, id, "badgeId"); err != nil {
			return nil, err
		}
		fields["badge_id"] = *req.BadgeID
	}
	if req.CINParent != nil && *req.CINParent != current.CINParent {
		if err := ensureUnique[models.Student](ctx, s.store, "cin_parent", *req.CINParent, id, "cinParent"); err != nil {
			return nil, err
		}
		parent, err := s.parentByCIN(ctx, *req.CINParent)
		if err != nil {
			return nil, err
		}
		fields["cin_parent"] = *req.CINParent
		fields["parent_id"] = parent.ID
	}
	setIf(fields, "username", req.Username)
	setIf(fields, "phone_parent", req.PhoneParent)
	setIf(fields, "level", req.Level)

	if err := repository.Update[models.Student](ctx, s.store, id, fields); err != nil {
		return nil, apperrors.NotFoundOr(err, "student not found")
	}
	return s.Get(ctx, id)
}

func (s *StudentService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	if err := policy.Allow(c, policy.ManageUsers); err != nil {
		return err
	}
	return apperrors.NotFoundOr(repository.Delete[models.Student](ctx, s.store, id), "student not found")
}
