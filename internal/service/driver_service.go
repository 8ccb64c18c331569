package service

import (
	"context"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type DriverService struct {
	store *repository.Store
}

func NewDriverService(store *repository.Store) *DriverService {
	return &DriverService{store: store}
}

func (s *DriverService) Create(ctx context.Context, c policy.Caller, req dto.DriverRequest) (*models.Driver, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	if err := ensureUnique[models.Driver](ctx, s.store, "email", email, 0, "driver email"); err != nil {
		return nil, err
	}
	if err := ensureUnique[models.Driver](ctx, s.store, "cin_number", req.CINNumber, 0, "driver cinNumber"); err != nil {
		return nil, err
	}
	driver := &models.Driver{
		Username:    req.Username,
		Email:       email,
		CINNumber:   req.CINNumber,
		PhoneNumber: req.PhoneNumber,
	}
	if err := repository.Create(ctx, s.store, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

func (s *DriverService) List(ctx context.Context) ([]models.Driver, error) {
	return s.store.ListDrivers(ctx)
}

func (s *DriverService) Get(ctx context.Context, id uint) (*models.Driver, error) {
	driver, err := s.store.GetDriver(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "driver not found")
	}
	return driver, nil
}

// Update changes the driver's details. Vehicle binding is managed through vehicles.
func (s *DriverService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateDriverRequest) (*models.Driver, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Driver](ctx, s.store, id, "driver not found"); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if err := ensureUnique[models.Driver](ctx, s.store, "email", email, id, "driver email"); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if req.CINNumber != nil {
		if err := ensureUnique[models.Driver](ctx, s.store, "cin_number", *req.CINNumber, id, "driver cinNumber"); err != nil {
			return nil, err
		}
		fields["cin_number"] = *req.CINNumber
	}
	setIf(fields, "username", req.Username)
	setIf(fields, "phone_number", req.PhoneNumber)

	if err := repository.Update[models.Driver](ctx, s.store, id, fields); err != nil {
		return nil, apperrors.NotFoundOr(err, "driver not found")
	}
	return s.Get(ctx, id)
}

// Delete removes the driver, which also drops it from its vehicle's drivers.
func (s *DriverService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return err
	}
	return apperrors.NotFoundOr(repository.Delete[models.Driver](ctx, s.store, id), "driver not found")
}
