package service

import (
	"context"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type CalendarService struct {
	store *repository.Store
}

func NewCalendarService(store *repository.Store) *CalendarService {
	return &CalendarService{store: store}
}

func checkDateRange(start, end models.Date) error {
	if !end.After(start.Time) {
		return apperrors.Validation("end_date must be after start_date")
	}
	return nil
}

func (s *CalendarService) Create(ctx context.Context, c policy.Caller, req dto.CreateCalendarRequest) (*models.Calendar, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	if err := checkDateRange(*req.StartDate, *req.EndDate); err != nil {
		return nil, err
	}
	if err := ensureUnique[models.Calendar](ctx, s.store, "service_id", req.ServiceID, 0, "service_id"); err != nil {
		return nil, err
	}
	cal := &models.Calendar{
		ServiceID: req.ServiceID,
		Monday:    *req.Monday,
		Tuesday:   *req.Tuesday,
		Wednesday: *req.Wednesday,
		Thursday:  *req.Thursday,
		Friday:    *req.Friday,
		Saturday:  *req.Saturday,
		Sunday:    *req.Sunday,
		StartDate: *req.StartDate,
		EndDate:   *req.EndDate,
	}
	if err := repository.Create(ctx, s.store, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

func (s *CalendarService) List(ctx context.Context) ([]models.Calendar, error) {
	return repository.List[models.Calendar](ctx, s.store)
}

func (s *CalendarService) Get(ctx context.Context, id uint) (*models.Calendar, error) {
	cal, err := repository.Get[models.Calendar](ctx, s.store, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "calendar not found")
	}
	return cal, nil
}

func (s *CalendarService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateCalendarRequest) (*models.Calendar, error) {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	start, end := current.StartDate, current.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.ServiceID != nil {
		if err := ensureUnique[models.Calendar](ctx, s.store, "service_id", *req.ServiceID, id, "service_id"); err != nil {
			return nil, err
		}
		fields["service_id"] = *req.ServiceID
	}
	setIf(fields, "monday", req.Monday)
	setIf(fields, "tuesday", req.Tuesday)
	setIf(fields, "wednesday", req.Wednesday)
	setIf(fields, "thursday", req.Thursday)
	setIf(fields, "friday", req.Friday)
	setIf(fields, "saturday", req.Saturday)
	setIf(fields, "sunday", req.Sunday)
	setIf(fields, "start_date", req.StartDate)
	setIf(fields, "end_date", req.EndDate)

	if err := repository.Update[models.Calendar](ctx, s.store, id, fields); err != nil {
		return nil, apperrors.NotFoundOr(err, "calendar not found")
	}
	return s.Get(ctx, id)
}

// Delete refuses while trips still run on the service.
func (s *CalendarService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	if err := policy.Allow(c, policy.WriteTransit); err != nil {
		return err
	}
	if err := ensureExists[models.Calendar](ctx, s.store, id, "calendar not found"); err != nil {
		return err
	}
	n, err := s.store.CountTripsForCalendar(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.Validation("calendar is still used by %d trip(s)", n)
	}
	return apperrors.NotFoundOr(repository.Delete[models.Calendar](ctx, s.store, id), "calendar not found")
}
