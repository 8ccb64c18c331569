package service

import (
	"context"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/repository"
)

type StopTimeService struct {
	store *repository.Store
}

func NewStopTimeService(store *repository.Store) *StopTimeService {
	return &StopTimeService{store: store}
}

// checkTimes requires departure strictly after arrival.
func checkTimes(arrival, departure string) error {
	a, err := models.GTFSSeconds(arrival)
	if err != nil {
		return apperrors.Validation("arrival_time: %v", err)
	}
	d, err := models.GTFSSeconds(departure)
	if err != nil {
		return apperrors.Validation("departure_time: %v", err)
	}
	if d <= a {
		return apperrors.Validation("departure_time must be after arrival_time")
	}
	return nil
}

func (s *StopTimeService) checkRefs(ctx context.Context, tripID, stopID, excludeID uint) error {
	if err := ensureExists[models.Trip](ctx, s.store, tripID, "trip not found"); err != nil {
		return err
	}
	if err := ensureExists[models.Stop](ctx, s.store, stopID, "stop not found"); err != nil {
		return err
	}
	taken, err := s.store.StopTimePairTaken(ctx, tripID, stopID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Validation("a stop time already exists for this trip and stop")
	}
	return nil
}

func (s *StopTimeService) Create(ctx context.Context, req dto.CreateStopTimeRequest) (*models.StopTime, error) {
	if err := checkTimes(req.ArrivalTime, req.DepartureTime); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.Trip, req.Stop, 0); err != nil {
		return nil, err
	}
	st := &models.StopTime{
		TripID:        req.Trip,
		StopRefID:     req.Stop,
		ArrivalTime:   req.ArrivalTime,
		DepartureTime: req.DepartureTime,
		StopSequence:  *req.StopSequence,
		PickupType:    req.PickupType,
		DropOffType:   req.DropOffType,
	}
	if err := repository.Create(ctx, s.store, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StopTimeService) List(ctx context.Context) ([]models.StopTime, error) {
	return s.store.ListStopTimes(ctx)
}

func (s *StopTimeService) Get(ctx context.Context, id uint) (*models.StopTime, error) {
	st, err := s.store.GetStopTime(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "stop time not found")
	}
	return st, nil
}

func (s *StopTimeService) ByTrip(ctx context.Context, tripID uint) ([]models.StopTime, error) {
	if err := ensureExists[models.Trip](ctx, s.store, tripID, "trip not found"); err != nil {
		return nil, err
	}
	return s.store.StopTimesByTrip(ctx, tripID)
}

// Update re-checks references, the (trip, stop) pair and the time order
// against the merged record.
func (s *StopTimeService) Update(ctx context.Context, id uint, req dto.UpdateStopTimeRequest) (*models.StopTime, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := *current
	if req.Trip != nil {
		merged.TripID = *req.Trip
	}
	if req.Stop != nil {
		merged.StopRefID = *req.Stop
	}
	if req.ArrivalTime != nil {
		merged.ArrivalTime = *req.ArrivalTime
	}
	if req.DepartureTime != nil {
		merged.DepartureTime = *req.DepartureTime
	}
	if err := checkTimes(merged.ArrivalTime, merged.DepartureTime); err != nil {
		return nil, err
	}
	if merged.TripID != current.TripID || merged.StopRefID != current.StopRefID {
		if err := s.checkRefs(ctx, merged.TripID, merged.StopRefID, id); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{
		"trip_id":        merged.TripID,
		"stop_id":        merged.StopRefID,
		"arrival_time":   merged.ArrivalTime,
		"departure_time": merged.DepartureTime,
	}
	setIf(fields, "stop_sequence", req.StopSequence)
	setIf(fields, "pickup_type", req.PickupType)
	setIf(fields, "drop_off_type", req.DropOffType)

	if err := repository.Update[models.StopTime](ctx, s.store, id, fields); err != nil {
		return nil, apperrors.NotFoundOr(err, "stop time not found")
	}
	return s.Get(ctx, id)
}

func (s *StopTimeService) Delete(ctx context.Context, id uint) error {
	return apperrors.NotFoundOr(repository.Delete[models.StopTime](ctx, s.store, id), "stop time not found")
}
