package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/geo"
	"transit_ops/internal/models"
	"transit_ops/internal/repository"
)

const (
	minDrivers = 1
	maxDrivers = 2

	defaultPositionLimit = 100
)

type VehicleService struct {
	store     *repository.Store
	publisher Publisher
	metrics   *MetricsService
}

func NewVehicleService(store *repository.Store, publisher Publisher, metrics *MetricsService) *VehicleService {
	return &VehicleService{store: store, publisher: publisher, metrics: metrics}
}

// resolveDrivers maps driver CINs to driver ids. Drivers already bound to a
// vehicle other than vehicleID are rejected.
func (s *VehicleService) resolveDrivers(ctx context.Context, cins []string, vehicleID uint) ([]uint, error) {
	if len(cins) < minDrivers || len(cins) > maxDrivers {
		return nil, apperrors.Validation("drivers must be an array with %d or %d driver CIN numbers", minDrivers, maxDrivers)
	}
	drivers, err := s.store.DriversByCIN(ctx, cins)
	if err != nil {
		return nil, err
	}
	if len(drivers) != len(cins) {
		return nil, apperrors.Validation("one or more driver CIN numbers are invalid")
	}
	ids := make([]uint, 0, len(drivers))
	for _, d := range drivers {
		if d.AssignedVehicleID != nil && *d.AssignedVehicleID != vehicleID {
			return nil, apperrors.Validation("driver with CIN %s is already assigned to another vehicle", d.CINNumber)
		}
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func toEstimates(in []dto.ArrivalEstimateInput) []models.ArrivalEstimate {
	out := make([]models.ArrivalEstimate, 0, len(in))
	for _, e := range in {
		out = append(out, models.ArrivalEstimate{StopID: e.StopID, ArrivalTime: e.ArrivalTime})
	}
	return out
}

// Create inserts the vehicle and binds its drivers to it.
func (s *VehicleService) Create(ctx context.Context, req dto.CreateVehicleRequest) (*models.Vehicle, error) {
	driverIDs, err := s.resolveDrivers(ctx, req.Drivers, 0)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique[models.Vehicle](ctx, s.store, "unique_id", req.UniqueID, 0, "uniqueId"); err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		UniqueID:              req.UniqueID,
		Name:                  req.Name,
		Category:              req.Category,
		Latitude:              *req.Latitude,
		Longitude:             *req.Longitude,
		Temperature:           req.Temperature,
		Pression:              req.Pression,
		Humidity:              req.Humidity,
		Flame:                 req.Flame,
		PositionID:            req.PositionID,
		Headsign:              req.Headsign,
		CurrentShapeSequence:  req.CurrentShapeSequence,
		EstimatedArrivalTimes: toEstimates(req.EstimatedArrivalTimes),
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Create(ctx, tx, vehicle); err != nil {
			return err
		}
		return tx.AssignDrivers(ctx, driverIDs, vehicle.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetVehicle(ctx, vehicle.ID)
}

func (s *VehicleService) List(ctx context.Context) ([]models.Vehicle, error) {
	return s.store.ListVehicles(ctx)
}

func (s *VehicleService) Get(ctx context.Context, id uint) (*models.Vehicle, error) {
	vehicle, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "vehicle not found")
	}
	return vehicle, nil
}

// Update applies the submitted fields. A drivers list replaces the vehicle's
// drivers: dropped drivers are released, new ones bound.
func (s *VehicleService) Update(ctx context.Context, id uint, req dto.UpdateVehicleRequest) (*models.Vehicle, error) {
	if err := ensureExists[models.Vehicle](ctx, s.store, id, "vehicle not found"); err != nil {
		return nil, err
	}

	var driverIDs []uint
	if req.Drivers != nil {
		ids, err := s.resolveDrivers(ctx, *req.Drivers, id)
		if err != nil {
			return nil, err
		}
		driverIDs = ids
	}

	fields := map[string]any{}
	if req.UniqueID != nil {
		if err := ensureUnique[models.Vehicle](ctx, s.store, "unique_id", *req.UniqueID, id, "uniqueId"); err != nil {
			return nil, err
		}
		fields["unique_id"] = *req.UniqueID
	}
	setIf(fields, "name", req.Name)
	setIf(fields, "category", req.Category)
	setIf(fields, "latitude", req.Latitude)
	setIf(fields, "longitude", req.Longitude)
	setIf(fields, "temperature", req.Temperature)
	setIf(fields, "pression", req.Pression)
	setIf(fields, "humidity", req.Humidity)
	setIf(fields, "flame", req.Flame)
	setIf(fields, "position_id", req.PositionID)
	setIf(fields, "headsign", req.Headsign)
	setIf(fields, "current_shape_sequence", req.CurrentShapeSequence)

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Update[models.Vehicle](ctx, tx, id, fields); err != nil {
			return err
		}
		if req.Drivers != nil {
			if err := tx.ReleaseDrivers(ctx, id, driverIDs); err != nil {
				return err
			}
			if err := tx.AssignDrivers(ctx, driverIDs, id); err != nil {
				return err
			}
		}
		if req.EstimatedArrivalTimes != nil {
			return tx.ReplaceArrivalEstimates(ctx, id, toEstimates(*req.EstimatedArrivalTimes))
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "vehicle not found")
	}
	return s.Get(ctx, id)
}

// Delete releases the drivers and trips of the vehicle and removes the rows it owns.
func (s *VehicleService) Delete(ctx context.Context, id uint) error {
	if err := ensureExists[models.Vehicle](ctx, s.store, id, "vehicle not found"); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.ReleaseDrivers(ctx, id, nil); err != nil {
			return err
		}
		if err := tx.DetachVehicleTrips(ctx, id); err != nil {
			return err
		}
		if err := tx.PurgeVehicle(ctx, id); err != nil {
			return err
		}
		return repository.Delete[models.Vehicle](ctx, tx, id)
	})
	return apperrors.NotFoundOr(err, "vehicle not found")
}

// TelemetryResult is returned to the reporting vehicle and broadcast to subscribers.
type TelemetryResult struct {
	Vehicle   *models.Vehicle `json:"vehicle"`
	EventType string          `json:"event_type,omitempty"`
	Recorded  bool            `json:"recorded"`
	Distance  float64         `json:"distance"`
	Speed     float64         `json:"speed"`
	Bearing   float64         `json:"bearing"`
	IsMoving  bool            `json:"is_moving"`
	Timestamp time.Time       `json:"timestamp"`
}

// Telemetry stores a position and sensor report. The position is kept in
// the vehicle's history only when it is significant; the next stop of the
// assigned trip is recomputed on every report.
func (s *VehicleService) Telemetry(ctx context.Context, id uint, req dto.TelemetryRequest) (*TelemetryResult, error) {
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lat, lon := *req.Latitude, *req.Longitude
	at := time.Now().UTC()
	if req.Timestamp != nil {
		at = req.Timestamp.UTC()
	}

	var last *geo.Fix
	prev, err := s.store.LastPosition(ctx, id)
	switch {
	case err == nil:
		last = &geo.Fix{Latitude: prev.Latitude, Longitude: prev.Longitude, IsMoving: prev.IsMoving, Timestamp: prev.Timestamp}
	case !repository.IsNotFound(err):
		return nil, err
	}
	move := geo.Assess(last, lat, lon, at, req.Speed)

	fields := map[string]any{"latitude": lat, "longitude": lon}
	setIf(fields, "temperature", req.Temperature)
	setIf(fields, "pression", req.Pression)
	setIf(fields, "humidity", req.Humidity)
	setIf(fields, "flame", req.Flame)
	setIf(fields, "position_id", req.PositionID)
	setIf(fields, "current_shape_sequence", req.CurrentShapeSequence)

	details, estimates, err := s.nextStop(ctx, vehicle, lat, lon, at, move.Speed)
	if err != nil {
		return nil, err
	}
	fields["next_stop_id"] = details.NextStopID
	fields["next_stop_name"] = details.NextStopName
	fields["next_stop_distance"] = details.NextStopDistance

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Update[models.Vehicle](ctx, tx, id, fields); err != nil {
			return err
		}
		if move.Event != "" {
			pos := &models.VehiclePosition{
				VehicleID:        id,
				Latitude:         lat,
				Longitude:        lon,
				Speed:            move.Speed,
				Bearing:          move.Bearing,
				IsMoving:         move.IsMoving,
				DistanceFromLast: move.Distance,
				Timestamp:        at,
				EventType:        move.Event,
			}
			if err := repository.Create(ctx, tx, pos); err != nil {
				return err
			}
		}
		if estimates != nil {
			return tx.ReplaceArrivalEstimates(ctx, id, estimates)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTelemetry(move.Event)

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &TelemetryResult{
		Vehicle:   updated,
		EventType: move.Event,
		Recorded:  move.Event != "",
		Distance:  move.Distance,
		Speed:     move.Speed,
		Bearing:   move.Bearing,
		IsMoving:  move.IsMoving,
		Timestamp: at,
	}
	if s.publisher != nil {
		s.publisher.Publish(id, result)
	}
	logrus.WithFields(logrus.Fields{
		"vehicle_id": id,
		"event_type": move.Event,
		"distance_m": move.Distance,
		"speed_mps":  move.Speed,
	}).Debug("vehicle telemetry processed")
	return result, nil
}

// nextStop derives the next-stop details and arrival estimates from the
// vehicle's assigned trip. Without a trip both are empty.
func (s *VehicleService) nextStop(ctx context.Context, v *models.Vehicle, lat, lon float64, at time.Time, speed float64) (models.VehicleDetails, []models.ArrivalEstimate, error) {
	if v.AssignedTripID == nil {
		return models.VehicleDetails{}, nil, nil
	}
	stopTimes, err := s.store.StopTimesByTrip(ctx, *v.AssignedTripID)
	if err != nil {
		return models.VehicleDetails{}, nil, err
	}
	points := make([]geo.StopPoint, 0, len(stopTimes))
	for _, st := range stopTimes {
		if st.Stop == nil {
			continue
		}
		points = append(points, geo.StopPoint{ID: st.Stop.ID, Name: st.Stop.StopName, Latitude: st.Stop.StopLat, Longitude: st.Stop.StopLon})
	}
	idx, dist := geo.NextStop(points, lat, lon)
	if idx < 0 {
		return models.VehicleDetails{}, []models.ArrivalEstimate{}, nil
	}

	next := points[idx]
	km := dist / 1000
	details := models.VehicleDetails{NextStopID: &next.ID, NextStopName: next.Name, NextStopDistance: &km}

	estimates := make([]models.ArrivalEstimate, 0, len(points)-idx)
	travelled := dist
	for i := idx; i < len(points); i++ {
		if i > idx {
			travelled += geo.Distance(points[i-1].Latitude, points[i-1].Longitude, points[i].Latitude, points[i].Longitude)
		}
		estimates = append(estimates, models.ArrivalEstimate{StopID: points[i].ID, ArrivalTime: geo.ETA(at, travelled, speed)})
	}
	return details, estimates, nil
}

// Positions returns the most recent recorded positions, newest first.
func (s *VehicleService) Positions(ctx context.Context, id uint, limit int) ([]models.VehiclePosition, error) {
	if err := ensureExists[models.Vehicle](ctx, s.store, id, "vehicle not found"); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = defaultPositionLimit
	}
	return s.store.ListPositions(ctx, id, limit)
}
