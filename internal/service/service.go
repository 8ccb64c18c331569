// Package service holds the business operations behind the HTTP handlers:
// input checks, access policy, and the paired writes that keep related rows
// consistent.
package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

// Publisher receives vehicle snapshots for live subscribers.
type Publisher interface {
	Publish(vehicleID uint, payload any)
}

type Deps struct {
	Store     *repository.Store
	Tokens    *TokenService
	Cache     *CacheService
	Metrics   *MetricsService
	Publisher Publisher
	Accounts  policy.Accounts
}

// Services groups every service the router needs.
type Services struct {
	Auth        *AuthService
	Users       *UserService
	Agencies    *AgencyService
	Routes      *RouteService
	Trips       *TripService
	Stops       *StopService
	StopTimes   *StopTimeService
	Calendars   *CalendarService
	Shapes      *ShapeService
	Vehicles    *VehicleService
	Drivers     *DriverService
	Students    *StudentService
	Messages    *MessageService
	Permissions *PermissionService
	Assignments *AssignmentService
	Metrics     *MetricsService
	Store       *repository.Store
}

func New(d Deps) *Services {
	return &Services{
		Auth:        NewAuthService(d.Store, d.Tokens),
		Users:       NewUserService(d.Store, d.Accounts),
		Agencies:    NewAgencyService(d.Store),
		Routes:      NewRouteService(d.Store),
		Trips:       NewTripService(d.Store),
		Stops:       NewStopService(d.Store, d.Cache),
		StopTimes:   NewStopTimeService(d.Store),
		Calendars:   NewCalendarService(d.Store),
		Shapes:      NewShapeService(d.Store, d.Cache),
		Vehicles:    NewVehicleService(d.Store, d.Publisher, d.Metrics),
		Drivers:     NewDriverService(d.Store),
		Students:    NewStudentService(d.Store),
		Messages:    NewMessageService(d.Store),
		Permissions: NewPermissionService(d.Store),
		Assignments: NewAssignmentService(d.Store),
		Metrics:     d.Metrics,
		Store:       d.Store,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ensureUnique returns a Validation error when column already holds value on another row.
func ensureUnique[T any](ctx context.Context, s *repository.Store, column string, value any, excludeID uint, label string) error {
	taken, err := repository.Taken[T](ctx, s, column, value, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Validation("%s already exists", label)
	}
	return nil
}

// ensureExists loads nothing but reports a NotFound error for a missing id.
func ensureExists[T any](ctx context.Context, s *repository.Store, id uint, message string) error {
	n, err := repository.CountIDs[T](ctx, s, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("%s", message)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// setIf copies a present optional value into an update column set.
func setIf[V any](fields map[string]any, column string, v *V) {
	if v != nil {
		fields[column] = *v
	}
}

func uniqueUints(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
