package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

// PermissionService manages the agency scope of admins and the route/trip links.
type PermissionService struct {
	store *repository.Store
}

func NewPermissionService(store *repository.Store) *PermissionService {
	return &PermissionService{store: store}
}

type RouteAgencyResult struct {
	Route  *models.Route  `json:"route"`
	Agency *models.Agency `json:"agency"`
}

func (s *PermissionService) loadAdmin(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "user not found")
	}
	if user.Role != string(policy.RoleAdmin) {
		return nil, apperrors.Validation("agencies can only be assigned to admin users")
	}
	return user, nil
}

// AssignAgency gives an admin its agency and extends the same scope to the
// users the admin manages. An admin holds at most one agency.
func (s *PermissionService) AssignAgency(ctx context.Context, c policy.Caller, req dto.AgencyAdminRequest) (*models.User, error) {
	if err := policy.Allow(c, policy.AssignAgencyAdmin); err != nil {
		return nil, err
	}
	admin, err := s.loadAdmin(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(admin.Agencies) > 0 {
		return nil, apperrors.Validation("this user already has an agency assigned")
	}
	agency, err := s.store.GetAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "agency not found")
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.AddUserAgency(ctx, admin, agency); err != nil {
			return err
		}
		managed, err := tx.ManagedUsers(ctx, admin.Email)
		if err != nil {
			return err
		}
		for i := range managed {
			if err := tx.AddUserAgency(ctx, &managed[i], agency); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": admin.ID, "agency_id": agency.ID}).Info("agency assigned to admin")
	return s.store.GetUser(ctx, admin.ID)
}

func (s *PermissionService) UnassignAgency(ctx context.Context, c policy.Caller, req dto.AgencyAdminRequest) (*models.User, error) {
	if err := policy.Allow(c, policy.AssignAgencyAdmin); err != nil {
		return nil, err
	}
	admin, err := s.loadAdmin(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !CallerFromUser(admin).HasAgency(req.AgencyID) {
		return nil, apperrors.Validation("this user does not have this agency assigned")
	}
	agency, err := s.store.GetAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "agency not found")
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.RemoveUserAgency(ctx, admin, agency); err != nil {
			return err
		}
		managed, err := tx.ManagedUsers(ctx, admin.Email)
		if err != nil {
			return err
		}
		for i := range managed {
			if err := tx.RemoveUserAgency(ctx, &managed[i], agency); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, admin.ID)
}

func (s *PermissionService) AssignRouteAgency(ctx context.Context, c policy.Caller, req dto.RouteAgencyRequest) (*RouteAgencyResult, error) {
	if err := policy.Allow(c, policy.AssignRouteAgency); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Agency](ctx, s.store, req.AgencyID, "agency not found"); err != nil {
		return nil, err
	}
	route, err := s.store.GetRoute(ctx, req.RouteID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "route not found")
	}
	if route.AgencyID != nil && *route.AgencyID == req.AgencyID {
		return nil, apperrors.Validation("this route is already assigned to this agency")
	}
	agencyID := req.AgencyID
	if err := s.store.SetRouteAgency(ctx, route.ID, &agencyID); err != nil {
		return nil, err
	}
	return s.routeAgency(ctx, route.ID, req.AgencyID)
}

func (s *PermissionService) UnassignRouteAgency(ctx context.Context, c policy.Caller, req dto.RouteAgencyRequest) (*RouteAgencyResult, error) {
	if err := policy.Allow(c, policy.AssignRouteAgency); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Agency](ctx, s.store, req.AgencyID, "agency not found"); err != nil {
		return nil, err
	}
	route, err := s.store.GetRoute(ctx, req.RouteID)
	if err != nil || route.AgencyID == nil || *route.AgencyID != req.AgencyID {
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NotFound("route not assigned to this agency or route not found")
	}
	if err := s.store.SetRouteAgency(ctx, route.ID, nil); err != nil {
		return nil, err
	}
	return s.routeAgency(ctx, route.ID, req.AgencyID)
}

func (s *PermissionService) routeAgency(ctx context.Context, routeID, agencyID uint) (*RouteAgencyResult, error) {
	route, err := s.store.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	agency, err := s.store.GetAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	return &RouteAgencyResult{Route: route, Agency: agency}, nil
}

func (s *PermissionService) AssignTripRoute(ctx context.Context, c policy.Caller, req dto.TripRouteRequest) (*models.Trip, error) {
	if err := policy.Allow(c, policy.AssignTripRoute); err != nil {
		return nil, err
	}
	trip, err := s.store.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "trip not found")
	}
	if err := ensureExists[models.Route](ctx, s.store, req.RouteID, "route not found"); err != nil {
		return nil, err
	}
	if trip.RouteID != nil && *trip.RouteID == req.RouteID {
		return nil, apperrors.Validation("this trip is already assigned to the specified route")
	}
	routeID := req.RouteID
	if err := s.store.SetTripRoute(ctx, trip.ID, &routeID); err != nil {
		return nil, err
	}
	return s.store.GetTrip(ctx, trip.ID)
}

func (s *PermissionService) UnassignTripRoute(ctx context.Context, c policy.Caller, req dto.TripRouteRequest) (*models.Trip, error) {
	if err := policy.Allow(c, policy.AssignTripRoute); err != nil {
		return nil, err
	}
	trip, err := s.store.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "trip not found")
	}
	if trip.RouteID == nil || *trip.RouteID != req.RouteID {
		return nil, apperrors.Validation("this trip is not assigned to the specified route")
	}
	if err := ensureExists[models.Route](ctx, s.store, req.RouteID, "route not found"); err != nil {
		return nil, err
	}
	if err := s.store.SetTripRoute(ctx, trip.ID, nil); err != nil {
		return nil, err
	}
	return s.store.GetTrip(ctx, trip.ID)
}
