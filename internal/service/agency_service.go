package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type AgencyService struct {
	store *repository.Store
}

func NewAgencyService(store *repository.Store) *AgencyService {
	return &AgencyService{store: store}
}

// Create inserts the agency, attaches the listed routes and grants the agency
// to every superadmin.
func (s *AgencyService) Create(ctx context.Context, c policy.Caller, req dto.CreateAgencyRequest) (*models.Agency, error) {
	if err := policy.Allow(c, policy.ManageAgencies); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := ensureUnique[models.Agency](ctx, s.store, "name", name, 0, "agency"); err != nil {
		return nil, err
	}
	routeIDs := uniqueUints(req.Routes)
	if err := s.ensureRoutes(ctx, routeIDs); err != nil {
		return nil, err
	}

	agency := &models.Agency{Name: name, Email: req.Email, Phone: req.Phone, Website: req.Website}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Create(ctx, tx, agency); err != nil {
			return err
		}
		if len(routeIDs) > 0 {
			if err := tx.SetAgencyRoutes(ctx, agency.ID, routeIDs); err != nil {
				return err
			}
		}
		return tx.GrantAgencyToRole(ctx, agency, string(policy.RoleSuperAdmin))
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"agency_id": agency.ID, "by": c.Email}).Info("agency created")
	return s.store.GetAgency(ctx, agency.ID)
}

// List returns every agency for superadmins and the caller's own otherwise.
func (s *AgencyService) List(ctx context.Context, c policy.Caller) ([]models.Agency, error) {
	if policy.Can(c, policy.ReadAllAgencies) {
		return s.store.ListAgencies(ctx, nil)
	}
	return s.store.ListAgencies(ctx, append([]uint{}, c.AgencyIDs...))
}

func (s *AgencyService) Get(ctx context.Context, c policy.Caller, id uint) (*models.Agency, error) {
	agency, err := s.store.GetAgency(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "agency not found")
	}
	if !policy.CanSeeAgency(c, id) {
		return nil, apperrors.Authorization("access to this agency is denied")
	}
	return agency, nil
}

// Update applies the submitted fields. Admins are held to the agency field
// allow-list and to the agencies in their scope. A routes list replaces the
// agency's route set.
func (s *AgencyService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateAgencyRequest) (*models.Agency, error) {
	if err := policy.AgencyUpdateFields(c, req.Fields); err != nil {
		return nil, err
	}
	if err := ensureExists[models.Agency](ctx, s.store, id, "agency not found"); err != nil {
		return nil, err
	}
	if !policy.CanSeeAgency(c, id) {
		return nil, apperrors.Authorization("access to this agency is denied")
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := ensureUnique[models.Agency](ctx, s.store, "name", name, id, "agency"); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	setIf(fields, "email", req.Email)
	setIf(fields, "phone", req.Phone)
	setIf(fields, "website", req.Website)

	var routeIDs []uint
	if req.Routes != nil {
		routeIDs = uniqueUints(*req.Routes)
		if err := s.ensureRoutes(ctx, routeIDs); err != nil {
			return nil, err
		}
		if err := s.ensureRoutesClaimable(ctx, c, id, routeIDs); err != nil {
			return nil, err
		}
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Update[models.Agency](ctx, tx, id, fields); err != nil {
			return err
		}
		if req.Routes != nil {
			return tx.SetAgencyRoutes(ctx, id, routeIDs)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "agency not found")
	}
	return s.store.GetAgency(ctx, id)
}

// Delete removes the agency from every user's scope, detaches its routes and
// deletes it.
func (s *AgencyService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	if err := policy.Allow(c, policy.ManageAgencies); err != nil {
		return err
	}
	if err := ensureExists[models.Agency](ctx, s.store, id, "agency not found"); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.RevokeAgency(ctx, id); err != nil {
			return err
		}
		if err := tx.DetachAgencyRoutes(ctx, id); err != nil {
			return err
		}
		return repository.Delete[models.Agency](ctx, tx, id)
	})
	if err != nil {
		return apperrors.NotFoundOr(err, "agency not found")
	}
	logrus.WithFields(logrus.Fields{"agency_id": id, "by": c.Email}).Info("agency deleted")
	return nil
}

func (s *AgencyService) ensureRoutes(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := repository.CountIDs[models.Route](ctx, s.store, ids)
	if err != nil {
		return err
	}
	if int(n) != len(ids) {
		return apperrors.NotFound("route not found")
	}
	return nil
}

// ensureRoutesClaimable stops admins from pulling routes away from another
// agency: only unowned routes or routes already on agencyID may be listed.
func (s *AgencyService) ensureRoutesClaimable(ctx context.Context, c policy.Caller, agencyID uint, ids []uint) error {
	if policy.Can(c, policy.AssignRouteAgency) {
		return nil
	}
	foreign, err := s.store.RoutesOwnedElsewhere(ctx, ids, agencyID)
	if err != nil {
		return err
	}
	if len(foreign) > 0 {
		return apperrors.Authorization(fmt.Sprintf("route %s belongs to another agency; only a superadmin can move it", foreign[0].RouteID))
	}
	return nil
}
