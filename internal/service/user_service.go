package service

import (
	"context"
	"strings"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type UserService struct {
	store    *repository.Store
	accounts policy.Accounts
}

func NewUserService(store *repository.Store, accounts policy.Accounts) *UserService {
	return &UserService{store: store, accounts: accounts}
}

func subjectOf(u *models.User) policy.Subject {
	return policy.Subject{ID: u.ID, Role: policy.Role(u.Role), Email: u.Email, MyAdmin: u.MyAdmin}
}

// Create adds an account. Users created by an admin belong to that admin and
// inherit its agencies. Students already registered under the new user's CIN
// are linked to it.
func (s *UserService) Create(ctx context.Context, c policy.Caller, req dto.CreateUserRequest) (*models.User, error) {
	role := policy.RoleParent
	if req.Role != "" {
		parsed, err := policy.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}
	if err := s.accounts.CanCreate(c, role); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if err := ensureUnique[models.User](ctx, s.store, "email", email, 0, "user"); err != nil {
		return nil, err
	}
	cin := trimmedOrNil(req.CINNumber)
	if cin != nil {
		if err := ensureUnique[models.User](ctx, s.store, "cin_number", *cin, 0, "cinNumber"); err != nil {
			return nil, err
		}
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	myAdmin, agencyIDs := req.MyAdmin, req.Agencies
	if c.Role == policy.RoleAdmin {
		myAdmin, agencyIDs = c.Email, c.AgencyIDs
	}
	agencies, err := s.resolveAgencies(ctx, agencyIDs)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    req.Username,
		Email:       email,
		CINNumber:   cin,
		PhoneNumber: req.PhoneNumber,
		Password:    hash,
		Role:        string(role),
		MyAdmin:     myAdmin,
		Agencies:    agencies,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Create(ctx, tx, user); err != nil {
			return err
		}
		if cin != nil {
			return tx.LinkStudentsByCIN(ctx, *cin, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, user.ID)
}

func (s *UserService) List(ctx context.Context, c policy.Caller) ([]models.User, error) {
	return s.store.ListUsers(ctx, s.accounts.ScopeFor(c))
}

// Get hides users outside the caller's scope behind a NotFound.
func (s *UserService) Get(ctx context.Context, c policy.Caller, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "user not found")
	}
	if !s.accounts.CanSee(c, subjectOf(user)) {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, c policy.Caller, id uint, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "user not found")
	}

	change := policy.UserChange{}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
		change.Email = &email
	}
	if req.Role != nil {
		role, err := policy.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		change.Role = &role
	}
	if err := s.accounts.CanUpdate(c, subjectOf(user), change); err != nil {
		return nil, err
	}
	if (req.Agencies != nil || req.MyAdmin != nil) && c.Role != policy.RoleSuperAdmin {
		return nil, apperrors.Authorization("only a superadmin can change agency scope or ownership")
	}

	fields := map[string]any{}
	setIf(fields, "username", req.Username)
	setIf(fields, "phone_number", req.PhoneNumber)
	setIf(fields, "my_admin", req.MyAdmin)
	if req.Email != nil && *req.Email != user.Email {
		if err := ensureUnique[models.User](ctx, s.store, "email", *req.Email, id, "user"); err != nil {
			return nil, err
		}
		fields["email"] = *req.Email
	}
	if change.Role != nil {
		fields["role"] = string(*change.Role)
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}

	newCIN := trimmedOrNil(req.CINNumber)
	cinChanged := newCIN != nil && (user.CINNumber == nil || *user.CINNumber != *newCIN)
	if cinChanged {
		if err := ensureUnique[models.User](ctx, s.store, "cin_number", *newCIN, id, "cinNumber"); err != nil {
			return nil, err
		}
		fields["cin_number"] = *newCIN
	}

	var agencies []models.Agency
	if req.Agencies != nil {
		if agencies, err = s.resolveAgencies(ctx, *req.Agencies); err != nil {
			return nil, err
		}
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Update[models.User](ctx, tx, id, fields); err != nil {
			return err
		}
		if cinChanged {
			if user.CINNumber != nil {
				if err := tx.RepointStudents(ctx, *user.CINNumber, *newCIN, id); err != nil {
					return err
				}
			}
			if err := tx.LinkStudentsByCIN(ctx, *newCIN, id); err != nil {
				return err
			}
		}
		if req.Agencies != nil {
			return tx.ReplaceUserAgencies(ctx, user, agencies)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "user not found")
	}
	return s.store.GetUser(ctx, id)
}

// Delete removes the account, its agency grants and its student links.
func (s *UserService) Delete(ctx context.Context, c policy.Caller, id uint) error {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return apperrors.NotFoundOr(err, "user not found")
	}
	if err := s.accounts.CanDelete(c, subjectOf(user)); err != nil {
		return err
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.ClearUserAgencies(ctx, user); err != nil {
			return err
		}
		if err := tx.UnlinkStudents(ctx, id); err != nil {
			return err
		}
		return repository.Delete[models.User](ctx, tx, id)
	})
	return apperrors.NotFoundOr(err, "user not found")
}

func (s *UserService) resolveAgencies(ctx context.Context, ids []uint) ([]models.Agency, error) {
	ids = uniqueUints(ids)
	agencies, err := s.store.AgenciesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(agencies) != len(ids) {
		return nil, apperrors.NotFound("agency not found")
	}
	return agencies, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
