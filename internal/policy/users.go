package policy

import (
	"strings"

	"transit_ops/internal/apperrors"
)

// Subject is the part of a user record the user rules look at.
type Subject struct {
	ID      uint
	Role    Role
	Email   string
	MyAdmin string
}

// UserChange describes what an update request touches.
type UserChange struct {
	Email *string
	Role  *Role
}

// Accounts applies the user-management rules. ProtectedEmail names the one
// superadmin account nobody else may modify and nobody may delete.
type Accounts struct {
	ProtectedEmail string
}

func (a Accounts) IsProtected(s Subject) bool {
	return a.ProtectedEmail != "" && s.Role == RoleSuperAdmin && strings.EqualFold(s.Email, a.ProtectedEmail)
}

// UserScope is the row filter applied to user listings.
type UserScope struct {
	All     bool
	Email   string
	MyAdmin string
}

// ScopeFor returns the users a caller may read: superadmins see everyone,
// admins see themselves and the users they own, parents see themselves.
func (a Accounts) ScopeFor(c Caller) UserScope {
	switch c.Role {
	case RoleSuperAdmin:
		return UserScope{All: true}
	case RoleAdmin:
		return UserScope{Email: c.Email, MyAdmin: c.Email}
	default:
		return UserScope{Email: c.Email}
	}
}

func (a Accounts) CanSee(c Caller, s Subject) bool {
	scope := a.ScopeFor(c)
	if scope.All {
		return true
	}
	if strings.EqualFold(s.Email, scope.Email) {
		return true
	}
	return scope.MyAdmin != "" && strings.EqualFold(s.MyAdmin, scope.MyAdmin)
}

func (a Accounts) CanCreate(c Caller, role Role) error {
	if err := Allow(c, ManageUsers); err != nil {
		return err
	}
	if !role.Valid() {
		return apperrors.Validation("invalid role %q", role)
	}
	if c.Role == RoleAdmin && role != RoleParent {
		return apperrors.Authorization("only a superadmin can create admin accounts")
	}
	return nil
}

func (a Accounts) CanUpdate(c Caller, s Subject, change UserChange) error {
	if a.IsProtected(s) {
		if !strings.EqualFold(c.Email, a.ProtectedEmail) {
			return apperrors.Authorization("only the protected superadmin can update this account")
		}
		if change.Email != nil && !strings.EqualFold(*change.Email, s.Email) {
			return apperrors.Authorization("the email of this account cannot be changed")
		}
		if change.Role != nil && *change.Role != s.Role {
			return apperrors.Authorization("the role of this account cannot be changed")
		}
		return nil
	}
	if !a.CanSee(c, s) {
		return apperrors.Authorization("not allowed to update this user")
	}
	if change.Role != nil && *change.Role != s.Role && c.Role != RoleSuperAdmin {
		if c.Role != RoleAdmin || *change.Role != RoleParent || s.ID == c.ID {
			return apperrors.Authorization("not allowed to change this user's role")
		}
	}
	return nil
}

func (a Accounts) CanDelete(c Caller, s Subject) error {
	if a.IsProtected(s) {
		return apperrors.Authorization("the protected superadmin cannot be deleted")
	}
	if err := Allow(c, ManageUsers); err != nil {
		return err
	}
	if c.Role == RoleSuperAdmin {
		return nil
	}
	if s.ID == c.ID {
		return apperrors.Authorization("admins cannot delete their own account")
	}
	if !strings.EqualFold(s.MyAdmin, c.Email) {
		return apperrors.NotFound("user not found or access denied")
	}
	return nil
}
