// Package policy holds every access-control decision of the API. Handlers and
// services ask it questions instead of comparing role strings themselves.
package policy

import (
	"fmt"
	"strings"

	"transit_ops/internal/apperrors"
)

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleParent     Role = "parent"
)

// Roles lists the accepted role values.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleParent}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", apperrors.Validation("invalid role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Caller is the identity attached to an authenticated request.
type Caller struct {
	ID        uint
	Role      Role
	Email     string
	MyAdmin   string
	AgencyIDs []uint
}

func (c Caller) Is(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// HasAgency reports whether the agency is in the caller's scope.
func (c Caller) HasAgency(id uint) bool {
	for _, a := range c.AgencyIDs {
		if a == id {
			return true
		}
	}
	return false
}

type Capability int

const (
	ManageAgencies Capability = iota
	ReadAllAgencies
	UpdateAgency
	AssignAgencyAdmin
	AssignRouteAgency
	AssignTripRoute
	WriteTransit
	ManageUsers
	ReplyMessages
	ReadAllMessages
	WriteMessages
)

var capabilityNames = map[Capability]string{
	ManageAgencies:    "manage agencies",
	ReadAllAgencies:   "list all agencies",
	UpdateAgency:      "update agencies",
	AssignAgencyAdmin: "assign agencies to admins",
	AssignRouteAgency: "assign routes to agencies",
	AssignTripRoute:   "assign trips to routes",
	WriteTransit:      "modify transit data",
	ManageUsers:       "manage users",
	ReplyMessages:     "reply to messages",
	ReadAllMessages:   "read all messages",
	WriteMessages:     "send messages",
}

func (c Capability) String() string {
	if n, ok := capabilityNames[c]; ok {
		return n
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

var grants = map[Role]map[Capability]bool{
	RoleSuperAdmin: {
		ManageAgencies:    true,
		ReadAllAgencies:   true,
		UpdateAgency:      true,
		AssignAgencyAdmin: true,
		AssignRouteAgency: true,
		AssignTripRoute:   true,
		WriteTransit:      true,
		ManageUsers:       true,
		ReplyMessages:     true,
		ReadAllMessages:   true,
		WriteMessages:     true,
	},
	RoleAdmin: {
		UpdateAgency:    true,
		AssignTripRoute: true,
		WriteTransit:    true,
		ManageUsers:     true,
		ReplyMessages:   true,
		ReadAllMessages: true,
		WriteMessages:   true,
	},
	RoleParent: {
		WriteMessages: true,
	},
}

// Can reports whether the caller's role holds the capability.
func Can(c Caller, capability Capability) bool {
	return grants[c.Role][capability]
}

// Allow returns an Authorization error when the caller lacks the capability.
func Allow(c Caller, capability Capability) error {
	if Can(c, capability) {
		return nil
	}
	return apperrors.Authorization(fmt.Sprintf("role %q is not allowed to %s", c.Role, capability))
}

// AdminAgencyFields are the agency fields an admin may change.
var AdminAgencyFields = []string{"email", "phone", "website", "routes"}

// AgencyUpdateFields checks the submitted field names against the caller's
// allow-list. Superadmins may change every field.
func AgencyUpdateFields(c Caller, keys []string) error {
	if err := Allow(c, UpdateAgency); err != nil {
		return err
	}
	if c.Role == RoleSuperAdmin {
		return nil
	}
	var invalid []string
	for _, k := range keys {
		if !contains(AdminAgencyFields, k) {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) > 0 {
		return apperrors.Authorization(fmt.Sprintf(
			"admins may only update %s on an agency (rejected: %s)",
			strings.Join(AdminAgencyFields, ", "), strings.Join(invalid, ", ")))
	}
	return nil
}

// CanSeeAgency restricts non-superadmins to the agencies in their scope.
func CanSeeAgency(c Caller, agencyID uint) bool {
	return Can(c, ReadAllAgencies) || c.HasAgency(agencyID)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
