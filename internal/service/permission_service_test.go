package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
	"transit_ops/internal/testutil"
)

func kindOf(err error) apperrors.Kind {
	return apperrors.FromError(err).Kind
}

func TestAssignAgencyCascadesToManagedUsers(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := testutil.NewServices(t, store)

	root := testutil.Caller(testutil.CreateUser(t, store, policy.RoleSuperAdmin, testutil.SuperAdminMail))
	admin := testutil.CreateUser(t, store, policy.RoleAdmin, "admin@x.com")
	owned := testutil.CreateUser(t, store, policy.RoleParent, "p@x.com")
	require.NoError(t, repository.Update[models.User](ctx, store, owned.ID, map[string]any{"my_admin": admin.Email}))
	stranger := testutil.CreateUser(t, store, policy.RoleParent, "q@x.com")

	agency := &models.Agency{Name: "A1"}
	require.NoError(t, repository.Create(ctx, store, agency))
	req := dto.AgencyAdminRequest{UserID: admin.ID, AgencyID: agency.ID}

	_, err := svc.Permissions.AssignAgency(ctx, testutil.Caller(admin), req)
	assert.Equal(t, apperrors.KindAuthorization, kindOf(err))

	updated, err := svc.Permissions.AssignAgency(ctx, root, req)
	require.NoError(t, err)
	assert.Equal(t, []uint{agency.ID}, updated.AgencyIDs())

	got, err := store.GetUser(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{agency.ID}, got.AgencyIDs())
	got, err = store.GetUser(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AgencyIDs())

	_, err = svc.Permissions.AssignAgency(ctx, root, req)
	assert.Equal(t, apperrors.KindValidation, kindOf(err))

	_, err = svc.Permissions.AssignAgency(ctx, root, dto.AgencyAdminRequest{UserID: owned.ID, AgencyID: agency.ID})
	assert.Equal(t, apperrors.KindValidation, kindOf(err), "only admins take agencies")

	updated, err = svc.Permissions.UnassignAgency(ctx, root, req)
	require.NoError(t, err)
	assert.Empty(t, updated.AgencyIDs())
	got, err = store.GetUser(ctx, owned.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AgencyIDs())

	_, err = svc.Permissions.UnassignAgency(ctx, root, req)
	assert.Equal(t, apperrors.KindValidation, kindOf(err))
}

func TestRouteAndTripLinks(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := testutil.NewServices(t, store)
	root := testutil.Caller(testutil.CreateUser(t, store, policy.RoleSuperAdmin, testutil.SuperAdminMail))
	admin := testutil.Caller(testutil.CreateUser(t, store, policy.RoleAdmin, "admin@x.com"))
	parent := testutil.Caller(testutil.CreateUser(t, store, policy.RoleParent, "p@x.com"))

	a1 := &models.Agency{Name: "A1"}
	a2 := &models.Agency{Name: "A2"}
	require.NoError(t, repository.Create(ctx, store, a1))
	require.NoError(t, repository.Create(ctx, store, a2))
	route := &models.Route{AgencyID: &a1.ID, RouteID: "R1", RouteShortName: "1"}
	require.NoError(t, repository.Create(ctx, store, route))

	// Route to agency links are superadmin-only.
	for _, c := range []policy.Caller{parent, admin} {
		_, err := svc.Permissions.AssignRouteAgency(ctx, c, dto.RouteAgencyRequest{AgencyID: a2.ID, RouteID: route.ID})
		assert.Equal(t, apperrors.KindAuthorization, kindOf(err), c.Role)
		_, err = svc.Permissions.UnassignRouteAgency(ctx, c, dto.RouteAgencyRequest{AgencyID: a1.ID, RouteID: route.ID})
		assert.Equal(t, apperrors.KindAuthorization, kindOf(err), c.Role)
	}
	unchanged, err := store.GetRoute(ctx, route.ID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, *unchanged.AgencyID)

	_, err = svc.Permissions.AssignRouteAgency(ctx, root, dto.RouteAgencyRequest{AgencyID: a1.ID, RouteID: route.ID})
	assert.Equal(t, apperrors.KindValidation, kindOf(err))

	// Moving the route leaves it on exactly one agency.
	res, err := svc.Permissions.AssignRouteAgency(ctx, root, dto.RouteAgencyRequest{AgencyID: a2.ID, RouteID: route.ID})
	require.NoError(t, err)
	assert.Equal(t, a2.ID, *res.Route.AgencyID)
	assert.Contains(t, res.Agency.RouteIDs(), route.ID)
	old, err := store.GetAgency(ctx, a1.ID)
	require.NoError(t, err)
	assert.NotContains(t, old.RouteIDs(), route.ID)

	_, err = svc.Permissions.UnassignRouteAgency(ctx, root, dto.RouteAgencyRequest{AgencyID: a1.ID, RouteID: route.ID})
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))
	res, err = svc.Permissions.UnassignRouteAgency(ctx, root, dto.RouteAgencyRequest{AgencyID: a2.ID, RouteID: route.ID})
	require.NoError(t, err)
	assert.Nil(t, res.Route.AgencyID)

	cal := &models.Calendar{ServiceID: "ALL", StartDate: models.NewDate(2025, 1, 1), EndDate: models.NewDate(2025, 2, 1)}
	require.NoError(t, repository.Create(ctx, store, cal))
	trip := &models.Trip{TripID: "T1", CalendarID: cal.ID}
	require.NoError(t, repository.Create(ctx, store, trip))

	_, err = svc.Permissions.UnassignTripRoute(ctx, admin, dto.TripRouteRequest{TripID: trip.ID, RouteID: route.ID})
	assert.Equal(t, apperrors.KindValidation, kindOf(err))

	linked, err := svc.Permissions.AssignTripRoute(ctx, admin, dto.TripRouteRequest{TripID: trip.ID, RouteID: route.ID})
	require.NoError(t, err)
	assert.Equal(t, route.ID, *linked.RouteID)

	_, err = svc.Permissions.AssignTripRoute(ctx, admin, dto.TripRouteRequest{TripID: trip.ID, RouteID: route.ID})
	assert.Equal(t, apperrors.KindValidation, kindOf(err))

	unlinked, err := svc.Permissions.UnassignTripRoute(ctx, admin, dto.TripRouteRequest{TripID: trip.ID, RouteID: route.ID})
	require.NoError(t, err)
	assert.Nil(t, unlinked.RouteID)

	_, err = svc.Permissions.AssignTripRoute(ctx, admin, dto.TripRouteRequest{TripID: 999, RouteID: route.ID})
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))
}

func TestUserCreatedByAdminInheritsScope(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := testutil.NewServices(t, store)

	agency := models.Agency{Name: "A1"}
	require.NoError(t, repository.Create(ctx, store, &agency))
	admin := testutil.CreateUser(t, store, policy.RoleAdmin, "admin@x.com", agency)

	student := &models.Student{Username: "kid", BadgeID: "B1", CINParent: "CIN-9", Level: "2"}
	require.NoError(t, repository.Create(ctx, store, student))

	u, err := svc.Users.Create(ctx, testutil.Caller(admin), dto.CreateUserRequest{
		Email: " Mom@X.com ", Password: "secret123", CINNumber: ptr("CIN-9"),
		MyAdmin: "someone@else.com", Agencies: []uint{999},
	})
	require.NoError(t, err)
	assert.Equal(t, "mom@x.com", u.Email)
	assert.Equal(t, string(policy.RoleParent), u.Role)
	assert.Equal(t, admin.Email, u.MyAdmin)
	assert.Equal(t, []uint{agency.ID}, u.AgencyIDs())

	linked, err := store.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.ParentID)
	assert.Equal(t, u.ID, *linked.ParentID)

	// Deleting the parent leaves the student without one.
	require.NoError(t, svc.Users.Delete(ctx, testutil.Caller(admin), u.ID))
	linked, err = store.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, linked.ParentID)
}
