package service_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/repository"
	"transit_ops/internal/testutil"
)

func target(kind string, id string) *models.AssignedTarget {
	return &models.AssignedTarget{Type: kind, ID: models.TargetID(id)}
}

func TestAssignmentMirrorsOnVehicle(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := testutil.NewServices(t, store).Assignments

	v1 := newVehicle(t, store, "V1")
	v2 := newVehicle(t, store, "V2")
	agency := &models.Agency{Name: "A1"}
	require.NoError(t, repository.Create(ctx, store, agency))
	route := &models.Route{AgencyID: &agency.ID, RouteID: "R1", RouteShortName: "1"}
	require.NoError(t, repository.Create(ctx, store, route))
	routeRef := strconv.FormatUint(uint64(route.ID), 10)

	t.Run("rejects bad targets", func(t *testing.T) {
		cases := map[string]*models.AssignedTarget{
			"unknown type":   target("depot", "1"),
			"missing id":     target("route", ""),
			"non numeric id": target("trip", "abc"),
		}
		for name, tg := range cases {
			_, err := svc.Create(ctx, dto.AssignmentRequest{VehicleID: v1.ID, AssignedType: tg})
			assert.Equal(t, apperrors.KindValidation, kindOf(err), name)
		}
		_, err := svc.Create(ctx, dto.AssignmentRequest{VehicleID: v1.ID, AssignedType: target("route", "999")})
		assert.Equal(t, apperrors.KindNotFound, kindOf(err))
		_, err = svc.Create(ctx, dto.AssignmentRequest{VehicleID: 999, AssignedType: target("route", routeRef)})
		assert.Equal(t, apperrors.KindNotFound, kindOf(err))
	})

	a, err := svc.Create(ctx, dto.AssignmentRequest{VehicleID: v1.ID, AssignedType: target("route", " "+routeRef+" ")})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentActive, a.Status)
	assert.Equal(t, models.TargetID(routeRef), a.AssignedType.ID)

	v, err := store.GetVehicle(ctx, v1.ID)
	require.NoError(t, err)
	require.NotNil(t, v.AssignedRouteID)
	assert.Equal(t, route.ID, *v.AssignedRouteID)
	assert.Nil(t, v.AssignedTripID)
	assert.Nil(t, v.AssignedBlock)

	// Moving the assignment to another vehicle and a block clears the first vehicle.
	_, err = svc.Update(ctx, a.ID, dto.AssignmentRequest{VehicleID: v2.ID, AssignedType: target("block", "  BLK-7 "), Status: models.AssignmentInactive})
	require.NoError(t, err)

	v, err = store.GetVehicle(ctx, v1.ID)
	require.NoError(t, err)
	assert.Nil(t, v.AssignedRouteID)
	assert.Nil(t, v.AssignedBlock)

	v, err = store.GetVehicle(ctx, v2.ID)
	require.NoError(t, err)
	require.NotNil(t, v.AssignedBlock)
	assert.Equal(t, "BLK-7", *v.AssignedBlock)
	assert.Nil(t, v.AssignedRouteID)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentInactive, got.Status)
	assert.Equal(t, models.AssignedTarget{Type: models.AssignBlock, ID: "BLK-7"}, got.AssignedType)
	assert.Equal(t, v2.ID, got.VehicleID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	v, err = store.GetVehicle(ctx, v2.ID)
	require.NoError(t, err)
	assert.Nil(t, v.AssignedBlock)

	assert.Equal(t, apperrors.KindNotFound, kindOf(svc.Delete(ctx, a.ID)))
}
