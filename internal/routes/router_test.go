package routes_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_ops/internal/models"
	"transit_ops/internal/repository"
	"transit_ops/internal/testutil"
)

func TestSession(t *testing.T) {
	h := newHarness(t, false)

	t.Run("valid credentials", func(t *testing.T) {
		body := h.expect(h.do(http.MethodPost, "/api/session", "", map[string]any{
			"email": "admin@x.com", "password": testutil.Password,
		}), http.StatusOK)
		assert.Equal(t, "admin", body["role"])
		assert.Equal(t, float64(h.admin.ID), body["_id"])
		token, ok := body["token"].(map[string]any)
		require.True(t, ok)
		assert.NotEmpty(t, token["data"])
		assert.Greater(t, token["expiresIn"].(float64), float64(time.Now().Unix()))

		// The issued token opens protected routes.
		h.expect(h.do(http.MethodGet, "/api/routes", token["data"].(string), nil), http.StatusOK)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := h.expect(h.do(http.MethodPost, "/api/session", "", map[string]any{
			"email": "admin@x.com", "password": "nope-nope",
		}), http.StatusBadRequest)
		assert.Equal(t, "invalid email or password", body["message"])
	})

	t.Run("unknown user", func(t *testing.T) {
		h.expect(h.do(http.MethodPost, "/api/session", "", map[string]any{
			"email": "ghost@x.com", "password": testutil.Password,
		}), http.StatusBadRequest)
	})
}

func TestAuthenticationGate(t *testing.T) {
	h := newHarness(t, false)

	t.Run("missing token", func(t *testing.T) {
		body := h.expect(h.do(http.MethodGet, "/api/routes", "", nil), http.StatusUnauthorized)
		assert.NotEmpty(t, body["message"])
	})

	t.Run("malformed token", func(t *testing.T) {
		h.expect(h.do(http.MethodGet, "/api/routes", "garbage", nil), http.StatusUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		past := h.tokens.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) })
		raw, _, err := past.Issue(h.admin)
		require.NoError(t, err)
		for _, path := range []string{"/api/routes", "/api/users", "/api/messages", "/api/stopTimes"} {
			h.expect(h.do(http.MethodGet, path, raw, nil), http.StatusUnauthorized)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		gone := testutil.CreateUser(t, h.store, "parent", "gone@x.com")
		raw := h.token(gone)
		require.NoError(t, repository.Delete[models.User](context.Background(), h.store, gone.ID))
		body := h.expect(h.do(http.MethodGet, "/api/messages", raw, nil), http.StatusUnauthorized)
		assert.Equal(t, "user no longer exists", body["message"])
	})

	t.Run("role gate", func(t *testing.T) {
		h.expect(h.do(http.MethodGet, "/api/users", h.token(h.parent), nil), http.StatusForbidden)
		h.expect(h.do(http.MethodPost, "/api/routes", h.token(h.parent), map[string]any{}), http.StatusForbidden)
	})
}

func TestAgencyCreateRequiresSuperAdmin(t *testing.T) {
	h := newHarness(t, false)
	payload := map[string]any{"name": "A1", "email": "a@x.com"}

	for _, u := range []*models.User{h.admin, h.parent} {
		body := h.expect(h.do(http.MethodPost, "/api/agencies", h.token(u), payload), http.StatusForbidden)
		assert.NotEmpty(t, body["message"])
	}
	assert.Equal(t, 0, count[models.Agency](t, h.store))

	body := h.expect(h.do(http.MethodPost, "/api/agencies", h.token(h.root), payload), http.StatusOK)
	assert.Equal(t, "A1", body["name"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, 1, count[models.Agency](t, h.store))

	// The new agency lands in the superadmin's scope.
	root, err := h.store.GetUser(context.Background(), h.root.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{idOf(t, body)}, root.AgencyIDs())
}

func TestAgencyRouteRoundTrip(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)

	agency := h.expect(h.do(http.MethodPost, "/api/agencies", root, map[string]any{
		"name": "A1", "email": "a@x.com",
	}), http.StatusOK)
	agencyID := idOf(t, agency)

	route := h.expect(h.do(http.MethodPost, "/api/routes", root, map[string]any{
		"agency": agencyID, "route_id": "R1", "route_short_name": "1",
	}), http.StatusCreated)
	routeID := idOf(t, route)
	assert.Equal(t, float64(agencyID), route["agency"])

	got := h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/agencies/%d", agencyID), root, nil), http.StatusOK)
	assert.Contains(t, ids(got["routes"].([]any)), routeID)

	h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/routes/%d", routeID), root, nil), http.StatusOK)

	got = h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/agencies/%d", agencyID), root, nil), http.StatusOK)
	assert.NotContains(t, ids(got["routes"].([]any)), routeID)

	t.Run("route needs an existing agency", func(t *testing.T) {
		h.expect(h.do(http.MethodPost, "/api/routes", root, map[string]any{
			"agency": 999, "route_id": "R2", "route_short_name": "2",
		}), http.StatusNotFound)
	})

	t.Run("duplicate route_id", func(t *testing.T) {
		body := map[string]any{"agency": agencyID, "route_id": "R3", "route_short_name": "3"}
		h.expect(h.do(http.MethodPost, "/api/routes", root, body), http.StatusCreated)
		h.expect(h.do(http.MethodPost, "/api/routes", root, body), http.StatusBadRequest)
	})
}

func TestAgencyAdminFieldAllowList(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)

	agency := h.expect(h.do(http.MethodPost, "/api/agencies", root, map[string]any{"name": "A1"}), http.StatusOK)
	agencyID := idOf(t, agency)
	other := h.expect(h.do(http.MethodPost, "/api/agencies", root, map[string]any{"name": "A2"}), http.StatusOK)

	h.expect(h.do(http.MethodPost, "/api/userpermission/assign-agency", root, map[string]any{
		"userId": h.admin.ID, "agencyId": agencyID,
	}), http.StatusOK)
	admin := h.token(h.admin)
	path := fmt.Sprintf("/api/agencies/%d", agencyID)

	h.expect(h.do(http.MethodPut, path, admin, map[string]any{"name": "Renamed"}), http.StatusForbidden)

	body := h.expect(h.do(http.MethodPut, path, admin, map[string]any{"phone": "+216 71 000 000"}), http.StatusOK)
	assert.Equal(t, "+216 71 000 000", body["phone"])
	assert.Equal(t, "A1", body["name"])

	// Agencies outside the admin's scope stay closed.
	h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/agencies/%d", idOf(t, other)), admin, nil), http.StatusForbidden)
	h.expect(h.do(http.MethodGet, "/api/agencies", admin, nil), http.StatusForbidden)

	// A second agency for the same admin is refused.
	h.expect(h.do(http.MethodPost, "/api/userpermission/assign-agency", root, map[string]any{
		"userId": h.admin.ID, "agencyId": idOf(t, other),
	}), http.StatusBadRequest)
}

func TestVehicleDriverBinding(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)

	var driverIDs []uint
	for i, cin := range []string{"D1", "D2", "D3"} {
		d := h.expect(h.do(http.MethodPost, "/api/drivers", root, map[string]any{
			"username": cin, "email": fmt.Sprintf("d%d@x.com", i), "cinNumber": cin, "phoneNumber": "555",
		}), http.StatusCreated)
		driverIDs = append(driverIDs, idOf(t, d))
	}

	vehicle := func(uniqueID string, drivers []string) map[string]any {
		return map[string]any{
			"uniqueId": uniqueID, "name": "Bus " + uniqueID, "drivers": drivers,
			"latitude": 36.8, "longitude": 10.18,
		}
	}

	t.Run("driver count", func(t *testing.T) {
		h.expect(h.do(http.MethodPost, "/api/vehicles", "", vehicle("V0", []string{})), http.StatusBadRequest)
		h.expect(h.do(http.MethodPost, "/api/vehicles", "", vehicle("V0", nil)), http.StatusBadRequest)
		h.expect(h.do(http.MethodPost, "/api/vehicles", "", vehicle("V0", []string{"D1", "D2", "D3"})), http.StatusBadRequest)
		assert.Equal(t, 0, count[models.Vehicle](t, h.store))
	})

	t.Run("unknown CIN", func(t *testing.T) {
		h.expect(h.do(http.MethodPost, "/api/vehicles", "", vehicle("V0", []string{"D1", "nope"})), http.StatusBadRequest)
	})

	created := h.expect(h.do(http.MethodPost, "/api/vehicles", "", vehicle("V1", []string{"D1", "D2"})), http.StatusCreated)
	vehicleID := idOf(t, created)
	assert.Len(t, created["drivers"], 2)

	for _, id := range driverIDs[:2] {
		d := h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/drivers/%d", id), root, nil), http.StatusOK)
		assert.Equal(t, float64(vehicleID), d["assignedVehicle"])
	}

	t.Run("CIN already bound elsewhere", func(t *testing.T) {
		body := h.expect(h.do(http.MethodPost, "/api/vehicles", "", vehicle("V2", []string{"D1"})), http.StatusBadRequest)
		assert.Contains(t, body["message"], "D1")
		assert.Equal(t, 1, count[models.Vehicle](t, h.store))
	})

	t.Run("delete releases drivers", func(t *testing.T) {
		h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/vehicles/%d", vehicleID), "", nil), http.StatusOK)
		d := h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/drivers/%d", driverIDs[0]), root, nil), http.StatusOK)
		assert.Nil(t, d["assignedVehicle"])
		h.expect(h.do(http.MethodPost, "/api/vehicles", "", vehicle("V3", []string{"D1"})), http.StatusCreated)
	})
}

// schedule creates an agency, route, calendar and trip and returns the trip id.
func schedule(t *testing.T, h *harness, token string) (routeID, tripID uint) {
	t.Helper()
	agency := h.expect(h.do(http.MethodPost, "/api/agencies", token, map[string]any{"name": "A1"}), http.StatusOK)
	route := h.expect(h.do(http.MethodPost, "/api/routes", token, map[string]any{
		"agency": idOf(t, agency), "route_id": "R1", "route_short_name": "1",
	}), http.StatusCreated)
	cal := h.expect(h.do(http.MethodPost, "/api/calendars", token, map[string]any{
		"service_id": "WEEKDAY", "monday": true, "tuesday": true, "wednesday": true, "thursday": true,
		"friday": true, "saturday": false, "sunday": false,
		"start_date": "2025-01-01", "end_date": "2025-12-31",
	}), http.StatusCreated)
	trip := h.expect(h.do(http.MethodPost, "/api/trips", token, map[string]any{
		"route": idOf(t, route), "trip_id": "T1", "service_id": idOf(t, cal),
	}), http.StatusCreated)
	return idOf(t, route), idOf(t, trip)
}

func TestTripDeleteIsIdempotent(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)
	routeID, tripID := schedule(t, h, root)

	trips := h.list(h.do(http.MethodGet, fmt.Sprintf("/api/trips/routes/%d", routeID), root, nil))
	require.Len(t, trips, 1)

	path := fmt.Sprintf("/api/trips/%d", tripID)
	h.expect(h.do(http.MethodDelete, path, root, nil), http.StatusOK)
	h.expect(h.do(http.MethodDelete, path, root, nil), http.StatusNotFound)
	h.expect(h.do(http.MethodGet, path, root, nil), http.StatusNotFound)

	// No trips left on the route.
	h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/trips/routes/%d", routeID), root, nil), http.StatusNotFound)
}

func TestCalendarRules(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)

	body := map[string]any{
		"service_id": "BAD", "monday": true, "tuesday": true, "wednesday": true, "thursday": true,
		"friday": true, "saturday": true, "sunday": true,
		"start_date": "2025-06-01", "end_date": "2025-01-01",
	}
	h.expect(h.do(http.MethodPost, "/api/calendars", root, body), http.StatusBadRequest)

	delete(body, "monday")
	body["end_date"] = "2025-12-01"
	h.expect(h.do(http.MethodPost, "/api/calendars", root, body), http.StatusBadRequest)
}

func TestStopTimeOrdering(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)
	_, tripID := schedule(t, h, root)

	var stopIDs []uint
	for i, lat := range []float64{36.80, 36.81} {
		stop := h.expect(h.do(http.MethodPost, "/api/stops", "", map[string]any{
			"stop_id": fmt.Sprintf("S%d", i+1), "stop_name": fmt.Sprintf("Stop %d", i+1),
			"stop_lat": lat, "stop_lon": 10.18,
		}), http.StatusCreated)
		stopIDs = append(stopIDs, idOf(t, stop))
	}

	stopTime := func(stopID uint, arrival, departure string, seq int) map[string]any {
		return map[string]any{
			"trip": tripID, "stop": stopID, "arrival_time": arrival,
			"departure_time": departure, "stop_sequence": seq,
		}
	}

	t.Run("departure before arrival", func(t *testing.T) {
		h.expect(h.do(http.MethodPost, "/api/stopTimes", root, stopTime(stopIDs[0], "08:00:00", "07:59:00", 1)), http.StatusBadRequest)
		h.expect(h.do(http.MethodPost, "/api/stopTimes", root, stopTime(stopIDs[0], "08:00:00", "08:00:00", 1)), http.StatusBadRequest)
		assert.Equal(t, 0, count[models.StopTime](t, h.store))
	})

	t.Run("malformed time", func(t *testing.T) {
		h.expect(h.do(http.MethodPost, "/api/stopTimes", root, stopTime(stopIDs[0], "8am", "09:00:00", 1)), http.StatusBadRequest)
	})

	second := h.expect(h.do(http.MethodPost, "/api/stopTimes", root, stopTime(stopIDs[1], "08:10:00", "08:11:00", 2)), http.StatusCreated)
	h.expect(h.do(http.MethodPost, "/api/stopTimes", root, stopTime(stopIDs[0], "07:58:00", "08:00:00", 1)), http.StatusCreated)

	// Past-midnight service is valid GTFS.
	t.Run("hours past 24", func(t *testing.T) {
		h.expect(h.do(http.MethodPut, fmt.Sprintf("/api/stopTimes/%d", idOf(t, second)), root, map[string]any{
			"arrival_time": "24:10:00", "departure_time": "24:11:00",
		}), http.StatusOK)
	})

	t.Run("duplicate trip and stop", func(t *testing.T) {
		h.expect(h.do(http.MethodPost, "/api/stopTimes", root, stopTime(stopIDs[0], "09:00:00", "09:01:00", 3)), http.StatusBadRequest)
	})

	items := h.list(h.do(http.MethodGet, fmt.Sprintf("/api/stopTimes/trips/%d", tripID), root, nil))
	require.Len(t, items, 2)
	assert.Equal(t, float64(1), items[0]["stop_sequence"])
	assert.Equal(t, float64(2), items[1]["stop_sequence"])

	t.Run("stop delete cascades", func(t *testing.T) {
		h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/stops/%d", stopIDs[0]), "", nil), http.StatusOK)
		items := h.list(h.do(http.MethodGet, fmt.Sprintf("/api/stopTimes/trips/%d", tripID), root, nil))
		assert.Len(t, items, 1)
	})
}

func TestMessageThread(t *testing.T) {
	h := newHarness(t, false)
	parent := h.token(h.parent)
	admin := h.token(h.admin)

	msg := h.expect(h.do(http.MethodPost, "/api/messages", parent, map[string]any{"content": "bus is late"}), http.StatusCreated)
	assert.Equal(t, "Parent:p@x.com", msg["sender"])
	assert.Equal(t, false, msg["isRead"])
	msgID := idOf(t, msg)

	h.expect(h.do(http.MethodPost, "/api/messages", parent, map[string]any{"content": "  "}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d/reply", msgID), parent, map[string]any{"content": "x"}), http.StatusForbidden)

	reply := h.expect(h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d/reply", msgID), admin, map[string]any{"content": "on its way"}), http.StatusCreated)
	assert.Equal(t, float64(msgID), reply["parentMessageId"])
	assert.Equal(t, "Admin", reply["sender"])

	original, err := repository.Get[models.Message](context.Background(), h.store, msgID)
	require.NoError(t, err)
	assert.True(t, original.IsRead)

	// The parent sees the own message and the reply to it.
	thread := h.list(h.do(http.MethodGet, "/api/messages", parent, nil))
	assert.Len(t, thread, 2)

	other := testutil.CreateUser(t, h.store, "parent", "q@x.com")
	assert.Empty(t, h.list(h.do(http.MethodGet, "/api/messages", h.token(other), nil)))
	h.expect(h.do(http.MethodPut, fmt.Sprintf("/api/messages/%d/read", msgID), h.token(other), nil), http.StatusForbidden)

	h.expect(h.do(http.MethodPost, "/api/messages/999/reply", admin, map[string]any{"content": "x"}), http.StatusNotFound)
}

func TestUserManagement(t *testing.T) {
	h := newHarness(t, false)
	admin := h.token(h.admin)

	created := h.expect(h.do(http.MethodPost, "/api/users", admin, map[string]any{
		"username": "parent2", "email": "P2@x.com", "password": "secret123", "role": "parent",
	}), http.StatusOK)
	assert.Equal(t, "p2@x.com", created["email"])
	assert.Equal(t, "admin@x.com", created["myadmin"])
	assert.NotContains(t, created, "password")
	assert.NotEmpty(t, created["message"])

	h.expect(h.do(http.MethodPost, "/api/users", admin, map[string]any{
		"email": "boss@x.com", "password": "secret123", "role": "admin",
	}), http.StatusForbidden)
	h.expect(h.do(http.MethodPost, "/api/users", admin, map[string]any{
		"email": "p2@x.com", "password": "secret123",
	}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, "/api/users", admin, map[string]any{
		"email": "p3@x.com", "password": "secret123", "role": "driver",
	}), http.StatusBadRequest)

	visible := h.list(h.do(http.MethodGet, "/api/users", admin, nil))
	emails := make([]string, 0, len(visible))
	for _, u := range visible {
		emails = append(emails, u["email"].(string))
	}
	assert.ElementsMatch(t, []string{"admin@x.com", "p2@x.com"}, emails)

	newID := idOf(t, created)
	h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/users/%d", h.parent.ID), admin, nil), http.StatusNotFound)
	h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", h.admin.ID), admin, nil), http.StatusForbidden)
	h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", h.root.ID), h.token(h.root), nil), http.StatusForbidden)
	h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", newID), admin, nil), http.StatusOK)
	h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", newID), admin, nil), http.StatusNotFound)
}

func TestStudentParentResolution(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)

	student := map[string]any{
		"username": "kid", "badgeId": "B1", "cinParent": "CIN-P", "phoneParent": "555", "level": "3",
	}
	body := h.expect(h.do(http.MethodPost, "/api/students", root, student), http.StatusNotFound)
	assert.Equal(t, "parent not found with the provided CIN", body["message"])

	h.expect(h.do(http.MethodPost, "/api/users", root, map[string]any{
		"email": "mom@x.com", "password": "secret123", "role": "parent", "cinNumber": "CIN-P",
	}), http.StatusOK)

	created := h.expect(h.do(http.MethodPost, "/api/students", root, student), http.StatusCreated)
	assert.NotNil(t, created["parent"])

	h.expect(h.do(http.MethodPost, "/api/students", h.token(h.parent), student), http.StatusForbidden)
}

func TestPublicFleetAndStrictAuth(t *testing.T) {
	open := newHarness(t, false)
	open.expect(open.do(http.MethodGet, "/api/stops", "", nil), http.StatusOK)
	open.expect(open.do(http.MethodGet, "/api/vehicles", "", nil), http.StatusOK)

	strict := newHarness(t, true)
	strict.expect(strict.do(http.MethodGet, "/api/stops", "", nil), http.StatusUnauthorized)
	strict.expect(strict.do(http.MethodGet, "/api/vehicles", "", nil), http.StatusUnauthorized)
	strict.expect(strict.do(http.MethodGet, "/api/stops", strict.token(strict.parent), nil), http.StatusOK)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newHarness(t, false)

	h.expect(h.do(http.MethodGet, "/healthz", "", nil), http.StatusOK)

	h.do(http.MethodGet, "/api/stops", "", nil)
	rec := h.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/stops",status="200"}`)

	rec = h.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAdminCannotClaimAnotherAgencysRoutes(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)

	a1 := idOf(t, h.expect(h.do(http.MethodPost, "/api/agencies", root, map[string]any{"name": "A1"}), http.StatusOK))
	a2 := idOf(t, h.expect(h.do(http.MethodPost, "/api/agencies", root, map[string]any{"name": "A2"}), http.StatusOK))
	newRoute := func(agency uint, code string) uint {
		return idOf(t, h.expect(h.do(http.MethodPost, "/api/routes", root, map[string]any{
			"agency": agency, "route_id": code, "route_short_name": code,
		}), http.StatusCreated))
	}
	own, foreign, loose := newRoute(a1, "R1"), newRoute(a2, "R2"), newRoute(a2, "R3")
	h.expect(h.do(http.MethodPost, "/api/userpermission/unassign-route-agency", root, map[string]any{
		"agencyId": a2, "routeId": loose,
	}), http.StatusOK)
	h.expect(h.do(http.MethodPost, "/api/userpermission/assign-agency", root, map[string]any{
		"userId": h.admin.ID, "agencyId": a1,
	}), http.StatusOK)
	admin := h.token(h.admin)
	path := fmt.Sprintf("/api/agencies/%d", a1)

	h.expect(h.do(http.MethodPost, "/api/userpermission/assign-route-agency", admin, map[string]any{
		"agencyId": a1, "routeId": foreign,
	}), http.StatusForbidden)
	h.expect(h.do(http.MethodPut, path, admin, map[string]any{"routes": []uint{own, foreign}}), http.StatusForbidden)

	route, err := h.store.GetRoute(context.Background(), foreign)
	require.NoError(t, err)
	require.NotNil(t, route.AgencyID)
	assert.Equal(t, a2, *route.AgencyID)

	// Unowned routes and the agency's own routes stay assignable.
	body := h.expect(h.do(http.MethodPut, path, admin, map[string]any{"routes": []uint{own, loose}}), http.StatusOK)
	assert.ElementsMatch(t, []uint{own, loose}, ids(body["routes"].([]any)))

	// A superadmin may still move routes between agencies.
	body = h.expect(h.do(http.MethodPut, path, root, map[string]any{"routes": []uint{own, loose, foreign}}), http.StatusOK)
	assert.ElementsMatch(t, []uint{own, loose, foreign}, ids(body["routes"].([]any)))
}

func TestReplyIsAdminOnly(t *testing.T) {
	h := newHarness(t, false)
	msg := h.expect(h.do(http.MethodPost, "/api/messages", h.token(h.parent), map[string]any{"content": "hello"}), http.StatusCreated)
	path := fmt.Sprintf("/api/messages/%d/reply", idOf(t, msg))

	h.expect(h.do(http.MethodPost, path, h.token(h.root), map[string]any{"content": "hi"}), http.StatusForbidden)
	h.expect(h.do(http.MethodPost, path, h.token(h.parent), map[string]any{"content": "hi"}), http.StatusForbidden)
	h.expect(h.do(http.MethodPost, path, h.token(h.admin), map[string]any{"content": "hi"}), http.StatusCreated)
}

func TestStudentFollowsParentCIN(t *testing.T) {
	h := newHarness(t, false)
	root := h.token(h.root)

	newParent := func(email, cin string) uint {
		return idOf(t, h.expect(h.do(http.MethodPost, "/api/users", root, map[string]any{
			"email": email, "password": "secret123", "role": "parent", "cinNumber": cin,
		}), http.StatusOK))
	}
	studentsOf := func(userID uint) []models.Student {
		u, err := repository.Get[models.User](context.Background(), h.store, userID, "Students")
		require.NoError(t, err)
		return u.Students
	}

	first := newParent("one@x.com", "CIN-1")
	second := newParent("two@x.com", "CIN-2")
	student := idOf(t, h.expect(h.do(http.MethodPost, "/api/students", root, map[string]any{
		"username": "kid", "badgeId": "B1", "cinParent": "CIN-1", "phoneParent": "555", "level": "3",
	}), http.StatusCreated))
	require.Len(t, studentsOf(first), 1)

	t.Run("cinParent change moves the student", func(t *testing.T) {
		body := h.expect(h.do(http.MethodPut, fmt.Sprintf("/api/students/%d", student), root, map[string]any{
			"cinParent": "CIN-2",
		}), http.StatusOK)
		assert.Equal(t, float64(second), body["parent"])
		assert.Empty(t, studentsOf(first))
		assert.Len(t, studentsOf(second), 1)

		h.expect(h.do(http.MethodPut, fmt.Sprintf("/api/students/%d", student), root, map[string]any{
			"cinParent": "CIN-404",
		}), http.StatusNotFound)
	})

	t.Run("deleting the parent unsets it on the student", func(t *testing.T) {
		h.expect(h.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", second), root, nil), http.StatusOK)
		body := h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/students/%d", student), root, nil), http.StatusOK)
		assert.Nil(t, body["parent"])
	})

	t.Run("a new user with the CIN adopts the student", func(t *testing.T) {
		adopter := newParent("three@x.com", "CIN-2")
		body := h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/students/%d", student), root, nil), http.StatusOK)
		assert.Equal(t, float64(adopter), body["parent"])
		assert.Len(t, studentsOf(adopter), 1)
	})
}
