// Package guard decides which dashboard routes a visitor may open.
package guard

import (
	"sort"
	"strings"

	"equipment-dashboard/internal/model"
)

// Route is a top-level dashboard path.
type Route string

const (
	RouteHome         Route = "/"
	RouteLogin        Route = "/login"
	RouteDashboard    Route = "/dashboard"
	RouteEquipments   Route = "/equipments"
	RouteEquipmentNew Route = "/equipments/new"
	// RouteEquipmentManage prefixes the admin edit and delete actions.
	RouteEquipmentManage Route = "/equipments/manage"
	RouteLoans           Route = "/loans"
	RouteHistory         Route = "/history"
	RouteUsers           Route = "/users"
	RouteAlerts          Route = "/alerts"
	RouteAlertNew        Route = "/alerts/new"
)

// Unauthorized is where signed-in users land when their role may not open a
// route.
const Unauthorized = RouteEquipments

var everyone = []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleStudent}

// permissions maps each protected route to its allowed roles. Routes absent
// from the map are public.
var permissions = map[Route][]model.Role{
	RouteDashboard:       {model.RoleAdmin},
	RouteEquipments:      everyone,
	RouteEquipmentNew:    {model.RoleAdmin},
	RouteEquipmentManage: {model.RoleAdmin},
	RouteLoans:           {model.RoleAdmin},
	RouteHistory:         {model.RoleTeacher, model.RoleStudent},
	RouteUsers:           {model.RoleAdmin},
	RouteAlerts:          {model.RoleAdmin, model.RoleTeacher},
	RouteAlertNew:        {model.RoleAdmin, model.RoleTeacher},
}

// allowed is permissions indexed for lookups.
var allowed = func() map[Route]map[model.Role]bool {
	out := make(map[Route]map[model.Role]bool, len(permissions))
	for route, roles := range permissions {
		set := make(map[model.Role]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		out[route] = set
	}
	return out
}()

// routesByLength holds the protected routes longest first, so that
// /equipments/new wins over /equipments.
var routesByLength = func() []Route {
	out := make([]Route, 0, len(permissions))
	for r := range permissions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// Decision is the outcome of Decide. Redirect is empty when Allow is set.
type Decision struct {
	Allow    bool
	Redirect Route
}

// Resolve returns the protected route governing path, if any.
func Resolve(path string) (Route, bool) {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range routesByLength {
		s := string(r)
		if path == s || strings.HasPrefix(path, s+"/") {
			return r, true
		}
	}
	return "", false
}

// Decide applies the permission table to a request for path.
func Decide(authenticated bool, role model.Role, path string) Decision {
	route, protected := Resolve(path)
	if !protected {
		return Decision{Allow: true}
	}
	if !authenticated || !role.Valid() {
		return Decision{Redirect: RouteLogin}
	}
	if !allowed[route][role] {
		return Decision{Redirect: Unauthorized}
	}
	return Decision{Allow: true}
}

// Allowed reports whether role may open route. Public routes allow everyone.
func Allowed(role model.Role, route Route) bool {
	set, protected := allowed[route]
	if !protected {
		return true
	}
	return set[role]
}

// Landing is where a user goes right after signing in.
func Landing(role model.Role) Route {
	if role == model.RoleAdmin {
		return RouteDashboard
	}
	return RouteEquipments
}

// NavLink is one entry of the layout navigation.
type NavLink struct {
	Route Route
	Label string
}

var navOrder = []NavLink{
	{RouteDashboard, "Dashboard"},
	{RouteEquipments, "Equipments"},
	{RouteUsers, "Users"},
	{RouteLoans, "Loan Requests"},
	{RouteHistory, "My Loans"},
	{RouteAlerts, "Alerts"},
}

// Navigation lists the links role may follow, derived from the permission
// table.
func Navigation(role model.Role) []NavLink {
	var out []NavLink
	for _, link := range navOrder {
		if Allowed(role, link.Route) {
			out = append(out, link)
		}
	}
	return out
}

// Entry is one row of the permission table.
type Entry struct {
	Route Route
	Roles []model.Role
}

// Table returns the permission table sorted by route, roles in enum order.
func Table() []Entry {
	out := make([]Entry, 0, len(permissions))
	for route := range permissions {
		var roles []model.Role
		for _, r := range model.Roles {
			if allowed[route][r] {
				roles = append(roles, r)
			}
		}
		out = append(out, Entry{Route: route, Roles: roles})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}
