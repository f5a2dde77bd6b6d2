// Package route decides whether a requested console area may render for the
// current auth state. Authorize is pure: every input maps to exactly one
// decision and it performs no I/O.
package route

import "github.com/medicnotes/medicnotes/internal/models"

// Area is a navigable surface of the console, named after its route path.
type Area string

const (
	AreaHome             Area = "/"
	AreaLogin            Area = "/login"
	AreaAdminDashboard   Area = "/admin/dashboard"
	AreaDoctorDashboard  Area = "/doctor/dashboard"
	AreaPatientDashboard Area = "/patient/dashboard"
)

// requiredRole maps each role-gated area to the role allowed to enter it.
// Areas absent from the map are public.
var requiredRole = map[Area]models.Role{
	AreaAdminDashboard:   models.RoleAdmin,
	AreaDoctorDashboard:  models.RoleDoctor,
	AreaPatientDashboard: models.RolePatient,
}

// Decision is the outcome of an authorization check: either Allow, or a
// redirect to RedirectTo.
type Decision struct {
	Allow      bool
	RedirectTo Area
}

func allow() Decision { return Decision{Allow: true} }
func redirect(a Area) Decision { return Decision{RedirectTo: a} }

// CanonicalArea maps each role to its one default dashboard. Unknown roles
// report false so callers fail closed.
func CanonicalArea(role models.Role) (Area, bool) {
	switch role {
	case models.RoleAdmin:
		return AreaAdminDashboard, true
	case models.RoleDoctor:
		return AreaDoctorDashboard, true
	case models.RolePatient:
		return AreaPatientDashboard, true
	}
	return "", false
}

// Authorize gates a navigation. Unauthenticated users reach only the public
// areas; a role mismatch redirects to the caller's own dashboard; an
// unrecognized role redirects to login rather than failing open. An
// authenticated user asking for the login area is sent to their dashboard:
// login is only reachable while anonymous. Unknown areas redirect home.
func Authorize(area Area, state models.AuthState) Decision {
	switch area {
	case AreaHome, AreaLogin, AreaAdminDashboard, AreaDoctorDashboard, AreaPatientDashboard:
	default:
		return redirect(AreaHome)
	}

	if !state.IsAuthenticated {
		if area == AreaHome || area == AreaLogin {
			return allow()
		}
		return redirect(AreaLogin)
	}

	if area == AreaLogin {
		canonical, ok := CanonicalArea(state.Role)
		if !ok {
			return redirect(AreaLogin)
		}
		return redirect(canonical)
	}

	required, gated := requiredRole[area]
	if gated && state.Role != required {
		canonical, ok := CanonicalArea(state.Role)
		if !ok {
			return redirect(AreaLogin)
		}
		return redirect(canonical)
	}

	return allow()
}
