// Package guard decides whether a shell route may render for the current
// session. It never touches the network.
package guard

import (
	"clinic-admin/internal/navigation"
)

// Authenticator is the read side of session.Store the guard needs.
type Authenticator interface {
	IsAuthenticated() bool
}

// Routes lists every protected shell route; anything else is either the
// login boundary or not found.
var Routes = []string{
	"/",
	"/clinics",
	"/patients",
	"/doctors",
	"/staff",
	"/appointments",
	"/medical-records",
	"/inventory",
	"/billing",
	"/reports",
	"/settings",
	"/profile",
}

var protected = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Routes))
	for _, r := range Routes {
		m[r] = struct{}{}
	}
	return m
}()

func Protected(path string) bool {
	_, ok := protected[path]
	return ok
}

type Guard struct {
	auth Authenticator
}

func New(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Resolve returns where a navigation to `to` actually lands. Protected
// routes redirect to the login boundary, remembering `to`, when signed
// out. The login route redirects signed-in users back to where they came
// from.
func (g *Guard) Resolve(to navigation.Location) navigation.Location {
	authenticated := g.auth.IsAuthenticated()

	if to.Path == navigation.LoginPath {
		if authenticated {
			return to.ReturnTo()
		}
		return to
	}

	if Protected(to.Path) && !authenticated {
		return navigation.Login(to)
	}
	return to
}

// Allowed reports whether `to` renders as requested.
func (g *Guard) Allowed(to navigation.Location) bool {
	return !Protected(to.Path) || g.auth.IsAuthenticated()
}
