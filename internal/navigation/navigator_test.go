package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation_RoundTrip(t *testing.T) {
	for _, raw := range []string{"/", "/patients", "/patients?search=ann", "/login?from=%2Fdoctors"} {
		assert.Equal(t, raw, Parse(raw).String(), raw)
	}
}

func TestParse_Normalises(t *testing.T) {
	assert.Equal(t, Location{Path: "/patients"}, Parse("patients/"))
	assert.Equal(t, Location{Path: "/"}, Parse("  "))
	assert.Equal(t, Location{Path: "/doctors", Search: "house"}, Parse("doctors?search=house"))
}

func TestLogin_PreservesFrom(t *testing.T) {
	loc := Login(Location{Path: "/patients", Search: "ann"})

	assert.Equal(t, LoginPath, loc.Path)
	assert.Equal(t, "/patients?search=ann", loc.From)
	assert.Equal(t, Location{Path: "/patients", Search: "ann"}, loc.ReturnTo())
}

func TestLogin_NoLoopBackToLogin(t *testing.T) {
	assert.Equal(t, Location{Path: LoginPath}, Login(Location{Path: LoginPath}))
	assert.Equal(t, Location{Path: HomePath}, Location{Path: LoginPath, From: "/login"}.ReturnTo())
	assert.Equal(t, Location{Path: HomePath}, Location{Path: LoginPath}.ReturnTo())
}

func TestHistory_Navigate(t *testing.T) {
	h := NewHistory(Location{Path: HomePath})
	h.Navigate(Location{Path: "/clinics"})
	h.Navigate(Location{Path: LoginPath})

	assert.Equal(t, LoginPath, h.Current().Path)
	assert.Len(t, h.Entries(), 3)
}
