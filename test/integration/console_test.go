//go:build integration

package integration

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-admin/internal/app"
)

func TestConsoleCheck(t *testing.T) {
	e := newEnv(t)

	console, err := app.NewConsole(e.clientConfig())
	require.NoError(t, err)

	res, err := console.Check(context.Background(), "admin@clinic.com", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, 24, res.Patients)
	assert.True(t, res.Restored)
	assert.Equal(t, res.UserID, res.RestoredUser)
	assert.True(t, res.LoggedOut)
}

func TestConsoleShellSession(t *testing.T) {
	e := newEnv(t)

	console, err := app.NewConsole(e.clientConfig())
	require.NoError(t, err)

	in := strings.NewReader(strings.Join([]string{
		"admin@clinic.com",
		"password",
		"open /patients",
		"whoami",
		"logout",
		"",
		"quit",
	}, "\n") + "\n")
	var out bytes.Buffer

	require.NoError(t, console.Shell(context.Background(), in, &out))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Loading…"))
	assert.Contains(t, text, "Welcome, Clinic Admin.")
	assert.Contains(t, text, "Patients")
	assert.Contains(t, text, "Clinic Admin <admin@clinic.com> (admin)")
	assert.Contains(t, text, "Signed out.")
}
