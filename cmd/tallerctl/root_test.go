package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "reconcile", "alerts", "token"} {
		assert.True(t, names[want], "falta el comando %s", want)
	}

	migrate, _, err := root.Find([]string{"migrate", "version"})
	require.NoError(t, err)
	assert.Equal(t, "version", migrate.Name())
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "tallerctl-test")

	out, err := run(t, "token", "--role", jwt.RoleVendedor, "--user", "op-7")
	require.NoError(t, err)

	userID, role, err := jwt.Parse("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "op-7", userID)
	assert.Equal(t, jwt.RoleVendedor, role)
}

func TestTokenCmd_RejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	_, err := run(t, "token", "--role", "mecanico")
	assert.Error(t, err)
}

func TestTokenCmd_RejectsNonUUIDUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	_, err := run(t, "token", "--user", "operador-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UUID")
}

func TestReconcileCmd_RejectsNonUUIDPart(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	_, err := run(t, "reconcile", "--part", "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UUID")
}

func TestReconcileCmd_RequiresPostgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	_, err := run(t, "reconcile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER=postgres")
}
