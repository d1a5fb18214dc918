package middleware

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdminClaimFastPath(t *testing.T) {
	env := newTestEnv(t)

	// The subject does not exist in the database at all: passing proves
	// the embedded role skipped the lookup.
	token, err := env.tokens.Issue("9999", "ghost@example.com", "ADMIN", time.Hour)
	require.NoError(t, err)

	resp, body := env.get(t, "/admin", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isAdmin"])
}

func TestRequireAdminDBFallbackOnMissingClaimRole(t *testing.T) {
	env := newTestEnv(t)

	// Mixed-case role name in the database still counts
	user := env.createUser(t, "boss@example.com", "Admin")
	token := env.issueToken(t, user, "")

	resp, body := env.get(t, "/admin", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isAdmin"])
}

func TestRequireAdminDBFallbackOnStaleClaim(t *testing.T) {
	env := newTestEnv(t)

	// Token issued before a promotion: claim says agent, database says
	// admin. The fallback lookup makes the promotion count.
	user := env.createUser(t, "promoted@example.com", models.RoleAdmin)
	token := env.issueToken(t, user, models.RoleAgent)

	resp, _ := env.get(t, "/admin", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdminRejectsAgent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "agent@example.com", models.RoleAgent)
	token := env.issueToken(t, user, models.RoleAgent)

	resp, body := env.get(t, "/admin", "Bearer "+token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "insufficient role", body["error"])
}

func TestRequireAdminUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	// No claim role forces the DB path, and the subject is missing
	token, err := env.tokens.Issue("9999", "ghost@example.com", "", time.Hour)
	require.NoError(t, err)

	resp, body := env.get(t, "/admin", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "user not found", body["error"])
}

func TestRequireRoleMembership(t *testing.T) {
	env := newTestEnv(t)
	agent := env.createUser(t, "agent@example.com", models.RoleAgent)

	// Case-insensitive membership on the embedded role
	token := env.issueToken(t, agent, "Agent")
	resp, _ := env.get(t, "/staff", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A role outside the allowed set is rejected without a fallback
	outsider := env.createUser(t, "visitor@example.com", "viewer")
	token = env.issueToken(t, outsider, "viewer")
	resp, body := env.get(t, "/staff", "Bearer "+token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "insufficient role", body["error"])
}

func TestRequireAdminOrOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", models.RoleAgent)
	other := env.createUser(t, "other@example.com", models.RoleAgent)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)

	ownerPath := fmt.Sprintf("/users/%d", owner.ID)

	cases := []struct {
		name    string
		caller  *models.User
		role    string
		path    string
		status  int
		message string
	}{
		{"owner allowed", owner, models.RoleAgent, ownerPath, fiber.StatusOK, ""},
		{"non-owner denied", other, models.RoleAgent, ownerPath, fiber.StatusForbidden, "access denied"},
		{"admin bypasses", admin, models.RoleAdmin, ownerPath, fiber.StatusOK, ""},
		{"non-numeric id", other, models.RoleAgent, "/users/abc", fiber.StatusBadRequest, "invalid resource id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := env.issueToken(t, tc.caller, tc.role)
			resp, body := env.get(t, tc.path, "Bearer "+token)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.message != "" {
				assert.Equal(t, tc.message, body["error"])
			}
		})
	}
}

func TestRequireAdminOrOwnerOwnershipWithoutRoleLookup(t *testing.T) {
	env := newTestEnv(t)

	// The subject owns the resource but has no profile row; ownership
	// alone must authorize, without any database role resolution.
	token, err := env.tokens.Issue("123", "ghost@example.com", models.RoleAgent, time.Hour)
	require.NoError(t, err)

	resp, body := env.get(t, "/users/123", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "123", body["userId"])
	assert.Equal(t, false, body["isAdmin"])
}

func TestRoleGateShortCircuitsBeforeHandler(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "agent@example.com", models.RoleAgent)

	token := env.issueToken(t, user, models.RoleAgent)
	claims, err := env.tokens.Validate(token)
	require.NoError(t, err)

	_, err = env.store.Revoke(claims.JTI(), user.ID, claims.ExpiresAt.Time, "", "", "")
	require.NoError(t, err)

	// Revocation wins even on a route whose role policy would pass
	resp, body := env.get(t, "/users/"+strconv.FormatUint(uint64(user.ID), 10), "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token has been revoked", body["error"])
}
