package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/auth"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/database"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *auth.TokenService
	store  *repository.RevokedTokenRepository
	users  *repository.UserRepository
	roles  *repository.RoleRepository
}

// newTestEnv wires the full gate against a real database and mounts one
// route per policy.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gate.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { _ = database.Close(db) })

	env := &testEnv{
		db:     db,
		tokens: auth.NewTokenService(testSecret, 24),
		store:  repository.NewRevokedTokenRepository(db, 24),
		users:  repository.NewUserRepository(db),
		roles:  repository.NewRoleRepository(db),
	}

	gate := NewAuthMiddleware(env.tokens, env.store, env.users, env.roles)

	app := fiber.New()
	identity := func(c *fiber.Ctx) error {
		claims := c.Locals(LocalsUser).(*auth.Claims)
		isAdmin, _ := c.Locals(LocalsIsAdmin).(bool)
		return c.JSON(fiber.Map{
			"userId":  claims.UserID,
			"isAdmin": isAdmin,
		})
	}
	app.Get("/protected", gate.Protected(), identity)
	app.Get("/admin", gate.Protected(), gate.RequireAdmin(), identity)
	app.Get("/staff", gate.Protected(), gate.RequireRole(models.RoleAdmin, models.RoleAgent), identity)
	app.Get("/users/:id", gate.Protected(), gate.RequireAdminOrOwner("id"), identity)
	env.app = app

	return env
}

// createUser inserts a user holding the named role, creating the role
// row on first use.
func (e *testEnv) createUser(t *testing.T, email, roleName string) *models.User {
	t.Helper()

	role := models.Role{Name: roleName}
	require.NoError(t, e.db.Where("name = ?", roleName).FirstOrCreate(&role).Error)

	user := &models.User{
		Email:  email,
		Name:   "Test User",
		RoleID: role.ID,
		Active: true,
	}
	require.NoError(t, e.users.CreateUser(user))
	return user
}

// issueToken signs a session token for the user with the given claim
// role (possibly empty).
func (e *testEnv) issueToken(t *testing.T, user *models.User, claimRole string) string {
	t.Helper()

	token, err := e.tokens.Issue(strconv.FormatUint(uint64(user.ID), 10), user.Email, claimRole, time.Hour)
	require.NoError(t, err)
	return token
}

// issueLegacyToken signs a token without a jti; such tokens predate
// revocation support.
func issueLegacyToken(t *testing.T, userID string) string {
	t.Helper()

	claims := &auth.Claims{
		UserID: userID,
		Email:  "legacy@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// get performs a request with the given Authorization header value.
func (e *testEnv) get(t *testing.T, path, authHeader string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	body := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}

	return resp, body
}
