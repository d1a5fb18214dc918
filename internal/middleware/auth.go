package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/auth"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Locals keys set by the gate for downstream handlers.
const (
	LocalsUser    = "user"    // *auth.Claims
	LocalsUserID  = "userId"  // uint
	LocalsIsAdmin = "isAdmin" // bool, set once a role policy resolved it
)

// TokenValidator verifies a session token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RevocationStore answers whether a token identifier is on the denylist.
type RevocationStore interface {
	IsRevoked(jti string, userID uint) (bool, error)
}

// ProfileStore loads user profiles for role resolution.
type ProfileStore interface {
	GetUserByID(id uint) (*models.User, error)
}

// RoleStore loads roles for role resolution.
type RoleStore interface {
	FindByID(id uint) (*models.Role, error)
}

// AuthMiddleware is the layered authorization gate applied to every
// protected route: bearer extraction, token validation, revocation
// check, then optional role policies.
type AuthMiddleware struct {
	tokens TokenValidator
	store  RevocationStore
	users  ProfileStore
	roles  RoleStore
}

func NewAuthMiddleware(tokens TokenValidator, store RevocationStore, users ProfileStore, roles RoleStore) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		store:  store,
		users:  users,
		roles:  roles,
	}
}

// Protected authenticates the request. Every failure short-circuits
// before the route handler runs; the handler never sees a partially
// authorized request.
func (m *AuthMiddleware) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return reject(c, auth.ErrMissingAuthHeader)
		}

		// Exactly two space-separated parts, scheme literally "Bearer"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return reject(c, auth.ErrMalformedHeader)
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			return reject(c, auth.ErrInvalidToken)
		}

		userID, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			return reject(c, auth.ErrInvalidToken)
		}

		// A token without a jti predates revocation support and passes
		// the denylist stage untouched.
		if jti := claims.JTI(); jti != "" {
			revoked, err := m.store.IsRevoked(jti, uint(userID))
			if err != nil {
				// Fail closed: an unanswerable denylist is a rejection,
				// never a pass.
				log.Error().Err(err).
					Str("path", c.Path()).
					Str("ip", c.IP()).
					Msg("Revocation check failed")
				return reject(c, auth.ErrInternal)
			}
			if revoked {
				return reject(c, auth.ErrRevokedToken)
			}
		}

		c.Locals(LocalsUser, claims)
		c.Locals(LocalsUserID, uint(userID))
		return c.Next()
	}
}

// reject answers with the fixed generic message for a taxonomy error.
// Anything outside the taxonomy is treated as internal and its detail
// stays server-side.
func reject(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := auth.ErrInternal.Error()

	switch {
	case errors.Is(err, auth.ErrMissingAuthHeader),
		errors.Is(err, auth.ErrMalformedHeader),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrUserNotFound):
		status = fiber.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrRoleNotFound),
		errors.Is(err, auth.ErrInsufficientRole),
		errors.Is(err, auth.ErrAccessDenied):
		status = fiber.StatusForbidden
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidResourceID):
		status = fiber.StatusBadRequest
		message = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
