package middleware

import (
	"strconv"
	"strings"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/auth"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

// rolePolicy is the single description all role middlewares compile
// down to, so the claim-first/DB-fallback resolution lives in one place.
type rolePolicy struct {
	allowed map[string]bool // lowercased role names
	// dbFallback re-checks the database when the claim role is not
	// allowed. Claims can be stale relative to a role change made after
	// the token was issued; the extra lookup only happens when the fast
	// path is ambiguous.
	dbFallback bool
	// ownerParam names the path parameter whose integer value may match
	// the caller's own id as an alternative to role membership.
	ownerParam string
}

// RequireRole passes callers whose role name is in the allowed set,
// compared case-insensitively. The claim role is preferred; the profile
// and role tables are only consulted when the claim carries none.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) fiber.Handler {
	return m.require(rolePolicy{allowed: roleSet(allowedRoles)})
}

// RequireAdmin passes admins. A claim already naming the admin role
// skips the database round-trip; any other claim falls back to the
// database before being rejected, so a promotion after token issuance
// still counts.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.require(rolePolicy{
		allowed:    roleSet([]string{models.RoleAdmin}),
		dbFallback: true,
	})
}

// RequireAdminOrOwner passes admins unconditionally and non-admins only
// when the named path parameter, parsed as an integer, equals their own
// id.
func (m *AuthMiddleware) RequireAdminOrOwner(param string) fiber.Handler {
	return m.require(rolePolicy{
		allowed:    roleSet([]string{models.RoleAdmin}),
		dbFallback: true,
		ownerParam: param,
	})
}

func (m *AuthMiddleware) require(p rolePolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(LocalsUser).(*auth.Claims)
		if !ok {
			return reject(c, auth.ErrInvalidToken)
		}
		userID, _ := c.Locals(LocalsUserID).(uint)

		// Fast path: the embedded role decides without touching the
		// database.
		if claims.Role != "" && p.allowed[strings.ToLower(claims.Role)] {
			c.Locals(LocalsIsAdmin, strings.EqualFold(claims.Role, models.RoleAdmin))
			return c.Next()
		}

		// Ownership is cheaper than a role lookup, so for owner
		// policies it is tried before the fallback.
		if p.ownerParam != "" {
			owner, err := m.ownsResource(c, p.ownerParam, userID)
			if err != nil {
				return reject(c, err)
			}
			if owner {
				c.Locals(LocalsIsAdmin, false)
				return c.Next()
			}
		}

		if claims.Role == "" || p.dbFallback {
			roleName, err := m.resolveFromDB(userID)
			if err != nil {
				return reject(c, err)
			}
			if p.allowed[strings.ToLower(roleName)] {
				c.Locals(LocalsIsAdmin, strings.EqualFold(roleName, models.RoleAdmin))
				return c.Next()
			}
		}

		if p.ownerParam != "" {
			return reject(c, auth.ErrAccessDenied)
		}
		return reject(c, auth.ErrInsufficientRole)
	}
}

// ownsResource compares the path parameter with the caller's id.
func (m *AuthMiddleware) ownsResource(c *fiber.Ctx, param string, userID uint) (bool, error) {
	raw := c.Params(param)
	if raw == "" {
		return false, auth.ErrInvalidResourceID
	}
	resourceID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return false, auth.ErrInvalidResourceID
	}
	return uint(resourceID) == userID, nil
}

// resolveFromDB loads the caller's current role name.
func (m *AuthMiddleware) resolveFromDB(userID uint) (string, error) {
	user, err := m.users.GetUserByID(userID)
	if err != nil {
		return "", auth.ErrInternal
	}
	if user == nil {
		return "", auth.ErrUserNotFound
	}

	role := user.Role
	if role == nil {
		role, err = m.roles.FindByID(user.RoleID)
		if err != nil {
			return "", auth.ErrInternal
		}
	}
	if role == nil {
		return "", auth.ErrRoleNotFound
	}

	return role.Name, nil
}

func roleSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}
