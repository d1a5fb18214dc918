package auth

import (
	"strconv"
	"time"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/repository"

	"github.com/rs/zerolog/log"
)

// RegisterRequest represents registration request data
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents login request data
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the structured response for login
type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	users  *repository.UserRepository
	roles  *repository.RoleRepository
	tokens *TokenService
	store  *repository.RevokedTokenRepository
}

func NewAuthService(
	users *repository.UserRepository,
	roles *repository.RoleRepository,
	tokens *TokenService,
	store *repository.RevokedTokenRepository,
) *AuthService {
	return &AuthService{
		users:  users,
		roles:  roles,
		tokens: tokens,
		store:  store,
	}
}

// Register creates a new user account with the default agent role.
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.FindByName(models.RoleAgent)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		RoleID:   role.ID,
		Active:   true,
	}

	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates the credentials and issues a session token. Wrong
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}

	roleName := ""
	if role, err := s.roles.FindByID(user.RoleID); err == nil && role != nil {
		roleName = role.Name
	}

	token, err := s.tokens.Issue(strconv.FormatUint(uint64(user.ID), 10), user.Email, roleName, 0)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{User: user, Token: token}, nil
}

// Logout puts the session token on the denylist until the moment it
// would have expired anyway. Tokens without a jti cannot be revoked
// individually; logging out with one is a no-op.
func (s *AuthService) Logout(claims *Claims, ip, userAgent string) error {
	jti := claims.JTI()
	if jti == "" {
		log.Warn().Str("user", claims.UserID).Msg("Logout with non-revocable token")
		return nil
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}

	expiresAt := time.Now().Add(s.tokens.DefaultTTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	_, err = s.store.Revoke(jti, uint(userID), expiresAt, models.ReasonLogout, ip, userAgent)
	return err
}

// LogoutAll drops a revoke-all sentinel for the user. See
// RevokedTokenRepository.RevokeAll for the window caveat.
func (s *AuthService) LogoutAll(userID uint, reason string) (int64, error) {
	if reason == "" {
		reason = models.ReasonRevokeAll
	}
	return s.store.RevokeAll(userID, reason)
}

// GetUserByID loads a user profile with its role.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	return s.users.GetUserByID(id)
}
