package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/knotara/storefront/internal/config"
	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/models"
	"github.com/knotara/storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts and authentication. The profile cache slot is
// optional; when present the last authenticated user's public snapshot is
// kept there for the UI.
type UserService struct {
	cfg     config.AuthConfig
	store   *dal.Store
	profile *storage.ProfileCache
}

// NewUserService creates the user service.
func NewUserService(cfg config.AuthConfig, store *dal.Store, profile *storage.ProfileCache) *UserService {
	return &UserService{cfg: cfg, store: store, profile: profile}
}

// SessionClaims is the JWT payload for authenticated sessions.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new customer account. The email must parse and be
// unused; the password is stored only as a bcrypt hash.
func (s *UserService) Register(input RegisterInput) (*models.AuthUser, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < s.minPasswordLen() {
		return nil, ErrPasswordTooShort
	}
	if existing := dal.FindOne(s.store, dal.Users, dal.Filter{"email": email}); existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := dal.Insert(s.store, dal.Users, user)
	if err != nil {
		// The unique index is the arbiter under the pre-check's race window.
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	authUser := created.Public()
	return &authUser, nil
}

// Authenticate verifies credentials, stamps last login, caches the public
// profile and issues a session token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Authenticate(email, password string) (*models.AuthUser, string, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	user := dal.FindOne(s.store, dal.Users, dal.Filter{"email": normalized})
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if updated, err := dal.Update(s.store, dal.Users, user.ID, dal.Fields{"last_login_at": &now}); err == nil && updated != nil {
		user = updated
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	authUser := user.Public()
	if s.profile != nil {
		_ = s.profile.Save(authUser)
	}
	return &authUser, token, nil
}

// Logout clears the cached profile snapshot.
func (s *UserService) Logout() {
	if s.profile != nil {
		_ = s.profile.Clear()
	}
}

// ParseToken validates a session token and returns its claims.
func (s *UserService) ParseToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if parsed, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, ErrInvalidToken
}

// ByID returns the public view of a user, or nil.
func (s *UserService) ByID(userID string) *models.AuthUser {
	user := dal.FindByID(s.store, dal.Users, userID)
	if user == nil {
		return nil
	}
	authUser := user.Public()
	return &authUser
}

// ByEmail returns the public view of a user, or nil.
func (s *UserService) ByEmail(email string) *models.AuthUser {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil
	}
	user := dal.FindOne(s.store, dal.Users, dal.Filter{"email": normalized})
	if user == nil {
		return nil
	}
	authUser := user.Public()
	return &authUser
}

// UpdateUserInput carries optional profile changes.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// Update applies partial profile changes.
func (s *UserService) Update(userID string, input UpdateUserInput) (*models.AuthUser, error) {
	fields := dal.Fields{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, ErrInvalidEmail
		}
		fields["email"] = email
	}

	updated, err := dal.Update(s.store, dal.Users, userID, fields)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	authUser := updated.Public()
	return &authUser, nil
}

// Delete removes an account; the result reports whether it existed.
func (s *UserService) Delete(userID string) (bool, error) {
	return dal.Delete(s.store, dal.Users, userID)
}

// All returns the public view of every account.
func (s *UserService) All() []models.AuthUser {
	users := dal.Find(s.store, dal.Users, nil, dal.Options{})
	result := make([]models.AuthUser, 0, len(users))
	for _, user := range users {
		result = append(result, user.Public())
	}
	return result
}

func (s *UserService) issueToken(user *models.User) (string, error) {
	expireHours := s.cfg.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *UserService) bcryptCost() int {
	if s.cfg.BcryptCost >= bcrypt.MinCost && s.cfg.BcryptCost <= bcrypt.MaxCost {
		return s.cfg.BcryptCost
	}
	return bcrypt.DefaultCost
}

func (s *UserService) minPasswordLen() int {
	if s.cfg.MinPasswordLen > 0 {
		return s.cfg.MinPasswordLen
	}
	return 6
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", errors.New("empty email")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// isUniqueViolation matches the engine's constraint failure text; the driver
// error is not a stable sentinel across statement shapes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
