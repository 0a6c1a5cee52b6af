package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

type userStore interface {
	UserByID(id string) (models.User, bool)
	UserByEmail(email string) (models.User, bool)
	PutUser(u models.User)
}

// AuthConfig defines configuration for authentication flows. An empty Secret
// degrades the provider to a local mock identity instead of failing startup.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

const mockTokenPrefix = "mock."

// MockStudentID identifies the local guest identity used when no credential
// configuration is present.
const MockStudentID = "usr-guest-student"

// AuthService is the identity provider: sign-in/up/out, current-user lookup
// and profile updates.
type AuthService struct {
	users     userStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	mockMode  bool
}

// NewAuthService constructs an AuthService. Without a JWT secret it runs in
// mock mode: tokens are unsigned opaque references to local users and a
// guest student account is pre-provisioned.
func NewAuthService(users userStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 24 * time.Hour
	}

	s := &AuthService{users: users, validator: validate, logger: logger, config: config, mockMode: config.Secret == ""}
	if s.mockMode {
		s.provisionMockUsers()
		logger.Warn("no JWT secret configured, identity provider running in local mock mode")
	}
	return s
}

// MockMode reports whether the provider degraded to the local mock identity.
func (s *AuthService) MockMode() bool {
	return s.mockMode
}

// GuestClaims returns claims for the pre-provisioned guest identity. Only
// populated in mock mode.
func (s *AuthService) GuestClaims() (*models.JWTClaims, error) {
	user, ok := s.users.UserByID(MockStudentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "guest identity unavailable")
	}
	return &models.JWTClaims{UserID: user.ID, Role: user.Role, Email: user.Email, FullName: user.FullName}, nil
}

// SignUp registers a new account. Defaults to the STUDENT role.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, exists := s.users.UserByEmail(email); exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users.PutUser(user)

	return s.issue(user)
}

// SignIn authenticates a user and returns an issued token.
func (s *AuthService) SignIn(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, ok := s.users.UserByEmail(email)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is inactive")
	}
	if !s.mockMode {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	s.users.PutUser(user)

	return s.issue(user)
}

// SignOut invalidates the caller's session. Tokens are stateless, so this is
// a client-side discard; the call exists so the orchestration layer has a
// uniform surface.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	if userID == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return nil
}

// CurrentUser resolves the user behind validated claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	user, ok := s.users.UserByID(claims.UserID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return &models.UserInfo{ID: user.ID, Email: user.Email, FullName: user.FullName, Role: user.Role}, nil
}

// UpdateProfile mutates the caller's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	user, ok := s.users.UserByID(userID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	user.FullName = strings.TrimSpace(req.FullName)
	user.UpdatedAt = time.Now().UTC()
	s.users.PutUser(user)
	return &models.UserInfo{ID: user.ID, Email: user.Email, FullName: user.FullName, Role: user.Role}, nil
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *AuthService) ValidateToken(token string) (*models.JWTClaims, error) {
	if s.mockMode {
		return s.validateMockToken(token)
	}

	claims := &models.JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) issue(user models.User) (*models.LoginResponse, error) {
	now := time.Now().UTC()
	var token string

	if s.mockMode {
		token = mockTokenPrefix + user.ID
	} else {
		claims := models.JWTClaims{
			UserID:   user.ID,
			Role:     user.Role,
			Email:    user.Email,
			FullName: user.FullName,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    s.config.Issuer,
				Subject:   user.ID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
		}
		token = signed
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    now,
		User:        models.UserInfo{ID: user.ID, Email: user.Email, FullName: user.FullName, Role: user.Role},
	}, nil
}

func (s *AuthService) validateMockToken(token string) (*models.JWTClaims, error) {
	if !strings.HasPrefix(token, mockTokenPrefix) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	userID := strings.TrimPrefix(token, mockTokenPrefix)
	user, ok := s.users.UserByID(userID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown user")
	}
	return &models.JWTClaims{UserID: user.ID, Role: user.Role, Email: user.Email, FullName: user.FullName}, nil
}

func (s *AuthService) provisionMockUsers() {
	now := time.Now().UTC()
	if _, ok := s.users.UserByID(MockStudentID); !ok {
		s.users.PutUser(models.User{
			ID:        MockStudentID,
			Email:     "guest@linguamarket.dev",
			FullName:  "Guest Student",
			Role:      models.RoleStudent,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, ok := s.users.UserByEmail("admin@linguamarket.dev"); !ok {
		s.users.PutUser(models.User{
			ID:        "usr-local-admin",
			Email:     "admin@linguamarket.dev",
			FullName:  "Local Admin",
			Role:      models.RoleAdmin,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
}
