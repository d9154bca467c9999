// services/auth_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CredentialsProviderName is the only provider the dashboard signs in with.
const CredentialsProviderName = "credentials"

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// Session is an issued sign-in.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CredentialProvider authenticates a principal. Failures it understands come
// back as *AuthError; anything else is unexpected.
type CredentialProvider interface {
	SignIn(ctx context.Context, provider string, creds Credentials) (*Session, error)
}

// CredentialsProvider checks email and password against the users table and
// issues a signed session token.
type CredentialsProvider struct {
	db        *gorm.DB
	secret    string
	ttl       time.Duration
	now       func() time.Time
	validator *validator.Validate
}

func NewCredentialsProvider(db *gorm.DB, secret string, ttl time.Duration) *CredentialsProvider {
	return &CredentialsProvider{
		db:        db,
		secret:    secret,
		ttl:       ttl,
		now:       time.Now,
		validator: validator.New(),
	}
}

func (p *CredentialsProvider) SignIn(ctx context.Context, provider string, creds Credentials) (*Session, error) {
	if provider != CredentialsProviderName {
		return nil, &AuthError{Type: ConfigurationError, Err: errors.New("unknown provider " + provider)}
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if err := p.validator.Struct(creds); err != nil {
		return nil, &AuthError{Type: CredentialsSignin}
	}

	var user models.User
	err := p.db.WithContext(ctx).Where("email = ?", creds.Email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &AuthError{Type: CredentialsSignin}
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(creds.Password, user.Password) {
		return nil, &AuthError{Type: CredentialsSignin}
	}

	token, expiresAt, err := utils.GenerateToken(user.ID.String(), p.secret, p.ttl, p.now())
	if err != nil {
		return nil, &AuthError{Type: CallbackRouteError, Err: err}
	}

	return &Session{Token: token, UserID: user.ID.String(), ExpiresAt: expiresAt}, nil
}

type AuthService struct {
	provider CredentialProvider
	logger   *zap.Logger
}

func NewAuthService(provider CredentialProvider, logger *zap.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		logger:   logger.Named("auth"),
	}
}

// Authenticate signs in with the credentials provider. A known sign-in failure
// is reported as a user-facing message with a nil error; any other error is
// returned unchanged.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (*Session, string, error) {
	session, err := s.provider.SignIn(ctx, CredentialsProviderName, creds)
	if err == nil {
		s.logger.Info("User signed in", zap.String("user_id", session.UserID))
		return session, "", nil
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		s.logger.Error("Sign-in failed", zap.Error(err))
		return nil, "", err
	}

	switch authErr.Type {
	case CredentialsSignin:
		s.logger.Info("Rejected credentials")
		return nil, "invalid credentials", nil
	default:
		s.logger.Warn("Sign-in error", zap.String("type", string(authErr.Type)), zap.Error(authErr))
		return nil, "something went wrong", nil
	}
}
