package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/identity/models"
	"github.com/chrisstorey/community-building-manager/internal/identity/secrets"
	jwttoken "github.com/chrisstorey/community-building-manager/internal/jwt_token"
	"github.com/chrisstorey/community-building-manager/internal/platform/metrics"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

// UserStore is the persistence boundary for user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RevocationList records revoked token ids until they would have expired.
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Service owns registration, login, and logout. Handlers stay thin; password
// hashing and token issuance never leave this layer.
type Service struct {
	users       UserStore
	revocations RevocationList
	tokens      *jwttoken.JWTService
	tokenTTL    time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func New(users UserStore, revocations RevocationList, tokens *jwttoken.JWTService, tokenTTL time.Duration, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		tokenTTL:    tokenTTL,
		logger:      logger,
		metrics:     m,
	}
}

// Register creates a new user account with a hashed password.
func (s *Service) Register(ctx context.Context, email, password, fullName string, role models.Role, organizationID uuid.UUID) (*models.User, error) {
	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := models.NewUser(email, hash, fullName, role, organizationID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.metrics.IncrementUsersCreated()
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "organization_id", user.OrganizationID)
	return user, nil
}

// Login verifies credentials and issues an access token. Lookup failures and
// password mismatches produce the same error so callers cannot probe for
// registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	if !user.IsActive {
		return "", nil, dErrors.New(dErrors.CodeForbidden, "user account is inactive")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.OrganizationID, string(user.Role), s.tokenTTL)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return token, user, nil
}

// Logout revokes the presented token id for the full token lifetime; the
// underlying entry expires on its own once the token would have anyway.
func (s *Service) Logout(ctx context.Context, jti string) error {
	if jti == "" {
		return dErrors.New(dErrors.CodeBadRequest, "missing token id")
	}
	if err := s.revocations.RevokeToken(ctx, jti, s.tokenTTL); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	return nil
}

// GetUser returns the user for an authenticated id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user, nil
}
