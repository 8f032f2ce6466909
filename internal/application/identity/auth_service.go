package identity

import (
	"context"
	"errors"
	"time"

	"github.com/smartinventory/backend/internal/domain/identity"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

const minPasswordLength = 6

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Issue(subject auth.TokenSubject) (*auth.AccessToken, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo  identity.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	clock     shared.Clock
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	clock shared.Clock,
	logger *zap.Logger,
) *AuthService {
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		blacklist: blacklist,
		clock:     clock,
		logger:    logger,
	}
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", input.Username))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, input.Password)
	if err != nil {
		s.logger.Error("Stored password hash is unusable", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, identity.ErrInvalidCredentials
	}
	if !ok {
		s.logger.Warn("Login with wrong password", zap.String("username", input.Username))
		return nil, identity.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn("Login attempt for disabled account", zap.String("username", input.Username))
		return nil, identity.ErrUserDisabled
	}

	token, err := s.tokens.Issue(auth.TokenSubject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	user.RecordLogin(s.clock.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// The token is already valid; a missed timestamp is not worth a failed login.
		s.logger.Warn("Failed to record login time", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{
		Token:     token.Token,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// Register creates a user account. Callers are checked for the Admin role by
// the transport layer.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrUsernameExists
	}
	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrEmailExists
	}
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	user, err := s.newUser(input.Username, input.Email, input.FullName, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Logout revokes the token with the given id for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, jti string, remaining time.Duration) error {
	if err := s.blacklist.Revoke(ctx, jti, remaining); err != nil {
		return err
	}
	s.logger.Info("Token revoked", zap.String("jti", jti))
	return nil
}

// BootstrapAdmin creates the first Admin when no user exists yet. It does
// nothing once any account is present or when password is empty.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	user, err := s.newUser(username, email, "Administrator", password, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap admin created", zap.String("username", user.Username))
	return true, nil
}

func (s *AuthService) newUser(username, email, fullName, password string, role identity.Role) (*identity.User, error) {
	if len(password) < minPasswordLength {
		return nil, shared.NewValidationError("Password must be at least 6 characters")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return identity.NewUser(username, email, fullName, hash, role, s.clock.Now())
}
